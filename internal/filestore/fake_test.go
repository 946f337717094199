package filestore

import (
	"fmt"

	"github.com/mesh-intelligence/coverdesk/pkg/types"
)

// flakyFile is a LineFile whose writes can be switched to fail.
type flakyFile struct {
	*LineFile
	failAppend bool
	failWrite  bool
}

func (f *flakyFile) AppendLine(line string) error {
	if f.failAppend {
		return fmt.Errorf("append %s: %w", f.Path(), types.ErrIO)
	}
	return f.LineFile.AppendLine(line)
}

func (f *flakyFile) WriteLines(lines []string) error {
	if f.failWrite {
		return fmt.Errorf("rewrite %s: %w", f.Path(), types.ErrIO)
	}
	return f.LineFile.WriteLines(lines)
}
