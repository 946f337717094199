package filestore

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/mesh-intelligence/coverdesk/internal/codec"
	"github.com/mesh-intelligence/coverdesk/internal/observability"
	"github.com/mesh-intelligence/coverdesk/pkg/types"
)

// Load reads every line of the backing file into memory. Lines that fail to
// decode, or repeat a name already loaded, are skipped and counted. Returns
// types.ErrNothingLoaded, together with the report, when the file is absent,
// empty, or yields no users.
func (s *UserStore) Load() (types.LoadReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := types.LoadReport{Path: s.file.Path()}
	lines, err := readForLoad(s.file)
	if err != nil {
		return report, err
	}

	for i, line := range lines {
		report.Lines++
		u, err := codec.DecodeUser(codec.Split(line))
		if err == nil {
			err = s.mem.Add(u)
		}
		if err != nil {
			report.Skipped++
			s.log.LineSkipped(report.Path, i+1, err)
			continue
		}
		report.Loaded++
	}
	return finishLoad(s.log, report)
}

// Load reads every line of the backing file into memory, choosing the
// decoder by the trailing discriminator. Lines with an unknown
// discriminator, a decode failure, an id outside the variant's range or a
// repeated id are skipped and counted.
// The counter registry is recovered from the loaded ids afterwards.
func (s *PolicyStore) Load(decoders map[types.Variant]codec.PolicyDecoder) (types.LoadReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if decoders == nil {
		decoders = codec.PolicyDecoders()
	}
	report := types.LoadReport{Path: s.file.Path()}
	lines, err := readForLoad(s.file)
	if err != nil {
		return report, err
	}

	for i, line := range lines {
		report.Lines++
		p, err := decodePolicy(decoders, line)
		if err == nil {
			err = s.mem.Add(p)
		}
		if err != nil {
			report.Skipped++
			s.log.LineSkipped(report.Path, i+1, err)
			continue
		}
		report.Loaded++
	}

	if s.registry != nil {
		s.registry.Recover(s.mem.All())
	}
	return finishLoad(s.log, report)
}

func decodePolicy(decoders map[types.Variant]codec.PolicyDecoder, line string) (types.Policy, error) {
	fields, tag := codec.SplitTagged(line)
	dec, ok := decoders[tag]
	if !ok {
		return nil, fmt.Errorf("discriminator %q: %w", tag, types.ErrUnknownVariant)
	}
	p, err := dec(fields)
	if err != nil {
		return nil, err
	}
	if id := p.Base().ID; !types.IDInRange(tag, id) {
		return nil, fmt.Errorf("%s id %d outside its range: %w", tag.Name(), id, types.ErrMalformedRecord)
	}
	return p, nil
}

// readForLoad maps an absent file to ErrNothingLoaded and leaves other read
// failures as ErrIO.
func readForLoad(file Backing) ([]string, error) {
	lines, err := file.ReadLines()
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s does not exist: %w", file.Path(), types.ErrNothingLoaded)
	}
	return lines, err
}

func finishLoad(log *observability.Logger, report types.LoadReport) (types.LoadReport, error) {
	if report.Loaded == 0 {
		return report, fmt.Errorf("%s: no records in %d lines: %w", report.Path, report.Lines, types.ErrNothingLoaded)
	}
	log.Loaded(report)
	return report, nil
}
