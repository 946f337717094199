// Package main provides the coverdesk CLI.
package main

import (
	"os"

	"github.com/mesh-intelligence/coverdesk/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
