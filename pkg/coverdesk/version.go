// Package coverdesk exposes build information for the coverdesk module.
package coverdesk

// Version is the semantic version of the coverdesk binary.
const Version = "0.3.0"

// ModulePath is the Go module path, printed by the version command.
const ModulePath = "github.com/mesh-intelligence/coverdesk"
