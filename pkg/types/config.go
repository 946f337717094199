package types

import "errors"

// Config holds storage mode selection and parameters for a coverdesk session.
type Config struct {
	Mode         string `json:"mode" yaml:"mode" mapstructure:"mode"`
	DataDir      string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`
	UsersFile    string `json:"users_file" yaml:"users_file" mapstructure:"users_file"`
	PoliciesFile string `json:"policies_file" yaml:"policies_file" mapstructure:"policies_file"`
	LogLevel     string `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
	LogFormat    string `json:"log_format" yaml:"log_format" mapstructure:"log_format"`
	BcryptCost   int    `json:"bcrypt_cost" yaml:"bcrypt_cost" mapstructure:"bcrypt_cost"`
}

// Storage modes. An empty mode means the interactive session asks.
const (
	ModeMemory = "memory"
	ModeFile   = "file"
)

// Default file names inside the data directory.
const (
	DefaultUsersFile    = "users.txt"
	DefaultPoliciesFile = "policies.txt"
)

// Log settings.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config validation errors.
var (
	ErrModeUnknown      = errors.New("unknown storage mode")
	ErrLogFormatUnknown = errors.New("unknown log format")
	ErrLogLevelUnknown  = errors.New("unknown log level")
	ErrBcryptCost       = errors.New("bcrypt cost out of range")
)

var knownModes = map[string]bool{
	"":         true,
	ModeMemory: true,
	ModeFile:   true,
}

var knownLogLevels = map[string]bool{
	"":      true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if !knownModes[c.Mode] {
		return ErrModeUnknown
	}
	if c.LogFormat != "" && c.LogFormat != LogFormatText && c.LogFormat != LogFormatJSON {
		return ErrLogFormatUnknown
	}
	if !knownLogLevels[c.LogLevel] {
		return ErrLogLevelUnknown
	}
	// Zero selects the library default; otherwise bcrypt accepts 4..31.
	if c.BcryptCost != 0 && (c.BcryptCost < 4 || c.BcryptCost > 31) {
		return ErrBcryptCost
	}
	return nil
}

// WithDefaults fills empty file names with their defaults.
func (c Config) WithDefaults() Config {
	if c.UsersFile == "" {
		c.UsersFile = DefaultUsersFile
	}
	if c.PoliciesFile == "" {
		c.PoliciesFile = DefaultPoliciesFile
	}
	if c.LogFormat == "" {
		c.LogFormat = LogFormatText
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
	return c
}
