// Package paths resolves the configuration directory, the data directory and
// the backing files inside it.
package paths

import (
	"os"
	"path/filepath"
)

// CWD-relative directory names used when nothing else is configured.
const (
	DefaultConfigDirName = ".coverdesk"
	DefaultDataDirName   = ".coverdesk-data"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "COVERDESK_CONFIG_DIR"
	EnvDataDir   = "COVERDESK_DATA_DIR"
)

// ConfigFileName is the configuration file inside the config directory.
const ConfigFileName = "config.yaml"

// workingDir can be overridden in tests.
var workingDir = os.Getwd

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > COVERDESK_CONFIG_DIR env > $(CWD)/.coverdesk.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := workingDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultConfigDirName), nil
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > configValue > COVERDESK_DATA_DIR env > $(CWD)/.coverdesk-data.
func ResolveDataDir(flag, configValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := workingDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

// DataFile places name inside dataDir unless name is already absolute.
func DataFile(dataDir, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dataDir, name)
}
