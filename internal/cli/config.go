package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/coverdesk/internal/paths"
	"github.com/mesh-intelligence/coverdesk/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	envPrefix = "COVERDESK"
)

// errConfig marks failures to read or write the configuration file.
var errConfig = errors.New("configuration error")

// Config keys bound to COVERDESK_* environment variables. data_dir is left
// out: its environment variable ranks below the config file and is handled
// by paths.ResolveDataDir.
var envKeys = []string{"mode", "users_file", "policies_file", "log_level", "log_format", "bcrypt_cost"}

// defaultConfig is written to config.yaml on first run.
var defaultConfig = types.Config{
	UsersFile:    types.DefaultUsersFile,
	PoliciesFile: types.DefaultPoliciesFile,
	LogLevel:     "warn",
	LogFormat:    types.LogFormatText,
}

// settings is a fully resolved configuration.
type settings struct {
	types.Config
	ConfigDir string
}

// usersPath returns the absolute users file path.
func (s settings) usersPath() string { return paths.DataFile(s.DataDir, s.UsersFile) }

// policiesPath returns the absolute policies file path.
func (s settings) policiesPath() string { return paths.DataFile(s.DataDir, s.PoliciesFile) }

// loadConfig reads config.yaml from configDir using Viper, creating the
// directory and a default file on first run.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("create config dir: %w: %w", errConfig, err)
	}
	if err := writeConfigIfMissing(filepath.Join(configDir, paths.ConfigFileName), defaultConfig); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetDefault("mode", "")
	v.SetDefault("data_dir", "")
	v.SetDefault("users_file", types.DefaultUsersFile)
	v.SetDefault("policies_file", types.DefaultPoliciesFile)
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", types.LogFormatText)
	v.SetDefault("bcrypt_cost", 0)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	for _, k := range envKeys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("bind env %s: %w: %w", k, errConfig, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w: %w", errConfig, err)
	}
	return v, nil
}

// resolveSettings loads the configuration and applies flag overrides.
func resolveSettings(flags *rootFlags) (settings, error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return settings{}, fmt.Errorf("resolve config dir: %w: %w", errConfig, err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return settings{}, err
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return settings{}, fmt.Errorf("decode config: %w: %w", errConfig, err)
	}
	if flags.mode != "" {
		cfg.Mode = flags.mode
	}
	if err := cfg.Validate(); err != nil {
		return settings{}, fmt.Errorf("config %s: %w", filepath.Join(configDir, paths.ConfigFileName), err)
	}

	cfg.DataDir, err = paths.ResolveDataDir(flags.dataDir, cfg.DataDir)
	if err != nil {
		return settings{}, fmt.Errorf("resolve data dir: %w: %w", errConfig, err)
	}
	return settings{Config: cfg.WithDefaults(), ConfigDir: configDir}, nil
}

// writeConfigIfMissing creates a config file with cfg if none exists.
func writeConfigIfMissing(path string, cfg types.Config) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w: %w", errConfig, err)
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w: %w", errConfig, err)
	}
	header := []byte("# coverdesk configuration\n# mode: memory, file, or empty to ask at startup\n")
	if err := os.WriteFile(path, append(header, data...), 0o644); err != nil {
		return fmt.Errorf("write config: %w: %w", errConfig, err)
	}
	return nil
}
