package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/stoplist/internal/logging"
	"github.com/mesh-intelligence/stoplist/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyBackend    = "backend"
	cfgKeyDataDir    = "data_dir"
	cfgKeyDSN        = "dsn"
	cfgKeyRestaurant = "restaurant"
	cfgKeyLogMode    = "log.mode"
	cfgKeyLogLevel   = "log.level"
	cfgKeyLogFile    = "log.file"
)

// envBindings maps config keys to the environment variables that override
// them. data_dir is resolved by internal/paths instead.
var envBindings = map[string]string{
	cfgKeyBackend:    "STOPLIST_BACKEND",
	cfgKeyDSN:        "STOPLIST_DSN",
	cfgKeyRestaurant: "STOPLIST_RESTAURANT",
	cfgKeyLogMode:    "STOPLIST_LOG_MODE",
	cfgKeyLogLevel:   "STOPLIST_LOG_LEVEL",
	cfgKeyLogFile:    "STOPLIST_LOG_FILE",
}

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# Stoplist configuration

# Backend selection: sqlite or postgres
backend: sqlite

# Data directory for the sqlite backend (optional; overridable by --data-dir)
# data_dir:

# Connection string for the postgres backend
# dsn: postgres://localhost/stoplist?sslmode=disable

# Restaurant opened by default (optional; overridable by --restaurant)
# restaurant:

log:
  mode: development
  level: warn
  # file: /var/log/stoplist.log
`

// loadConfig reads config.yaml from configDir using Viper. It creates the
// config directory and a default config.yaml on first run.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyLogMode, logging.ModeDevelopment)
	v.SetDefault(cfgKeyLogLevel, logging.DefaultLevel)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
