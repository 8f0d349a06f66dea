package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/reachmap/reachmap/pkg/errors"
)

// defaultConfigDescription documents where the config is looked up when
// --config is not given.
const defaultConfigDescription = "~/.config/reachmap/config.toml"

// Config carries defaults for the CLI commands, loaded from a TOML file.
// Flags always override configured values. The zero-value sections fall
// back to built-in defaults, so a partial file is fine:
//
//	[cache]
//	dir = "/var/cache/reachmap"
//
//	[render]
//	format = "svg"
//
//	[server]
//	addr = ":9090"
//	redis_addr = "localhost:6379"
//	mongo_uri = "mongodb://localhost:27017"
type Config struct {
	Cache  CacheConfig  `toml:"cache"`
	Render RenderConfig `toml:"render"`
	Server ServerConfig `toml:"server"`
}

// CacheConfig controls the closure cache.
type CacheConfig struct {
	// Dir overrides the XDG cache directory.
	Dir string `toml:"dir"`
	// Disabled turns caching off entirely.
	Disabled bool `toml:"disabled"`
}

// RenderConfig controls the render command.
type RenderConfig struct {
	// Format is the default output format: "dot" or "svg".
	Format string `toml:"format"`
}

// ServerConfig controls the serve command.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `toml:"addr"`
	// RedisAddr selects a Redis closure cache when non-empty.
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	// MongoURI selects a MongoDB graph store when non-empty.
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// DefaultConfig returns the built-in defaults used when no config file
// exists.
func DefaultConfig() Config {
	return Config{
		Render: RenderConfig{Format: "dot"},
		Server: ServerConfig{
			Addr:          ":8080",
			MongoDatabase: appName,
		},
	}
}

// LoadConfig reads the TOML config at path, or the default location when
// path is empty. A missing file at the default location is not an error;
// an explicitly named file must exist.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		var err error
		if path, err = defaultConfigPath(); err != nil {
			return cfg, nil
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return cfg, errors.New(errors.ErrCodeFileNotFound, "config file %s does not exist", path)
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	return cfg, nil
}

// defaultConfigPath returns the XDG config location
// (~/.config/reachmap/config.toml).
func defaultConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
