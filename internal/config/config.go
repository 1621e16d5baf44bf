// Package config loads CLI settings from .oragrammar.yaml, the environment
// and .env files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// AppFs is the filesystem config is read from and written to.
var AppFs = afero.NewOsFs()

const (
	configName = ".oragrammar"
	envPrefix  = "ORAGRAMMAR"
)

// Config holds the application configuration
type Config struct {
	Dialect         string `mapstructure:"dialect"`
	TablePrefix     string `mapstructure:"table_prefix"`
	StrictLocking   bool   `mapstructure:"strict_locking"`
	Pretty          bool   `mapstructure:"pretty"`
	RequiredVersion string `mapstructure:"required_version"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetFs(AppFs)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault("dialect", "oracle")
	v.SetDefault("table_prefix", "")
	v.SetDefault("strict_locking", false)
	v.SetDefault("pretty", false)
	v.SetDefault("required_version", "")
	return v
}

// LoadConfig loads configuration. An explicit path must exist; otherwise
// .oragrammar.yaml is searched in the working directory, the home directory
// and ~/.config/oragrammar, and a missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	loadDotEnv()

	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home)
			v.AddConfigPath(filepath.Join(home, ".config", "oragrammar"))
		}
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	return &cfg, nil
}

// loadDotEnv loads .env and then .env.local, which wins on conflicts.
// Unreadable files are ignored.
func loadDotEnv() {
	if _, err := AppFs.Stat(".env"); err == nil {
		if env, err := readEnvFile(".env"); err == nil {
			setEnv(env, false)
		}
	}
	if _, err := AppFs.Stat(".env.local"); err == nil {
		if env, err := readEnvFile(".env.local"); err == nil {
			setEnv(env, true)
		}
	}
}

func readEnvFile(name string) (map[string]string, error) {
	f, err := AppFs.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return godotenv.Parse(f)
}

func setEnv(env map[string]string, override bool) {
	for key, value := range env {
		if _, set := os.LookupEnv(key); set && !override {
			continue
		}
		os.Setenv(key, value)
	}
}

// SaveConfig writes cfg to dir/.oragrammar.yaml and returns the path.
// An empty dir means ~/.config/oragrammar.
func SaveConfig(cfg *Config, dir string) (string, error) {
	if dir == "" {
		home, err := homedir.Dir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".config", "oragrammar")
	}
	if err := AppFs.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	v := viper.New()
	v.SetFs(AppFs)
	v.Set("dialect", cfg.Dialect)
	v.Set("table_prefix", cfg.TablePrefix)
	v.Set("strict_locking", cfg.StrictLocking)
	v.Set("pretty", cfg.Pretty)
	if cfg.RequiredVersion != "" {
		v.Set("required_version", cfg.RequiredVersion)
	}

	path := filepath.Join(dir, configName+".yaml")
	if err := v.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return path, nil
}
