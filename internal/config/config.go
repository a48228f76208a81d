// Package config manages configuration for the kansible CLI and server.
// It uses Viper for unified configuration management from files and environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/kaholo/kansible/internal/constants"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config represents the unified configuration structure for the CLI and the server.
// It supports loading from YAML files and environment variables.
type Config struct {
	// Execution
	DockerImage       string        `mapstructure:"docker_image" yaml:"docker_image" validate:"required"`
	UseDocker         bool          `mapstructure:"use_docker" yaml:"use_docker"`
	DockerBinary      string        `mapstructure:"docker_binary" yaml:"docker_binary" validate:"required"`
	Shell             string        `mapstructure:"shell" yaml:"shell" validate:"required"`
	TempDir           string        `mapstructure:"temp_dir" yaml:"temp_dir" validate:"omitempty,dir"`
	Timeout           time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gte=0"`
	DisableHelperVars bool          `mapstructure:"disable_helper_vars" yaml:"disable_helper_vars"`

	// Logging
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	// Server
	ServerAddress string `mapstructure:"server_address" yaml:"server_address" validate:"omitempty,hostname_port"`

	// Job presets
	JobDir string `mapstructure:"job_dir" yaml:"job_dir"`
}

var validate = validator.New()

// Load loads the configuration from ~/.kansible/config.yaml and KANSIBLE_*
// environment variables. A missing config file is not an error.
// Environment variables take precedence over config file values.
func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromFile(path)
}

// LoadFromFile loads the configuration from path and the environment.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	v.SetEnvPrefix(constants.ConfigEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Save validates cfg and writes it to ~/.kansible/config.yaml.
func Save(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	return SaveToFile(cfg, path)
}

// SaveToFile validates cfg and writes it to path, creating the parent
// directory when needed. The file is readable by its owner only.
func SaveToFile(cfg *Config, path string) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), constants.ConfigDirPermissions); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	v := viper.New()
	v.Set("docker_image", cfg.DockerImage)
	v.Set("use_docker", cfg.UseDocker)
	v.Set("docker_binary", cfg.DockerBinary)
	v.Set("shell", cfg.Shell)
	v.Set("temp_dir", cfg.TempDir)
	v.Set("timeout", cfg.Timeout.String())
	v.Set("disable_helper_vars", cfg.DisableHelperVars)
	v.Set("log_level", cfg.LogLevel)
	v.Set("server_address", cfg.ServerAddress)
	v.Set("job_dir", cfg.JobDir)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	// Set proper permissions
	if err := os.Chmod(path, constants.ConfigFilePermissions); err != nil {
		return fmt.Errorf("error setting config file permissions: %w", err)
	}

	return nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	currentUser, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("error getting current user: %w", err)
	}
	return constants.ConfigFilePath(currentUser.HomeDir), nil
}

// GetLogLevel returns the slog.Level from the string configuration.
// Defaults to INFO if the level string is invalid.
func (c *Config) GetLogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Helper functions

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("docker_image", constants.DefaultDockerImage)
	v.SetDefault("use_docker", false)
	v.SetDefault("docker_binary", constants.DefaultDockerBinary)
	v.SetDefault("shell", constants.DefaultShell)
	v.SetDefault("timeout", constants.DefaultCommandTimeout)
	v.SetDefault("log_level", "INFO")
	v.SetDefault("server_address", constants.DefaultServerAddress)
}

func bindEnvVars(v *viper.Viper) {
	keys := []string{
		"docker_image",
		"use_docker",
		"docker_binary",
		"shell",
		"temp_dir",
		"timeout",
		"disable_helper_vars",
		"log_level",
		"server_address",
		"job_dir",
	}

	for _, key := range keys {
		_ = v.BindEnv(key, constants.ConfigEnvPrefix+"_"+strings.ToUpper(key))
	}
}
