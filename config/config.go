package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds app preferences. Everything has a default; the config
// file at ~/.config/chainpad/config.yaml is optional.
type Config struct {
	DeviceAddr string `mapstructure:"deviceAddr"`
	Brightness int    `mapstructure:"brightness"`
	MIDIPort   string `mapstructure:"midiPort"`
	TUI        bool   `mapstructure:"tui"`
	Debug      bool   `mapstructure:"debug"`
}

// Dir returns the config directory path.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "chainpad"), nil
}

// Load reads the config file if present, falling back to defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("deviceAddr", "")
	v.SetDefault("brightness", 80)
	v.SetDefault("midiPort", "")
	v.SetDefault("tui", true)
	v.SetDefault("debug", false)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir, err := Dir(); err == nil {
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
