// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Game   GameConfig   `toml:"game"`
	Remote RemoteConfig `toml:"remote"`
	Server ServerConfig `toml:"server"`
}

// GameConfig maps game-related settings.
type GameConfig struct {
	Difficulty  *string `toml:"difficulty"`
	Questions   *int    `toml:"questions"`
	TimeLimit   *int    `toml:"time-limit"`
	RevealDelay *int    `toml:"reveal-delay"`
	TickMs      *int    `toml:"tick-ms"`
	Bank        *string `toml:"bank"`
}

// RemoteConfig points the client at a wordwise server.
type RemoteConfig struct {
	URL *string `toml:"url"`
}

// ServerConfig maps `wordwise serve` settings.
type ServerConfig struct {
	Addr *string `toml:"addr"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
