package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the devrand configuration file
// (~/.config/devrand/config.yaml). Numeric fields are pointers so we can
// distinguish "not set" from zero values.
type Config struct {
	Algorithm string `yaml:"algorithm"`
	Seed      string `yaml:"seed"`
	Streams   *int64 `yaml:"streams"`
	Backend   string `yaml:"backend"`

	// Output
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Server
	ServerAddress string `yaml:"server_address"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "devrand", "config.yaml")
}

// applyGeneratorConfig applies config file defaults to the common generator
// flags when the corresponding CLI flag was not explicitly set.
func applyGeneratorConfig(c *cli.Command, cfg Config) {
	if cfg.Algorithm != "" && !c.IsSet("algorithm") && !c.IsSet("a") {
		algorithm = cfg.Algorithm
	}
	if cfg.Seed != "" && !c.IsSet("seed") && !c.IsSet("s") {
		seedSpec = cfg.Seed
	}
	if cfg.Streams != nil && !c.IsSet("streams") {
		streams = *cfg.Streams
	}
	if cfg.Backend != "" && !c.IsSet("backend") {
		backend = cfg.Backend
	}
}

// applyServeConfig applies config file defaults to serve command variables.
func applyServeConfig(c *cli.Command, cfg Config, addr *string) {
	applyGeneratorConfig(c, cfg)
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
}

// LoadConfig reads the config file. Returns a zero Config if the file
// doesn't exist or cannot be parsed.
func LoadConfig() Config {
	path := configPath()
	if path == "" {
		return Config{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}
	return cfg
}
