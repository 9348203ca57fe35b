// Package config loads the YAML configuration shared by the CLI and the
// HTTP server.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"postag/analyzer"
	"postag/model"
)

type Config struct {
	Analyzer analyzer.Config `yaml:"analyzer"`
	Tagger   TaggerConfig    `yaml:"tagger"`
	Output   OutputConfig    `yaml:"output"`
	Server   ServerConfig    `yaml:"server"`
	Log      LogConfig       `yaml:"log"`
}

type TaggerConfig struct {
	// Workers of 0 means one per CPU.
	Workers   int `yaml:"workers"`
	CacheSize int `yaml:"cache_size"`
}

type OutputConfig struct {
	Mode   string `yaml:"mode"`
	Format string `yaml:"format"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	// MaxTexts caps the batch size of one request. 0 disables the cap.
	MaxTexts int `yaml:"max_texts"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Formats lists the accepted output formats.
var Formats = []string{"json", "csv", "tsv", "sqlite"}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Analyzer: analyzer.Config{SplitMode: "normal"},
		Output:   OutputConfig{Mode: string(model.ModeSimple), Format: "json"},
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
			MaxTexts:       10000,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enumerated fields and ranges.
func (c *Config) Validate() error {
	if _, err := model.ParseMode(c.Output.Mode); err != nil {
		return err
	}
	if !contains(Formats, c.Output.Format) {
		return fmt.Errorf("unknown output format %q (want %s)", c.Output.Format, strings.Join(Formats, ", "))
	}
	if _, err := analyzer.ParseSplitMode(c.Analyzer.SplitMode); err != nil {
		return err
	}
	if c.Tagger.Workers < 0 {
		return fmt.Errorf("tagger.workers must be >= 0, got %d", c.Tagger.Workers)
	}
	if c.Tagger.CacheSize < 0 {
		return fmt.Errorf("tagger.cache_size must be >= 0, got %d", c.Tagger.CacheSize)
	}
	if c.Server.MaxTexts < 0 {
		return fmt.Errorf("server.max_texts must be >= 0, got %d", c.Server.MaxTexts)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
