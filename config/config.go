// Package config holds statelink settings loaded from a YAML file.
//
//	listen: ":8080"
//	base_url: "https://maths.example.org"
//	max_body_bytes: 65536
//	log_level: info
//	log_format: json
//	id_generator: uuidv7
//	paths:
//	  tiles: /algebra-tiles
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Neumenon/statelink/idgen"
)

// Defaults applied to zero fields.
const (
	DefaultListen       = ":8080"
	DefaultMaxBodyBytes = 64 << 10
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
)

// ErrInvalid reports a setting that is present but unusable.
var ErrInvalid = errors.New("config: invalid setting")

// Config is the top-level configuration.
type Config struct {
	Listen       string            `yaml:"listen"`
	BaseURL      string            `yaml:"base_url"`
	MaxBodyBytes int64             `yaml:"max_body_bytes"`
	LogLevel     string            `yaml:"log_level"`  // debug | info | warn | error
	LogFormat    string            `yaml:"log_format"`   // text | json
	IDGenerator  string            `yaml:"id_generator"` // nanoid | uuidv7 | sequence
	Paths        map[string]string `yaml:"paths"`        // tool name -> site path
}

// Default returns a Config with every default applied.
func Default() *Config {
	var c Config
	c.applyDefaults()
	return &c
}

// LoadFile reads a YAML configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML configuration. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = DefaultLogFormat
	}
}

// Validate checks the logging and ID settings.
func (c *Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	if _, err := c.NewIDGenerator(); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format %q", ErrInvalid, c.LogFormat)
	}
	return nil
}

// Level returns the slog level named by LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel)
	}
	return level, nil
}

// NewIDGenerator returns the generator named by IDGenerator. Decoders mint
// record IDs with it.
func (c *Config) NewIDGenerator() (idgen.Generator, error) {
	gen, err := idgen.ByName(c.IDGenerator)
	if err != nil {
		return nil, fmt.Errorf("%w: id_generator %q", ErrInvalid, c.IDGenerator)
	}
	return gen, nil
}

// NewLogger builds a logger writing to w in the configured format and level.
func (c *Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := c.Level()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
