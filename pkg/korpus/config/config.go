package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/korpus/pkg/korpus/internalerr"
)

// Config is the korpus configuration file. Files ending in .toml are read
// as TOML, everything else as YAML.
type Config struct {
	Concordance Concordance `yaml:"concordance" toml:"concordance"`
	Ingest      Ingest      `yaml:"ingest" toml:"ingest"`
	Store       Store       `yaml:"store" toml:"store"`
	Logging     Logging     `yaml:"logging" toml:"logging"`
	Server      Server      `yaml:"server" toml:"server"`
}

// Concordance controls keyword-in-context search.
type Concordance struct {
	Window int `yaml:"window" toml:"window" validate:"gte=0,lte=100"`
}

// Ingest selects the annotation pipeline.
type Ingest struct {
	Annotator  string `yaml:"annotator" toml:"annotator" validate:"oneof=rule prose"`
	Lexicon    string `yaml:"lexicon" toml:"lexicon"`         // optional lemma lexicon (YAML)
	TextPrefix string `yaml:"text_prefix" toml:"text_prefix"` // id prefix for typed-in texts
}

// Store selects where snapshots are kept.
type Store struct {
	Type string `yaml:"type" toml:"type" validate:"oneof=memory sqlite badger"`
	Path string `yaml:"path" toml:"path" validate:"required_unless=Type memory"`
}

// Logging configures the logger.
type Logging struct {
	Level string `yaml:"level" toml:"level" validate:"oneof=debug info warn error"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `yaml:"addr" toml:"addr" validate:"required"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Concordance: Concordance{Window: 7},
		Ingest:      Ingest{Annotator: "rule", TextPrefix: "Text"},
		Store:       Store{Type: "memory"},
		Logging:     Logging{Level: "info"},
		Server:      Server{Addr: ":8080"},
	}
}

// Load reads the configuration at path on top of Default(). An empty path
// or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", internalerr.ErrInvalidConfig, path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	return nil
}
