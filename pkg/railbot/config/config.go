// Package config loads the railbot YAML configuration and builds the
// components a session needs.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/railbot/pkg/railbot/internalerr"
)

// Config is the top-level configuration file.
type Config struct {
	Engine      Engine   `yaml:"engine"`
	Stations    Stations `yaml:"stations"`
	LexiconPath string   `yaml:"lexicon_path"`
	Server      Server   `yaml:"server"`
	Fares       Fares    `yaml:"fares"`
	Clock       Clock    `yaml:"clock"`
}

// Engine tunes the rule engine.
type Engine struct {
	CycleMultiplier int `yaml:"cycle_multiplier" validate:"gte=1,lte=1000"`
}

// Stations configures the station directory and the fuzzy match policy.
// With no db_path the directory is kept in memory.
type Stations struct {
	DBPath          string  `yaml:"db_path"`
	SeedPath        string  `yaml:"seed_path"`
	Threshold       float64 `yaml:"threshold" validate:"gte=0,lte=150"`
	MaxAlternatives int     `yaml:"max_alternatives" validate:"gte=1,lte=10"`
}

// Server configures the HTTP transport.
type Server struct {
	Port            int  `yaml:"port" validate:"gte=1,lte=65535"`
	AllowAllOrigins bool `yaml:"allow_all_origins"`
}

// Fares configures the booking link service.
type Fares struct {
	BaseURL string `yaml:"base_url" validate:"omitempty,url"`
}

// Clock sets the time zone relative dates resolve in and how numeric
// dates are read.
type Clock struct {
	Location  string `yaml:"location"`
	DateOrder string `yaml:"date_order" validate:"omitempty,oneof=DMY MDY dmy mdy"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Engine:   Engine{CycleMultiplier: 8},
		Stations: Stations{Threshold: 60, MaxAlternatives: 3},
		Server:   Server{Port: 5000},
		Clock:    Clock{Location: "Europe/London", DateOrder: "DMY"},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks field ranges.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	msgs := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		msgs[i] = describe(fe)
	}
	return fmt.Errorf("%w: %s", internalerr.ErrInvalidConfig, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gte":
		return fmt.Sprintf("%s must be at least %s (got %v)", fe.Namespace(), fe.Param(), fe.Value())
	case "lte":
		return fmt.Sprintf("%s must be at most %s (got %v)", fe.Namespace(), fe.Param(), fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s] (got %v)", fe.Namespace(), fe.Param(), fe.Value())
	case "url":
		return fmt.Sprintf("%s must be a URL (got %v)", fe.Namespace(), fe.Value())
	}
	return fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag())
}
