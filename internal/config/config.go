// Package config loads ctlearl settings from an optional YAML file.
//
// Command-line flags override file values; Default supplies everything the
// file leaves unset.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/ctlearl/internal/earl"
	"github.com/roach88/ctlearl/internal/report"
)

// Config holds report generation settings.
type Config struct {
	// Suite is the test suite title written on the test run.
	Suite string `yaml:"suite"`
	// Subject is the absolute URI of the implementation under test.
	Subject string `yaml:"subject"`
	// Lang tags the assertor title and description.
	Lang string `yaml:"lang"`
	// BaseURI prefixes the output directory name in the report's xml:base.
	BaseURI string `yaml:"base_uri"`
	// History is the run history database; empty disables recording.
	History string `yaml:"history"`

	Assertor earl.Assertor `yaml:"assertor"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Lang:     earl.DefaultLang,
		BaseURI:  report.DefaultBaseURIPrefix,
		Assertor: earl.DefaultAssertor(),
	}
}

// Load reads path over Default. Unknown fields are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return cfg, nil
}

// Validate checks the fields required to generate a report.
func (c Config) Validate() error {
	if c.Suite == "" {
		return fmt.Errorf("suite is required")
	}
	if c.Subject == "" {
		return fmt.Errorf("subject is required")
	}
	u, err := url.Parse(c.Subject)
	if err != nil {
		return fmt.Errorf("subject %q: %w", c.Subject, err)
	}
	if !u.IsAbs() {
		return fmt.Errorf("subject %q is not an absolute URI", c.Subject)
	}
	if c.Assertor.IRI == "" {
		return fmt.Errorf("assertor.iri is required")
	}
	return nil
}

// Generator returns a report generator configured from c.
func (c Config) Generator() *report.Generator {
	return &report.Generator{
		Assertor:      c.Assertor,
		Lang:          c.Lang,
		BaseURIPrefix: c.BaseURI,
	}
}
