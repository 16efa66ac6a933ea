// Package config loads, validates and watches the JSON settings file. Every
// section defaults to its package's DefaultConfig, so a file only needs
// the fields it changes.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/hand"
	"github.com/ayusman/mudra/internal/statemachine"
	"github.com/ayusman/mudra/internal/transform"
)

// MaxFileSize is the largest config file Load accepts.
const MaxFileSize = 1 << 20

var (
	// ErrNotJSON is returned for a path without a .json extension.
	ErrNotJSON = errors.New("config file must have a .json extension")
	// ErrTooLarge is returned for a file over MaxFileSize.
	ErrTooLarge = errors.New("config file too large")
)

// Server holds HTTP settings.
type Server struct {
	Addr string `json:"addr"`
	// WebDir is served at / when it exists.
	WebDir string `json:"web_dir"`
}

// Config is the whole settings document.
type Config struct {
	// Facing is read when a session starts.
	Facing       transform.Facing    `json:"facing"`
	Hand         hand.Config         `json:"hand"`
	StateMachine statemachine.Config `json:"state_machine"`
	Transform    transform.Config    `json:"transform"`
	Detector     detector.Config     `json:"detector"`
	Capture      capture.Config      `json:"capture"`
	Server       Server              `json:"server"`
}

// Default returns every section's defaults.
func Default() Config {
	return Config{
		Facing:       transform.Mirrored,
		Hand:         hand.DefaultConfig(),
		StateMachine: statemachine.DefaultConfig(),
		Transform:    transform.DefaultConfig(),
		Detector:     detector.DefaultConfig(),
		Capture:      capture.DefaultConfig(),
		Server: Server{
			Addr:   "127.0.0.1:8090",
			WebDir: "web",
		},
	}
}

// Validate checks every section and joins all problems.
func (c Config) Validate() error {
	var errs []error
	if _, err := transform.ParseFacing(string(c.Facing)); err != nil {
		errs = append(errs, err)
	}
	sections := []struct {
		name string
		err  error
	}{
		{"hand", c.Hand.Validate()},
		{"state_machine", c.StateMachine.Validate()},
		{"transform", c.Transform.Validate()},
		{"detector", c.Detector.Validate()},
		{"capture", c.Capture.Validate()},
	}
	for _, s := range sections {
		if s.err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.name, s.err))
		}
	}
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server: addr must not be empty"))
	}
	return errors.Join(errs...)
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return cfg, fmt.Errorf("%w: %s", ErrNotJSON, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to stat config: %w", err)
	}
	if info.Size() > MaxFileSize {
		return cfg, fmt.Errorf("%w: %d bytes", ErrTooLarge, info.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse config: %w", err)
	}

	// normalize aliases like "selfie"
	if f, err := transform.ParseFacing(string(cfg.Facing)); err == nil {
		cfg.Facing = f
	}

	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as indented JSON after validating it.
func Save(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
