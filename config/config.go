// Package config loads dom-lite settings from a YAML file and DOMLITE_*
// environment variables. Environment values override the file.
package config

import (
	"fmt"
	"os"

	"github.com/mstoykov/envconfig"
	"github.com/sirupsen/logrus"
	"gopkg.in/guregu/null.v3"
	"gopkg.in/yaml.v3"

	"github.com/stagas/dom-lite/dom"
)

// Config holds all dom-lite configuration.
type Config struct {
	LogLevel string   `yaml:"log_level"`
	Features Features `yaml:"features"`
	Viewport Viewport `yaml:"viewport"`
}

// Features selects which host capabilities documents advertise.
type Features struct {
	ClassList       bool `yaml:"class_list"`
	Capture         bool `yaml:"capture"`
	MatchesSelector bool `yaml:"matches_selector"`
}

// Viewport is the size given to the body of loaded pages.
type Viewport struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// envConfig mirrors Config for environment overrides. Only valid values
// are applied.
type envConfig struct {
	LogLevel        null.String `envconfig:"DOMLITE_LOG_LEVEL"`
	ClassList       null.Bool   `envconfig:"DOMLITE_CLASS_LIST"`
	Capture         null.Bool   `envconfig:"DOMLITE_CAPTURE"`
	MatchesSelector null.Bool   `envconfig:"DOMLITE_MATCHES_SELECTOR"`
	ViewportWidth   null.Float  `envconfig:"DOMLITE_VIEWPORT_WIDTH"`
	ViewportHeight  null.Float  `envconfig:"DOMLITE_VIEWPORT_HEIGHT"`
}

// Default returns the configuration of a modern host with a 1024x768
// viewport.
func Default() *Config {
	return &Config{
		LogLevel: "warn",
		Features: Features{ClassList: true, Capture: true, MatchesSelector: true},
		Viewport: Viewport{Width: 1024, Height: 768},
	}
}

// Load reads path, if not empty, over the defaults and then applies the
// environment. lookup defaults to os.LookupEnv.
func Load(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	if lookup == nil {
		lookup = os.LookupEnv
	}
	var env envConfig
	if err := envconfig.Process("", &env, lookup); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	cfg.apply(env)
	if _, err := cfg.Level(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) apply(env envConfig) {
	if env.LogLevel.Valid {
		c.LogLevel = env.LogLevel.String
	}
	if env.ClassList.Valid {
		c.Features.ClassList = env.ClassList.Bool
	}
	if env.Capture.Valid {
		c.Features.Capture = env.Capture.Bool
	}
	if env.MatchesSelector.Valid {
		c.Features.MatchesSelector = env.MatchesSelector.Bool
	}
	if env.ViewportWidth.Valid {
		c.Viewport.Width = env.ViewportWidth.Float64
	}
	if env.ViewportHeight.Valid {
		c.Viewport.Height = env.ViewportHeight.Float64
	}
}

// Level parses LogLevel.
func (c *Config) Level() (logrus.Level, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return 0, fmt.Errorf("invalid log_level: %w", err)
	}
	return level, nil
}

// DocumentFeatures converts Features for dom.WithFeatures.
func (c *Config) DocumentFeatures() dom.Features {
	return dom.Features{
		ClassList:       c.Features.ClassList,
		Capture:         c.Features.Capture,
		MatchesSelector: c.Features.MatchesSelector,
	}
}
