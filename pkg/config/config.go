/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package config loads guilddash settings from defaults, a .env file, a YAML
// or JSON config file, the environment and command-line overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/carverauto/guilddash/pkg/logger"
	"github.com/carverauto/guilddash/pkg/poller"
)

const (
	DefaultBaseURL          = "http://localhost:5000"
	DefaultSnapshotInterval = 5 * time.Minute
	DefaultRealtimeInterval = 60 * time.Second
	DefaultRefreshCooldown  = 5 * time.Second
	DefaultRequestTimeout   = 30 * time.Second
)

var (
	errBaseURLRequired = errors.New("api.base_url is required")
	errBaseURLInvalid  = errors.New("api.base_url must be an absolute http(s) url")
	errBadInterval     = errors.New("poll intervals must be positive")
	errBadTimezone     = errors.New("unknown display.timezone")
)

// Validator is implemented by configurations that can check themselves.
type Validator interface {
	Validate() error
}

// ValidateConfig validates a configuration if it implements Validator.
func ValidateConfig(cfg interface{}) error {
	v, ok := cfg.(Validator)
	if !ok {
		return nil
	}

	return v.Validate()
}

type Config struct {
	API       APIConfig       `koanf:"api" json:"api" yaml:"api"`
	Poll      PollConfig      `koanf:"poll" json:"poll" yaml:"poll"`
	Display   DisplayConfig   `koanf:"display" json:"display" yaml:"display"`
	Log       logger.Config   `koanf:"log" json:"log" yaml:"log"`
	Telemetry TelemetryConfig `koanf:"telemetry" json:"telemetry" yaml:"telemetry"`
}

type APIConfig struct {
	BaseURL string        `koanf:"base_url" json:"base_url" yaml:"base_url"`
	Timeout time.Duration `koanf:"timeout" json:"timeout" yaml:"timeout"`
}

type PollConfig struct {
	SnapshotInterval time.Duration        `koanf:"snapshot_interval" json:"snapshot_interval" yaml:"snapshot_interval"`
	RealtimeInterval time.Duration        `koanf:"realtime_interval" json:"realtime_interval" yaml:"realtime_interval"`
	Overlap          poller.OverlapPolicy `koanf:"overlap" json:"overlap" yaml:"overlap"`
	RefreshCooldown  time.Duration        `koanf:"refresh_cooldown" json:"refresh_cooldown" yaml:"refresh_cooldown"`
}

type DisplayConfig struct {
	// Timezone is an IANA zone name. Empty means the local zone.
	Timezone string `koanf:"timezone" json:"timezone" yaml:"timezone"`
	// Sidebar shows the presence panel next to the tabs.
	Sidebar bool `koanf:"sidebar" json:"sidebar" yaml:"sidebar"`
}

type TelemetryConfig struct {
	OTel logger.OTelConfig `koanf:"otel" json:"otel" yaml:"otel"`
}

// Validate implements Validator.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errBaseURLRequired
	}

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", errBaseURLInvalid, c.API.BaseURL)
	}

	if c.API.Timeout <= 0 {
		c.API.Timeout = DefaultRequestTimeout
	}

	if c.Poll.SnapshotInterval <= 0 || c.Poll.RealtimeInterval <= 0 {
		return errBadInterval
	}

	if c.Poll.RefreshCooldown <= 0 {
		c.Poll.RefreshCooldown = DefaultRefreshCooldown
	}

	switch c.Poll.Overlap {
	case "":
		c.Poll.Overlap = poller.OverlapAllow
	case poller.OverlapAllow, poller.OverlapSkip:
	default:
		return fmt.Errorf("%w: %q", poller.ErrUnknownOverlap, c.Poll.Overlap)
	}

	if _, err := c.Display.Location(); err != nil {
		return err
	}

	return nil
}

// Location resolves Timezone.
func (d DisplayConfig) Location() (*time.Location, error) {
	if d.Timezone == "" {
		return time.Local, nil
	}

	loc, err := time.LoadLocation(d.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", errBadTimezone, d.Timezone, err)
	}

	return loc, nil
}

// defaults is the lowest-priority layer.
func defaults() map[string]any {
	return map[string]any{
		"api.base_url":                   DefaultBaseURL,
		"api.timeout":                    DefaultRequestTimeout,
		"poll.snapshot_interval":         DefaultSnapshotInterval,
		"poll.realtime_interval":         DefaultRealtimeInterval,
		"poll.overlap":                   string(poller.OverlapAllow),
		"poll.refresh_cooldown":          DefaultRefreshCooldown,
		"display.timezone":               "",
		"display.sidebar":                true,
		"log.level":                      "info",
		"log.output":                     logger.OutputFile,
		"log.file":                       logger.DefaultLogFile(),
		"log.format":                     logger.FormatJSON,
		"telemetry.otel.enabled":         false,
		"telemetry.otel.insecure":        false,
		"telemetry.otel.export_interval": 15 * time.Second,
	}
}
