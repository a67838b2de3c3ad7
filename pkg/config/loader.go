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

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every guilddash environment variable.
const EnvPrefix = "GUILDDASH_"

// legacyBaseURLEnv are the variable names the web dashboards read the API
// location from, highest priority first.
var legacyBaseURLEnv = []string{"NEXT_PUBLIC_API_URL", "API_URL"}

const defaultDotEnv = ".env"

// Options selects the sources Load reads.
type Options struct {
	// File is a YAML or JSON config file. Empty skips the file layer.
	File string
	// DotEnv is loaded into the process environment without overriding
	// variables that are already set. Empty tries ./.env.
	DotEnv string
	// Overrides are dotted keys from command-line flags.
	Overrides map[string]any
}

// Load layers, lowest priority first: defaults, config file, legacy
// API_URL variables, GUILDDASH_* variables, overrides. The result is validated.
func Load(opts Options) (*Config, error) {
	if err := loadDotEnv(opts.DotEnv); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	if err := k.Load(mapProvider(defaults()), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if opts.File != "" {
		// YAML is a superset of JSON, so one parser serves both.
		if err := k.Load(file.Provider(opts.File), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", opts.File, err)
		}
	}

	if base := legacyBaseURL(); base != "" {
		if err := k.Set("api.base_url", base); err != nil {
			return nil, fmt.Errorf("load legacy env: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	if len(opts.Overrides) > 0 {
		if err := k.Load(mapProvider(opts.Overrides), nil); err != nil {
			return nil, fmt.Errorf("load overrides: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func loadDotEnv(path string) error {
	explicit := path != ""
	if !explicit {
		path = defaultDotEnv
	}

	if err := godotenv.Load(filepath.Clean(path)); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return fmt.Errorf("load %s: %w", path, err)
	}

	return nil
}

func legacyBaseURL() string {
	for _, name := range legacyBaseURLEnv {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v
		}
	}

	return ""
}

// nestedSections are config sections whose children are themselves sections.
var nestedSections = map[string][]string{
	"telemetry": {"otel"},
	"otel":      {"tls"},
}

// envKey maps GUILDDASH_POLL_SNAPSHOT_INTERVAL to poll.snapshot_interval.
// Keys keep their underscores, so only known section boundaries become dots.
func envKey(s string) string {
	rest := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))

	var parts []string

	section, tail, ok := strings.Cut(rest, "_")
	for ok {
		parts = append(parts, section)
		rest = tail

		next, nextTail, found := strings.Cut(rest, "_")
		if !found || !isChild(section, next) {
			break
		}

		section, tail, ok = next, nextTail, true
	}

	return strings.Join(append(parts, rest), ".")
}

func isChild(section, name string) bool {
	for _, child := range nestedSections[section] {
		if child == name {
			return true
		}
	}

	return false
}
