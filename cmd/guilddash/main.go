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

// Command guilddash is a terminal dashboard for the community server export
// service.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/carverauto/guilddash/pkg/config"
	"github.com/carverauto/guilddash/pkg/version"
)

var errFailedToLoadConfig = errors.New("failed to load config")

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "guilddash",
		Usage:   "Read-only dashboard for a Discord community server",
		Version: version.GetFullVersion(),
		Flags:   globalFlags(),
		Action:  runTUI,
		Commands: []*cli.Command{
			snapshotCommand(),
			healthCommand(),
			versionCommand(),
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a YAML or JSON config file",
			EnvVars: []string{config.EnvPrefix + "CONFIG"},
		},
		&cli.StringFlag{
			Name:  "env-file",
			Usage: "Dotenv file to load before reading the environment (default: ./.env if present)",
		},
		&cli.StringFlag{
			Name:    "base-url",
			Aliases: []string{"u"},
			Usage:   "Export service base URL, e.g. http://localhost:5000",
		},
		&cli.StringFlag{
			Name:  "timezone",
			Usage: "IANA time zone for displayed timestamps (default: local)",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: trace, debug, info, warn, error",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug logging",
		},
	}
}

// flagOverrides maps explicitly set flags to config keys.
var flagOverrides = map[string]string{
	"base-url":  "api.base_url",
	"timezone":  "display.timezone",
	"log-level": "log.level",
	"debug":     "log.debug",
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	overrides := make(map[string]any)

	for flag, key := range flagOverrides {
		if !c.IsSet(flag) {
			continue
		}

		if flag == "debug" {
			overrides[key] = c.Bool(flag)
		} else {
			overrides[key] = c.String(flag)
		}
	}

	cfg, err := config.Load(config.Options{
		File:      c.String("config"),
		DotEnv:    c.String("env-file"),
		Overrides: overrides,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errFailedToLoadConfig, err)
	}

	return cfg, nil
}
