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

package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/carverauto/guilddash/pkg/api"
	"github.com/carverauto/guilddash/pkg/lifecycle"
	"github.com/carverauto/guilddash/pkg/version"
)

const exitUnhealthy = 2

func healthCommand() *cli.Command {
	return &cli.Command{
		Name:  "health",
		Usage: "Check that the export service is up",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			rt, err := lifecycle.Setup(c.Context, "health", cfg, oneShotLog(cfg))
			if err != nil {
				return err
			}

			defer func() { _ = rt.Shutdown(c.Context) }()

			client, err := api.NewHTTPClient(api.HTTPClientConfig{
				BaseURL: cfg.API.BaseURL,
				Timeout: cfg.API.Timeout,
				Logger:  rt.Logger,
			})
			if err != nil {
				return err
			}

			h, err := client.Health(c.Context)
			if err != nil {
				return cli.Exit(fmt.Sprintf("unhealthy: %v", err), exitUnhealthy)
			}

			fmt.Fprintf(c.App.Writer, "%s: %s (version %s)\n", cfg.API.BaseURL, h.Status, h.Version)

			if !h.Healthy() {
				return cli.Exit("unhealthy", exitUnhealthy)
			}

			return nil
		},
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Action: func(c *cli.Context) error {
			_, err := fmt.Fprintln(c.App.Writer, version.GetFullVersion())

			return err
		},
	}
}
