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
	"os"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/carverauto/guilddash/pkg/api"
	"github.com/carverauto/guilddash/pkg/config"
	"github.com/carverauto/guilddash/pkg/dashboard"
	"github.com/carverauto/guilddash/pkg/lifecycle"
	"github.com/carverauto/guilddash/pkg/logger"
	"github.com/carverauto/guilddash/pkg/report"
)

func snapshotCommand() *cli.Command {
	return &cli.Command{
		Name:  "snapshot",
		Usage: "Fetch the server export once and print it",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output format: table, json, yaml",
				Value:   string(report.FormatTable),
			},
			&cli.StringSliceFlag{
				Name:    "tab",
				Aliases: []string{"t"},
				Usage:   "Sections to print in table output: summary, channels, roles, members, events",
			},
			&cli.BoolFlag{
				Name:  "no-realtime",
				Usage: "Skip the live presence endpoint",
			},
			&cli.IntFlag{
				Name:  "width",
				Usage: "Wrap event descriptions at this width (default: terminal width)",
			},
		},
		Action: runSnapshot,
	}
}

// oneShotLog keeps stdout clean for the report.
func oneShotLog(cfg *config.Config) *logger.Config {
	out := cfg.Log
	if out.Output != logger.OutputFile {
		out.Output = logger.OutputStderr
		out.Format = logger.FormatConsole
	}

	return &out
}

func runSnapshot(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	format, err := report.ParseFormat(c.String("output"))
	if err != nil {
		return err
	}

	tabs := make([]dashboard.Tab, 0, len(c.StringSlice("tab")))
	for _, name := range c.StringSlice("tab") {
		tab, err := dashboard.ParseTab(name)
		if err != nil {
			return err
		}

		tabs = append(tabs, tab)
	}

	rt, err := lifecycle.Setup(c.Context, "snapshot", cfg, oneShotLog(cfg))
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

	r, err := report.Collect(c.Context, client, report.Sources{Server: true, Realtime: !c.Bool("no-realtime")})
	if err != nil {
		return fmt.Errorf("fetch snapshot: %w", err)
	}

	loc, err := cfg.Display.Location()
	if err != nil {
		return err
	}

	width := c.Int("width")
	if width == 0 && term.IsTerminal(int(os.Stdout.Fd())) {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width = w
		}
	}

	f := report.NewFormatter(format, report.TableOptions{
		RenderOptions: dashboard.RenderOptions{Location: loc, Width: width},
		Tabs:          tabs,
	})

	return f.Format(c.App.Writer, r)
}
