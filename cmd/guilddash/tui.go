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
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/carverauto/guilddash/pkg/api"
	"github.com/carverauto/guilddash/pkg/dashboard"
	"github.com/carverauto/guilddash/pkg/lifecycle"
)

const shutdownTimeout = 5 * time.Second

var errNotTerminal = errors.New("the dashboard needs an interactive terminal; use the snapshot command for scripts")

func runTUI(c *cli.Context) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) || !term.IsTerminal(int(os.Stdin.Fd())) {
		return errNotTerminal
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := lifecycle.Setup(ctx, "tui", cfg, nil)
	if err != nil {
		return err
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := rt.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
		}
	}()

	client, err := api.NewHTTPClient(api.HTTPClientConfig{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		Logger:  rt.Logger,
	})
	if err != nil {
		return err
	}

	loc, err := cfg.Display.Location()
	if err != nil {
		return err
	}

	m, err := dashboard.New(dashboard.Options{
		Client:         client,
		Poll:           cfg.Poll,
		RequestTimeout: cfg.API.Timeout,
		Location:       loc,
		Sidebar:        cfg.Display.Sidebar,
		Logger:         rt.Logger,
	})
	if err != nil {
		return err
	}

	defer m.Stop()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			rt.Logger.Info().Msg("Interrupted")

			return nil
		}

		return fmt.Errorf("dashboard: %w", err)
	}

	rt.Logger.Info().Msg("Exited")

	return nil
}
