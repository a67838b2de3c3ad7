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

// Package lifecycle sets up and tears down the process-wide pieces a
// command needs: its logger and the metrics pipeline.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/carverauto/guilddash/pkg/config"
	"github.com/carverauto/guilddash/pkg/logger"
	"github.com/carverauto/guilddash/pkg/version"
)

const serviceName = "guilddash"

// Runtime holds what Setup created. Call Shutdown when the command ends.
type Runtime struct {
	Logger  logger.Logger
	closer  io.Closer
	metrics bool
}

// Setup creates the command logger from cfg.Log and starts metric export
// when telemetry is enabled. A non-nil logOverride replaces cfg.Log.
// Metric export failures are logged, not returned.
func Setup(ctx context.Context, component string, cfg *config.Config, logOverride *logger.Config) (*Runtime, error) {
	logCfg := cfg.Log
	if logOverride != nil {
		logCfg = *logOverride
	}

	base, closer, err := logger.New(&logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	rt := &Runtime{
		Logger: logger.FromZerolog(base.With().Str("command", component).Logger()),
		closer: closer,
	}

	_, err = logger.InitializeMetrics(ctx, logger.MetricsConfig{
		ServiceName:    serviceName,
		ServiceVersion: version.GetVersion(),
		OTel:           &cfg.Telemetry.OTel,
	})

	switch {
	case errors.Is(err, logger.ErrOTelMetricsDisabled):
	case err != nil:
		rt.Logger.Warn().Err(err).Msg("Failed to initialize metrics")
	default:
		rt.metrics = true
	}

	rt.Logger.Info().
		Str("version", version.GetFullVersion()).
		Str("base_url", cfg.API.BaseURL).
		Bool("metrics", rt.metrics).
		Msg("Starting")

	return rt, nil
}

// Shutdown flushes metrics and closes the log output.
func (r *Runtime) Shutdown(ctx context.Context) error {
	var errs []error

	if r.metrics {
		if err := logger.ShutdownMetrics(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown metrics: %w", err))
		}
	}

	if err := r.closer.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close log output: %w", err))
	}

	return errors.Join(errs...)
}
