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

package poller

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	pollMeterName          = "guilddash.poller"
	metricPollDurationName = "guilddash_poll_duration_seconds"
	metricPollFailuresName = "guilddash_poll_failures_total"

	statusSuccess = "success"
	statusError   = "error"
)

type pollMetrics struct {
	duration metric.Float64Histogram
	failures metric.Int64Counter
	name     attribute.KeyValue
}

func newPollMetrics(provider metric.MeterProvider, name string) *pollMetrics {
	if provider == nil {
		provider = otel.GetMeterProvider()
	}

	meter := provider.Meter(pollMeterName)
	m := &pollMetrics{name: attribute.String("poller", name)}

	if hist, err := meter.Float64Histogram(
		metricPollDurationName,
		metric.WithDescription("Latency of dashboard poll requests"),
		metric.WithUnit("s"),
	); err != nil {
		otel.Handle(err)
	} else {
		m.duration = hist
	}

	if counter, err := meter.Int64Counter(
		metricPollFailuresName,
		metric.WithDescription("Total failed dashboard poll requests"),
	); err != nil {
		otel.Handle(err)
	} else {
		m.failures = counter
	}

	return m
}

func (m *pollMetrics) record(ctx context.Context, elapsed time.Duration, err error) {
	if elapsed < 0 {
		elapsed = 0
	}

	status := statusSuccess
	if err != nil {
		status = statusError
	}

	attrs := metric.WithAttributes(m.name, attribute.String("status", status))

	if m.duration != nil {
		m.duration.Record(ctx, elapsed.Seconds(), attrs)
	}

	if err != nil && m.failures != nil {
		m.failures.Add(ctx, 1, metric.WithAttributes(m.name))
	}
}
