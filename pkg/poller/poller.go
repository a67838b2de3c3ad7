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

// Package poller runs fetch-and-store cycles on a fixed cadence inside a
// bubbletea program. Each Poller owns one State and is its only writer.
//
// A poller never blocks the program loop: requests run as tea.Cmd goroutines
// and come back as messages, as do timer fires. Every activation gets a fresh
// token and context, so ticks and results from an earlier activation are
// recognised and dropped.
package poller

import (
	"context"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/time/rate"

	"github.com/carverauto/guilddash/pkg/logger"
)

// FetchFunc retrieves one snapshot.
type FetchFunc[T any] func(ctx context.Context) (*T, error)

// State is the observable state of a poller.
type State[T any] struct {
	Loading bool
	// Err is the fixed failure message, empty after a success.
	Err string
	// Cause is the error behind Err.
	Cause error
	// Data is the last successful snapshot. Failures leave it untouched.
	Data *T
	// UpdatedAt is when Data was stored.
	UpdatedAt time.Time
}

// HasData reports whether a snapshot has ever been stored.
func (s State[T]) HasData() bool {
	return s.Data != nil
}

type tickMsg struct {
	poller uint64
	token  uint64
	at     time.Time
}

type resultMsg[T any] struct {
	poller  uint64
	token   uint64
	seq     uint64
	data    *T
	err     error
	elapsed time.Duration
}

type options struct {
	meterProvider metric.MeterProvider
}

// Option configures a Poller.
type Option func(*options)

// WithMeterProvider records poll metrics on mp instead of the global provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) {
		o.meterProvider = mp
	}
}

//nolint:gochecknoglobals // poller identities must be unique per process
var nextID atomic.Uint64

// Poller repeats fetch on a fixed interval while active.
type Poller[T any] struct {
	id      uint64
	config  Config
	fetch   FetchFunc[T]
	clock   Clock
	logger  zerolog.Logger
	metrics *pollMetrics
	limiter *rate.Limiter

	state    State[T]
	active   bool
	token    uint64
	seq      uint64
	inFlight int
	ctx      context.Context
	cancel   context.CancelFunc
}

// New creates an inactive poller. A nil clock uses real time.
func New[T any](config Config, fetch FetchFunc[T], clock Clock, log logger.Logger, opts ...Option) (*Poller[T], error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if fetch == nil {
		return nil, errNilFetch
	}

	if clock == nil {
		clock = realClock{}
	}

	if log == nil {
		log = logger.NewTestLogger()
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	return &Poller[T]{
		id:      nextID.Add(1),
		config:  config,
		fetch:   fetch,
		clock:   clock,
		logger:  log.WithComponent("poller").With().Str("poller", config.Name).Logger(),
		metrics: newPollMetrics(o.meterProvider, config.Name),
		limiter: rate.NewLimiter(rate.Every(config.RefreshCooldown), 1),
	}, nil
}

func (p *Poller[T]) Name() string {
	return p.config.Name
}

func (p *Poller[T]) Interval() time.Duration {
	return p.config.Interval
}

// State returns a copy of the current state.
func (p *Poller[T]) State() State[T] {
	return p.state
}

func (p *Poller[T]) Active() bool {
	return p.active
}

// InFlight is the number of requests of the current activation not yet answered.
func (p *Poller[T]) InFlight() int {
	return p.inFlight
}

// Activate fetches immediately and arms the timer. It is a no-op when the
// poller is already active.
func (p *Poller[T]) Activate() tea.Cmd {
	if p.active {
		return nil
	}

	p.active = true
	p.token++
	p.inFlight = 0
	p.ctx, p.cancel = context.WithCancel(context.Background())

	p.logger.Info().Dur("interval", p.config.Interval).Str("overlap", string(p.config.Overlap)).Msg("Starting poller")

	return tea.Batch(p.poll(), p.schedule())
}

// Deactivate disarms the timer and abandons in-flight requests. Their results
// are discarded when they arrive.
func (p *Poller[T]) Deactivate() {
	if !p.active {
		return
	}

	p.active = false
	p.token++
	p.inFlight = 0
	p.state.Loading = false

	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}

	p.logger.Info().Msg("Stopped poller")
}

// Refresh polls now without moving the timer. It reports false when the
// poller is inactive, the refresh is rate limited, or the overlap policy
// forbids a second request.
func (p *Poller[T]) Refresh() (tea.Cmd, bool) {
	if !p.active {
		return nil, false
	}

	if p.config.Overlap == OverlapSkip && p.inFlight > 0 {
		return nil, false
	}

	if !p.limiter.AllowN(p.clock.Now(), 1) {
		p.logger.Debug().Msg("Manual refresh rate limited")

		return nil, false
	}

	return p.poll(), true
}

// Update applies a message addressed to this poller. Messages for other
// pollers, or from an earlier activation, are ignored.
func (p *Poller[T]) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tickMsg:
		if msg.poller != p.id {
			return nil
		}

		return p.handleTick(msg)
	case resultMsg[T]:
		if msg.poller != p.id {
			return nil
		}

		p.handleResult(msg)
	}

	return nil
}

func (p *Poller[T]) handleTick(msg tickMsg) tea.Cmd {
	if !p.active || msg.token != p.token {
		return nil
	}

	next := p.schedule()

	if p.config.Overlap == OverlapSkip && p.inFlight > 0 {
		p.logger.Debug().Int("in_flight", p.inFlight).Msg("Skipping tick, request still in flight")

		return next
	}

	return tea.Batch(p.poll(), next)
}

func (p *Poller[T]) handleResult(msg resultMsg[T]) {
	if !p.active || msg.token != p.token {
		p.logger.Debug().Uint64("seq", msg.seq).Msg("Discarding result from stale activation")

		return
	}

	if p.inFlight > 0 {
		p.inFlight--
	}

	p.metrics.record(p.ctx, msg.elapsed, msg.err)

	p.state.Loading = false

	if msg.err != nil {
		p.state.Err = p.config.FailureMessage
		p.state.Cause = msg.err

		p.logger.Warn().Err(msg.err).Uint64("seq", msg.seq).Dur("elapsed", msg.elapsed).Msg("Poll failed")

		return
	}

	p.state.Data = msg.data
	p.state.Err = ""
	p.state.Cause = nil
	p.state.UpdatedAt = p.clock.Now()

	p.logger.Debug().Uint64("seq", msg.seq).Dur("elapsed", msg.elapsed).Msg("Poll succeeded")
}

func (p *Poller[T]) schedule() tea.Cmd {
	id, token := p.id, p.token

	return p.clock.After(p.config.Interval, func(t time.Time) tea.Msg {
		return tickMsg{poller: id, token: token, at: t}
	})
}

func (p *Poller[T]) poll() tea.Cmd {
	p.seq++
	p.inFlight++
	p.state.Loading = true

	id, token, seq := p.id, p.token, p.seq
	ctx, fetch, timeout := p.ctx, p.fetch, p.config.Timeout

	return func() tea.Msg {
		if timeout > 0 {
			var cancel context.CancelFunc

			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		start := time.Now()
		data, err := fetch(ctx)

		if err == nil && data == nil {
			err = errEmptyResponse
		}

		return resultMsg[T]{
			poller:  id,
			token:   token,
			seq:     seq,
			data:    data,
			err:     err,
			elapsed: time.Since(start),
		}
	}
}
