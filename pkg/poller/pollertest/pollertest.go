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

// Package pollertest provides a manual clock and a synchronous command
// runner for driving pollers without a bubbletea program.
package pollertest

import (
	"sort"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type timer struct {
	at time.Time
	fn func(time.Time) tea.Msg
}

// Clock is a manually advanced poller.Clock. Timers are armed when the
// command returned by After runs, as with tea.Tick.
type Clock struct {
	mu     sync.Mutex
	now    time.Time
	timers []timer
}

func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *Clock) After(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		c.mu.Lock()
		defer c.mu.Unlock()

		c.timers = append(c.timers, timer{at: c.now.Add(d), fn: fn})

		return nil
	}
}

// Next reports when the earliest armed timer is due.
func (c *Clock) Next() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.timers) == 0 {
		return time.Time{}, false
	}

	next := c.timers[0].at
	for _, t := range c.timers[1:] {
		if t.at.Before(next) {
			next = t.at
		}
	}

	return next, true
}

// Advance moves the clock forward and returns the messages of every timer
// that came due, earliest first.
func (c *Clock) Advance(d time.Duration) []tea.Msg {
	c.mu.Lock()
	c.now = c.now.Add(d)
	now := c.now

	var due, pending []timer

	for _, t := range c.timers {
		if t.at.After(now) {
			pending = append(pending, t)
		} else {
			due = append(due, t)
		}
	}

	c.timers = pending
	c.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })

	msgs := make([]tea.Msg, 0, len(due))
	for _, t := range due {
		msgs = append(msgs, t.fn(t.at))
	}

	return msgs
}

// Pending is the number of armed timers.
func (c *Clock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.timers)
}

// Run executes cmd synchronously, unrolling batches, and returns every
// non-nil message produced.
func Run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}

	msg := cmd()

	switch msg := msg.(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, Run(c)...)
		}

		return out
	default:
		return []tea.Msg{msg}
	}
}
