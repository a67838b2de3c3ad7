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
	"fmt"
	"time"
)

const (
	defaultPollInterval    = 5 * time.Minute
	defaultRefreshCooldown = 5 * time.Second
)

// OverlapPolicy decides what a tick does while a request is still in flight.
type OverlapPolicy string

const (
	// OverlapAllow issues the request anyway. Whichever response arrives last wins.
	OverlapAllow OverlapPolicy = "allow"
	// OverlapSkip drops the tick.
	OverlapSkip OverlapPolicy = "skip"
)

// Config represents poller configuration.
type Config struct {
	Name     string        `koanf:"name" json:"name" yaml:"name"`
	Interval time.Duration `koanf:"interval" json:"interval" yaml:"interval"`
	// FailureMessage is what State.Err holds after any failed request.
	FailureMessage string        `koanf:"failure_message" json:"failure_message" yaml:"failure_message"`
	Overlap        OverlapPolicy `koanf:"overlap" json:"overlap" yaml:"overlap"`
	// RefreshCooldown is the minimum spacing of manual refreshes.
	RefreshCooldown time.Duration `koanf:"refresh_cooldown" json:"refresh_cooldown" yaml:"refresh_cooldown"`
	// Timeout bounds a single request. Zero leaves it to the transport.
	Timeout time.Duration `koanf:"timeout" json:"timeout" yaml:"timeout"`
}

// Validate fills defaults and rejects unusable values.
func (c *Config) Validate() error {
	if c.Name == "" {
		return errNameRequired
	}

	if c.FailureMessage == "" {
		return errMessageRequired
	}

	if c.Interval == 0 {
		c.Interval = defaultPollInterval
	}

	if c.Interval < 0 {
		return fmt.Errorf("%w: interval %s", ErrInvalidDuration, c.Interval)
	}

	if c.RefreshCooldown == 0 {
		c.RefreshCooldown = defaultRefreshCooldown
	}

	if c.RefreshCooldown < 0 || c.Timeout < 0 {
		return fmt.Errorf("%w: negative cooldown or timeout", ErrInvalidDuration)
	}

	switch c.Overlap {
	case "":
		c.Overlap = OverlapAllow
	case OverlapAllow, OverlapSkip:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOverlap, c.Overlap)
	}

	return nil
}
