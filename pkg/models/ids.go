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

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

// discordEpochMillis is the snowflake epoch used by Discord (2015-01-01 UTC).
const discordEpochMillis = 1420070400000

// Discord snowflakes share the library's default 10 node bits and 12 step
// bits, so only the epoch differs.
func init() {
	snowflake.Epoch = discordEpochMillis
}

// ID is a snowflake identifier. The export service writes IDs as bare JSON
// numbers, which exceed float64 precision, so they are kept as text.
type ID string

// UnmarshalJSON accepts a JSON number or string.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""

		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("invalid id: %w", err)
		}

		*id = ID(strings.TrimSpace(s))

		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid id: %w", err)
	}

	*id = ID(n.String())

	return nil
}

func (id ID) String() string {
	return string(id)
}

// Snowflake parses the ID. It fails for non-numeric IDs.
func (id ID) Snowflake() (snowflake.ID, bool) {
	if id == "" {
		return 0, false
	}

	sf, err := snowflake.ParseString(string(id))
	if err != nil || sf <= 0 {
		return 0, false
	}

	return sf, true
}

// CreatedAt derives the creation time encoded in a Discord snowflake.
func (id ID) CreatedAt() (time.Time, bool) {
	sf, ok := id.Snowflake()
	if !ok {
		return time.Time{}, false
	}

	return time.UnixMilli(sf.Time()).UTC(), true
}

// Timestamp is an ISO-8601 instant. The zero value means absent.
type Timestamp struct {
	time.Time
}

// timestampLayouts covers what the export service emits: Python isoformat()
// with and without an offset, with and without fractional seconds.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// ParseTimestamp parses s with the accepted layouts. Zone-less values are UTC.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}, nil
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t}, nil
		}
	}

	return Timestamp{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
}

// UnmarshalJSON accepts null, an empty string, or an ISO-8601 string.
func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*ts = Timestamp{}

		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTimestamp, err)
	}

	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}

	*ts = parsed

	return nil
}

// MarshalJSON writes null for the zero value.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}

	return json.Marshal(ts.Format(time.RFC3339Nano))
}

// MarshalYAML writes null for the zero value.
func (ts Timestamp) MarshalYAML() (interface{}, error) {
	if ts.IsZero() {
		return nil, nil
	}

	return ts.Format(time.RFC3339Nano), nil
}
