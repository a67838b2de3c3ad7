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

// Package normalize classifies decoded export collections as data, empty, or
// an embedded error sentinel.
//
// The export service reports partial failures inside otherwise successful
// responses by replacing a collection with a single element that carries an
// "error" field. Every collection is classified on its own; one failed
// collection says nothing about its siblings.
package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

var (
	errUnsupportedShape = errors.New("collection is neither an array nor an object")
)

const (
	fieldError       = "error"
	fieldMemberCount = "member_count"
)

// Kind is the classification of a collection.
type Kind int

const (
	// Empty means the collection has no entries. It is not an error.
	Empty Kind = iota
	// Data means the collection holds real entries.
	Data
	// ErrorSentinel means the collection was replaced by an error report.
	ErrorSentinel
)

func (k Kind) String() string {
	switch k {
	case Empty:
		return "empty"
	case Data:
		return "data"
	case ErrorSentinel:
		return "error"
	default:
		return "unknown"
	}
}

// Sentinel is the error report that stands in for a collection.
type Sentinel struct {
	Message string
	// MemberCount is the raw member_count value rendered as text, empty when
	// the sentinel did not carry one. The backend sends a number or "unknown".
	MemberCount string
	// Context holds every field of the sentinel element, including error.
	Context map[string]json.RawMessage
}

// HasMemberCount reports whether the sentinel carried a member_count.
func (s *Sentinel) HasMemberCount() bool {
	return s != nil && s.MemberCount != ""
}

// Result is the outcome of classifying one collection.
type Result struct {
	Kind     Kind
	Items    []json.RawMessage
	Sentinel *Sentinel
}

// Classify inspects a decoded list. A list of exactly one element whose
// "error" field is present and non-null is an error sentinel; an empty list
// is Empty; anything else is Data.
func Classify(items []json.RawMessage) Result {
	if len(items) == 0 {
		return Result{Kind: Empty}
	}

	if len(items) == 1 {
		if s, ok := sentinelFrom(items[0]); ok {
			return Result{Kind: ErrorSentinel, Sentinel: s}
		}
	}

	return Result{Kind: Data, Items: items}
}

// ClassifyRaw classifies a raw collection value as it appears on the wire.
// Missing and null values are Empty. A bare object with an "error" field is
// treated as a sentinel, since the backend emits that shape when it cannot
// load a collection at all.
func ClassifyRaw(raw json.RawMessage) (Result, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Result{Kind: Empty}, nil
	}

	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return Result{}, fmt.Errorf("failed to decode collection: %w", err)
		}

		return Classify(items), nil
	case '{':
		if s, ok := sentinelFrom(trimmed); ok {
			return Result{Kind: ErrorSentinel, Sentinel: s}, nil
		}

		return Result{}, fmt.Errorf("%w: object without %q field", errUnsupportedShape, fieldError)
	default:
		return Result{}, errUnsupportedShape
	}
}

func sentinelFrom(raw json.RawMessage) (*Sentinel, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, false
	}

	errField, ok := fields[fieldError]
	if !ok || bytes.Equal(bytes.TrimSpace(errField), []byte("null")) {
		return nil, false
	}

	s := &Sentinel{
		Message: scalarText(errField),
		Context: fields,
	}

	if count, ok := fields[fieldMemberCount]; ok {
		s.MemberCount = scalarText(count)
	}

	return s, true
}

// scalarText renders a JSON scalar without quotes. Non-scalar values are
// returned as compact JSON.
func scalarText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}

	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return strconv.FormatBool(b)
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err == nil {
		return buf.String()
	}

	return string(raw)
}
