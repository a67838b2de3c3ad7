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

package normalize

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Collection is a classified, typed collection. The zero value is Empty.
type Collection[T any] struct {
	Kind     Kind
	Items    []T
	Sentinel *Sentinel
}

// Of builds a Data (or Empty) collection from items.
func Of[T any](items ...T) Collection[T] {
	if len(items) == 0 {
		return Collection[T]{Kind: Empty}
	}

	return Collection[T]{Kind: Data, Items: items}
}

// Failed builds an error sentinel collection.
func Failed[T any](message string) Collection[T] {
	return Collection[T]{Kind: ErrorSentinel, Sentinel: &Sentinel{Message: message}}
}

// Len is the number of real entries; sentinels have none.
func (c Collection[T]) Len() int {
	return len(c.Items)
}

// IsError reports whether the collection is an error sentinel.
func (c Collection[T]) IsError() bool {
	return c.Kind == ErrorSentinel && c.Sentinel != nil
}

// UnmarshalJSON classifies the raw value before decoding entries.
func (c *Collection[T]) UnmarshalJSON(b []byte) error {
	res, err := ClassifyRaw(b)
	if err != nil {
		return err
	}

	decoded, err := Decode[T](res)
	if err != nil {
		return err
	}

	*c = decoded

	return nil
}

// MarshalJSON writes the collection back in wire form: an array of entries,
// or a one-element array holding the sentinel.
func (c Collection[T]) MarshalJSON() ([]byte, error) {
	if c.IsError() {
		if len(c.Sentinel.Context) > 0 {
			return json.Marshal([]map[string]json.RawMessage{c.Sentinel.Context})
		}

		return json.Marshal([]map[string]any{c.sentinelFields()})
	}

	if c.Items == nil {
		return []byte("[]"), nil
	}

	return json.Marshal(c.Items)
}

// MarshalYAML mirrors MarshalJSON for yaml.v3.
func (c Collection[T]) MarshalYAML() (interface{}, error) {
	if c.IsError() {
		if len(c.Sentinel.Context) > 0 {
			fields, err := decodeContext(c.Sentinel.Context)
			if err != nil {
				return nil, err
			}

			return []map[string]any{fields}, nil
		}

		return []map[string]any{c.sentinelFields()}, nil
	}

	if c.Items == nil {
		return []T{}, nil
	}

	return c.Items, nil
}

// sentinelFields rebuilds a sentinel that was not decoded from the wire.
// A numeric member count is written as a number.
func (c Collection[T]) sentinelFields() map[string]any {
	fields := map[string]any{fieldError: c.Sentinel.Message}
	if c.Sentinel.HasMemberCount() {
		if n, err := strconv.ParseInt(c.Sentinel.MemberCount, 10, 64); err == nil {
			fields[fieldMemberCount] = n
		} else {
			fields[fieldMemberCount] = c.Sentinel.MemberCount
		}
	}

	return fields
}

// decodeContext turns the raw sentinel fields into plain values so yaml.v3
// encodes them with their wire types. Integers stay integers.
func decodeContext(raw map[string]json.RawMessage) (map[string]any, error) {
	fields := make(map[string]any, len(raw))

	for k, v := range raw {
		var n int64
		if err := json.Unmarshal(v, &n); err == nil {
			fields[k] = n

			continue
		}

		var value any
		if err := json.Unmarshal(v, &value); err != nil {
			return nil, fmt.Errorf("failed to decode sentinel field %q: %w", k, err)
		}

		fields[k] = value
	}

	return fields, nil
}

// Decode turns a classification result into a typed collection.
func Decode[T any](res Result) (Collection[T], error) {
	switch res.Kind {
	case Data:
		items := make([]T, 0, len(res.Items))

		for i, raw := range res.Items {
			var item T
			if err := json.Unmarshal(raw, &item); err != nil {
				return Collection[T]{}, fmt.Errorf("failed to decode entry %d: %w", i, err)
			}

			items = append(items, item)
		}

		return Collection[T]{Kind: Data, Items: items}, nil
	case ErrorSentinel:
		return Collection[T]{Kind: ErrorSentinel, Sentinel: res.Sentinel}, nil
	case Empty:
		return Collection[T]{Kind: Empty}, nil
	default:
		return Collection[T]{}, fmt.Errorf("unknown collection kind %d", res.Kind)
	}
}
