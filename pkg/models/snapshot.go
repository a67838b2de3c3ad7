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

// Package models holds the export and presence payloads consumed by the dashboard.
package models

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/carverauto/guilddash/pkg/normalize"
)

var (
	// ErrInvalidTimestamp is returned for timestamps in no accepted layout.
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	// ErrNoExport is returned when the backend answers but has no export yet.
	ErrNoExport = errors.New("export service has no data")
)

// ServerSnapshot is one full export of the community server.
type ServerSnapshot struct {
	ServerID   ID                            `json:"server_id" yaml:"server_id"`
	ServerName string                        `json:"server_name" yaml:"server_name"`
	ExportTime Timestamp                     `json:"export_time" yaml:"export_time"`
	Channels   normalize.Collection[Channel] `json:"channels" yaml:"channels"`
	Roles      normalize.Collection[Role]    `json:"roles" yaml:"roles"`
	Members    normalize.Collection[Member]  `json:"members" yaml:"members"`
	Events     normalize.Collection[Event]   `json:"events" yaml:"events"`
}

// Category is the parent category of a channel.
type Category struct {
	ID   ID     `json:"id,omitempty" yaml:"id,omitempty"`
	Name string `json:"name" yaml:"name"`
}

// Channel is a text, voice or category channel.
type Channel struct {
	ID       ID        `json:"id" yaml:"id"`
	Name     string    `json:"name" yaml:"name"`
	Type     string    `json:"type" yaml:"type"`
	Position int       `json:"position,omitempty" yaml:"position,omitempty"`
	Category *Category `json:"category,omitempty" yaml:"category,omitempty"`
}

// Role is a server role. Color is a hex string such as "#1abc9c".
type Role struct {
	ID          ID     `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Color       string `json:"color" yaml:"color"`
	Position    int    `json:"position,omitempty" yaml:"position,omitempty"`
	Mentionable bool   `json:"mentionable" yaml:"mentionable"`
	Hoist       bool   `json:"hoist" yaml:"hoist"`
}

// RoleRef is a role reference attached to a member.
type RoleRef struct {
	ID   ID     `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Member is a server member.
type Member struct {
	ID          ID        `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	DisplayName string    `json:"display_name" yaml:"display_name"`
	JoinedAt    Timestamp `json:"joined_at" yaml:"joined_at"`
	Bot         bool      `json:"bot" yaml:"bot"`
	Roles       []RoleRef `json:"roles" yaml:"roles"`
	Status      string    `json:"status,omitempty" yaml:"status,omitempty"`
}

// Event is a scheduled event.
type Event struct {
	ID          ID        `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	StartTime   Timestamp `json:"start_time" yaml:"start_time"`
	EndTime     Timestamp `json:"end_time" yaml:"end_time"`
	Location    string    `json:"location" yaml:"location"`
	Status      string    `json:"status" yaml:"status"`
}

// exportSummary is the nested summary object written by the export service.
type exportSummary struct {
	ServerID   ID        `json:"server_id"`
	ServerName string    `json:"server_name"`
	ExportTime Timestamp `json:"export_time"`
}

// serverWire accepts both the flat snapshot shape and the backend's shape,
// which nests the server fields under "summary".
type serverWire struct {
	Error      *string         `json:"error"`
	Status     string          `json:"status"`
	ServerID   *ID             `json:"server_id"`
	ServerName *string         `json:"server_name"`
	ExportTime *Timestamp      `json:"export_time"`
	Summary    *exportSummary  `json:"summary"`
	Channels   json.RawMessage `json:"channels"`
	Roles      json.RawMessage `json:"roles"`
	Members    json.RawMessage `json:"members"`
	Events     json.RawMessage `json:"events"`
}

func (w *serverWire) hasContent() bool {
	return w.Summary != nil || w.ServerID != nil || w.ServerName != nil ||
		w.Channels != nil || w.Roles != nil || w.Members != nil || w.Events != nil
}

// UnmarshalJSON normalizes the wire shapes into a ServerSnapshot. A body that
// only carries an error (no export written yet) fails with ErrNoExport.
func (s *ServerSnapshot) UnmarshalJSON(b []byte) error {
	var w serverWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	if w.Error != nil && !w.hasContent() {
		if w.Status != "" {
			return fmt.Errorf("%w: %s (%s)", ErrNoExport, *w.Error, w.Status)
		}

		return fmt.Errorf("%w: %s", ErrNoExport, *w.Error)
	}

	var out ServerSnapshot

	if w.Summary != nil {
		out.ServerID = w.Summary.ServerID
		out.ServerName = w.Summary.ServerName
		out.ExportTime = w.Summary.ExportTime
	}

	if w.ServerID != nil {
		out.ServerID = *w.ServerID
	}

	if w.ServerName != nil {
		out.ServerName = *w.ServerName
	}

	if w.ExportTime != nil {
		out.ExportTime = *w.ExportTime
	}

	if err := decodeCollection(w.Channels, &out.Channels, "channels"); err != nil {
		return err
	}

	if err := decodeCollection(w.Roles, &out.Roles, "roles"); err != nil {
		return err
	}

	if err := decodeCollection(w.Members, &out.Members, "members"); err != nil {
		return err
	}

	if err := decodeCollection(w.Events, &out.Events, "events"); err != nil {
		return err
	}

	*s = out

	return nil
}

func decodeCollection[T any](raw json.RawMessage, dst *normalize.Collection[T], field string) error {
	res, err := normalize.ClassifyRaw(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}

	c, err := normalize.Decode[T](res)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}

	*dst = c

	return nil
}
