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

// Package report writes one-shot snapshot reports for scripting and the
// terminal.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/carverauto/guilddash/pkg/dashboard"
	"github.com/carverauto/guilddash/pkg/models"
	"github.com/carverauto/guilddash/pkg/poller"
)

var ErrUnknownFormat = errors.New("unknown output format")

// Format is an output format.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat maps a flag value to a Format. Empty means table.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatTable, nil
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Report is what the snapshot command prints. Either half may be absent.
type Report struct {
	Server   *models.ServerSnapshot   `json:"server,omitempty" yaml:"server,omitempty"`
	Realtime *models.RealtimeSnapshot `json:"realtime,omitempty" yaml:"realtime,omitempty"`
}

// Formatter writes a report.
type Formatter interface {
	Format(w io.Writer, r *Report) error
}

// NewFormatter returns the formatter for f. Unknown formats print tables.
func NewFormatter(f Format, opts TableOptions) Formatter {
	switch f {
	case FormatJSON:
		return &JSONFormatter{}
	case FormatYAML:
		return &YAMLFormatter{}
	case FormatTable:
		return &TableFormatter{Options: opts}
	default:
		return &TableFormatter{Options: opts}
	}
}

type JSONFormatter struct{}

// Format writes indented JSON in the backend's wire shape.
func (*JSONFormatter) Format(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(r)
}

type YAMLFormatter struct{}

func (*YAMLFormatter) Format(w io.Writer, r *Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(r); err != nil {
		return err
	}

	return enc.Close()
}

// TableOptions selects what the table formatter draws.
type TableOptions struct {
	dashboard.RenderOptions
	// Tabs lists the sections to print. Empty prints all of them.
	Tabs []dashboard.Tab
}

// TableFormatter prints the same views as the dashboard tabs.
type TableFormatter struct {
	Options TableOptions
}

func (f *TableFormatter) Format(w io.Writer, r *Report) error {
	tabs := f.Options.Tabs
	if len(tabs) == 0 {
		tabs = dashboard.Tabs
	}

	var sections []string

	if r.Server != nil {
		for _, tab := range tabs {
			sections = append(sections, dashboard.RenderTab(tab, r.Server, f.Options.RenderOptions))
		}
	}

	if r.Realtime != nil {
		state := poller.State[models.RealtimeSnapshot]{Data: r.Realtime}
		sections = append(sections, dashboard.RenderPresence(state, f.Options.RenderOptions))
	}

	_, err := io.WriteString(w, strings.Join(sections, "\n\n")+"\n")

	return err
}
