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

package dashboard

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/carverauto/guilddash/pkg/format"
	"github.com/carverauto/guilddash/pkg/models"
)

// Dracula theme colors.
const (
	draculaBackground = "#282A36"
	draculaForeground = "#F8F8F2"
	draculaCyan       = "#8BE9FD"
	draculaGreen      = "#50FA7B"
	draculaOrange     = "#FFB86C"
	draculaPink       = "#FF79C6"
	draculaPurple     = "#BD93F9"
	draculaRed        = "#FF5555"
	draculaYellow     = "#F1FA8C"
	draculaComment    = "#6272A4"
)

const (
	statusGlyph      = "●"
	swatchGlyph      = "■"
	emptySwatchGlyph = "□"
)

type styles struct {
	title       lipgloss.Style
	subtitle    lipgloss.Style
	heading     lipgloss.Style
	label       lipgloss.Style
	text        lipgloss.Style
	muted       lipgloss.Style
	warning     lipgloss.Style
	errorText   lipgloss.Style
	errorBanner lipgloss.Style
	success     lipgloss.Style
	tab         lipgloss.Style
	activeTab   lipgloss.Style
	card        lipgloss.Style
	panel       lipgloss.Style
	tableHeader lipgloss.Style
	tableCell   lipgloss.Style
	tableBorder lipgloss.Style
}

func newStyles() styles {
	return styles{
		title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaPink)).
			Bold(true),
		subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaComment)),
		heading: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaPurple)).
			Bold(true),
		label: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaCyan)),
		text: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaForeground)),
		muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaComment)),
		warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaYellow)),
		errorText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaRed)).
			Bold(true),
		errorBanner: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaRed)).
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(draculaRed)).
			Padding(0, 1),
		success: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaGreen)),
		tab: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaComment)).
			Padding(0, 1),
		activeTab: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaBackground)).
			Background(lipgloss.Color(draculaPurple)).
			Bold(true).
			Padding(0, 1),
		card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(draculaComment)).
			Padding(0, 1),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(draculaCyan)).
			Padding(0, 1),
		tableHeader: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaCyan)).
			Bold(true).
			Padding(0, 1),
		tableCell: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaForeground)).
			Padding(0, 1),
		tableBorder: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaComment)),
	}
}

// swatchStyle paints a role color. Transparent swatches carry no color.
func swatchStyle(s format.Swatch) lipgloss.Style {
	if s.Transparent {
		return lipgloss.NewStyle().Foreground(lipgloss.NoColor{})
	}

	return lipgloss.NewStyle().Foreground(lipgloss.Color(s.Fill))
}

func renderSwatch(s format.Swatch) string {
	glyph := swatchGlyph
	if s.Transparent {
		glyph = emptySwatchGlyph
	}

	return swatchStyle(s).Render(glyph) + " " + s.Label
}

func statusColor(status models.PresenceStatus) lipgloss.Color {
	switch status {
	case models.StatusOnline:
		return lipgloss.Color(draculaGreen)
	case models.StatusIdle:
		return lipgloss.Color(draculaYellow)
	case models.StatusDND:
		return lipgloss.Color(draculaRed)
	case models.StatusOffline:
		return lipgloss.Color(draculaComment)
	default:
		return lipgloss.Color(draculaComment)
	}
}
