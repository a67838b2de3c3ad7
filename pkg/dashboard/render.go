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
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/carverauto/guilddash/pkg/format"
	"github.com/carverauto/guilddash/pkg/models"
	"github.com/carverauto/guilddash/pkg/normalize"
)

const (
	noEventsText = "No scheduled events found."
	// descriptionIndent is the card border plus padding on both sides.
	descriptionIndent = 4
)

// RenderOptions controls the text produced by RenderTab.
type RenderOptions struct {
	// Location is the zone timestamps are shown in. Nil means local.
	Location *time.Location
	// Width wraps event descriptions. Zero disables wrapping.
	Width int
}

// RenderTab draws one tab of a snapshot. The output depends only on its
// arguments. A nil snapshot renders nothing.
func RenderTab(tab Tab, snap *models.ServerSnapshot, opts RenderOptions) string {
	if snap == nil {
		return ""
	}

	r := renderer{opts: opts, styles: newStyles()}

	switch tab {
	case TabSummary:
		return r.summary(snap)
	case TabChannels:
		return r.channels(snap.Channels)
	case TabRoles:
		return r.roles(snap.Roles)
	case TabMembers:
		return r.members(snap.Members)
	case TabEvents:
		return r.events(snap.Events)
	default:
		return r.summary(snap)
	}
}

type renderer struct {
	opts   RenderOptions
	styles styles
}

func (r renderer) heading(name string, count string) string {
	if count == "" {
		return r.styles.heading.Render(name)
	}

	return r.styles.heading.Render(fmt.Sprintf("%s (%s)", name, count))
}

func (r renderer) field(label, value string) string {
	return r.styles.label.Render(label+":") + " " + r.styles.text.Render(value)
}

// sentinel draws a failed collection: its heading and the backend's message.
func (r renderer) sentinel(name string, s *normalize.Sentinel, extra ...string) string {
	lines := []string{
		r.heading(name, ""),
		"",
		r.styles.warning.Render("⚠ " + s.Message),
	}

	lines = append(lines, extra...)

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (r renderer) table(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.styles.tableBorder).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return r.styles.tableHeader
			}

			return r.styles.tableCell
		})

	return t.String()
}

func (r renderer) summary(snap *models.ServerSnapshot) string {
	created := format.Dash
	if at, ok := snap.ServerID.CreatedAt(); ok {
		created = format.Date(models.NewTimestamp(at), r.opts.Location)
	}

	details := lipgloss.JoinVertical(lipgloss.Left,
		r.styles.heading.Render("Server Details"),
		r.field("ID", snap.ServerID.String()),
		r.field("Created", created),
		r.field("Export Time", format.DateTime(snap.ExportTime, r.opts.Location)),
	)

	stats := lipgloss.JoinVertical(lipgloss.Left,
		r.styles.heading.Render("Stats"),
		r.field("Channels", format.Count(snap.Channels)),
		r.field("Roles", format.Count(snap.Roles)),
		r.field("Members", format.Count(snap.Members)),
		r.field("Events", format.Count(snap.Events)),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		r.styles.title.Render(snap.ServerName),
		"",
		r.styles.card.Render(details),
		r.styles.card.Render(stats),
	)
}

func (r renderer) channels(c normalize.Collection[models.Channel]) string {
	if c.IsError() {
		return r.sentinel("Channels", c.Sentinel)
	}

	rows := make([][]string, 0, c.Len())
	for _, ch := range c.Items {
		rows = append(rows, []string{ch.Name, ch.Type, format.CategoryName(ch.Category)})
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		r.heading("Channels", format.Count(c)),
		r.table([]string{"Name", "Type", "Category"}, rows),
	)
}

func (r renderer) roles(c normalize.Collection[models.Role]) string {
	if c.IsError() {
		return r.sentinel("Roles", c.Sentinel)
	}

	rows := make([][]string, 0, c.Len())
	for _, role := range c.Items {
		rows = append(rows, []string{
			role.Name,
			renderSwatch(format.RoleSwatch(role.Color)),
			format.YesNo(role.Mentionable),
			format.YesNo(role.Hoist),
		})
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		r.heading("Roles", format.Count(c)),
		r.table([]string{"Name", "Color", "Mentionable", "Displayed Separately"}, rows),
	)
}

// members draws the member table. When the backend withheld the list, only
// its message and the member count are shown.
func (r renderer) members(c normalize.Collection[models.Member]) string {
	if c.IsError() {
		return r.sentinel("Members", c.Sentinel,
			"", r.field("Member Count", format.SentinelMemberCount(c.Sentinel)))
	}

	rows := make([][]string, 0, c.Len())
	for _, m := range c.Items {
		roles := make([]string, 0, len(m.Roles))
		for _, role := range m.Roles {
			roles = append(roles, role.Name)
		}

		rows = append(rows, []string{
			m.Name,
			m.DisplayName,
			format.Date(m.JoinedAt, r.opts.Location),
			format.YesNo(m.Bot),
			strings.Join(roles, ", "),
		})
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		r.heading("Members", format.Count(c)),
		r.table([]string{"Name", "Display Name", "Joined At", "Bot", "Roles"}, rows),
	)
}

func (r renderer) events(c normalize.Collection[models.Event]) string {
	if c.IsError() {
		return r.sentinel("Events", c.Sentinel)
	}

	parts := []string{r.heading("Events", format.Count(c))}

	if c.Len() == 0 {
		parts = append(parts, "", r.styles.muted.Render(noEventsText))

		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}

	width := 0
	if r.opts.Width > descriptionIndent {
		width = r.opts.Width - descriptionIndent
	}

	for _, ev := range c.Items {
		lines := []string{r.styles.title.Render(ev.Name)}

		if desc := format.Description(ev.Description, width); desc != "" {
			lines = append(lines, r.styles.text.Render(desc))
		}

		lines = append(lines,
			r.field("Start", format.DateTime(ev.StartTime, r.opts.Location)),
			r.field("End", format.DateTime(ev.EndTime, r.opts.Location)),
			r.field("Location", ev.Location),
			r.field("Status", ev.Status),
		)

		parts = append(parts, r.styles.card.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
