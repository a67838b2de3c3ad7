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

	"github.com/charmbracelet/lipgloss"

	"github.com/carverauto/guilddash/pkg/format"
	"github.com/carverauto/guilddash/pkg/models"
	"github.com/carverauto/guilddash/pkg/normalize"
	"github.com/carverauto/guilddash/pkg/poller"
)

const (
	presenceLoadingText = "Loading Discord data..."
	defaultGuildName    = "Discord Server"
	neverUpdated        = "Never"
)

// RenderPresence draws the live presence panel from the realtime poller state.
func RenderPresence(state poller.State[models.RealtimeSnapshot], opts RenderOptions) string {
	r := renderer{opts: opts, styles: newStyles()}

	if state.Loading && !state.HasData() {
		return r.styles.muted.Render(presenceLoadingText)
	}

	if state.Err != "" {
		return lipgloss.JoinVertical(lipgloss.Left,
			r.styles.errorText.Render("Error"),
			r.styles.text.Render(state.Err),
		)
	}

	if !state.HasData() {
		return ""
	}

	snap := state.Data

	name := snap.GuildName
	if strings.TrimSpace(name) == "" {
		name = defaultGuildName
	}

	parts := []string{
		r.styles.title.Render(name),
		r.styles.success.Render(fmt.Sprintf("%s online", format.Count(snap.OnlineMembers))),
		"",
		r.onlineGrid(snap.OnlineMembers),
		"",
		r.textChannels(snap.ActiveTextChannels),
	}

	if voice := r.voiceChannels(snap.ActiveVoiceChannels); voice != "" {
		parts = append(parts, "", voice)
	}

	parts = append(parts, "",
		r.styles.muted.Render("Last updated: "+format.LastUpdated(snap.Timestamp, opts.Location, neverUpdated)))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (r renderer) onlineGrid(c normalize.Collection[models.PresenceMember]) string {
	lines := []string{r.styles.heading.Render("Online Members")}

	if c.IsError() {
		return lipgloss.JoinVertical(lipgloss.Left, append(lines, r.styles.warning.Render("⚠ "+c.Sentinel.Message))...)
	}

	shown, hidden := format.CapOnline(c.Items)

	for _, m := range shown {
		dot := lipgloss.NewStyle().Foreground(statusColor(m.Status)).Render(statusGlyph)
		lines = append(lines, dot+" "+r.styles.text.Render(m.DisplayName))
	}

	if more := format.MoreOnline(hidden); more != "" {
		lines = append(lines, r.styles.muted.Render(more))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (r renderer) textChannels(c normalize.Collection[models.TextChannelActivity]) string {
	lines := []string{r.styles.heading.Render("Active Channels")}

	if c.IsError() {
		return lipgloss.JoinVertical(lipgloss.Left, append(lines, r.styles.warning.Render("⚠ "+c.Sentinel.Message))...)
	}

	for _, ch := range format.CapTextChannels(c.Items) {
		line := r.styles.label.Render("#" + ch.Name)
		if at := format.Clock(ch.LastMessageTime, r.opts.Location); at != "" {
			line += " " + r.styles.muted.Render(at)
		}

		lines = append(lines, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// voiceChannels renders nothing when no voice channel is occupied.
func (r renderer) voiceChannels(c normalize.Collection[models.VoiceChannelActivity]) string {
	if c.Len() == 0 && !c.IsError() {
		return ""
	}

	lines := []string{r.styles.heading.Render("Voice Channels")}

	if c.IsError() {
		return lipgloss.JoinVertical(lipgloss.Left, append(lines, r.styles.warning.Render("⚠ "+c.Sentinel.Message))...)
	}

	for _, vc := range c.Items {
		lines = append(lines, r.styles.label.Render("🔊 "+vc.Name)+" "+r.styles.success.Render(format.VoiceBadge(vc.MemberCount)))

		names := make([]string, 0, len(vc.Members))
		for _, p := range vc.Members {
			names = append(names, p.Name)
		}

		if len(names) > 0 {
			lines = append(lines, "  "+r.styles.muted.Render(strings.Join(names, ", ")))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
