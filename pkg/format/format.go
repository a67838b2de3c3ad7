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

// Package format turns snapshot fields into display text. Every function is
// pure: output depends only on the arguments.
package format

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/carverauto/guilddash/pkg/models"
	"github.com/carverauto/guilddash/pkg/normalize"
)

const (
	DateTimeLayout = "2006-01-02 15:04:05"
	DateLayout     = "2006-01-02"
	ClockLayout    = "15:04"

	// NotAvailable stands in for an absent event time.
	NotAvailable = "N/A"
	// Dash stands in for an absent join date or category.
	Dash = "-"
	// Unavailable stands in for a count of a collection that failed to load.
	Unavailable = "unavailable"

	MaxOnlineShown       = 6
	MaxTextChannelsShown = 3

	// DefaultAvatarURL is used for members without an avatar.
	DefaultAvatarURL = "https://cdn.discordapp.com/embed/avatars/0.png"

	noColor = "#000000"
)

var (
	hexColor   = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	stripHTML  = bluemonday.StrictPolicy()
	titleCaser = cases.Title(language.English)
)

func inZone(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		return t.Local()
	}

	return t.In(loc)
}

// DateTime renders an event start or end time.
func DateTime(ts models.Timestamp, loc *time.Location) string {
	if ts.IsZero() {
		return NotAvailable
	}

	return inZone(ts.Time, loc).Format(DateTimeLayout)
}

// Date renders a member join date.
func Date(ts models.Timestamp, loc *time.Location) string {
	if ts.IsZero() {
		return Dash
	}

	return inZone(ts.Time, loc).Format(DateLayout)
}

// Clock renders the hour and minute of a channel's last message.
func Clock(ts models.Timestamp, loc *time.Location) string {
	if ts.IsZero() {
		return ""
	}

	return inZone(ts.Time, loc).Format(ClockLayout)
}

// LastUpdated renders a footer timestamp, or fallback when absent.
func LastUpdated(ts models.Timestamp, loc *time.Location, fallback string) string {
	if ts.IsZero() {
		return fallback
	}

	return inZone(ts.Time, loc).Format(DateTimeLayout)
}

// Swatch is the drawable form of a role color.
type Swatch struct {
	// Fill is the color to paint. Empty when Transparent.
	Fill        string
	Transparent bool
	// Label is the role color exactly as received.
	Label string
}

// RoleSwatch maps a role color to a swatch. Discord reports roles without a
// color as #000000, so that value is drawn transparent.
func RoleSwatch(color string) Swatch {
	c := strings.TrimSpace(color)
	if c == "" || strings.EqualFold(c, noColor) || !hexColor.MatchString(c) {
		return Swatch{Transparent: true, Label: color}
	}

	return Swatch{Fill: c, Label: color}
}

// Count renders the number of entries in a collection.
func Count[T any](c normalize.Collection[T]) string {
	if c.IsError() {
		return Unavailable
	}

	return strconv.Itoa(c.Len())
}

// SentinelMemberCount renders the member_count carried by a members sentinel.
func SentinelMemberCount(s *normalize.Sentinel) string {
	if !s.HasMemberCount() {
		return "unknown"
	}

	return s.MemberCount
}

// CapOnline returns the online members to draw and how many were left out.
func CapOnline[T any](items []T) ([]T, int) {
	if len(items) <= MaxOnlineShown {
		return items, 0
	}

	return items[:MaxOnlineShown], len(items) - MaxOnlineShown
}

// MoreOnline renders the overflow line under the online grid.
func MoreOnline(hidden int) string {
	if hidden <= 0 {
		return ""
	}

	return fmt.Sprintf("+%d more online", hidden)
}

// CapTextChannels returns the active text channels to draw.
func CapTextChannels[T any](items []T) []T {
	if len(items) <= MaxTextChannelsShown {
		return items
	}

	return items[:MaxTextChannelsShown]
}

// VoiceBadge renders the occupant count of a voice channel.
func VoiceBadge(n int) string {
	if n == 1 {
		return "1 user"
	}

	return fmt.Sprintf("%d users", n)
}

func YesNo(b bool) string {
	if b {
		return "Yes"
	}

	return "No"
}

// TabLabel title-cases a tab name.
func TabLabel(name string) string {
	return titleCaser.String(name)
}

// CategoryName renders a channel's parent category.
func CategoryName(c *models.Category) string {
	if c == nil || strings.TrimSpace(c.Name) == "" {
		return Dash
	}

	return c.Name
}

// Description strips markup from an event description and wraps it to width.
// A width below one disables wrapping.
func Description(s string, width int) string {
	clean := html.UnescapeString(stripHTML.Sanitize(s))
	clean = strings.TrimSpace(clean)

	if width < 1 {
		return clean
	}

	return wordwrap.String(clean, width)
}

// MemberName prefers the display name.
func MemberName(displayName, name string) string {
	if strings.TrimSpace(displayName) != "" {
		return displayName
	}

	return name
}
