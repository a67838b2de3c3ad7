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
	"encoding/json"
	"strings"

	"github.com/carverauto/guilddash/pkg/normalize"
)

// PresenceStatus is a member's live presence.
type PresenceStatus string

const (
	StatusOnline  PresenceStatus = "online"
	StatusIdle    PresenceStatus = "idle"
	StatusDND     PresenceStatus = "dnd"
	StatusOffline PresenceStatus = "offline"
)

// ParsePresenceStatus maps a wire value to a status. Unknown values are offline.
func ParsePresenceStatus(s string) PresenceStatus {
	switch PresenceStatus(strings.ToLower(strings.TrimSpace(s))) {
	case StatusOnline:
		return StatusOnline
	case StatusIdle:
		return StatusIdle
	case StatusDND, "do_not_disturb":
		return StatusDND
	default:
		return StatusOffline
	}
}

// UnmarshalJSON accepts any string; see ParsePresenceStatus.
func (p *PresenceStatus) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	if s == nil {
		*p = StatusOffline

		return nil
	}

	*p = ParsePresenceStatus(*s)

	return nil
}

// RealtimeSnapshot is the live presence view of the server.
type RealtimeSnapshot struct {
	GuildName           string                                     `json:"guild_name" yaml:"guild_name"`
	Timestamp           Timestamp                                  `json:"timestamp" yaml:"timestamp"`
	OnlineMembers       normalize.Collection[PresenceMember]       `json:"online_members" yaml:"online_members"`
	ActiveTextChannels  normalize.Collection[TextChannelActivity]  `json:"active_text_channels" yaml:"active_text_channels"`
	ActiveVoiceChannels normalize.Collection[VoiceChannelActivity] `json:"active_voice_channels" yaml:"active_voice_channels"`
}

// PresenceMember is an online member.
type PresenceMember struct {
	ID          ID             `json:"id" yaml:"id"`
	DisplayName string         `json:"display_name" yaml:"display_name"`
	AvatarURL   string         `json:"avatar_url,omitempty" yaml:"avatar_url,omitempty"`
	Status      PresenceStatus `json:"status" yaml:"status"`
}

// TextChannelActivity is a text channel with recent messages.
type TextChannelActivity struct {
	ID              ID        `json:"id" yaml:"id"`
	Name            string    `json:"name" yaml:"name"`
	LastMessageTime Timestamp `json:"last_message_time" yaml:"last_message_time"`
}

// VoiceParticipant is a member connected to a voice channel.
type VoiceParticipant struct {
	ID   ID     `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// VoiceChannelActivity is an occupied voice channel.
type VoiceChannelActivity struct {
	ID          ID                 `json:"id" yaml:"id"`
	Name        string             `json:"name" yaml:"name"`
	MemberCount int                `json:"member_count" yaml:"member_count"`
	Members     []VoiceParticipant `json:"members" yaml:"members"`
}

// Health is the backend health report.
type Health struct {
	Status  string `json:"status" yaml:"status"`
	Version string `json:"version" yaml:"version"`
}

// Healthy reports whether the backend said it is healthy.
func (h Health) Healthy() bool {
	return strings.EqualFold(h.Status, "healthy") || strings.EqualFold(h.Status, "ok")
}
