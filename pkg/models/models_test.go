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
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/guilddash/pkg/normalize"
)

const backendExport = `{
	"summary": {
		"server_id": 1187849712321769482,
		"server_name": "Carver Labs",
		"export_time": "2025-03-01T12:30:00.123456"
	},
	"channels": [
		{"id": 1187849712321769485, "name": "general", "type": "text", "position": 0, "category": {"id": 11, "name": "Text Channels"}},
		{"id": 1187849712321769486, "name": "Lounge", "type": "voice"}
	],
	"roles": [{"id": 1, "name": "admin", "color": "#FF0000", "mentionable": true, "hoist": false}],
	"members": [{"error": "Missing permissions", "member_count": 42}],
	"events": []
}`

func TestServerSnapshot_UnmarshalBackendShape(t *testing.T) {
	var s ServerSnapshot
	require.NoError(t, json.Unmarshal([]byte(backendExport), &s))

	assert.Equal(t, ID("1187849712321769482"), s.ServerID)
	assert.Equal(t, "Carver Labs", s.ServerName)
	assert.Equal(t, time.Date(2025, 3, 1, 12, 30, 0, 123456000, time.UTC), s.ExportTime.Time)

	require.Equal(t, normalize.Data, s.Channels.Kind)
	require.Equal(t, 2, s.Channels.Len())
	assert.Equal(t, ID("1187849712321769485"), s.Channels.Items[0].ID)
	require.NotNil(t, s.Channels.Items[0].Category)
	assert.Equal(t, "Text Channels", s.Channels.Items[0].Category.Name)
	assert.Nil(t, s.Channels.Items[1].Category)

	assert.Equal(t, "#FF0000", s.Roles.Items[0].Color)

	assert.True(t, s.Members.IsError())
	assert.Equal(t, "Missing permissions", s.Members.Sentinel.Message)
	assert.Equal(t, "42", s.Members.Sentinel.MemberCount)

	assert.Equal(t, normalize.Empty, s.Events.Kind)
	assert.False(t, s.Events.IsError())
}

func TestServerSnapshot_TopLevelFieldsWin(t *testing.T) {
	body := `{"server_id": "7", "server_name": "flat", "summary": {"server_id": 1, "server_name": "nested"}}`

	var s ServerSnapshot
	require.NoError(t, json.Unmarshal([]byte(body), &s))

	assert.Equal(t, ID("7"), s.ServerID)
	assert.Equal(t, "flat", s.ServerName)
	assert.True(t, s.ExportTime.IsZero())
	assert.Equal(t, normalize.Empty, s.Channels.Kind)
}

func TestServerSnapshot_NoExport(t *testing.T) {
	var s ServerSnapshot

	err := json.Unmarshal([]byte(`{"error": "No data available yet", "status": "waiting_for_data"}`), &s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoExport))
	assert.Contains(t, err.Error(), "waiting_for_data")
}

func TestServerSnapshot_BareErrorCollection(t *testing.T) {
	var s ServerSnapshot

	body := `{"server_name": "x", "events": {"error": "File not found: events.json"}}`
	require.NoError(t, json.Unmarshal([]byte(body), &s))

	assert.True(t, s.Events.IsError())
	assert.Equal(t, "File not found: events.json", s.Events.Sentinel.Message)
}

func TestServerSnapshot_BadCollection(t *testing.T) {
	var s ServerSnapshot

	err := json.Unmarshal([]byte(`{"roles": "nope"}`), &s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "roles")
}

func TestServerSnapshot_MarshalRoundTripsSentinel(t *testing.T) {
	var s ServerSnapshot
	require.NoError(t, json.Unmarshal([]byte(backendExport), &s))

	out, err := json.Marshal(s)
	require.NoError(t, err)

	var again ServerSnapshot
	require.NoError(t, json.Unmarshal(out, &again))

	assert.Equal(t, s.ServerID, again.ServerID)
	assert.True(t, again.Members.IsError())
	assert.Equal(t, "42", again.Members.Sentinel.MemberCount)
	assert.Equal(t, 2, again.Channels.Len())
}

func TestID_Unmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ID
	}{
		{name: "large number", in: `1187849712321769482`, want: "1187849712321769482"},
		{name: "string", in: `"42"`, want: "42"},
		{name: "null", in: `null`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id ID
			require.NoError(t, json.Unmarshal([]byte(tt.in), &id))
			assert.Equal(t, tt.want, id)
		})
	}

	var id ID
	require.Error(t, json.Unmarshal([]byte(`{}`), &id))
}

func TestID_CreatedAt(t *testing.T) {
	// 175928847299117063 is the example snowflake from the Discord docs.
	created, ok := ID("175928847299117063").CreatedAt()
	require.True(t, ok)
	assert.Equal(t, time.Date(2016, 4, 30, 11, 18, 25, 796000000, time.UTC), created)

	_, ok = ID("").CreatedAt()
	assert.False(t, ok)

	_, ok = ID("abc").CreatedAt()
	assert.False(t, ok)
}

func TestID_SnowflakeUsesDiscordEpoch(t *testing.T) {
	sf, ok := ID("175928847299117063").Snowflake()
	require.True(t, ok)

	assert.Equal(t, int64(discordEpochMillis), snowflake.Epoch)
	assert.Equal(t, int64(1462015105796), sf.Time())
	assert.Equal(t, int64(32), sf.Node())
	assert.Equal(t, int64(7), sf.Step())
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{in: "2025-03-01T12:30:00Z", want: time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)},
		{in: "2025-03-01T12:30:00+02:00", want: time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)},
		{in: "2025-03-01T12:30:00", want: time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)},
		{in: "2025-03-01 12:30:00.5", want: time.Date(2025, 3, 1, 12, 30, 0, 500000000, time.UTC)},
		{in: "2025-03-01", want: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			ts, err := ParseTimestamp(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(ts.Time), "got %s", ts.Time)
		})
	}

	ts, err := ParseTimestamp("  ")
	require.NoError(t, err)
	assert.True(t, ts.IsZero())

	_, err = ParseTimestamp("yesterday")
	assert.ErrorIs(t, err, ErrInvalidTimestamp)
}

func TestTimestamp_JSON(t *testing.T) {
	var v struct {
		At Timestamp `json:"at"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"at": null}`), &v))
	assert.True(t, v.At.IsZero())

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"at": null}`, string(out))

	require.Error(t, json.Unmarshal([]byte(`{"at": 12}`), &v))
}

func TestRealtimeSnapshot_Unmarshal(t *testing.T) {
	body := `{
		"guild_name": "Carver Labs",
		"timestamp": "2025-03-01T12:31:00Z",
		"online_members": [
			{"id": 1, "display_name": "ada", "avatar_url": "https://cdn/a.png", "status": "online"},
			{"id": 2, "display_name": "bob", "status": "dnd"},
			{"id": 3, "display_name": "cy", "status": "streaming"}
		],
		"active_text_channels": [{"error": "Missing Access"}],
		"active_voice_channels": [{"id": 9, "name": "Lounge", "member_count": 1, "members": [{"id": 1, "name": "ada"}]}]
	}`

	var r RealtimeSnapshot
	require.NoError(t, json.Unmarshal([]byte(body), &r))

	assert.Equal(t, "Carver Labs", r.GuildName)
	require.Equal(t, 3, r.OnlineMembers.Len())
	assert.Equal(t, StatusOnline, r.OnlineMembers.Items[0].Status)
	assert.Equal(t, StatusDND, r.OnlineMembers.Items[1].Status)
	assert.Equal(t, StatusOffline, r.OnlineMembers.Items[2].Status)
	assert.Empty(t, r.OnlineMembers.Items[1].AvatarURL)

	assert.True(t, r.ActiveTextChannels.IsError())

	require.Equal(t, 1, r.ActiveVoiceChannels.Len())
	assert.Equal(t, 1, r.ActiveVoiceChannels.Items[0].MemberCount)
	assert.Equal(t, "ada", r.ActiveVoiceChannels.Items[0].Members[0].Name)
}

func TestParsePresenceStatus(t *testing.T) {
	assert.Equal(t, StatusIdle, ParsePresenceStatus(" IDLE "))
	assert.Equal(t, StatusDND, ParsePresenceStatus("do_not_disturb"))
	assert.Equal(t, StatusOffline, ParsePresenceStatus("invisible"))
	assert.Equal(t, StatusOffline, ParsePresenceStatus(""))
}

func TestHealth_Healthy(t *testing.T) {
	assert.True(t, Health{Status: "ok", Version: "1.0.0"}.Healthy())
	assert.False(t, Health{Status: "degraded"}.Healthy())
}
