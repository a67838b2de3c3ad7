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

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/guilddash/pkg/logger"
	"github.com/carverauto/guilddash/pkg/models"
)

const allBody = `{
	"summary": {"server_id": 1187849712321769482, "server_name": "Carver Labs", "export_time": "2025-03-01T12:30:00"},
	"channels": [{"id": 1, "name": "general", "type": "text"}],
	"roles": [],
	"members": [{"error": "Missing permissions", "member_count": 42}],
	"events": []
}`

func newTestServer(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewHTTPClient(HTTPClientConfig{BaseURL: srv.URL, Logger: logger.NewTestLogger()})
	require.NoError(t, err)

	return c
}

func TestNewHTTPClient_Validation(t *testing.T) {
	_, err := NewHTTPClient(HTTPClientConfig{})
	require.ErrorIs(t, err, errBaseURLRequired)

	_, err = NewHTTPClient(HTTPClientConfig{BaseURL: "ftp://example.com"})
	require.ErrorIs(t, err, errBaseURLScheme)

	_, err = NewHTTPClient(HTTPClientConfig{BaseURL: "http://[::1"})
	require.Error(t, err)

	c, err := NewHTTPClient(HTTPClientConfig{BaseURL: DefaultBaseURL})
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestFetchServer(t *testing.T) {
	var seen *http.Request

	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		seen = r.Clone(context.Background())

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(allBody))
	})

	snap, err := c.FetchServer(context.Background())
	require.NoError(t, err)

	require.NotNil(t, seen)
	assert.Equal(t, http.MethodGet, seen.Method)
	assert.Equal(t, PathAll, seen.URL.Path)
	assert.Equal(t, "application/json", seen.Header.Get("Accept"))
	assert.Contains(t, seen.Header.Get("User-Agent"), "guilddash/")

	_, err = uuid.Parse(seen.Header.Get(headerRequestID))
	require.NoError(t, err, "each request carries a uuid request id")

	assert.Equal(t, models.ID("1187849712321769482"), snap.ServerID)
	assert.Equal(t, "Carver Labs", snap.ServerName)
	assert.Equal(t, 1, snap.Channels.Len())
	assert.True(t, snap.Members.IsError())
}

func TestFetchServer_BasePathPrefix(t *testing.T) {
	var gotPath string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"status": "ok", "version": "1.0.0"}`))
	}))
	t.Cleanup(srv.Close)

	c, err := NewHTTPClient(HTTPClientConfig{BaseURL: srv.URL + "/discord/"})
	require.NoError(t, err)

	h, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/discord/api/health", gotPath)
	assert.True(t, h.Healthy())
	assert.Equal(t, "1.0.0", h.Version)
}

func TestFetchServer_WaitingForData(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error": "No data available yet. Please wait for the initial export to complete.", "status": "waiting_for_data"}`))
	})

	_, err := c.FetchServer(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrNoExport)
}

func TestFetch_NonSuccessStatus(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	})

	_, err := c.FetchRealtime(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "upstream exploded")
}

func TestFetch_BadJSON(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	})

	_, err := c.FetchRealtime(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode")
}

func TestFetchRealtime(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathRealtime, r.URL.Path)
		_, _ = w.Write([]byte(`{
			"guild_name": "Carver Labs",
			"timestamp": "2025-03-01T12:31:00Z",
			"online_members": [{"id": 1, "display_name": "ada", "status": "idle"}],
			"active_text_channels": [],
			"active_voice_channels": [{"error": "Missing Access"}]
		}`))
	})

	rt, err := c.FetchRealtime(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Carver Labs", rt.GuildName)
	assert.Equal(t, models.StatusIdle, rt.OnlineMembers.Items[0].Status)
	assert.True(t, rt.ActiveVoiceChannels.IsError())
}

func TestFetch_ContextCancelled(t *testing.T) {
	release := make(chan struct{})

	c := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		<-release
		_, _ = w.Write([]byte(`{}`))
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Health(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
