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
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/guilddash/pkg/api"
	"github.com/carverauto/guilddash/pkg/config"
	"github.com/carverauto/guilddash/pkg/models"
	"github.com/carverauto/guilddash/pkg/normalize"
	"github.com/carverauto/guilddash/pkg/poller/pollertest"
)

var (
	epoch      = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	errNetwork = errors.New("connection refused")
)

func ts(s string) models.Timestamp {
	t, err := models.ParseTimestamp(s)
	if err != nil {
		panic(err)
	}

	return t
}

func fixtureSnapshot() *models.ServerSnapshot {
	return &models.ServerSnapshot{
		ServerID:   "175928847299117063",
		ServerName: "Coffee Chat Ventures",
		ExportTime: ts("2025-01-01T10:00:00Z"),
		Channels: normalize.Of(
			models.Channel{ID: "1", Name: "general", Type: "text", Category: &models.Category{Name: "Lobby"}},
			models.Channel{ID: "2", Name: "loose", Type: "voice"},
		),
		Roles: normalize.Of(
			models.Role{ID: "3", Name: "Admin", Color: "#FF0000", Mentionable: true},
			models.Role{ID: "4", Name: "everyone", Color: "#000000", Hoist: true},
		),
		Members: normalize.Of(
			models.Member{ID: "5", Name: "ada", DisplayName: "Ada L", JoinedAt: ts("2024-06-01T00:00:00Z"), Roles: []models.RoleRef{{Name: "Admin"}}},
			models.Member{ID: "6", Name: "helper", DisplayName: "Helper", Bot: true},
		),
		Events: normalize.Of(models.Event{
			ID:          "7",
			Name:        "Coffee Hour",
			Description: "<p>Bring a <b>mug</b> &amp; a story</p>",
			StartTime:   ts("2025-02-01T15:00:00Z"),
			Location:    "Voice Lounge",
			Status:      "scheduled",
		}),
	}
}

func fixtureRealtime(online int) *models.RealtimeSnapshot {
	members := make([]models.PresenceMember, 0, online)
	for i := 1; i <= online; i++ {
		members = append(members, models.PresenceMember{
			ID:          models.ID(fmt.Sprint(i)),
			DisplayName: fmt.Sprintf("member-%d", i),
			Status:      models.StatusOnline,
		})
	}

	return &models.RealtimeSnapshot{
		GuildName:     "Coffee Chat Ventures",
		Timestamp:     ts("2025-01-02T03:04:00Z"),
		OnlineMembers: normalize.Of(members...),
		ActiveTextChannels: normalize.Of(
			models.TextChannelActivity{Name: "general", LastMessageTime: ts("2025-01-02T02:59:00Z")},
			models.TextChannelActivity{Name: "random"},
			models.TextChannelActivity{Name: "intros"},
			models.TextChannelActivity{Name: "jobs"},
		),
		ActiveVoiceChannels: normalize.Of(models.VoiceChannelActivity{
			Name:        "Lounge",
			MemberCount: 1,
			Members:     []models.VoiceParticipant{{Name: "ada"}},
		}),
	}
}

// fakeBackend scripts the api client and counts calls per endpoint.
type fakeBackend struct {
	server      atomic.Pointer[models.ServerSnapshot]
	realtime    atomic.Pointer[models.RealtimeSnapshot]
	serverErr   atomic.Bool
	realtimeErr atomic.Bool
	serverCalls atomic.Int32
	rtCalls     atomic.Int32
}

func newFakeBackend(t *testing.T) (*fakeBackend, api.Client) {
	t.Helper()

	ctrl := gomock.NewController(t)
	client := api.NewMockClient(ctrl)
	fb := &fakeBackend{}
	fb.server.Store(fixtureSnapshot())
	fb.realtime.Store(fixtureRealtime(3))

	client.EXPECT().FetchServer(gomock.Any()).DoAndReturn(func(context.Context) (*models.ServerSnapshot, error) {
		fb.serverCalls.Add(1)

		if fb.serverErr.Load() {
			return nil, errNetwork
		}

		return fb.server.Load(), nil
	}).AnyTimes()

	client.EXPECT().FetchRealtime(gomock.Any()).DoAndReturn(func(context.Context) (*models.RealtimeSnapshot, error) {
		fb.rtCalls.Add(1)

		if fb.realtimeErr.Load() {
			return nil, errNetwork
		}

		return fb.realtime.Load(), nil
	}).AnyTimes()

	return fb, client
}

type harness struct {
	t       *testing.T
	m       *Model
	clock   *pollertest.Clock
	copied  []string
	copyErr error
	quit    bool
}

func newHarness(t *testing.T, client api.Client) *harness {
	t.Helper()

	h := &harness{t: t, clock: pollertest.NewClock(epoch)}

	m, err := New(Options{
		Client: client,
		Poll: config.PollConfig{
			SnapshotInterval: 5 * time.Minute,
			RealtimeInterval: time.Minute,
		},
		Location: time.UTC,
		Sidebar:  true,
		Clock:    h.clock,
		Clipboard: func(s string) error {
			if h.copyErr != nil {
				return h.copyErr
			}

			h.copied = append(h.copied, s)

			return nil
		},
	})
	require.NoError(t, err)

	h.m = m
	h.send(tea.WindowSizeMsg{Width: 160, Height: 400})
	h.run(m.Init())

	return h
}

func (h *harness) run(cmd tea.Cmd) {
	for _, msg := range pollertest.Run(cmd) {
		h.send(msg)
	}
}

func (h *harness) send(msg tea.Msg) {
	switch msg.(type) {
	case spinner.TickMsg:
		return
	case tea.QuitMsg:
		h.quit = true

		return
	}

	_, cmd := h.m.Update(msg)
	h.run(cmd)
}

// advance moves the clock to now+d one timer at a time, so timers re-armed
// by a tick fire again within the same span.
func (h *harness) advance(d time.Duration) {
	target := h.clock.Now().Add(d)

	for {
		next, ok := h.clock.Next()
		if !ok || next.After(target) {
			break
		}

		for _, msg := range h.clock.Advance(next.Sub(h.clock.Now())) {
			h.send(msg)
		}
	}

	h.clock.Advance(target.Sub(h.clock.Now()))
}

func (h *harness) press(keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg

		switch k {
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "shift+tab":
			msg = tea.KeyMsg{Type: tea.KeyShiftTab}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "ctrl+c":
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}

		h.send(msg)
	}
}

func (h *harness) view() string {
	return ansi.Strip(h.m.View())
}

func TestNewRequiresClient(t *testing.T) {
	_, err := New(Options{})
	require.ErrorIs(t, err, errClientRequired)
}

func TestNewRejectsBadPollConfig(t *testing.T) {
	_, client := newFakeBackend(t)

	_, err := New(Options{Client: client, Poll: config.PollConfig{SnapshotInterval: -time.Second}})
	require.Error(t, err)
}

func TestLoadingBeforeFirstResponse(t *testing.T) {
	_, client := newFakeBackend(t)

	m, err := New(Options{Client: client, Clock: pollertest.NewClock(epoch), Sidebar: true})
	require.NoError(t, err)

	// Activation marks both pollers loading before any request runs.
	_ = m.Init()

	view := ansi.Strip(m.View())
	assert.Contains(t, view, loadingServerText)
	assert.Contains(t, view, presenceLoadingText)
	assert.NotContains(t, view, "1 Summary")
	assert.Contains(t, view, "Data last updated: Unknown")
}

func TestInitialFetchShowsSummary(t *testing.T) {
	fb, client := newFakeBackend(t)
	h := newHarness(t, client)

	assert.Equal(t, int32(1), fb.serverCalls.Load())
	assert.Equal(t, int32(1), fb.rtCalls.Load())

	st := h.m.Snapshot()
	assert.False(t, st.Loading)
	assert.Empty(t, st.Err)
	require.True(t, st.HasData())

	view := h.view()
	assert.Contains(t, view, "1 Summary")
	assert.Contains(t, view, "5 Events")
	assert.Contains(t, view, "Server Details")
	assert.Contains(t, view, "ID: 175928847299117063")
	assert.Contains(t, view, "Created: 2016-04-30")
	assert.Contains(t, view, "Export Time: 2025-01-01 10:00:00")
	assert.Contains(t, view, "Channels: 2")
	assert.Contains(t, view, "Events: 1")
	assert.Contains(t, view, "Data last updated: 2025-01-01 10:00:00")
	assert.Equal(t, TabSummary, h.m.ActiveTab())
}

func TestSummaryCountsFailedCollectionsAsUnavailable(t *testing.T) {
	fb, client := newFakeBackend(t)

	snap := fixtureSnapshot()
	snap.Members = normalize.Failed[models.Member]("Members list unavailable")
	fb.server.Store(snap)

	h := newHarness(t, client)

	assert.Contains(t, h.view(), "Members: unavailable")
}

func TestTransportFailureShowsBannerWithoutTabs(t *testing.T) {
	fb, client := newFakeBackend(t)
	fb.serverErr.Store(true)

	h := newHarness(t, client)

	st := h.m.Snapshot()
	assert.False(t, st.Loading)
	assert.Equal(t, SnapshotFailureMessage, st.Err)
	assert.ErrorIs(t, st.Cause, errNetwork)

	view := h.view()
	assert.Contains(t, view, SnapshotFailureMessage)
	for i, tab := range Tabs {
		assert.NotContains(t, view, tabLabel(i, tab))
	}

	// The presence panel is independent of the snapshot failure.
	assert.Contains(t, view, "3 online")
}

func TestFailureAfterSuccessHidesStaleTabs(t *testing.T) {
	fb, client := newFakeBackend(t)
	h := newHarness(t, client)

	fb.serverErr.Store(true)
	h.advance(5 * time.Minute)

	st := h.m.Snapshot()
	assert.Equal(t, SnapshotFailureMessage, st.Err)
	assert.True(t, st.HasData(), "last snapshot is kept")
	assert.NotContains(t, h.view(), "Server Details")

	fb.serverErr.Store(false)
	h.advance(5 * time.Minute)

	assert.Empty(t, h.m.Snapshot().Err)
	assert.Contains(t, h.view(), "Server Details")
}

func TestMembersSentinelShowsCountOnly(t *testing.T) {
	fb, client := newFakeBackend(t)

	snap := fixtureSnapshot()
	snap.Members = normalize.Collection[models.Member]{
		Kind:     normalize.ErrorSentinel,
		Sentinel: &normalize.Sentinel{Message: "Members list unavailable", MemberCount: "42"},
	}
	fb.server.Store(snap)

	h := newHarness(t, client)
	h.press("4")

	view := h.view()
	assert.Contains(t, view, "Members list unavailable")
	assert.Contains(t, view, "Member Count: 42")
	assert.NotContains(t, view, "Display Name")
	assert.NotContains(t, view, "Joined At")
}

func TestMembersTable(t *testing.T) {
	_, client := newFakeBackend(t)
	h := newHarness(t, client)
	h.press("4")

	view := h.view()
	assert.Contains(t, view, "Members (2)")
	assert.Contains(t, view, "Display Name")
	assert.Contains(t, view, "Ada L")
	assert.Contains(t, view, "2024-06-01")
	assert.Contains(t, view, "Admin")
}

func TestEventsEmpty(t *testing.T) {
	fb, client := newFakeBackend(t)

	snap := fixtureSnapshot()
	snap.Events = normalize.Of[models.Event]()
	fb.server.Store(snap)

	h := newHarness(t, client)
	h.press("5")

	view := h.view()
	assert.Contains(t, view, "Events (0)")
	assert.Contains(t, view, noEventsText)
}

func TestEventCards(t *testing.T) {
	_, client := newFakeBackend(t)
	h := newHarness(t, client)
	h.press("5")

	view := h.view()
	assert.Contains(t, view, "Coffee Hour")
	assert.Contains(t, view, "Bring a mug & a story")
	assert.NotContains(t, view, "<b>")
	assert.Contains(t, view, "Start: 2025-02-01 15:00:00")
	assert.Contains(t, view, "End: N/A")
	assert.Contains(t, view, "Location: Voice Lounge")
	assert.Contains(t, view, "Status: scheduled")
}

func TestEventsSentinel(t *testing.T) {
	fb, client := newFakeBackend(t)

	snap := fixtureSnapshot()
	snap.Events = normalize.Failed[models.Event]("Events unavailable")
	fb.server.Store(snap)

	h := newHarness(t, client)
	h.press("5")

	view := h.view()
	assert.Contains(t, view, "Events unavailable")
	assert.NotContains(t, view, noEventsText)
}

func TestChannelsTable(t *testing.T) {
	_, client := newFakeBackend(t)
	h := newHarness(t, client)
	h.press("2")

	view := h.view()
	assert.Contains(t, view, "Channels (2)")
	assert.Contains(t, view, "Lobby")

	var loose string
	for _, line := range strings.Split(view, "\n") {
		if strings.Contains(line, "loose") {
			loose = line
		}
	}

	assert.Contains(t, loose, " - ", "missing category renders a dash")
}

func TestRoleSwatches(t *testing.T) {
	_, client := newFakeBackend(t)
	h := newHarness(t, client)
	h.press("3")

	view := h.view()
	assert.Contains(t, view, "Displayed Separately")
	assert.Contains(t, view, swatchGlyph+" #FF0000")
	assert.Contains(t, view, emptySwatchGlyph+" #000000")
}

func TestTabSwitchingIsIdempotent(t *testing.T) {
	_, client := newFakeBackend(t)
	h := newHarness(t, client)

	h.press("3")
	first := h.view()

	h.press("3")
	assert.Equal(t, TabRoles, h.m.ActiveTab())
	assert.Equal(t, first, h.view())

	h.press("1", "3")
	assert.Equal(t, first, h.view())
}

func TestTabNavigationWraps(t *testing.T) {
	_, client := newFakeBackend(t)
	h := newHarness(t, client)

	h.press("shift+tab")
	assert.Equal(t, TabEvents, h.m.ActiveTab())

	h.press("tab")
	assert.Equal(t, TabSummary, h.m.ActiveTab())

	h.press("right", "right")
	assert.Equal(t, TabRoles, h.m.ActiveTab())

	h.press("left")
	assert.Equal(t, TabChannels, h.m.ActiveTab())
}

func TestIndependentCadence(t *testing.T) {
	fb, client := newFakeBackend(t)
	h := newHarness(t, client)

	h.advance(time.Minute)
	assert.Equal(t, int32(2), fb.rtCalls.Load())
	assert.Equal(t, int32(1), fb.serverCalls.Load())

	h.advance(4 * time.Minute)
	assert.Equal(t, int32(6), fb.rtCalls.Load())
	assert.Equal(t, int32(2), fb.serverCalls.Load())
}

func TestRealtimeFailureKeepsSnapshot(t *testing.T) {
	fb, client := newFakeBackend(t)
	fb.realtimeErr.Store(true)

	h := newHarness(t, client)

	assert.Equal(t, RealtimeFailureMessage, h.m.Realtime().Err)

	// The sidebar wraps the message, so check the panel at its natural width.
	panel := ansi.Strip(RenderPresence(h.m.Realtime(), RenderOptions{Location: time.UTC}))
	assert.Contains(t, panel, RealtimeFailureMessage)

	view := h.view()
	assert.Contains(t, view, "Failed to load Discord data.")
	assert.Contains(t, view, "Server Details")
	assert.Empty(t, h.m.Snapshot().Err)
}

func TestQuitStopsPolling(t *testing.T) {
	fb, client := newFakeBackend(t)
	h := newHarness(t, client)

	h.press("q")
	assert.True(t, h.quit)

	h.advance(10 * time.Minute)
	assert.Equal(t, int32(1), fb.serverCalls.Load())
	assert.Equal(t, int32(1), fb.rtCalls.Load())
}

func TestRefreshIsRateLimited(t *testing.T) {
	fb, client := newFakeBackend(t)
	h := newHarness(t, client)

	h.press("r")
	assert.Equal(t, msgRefreshing, h.m.Status())
	assert.Equal(t, int32(2), fb.serverCalls.Load())
	assert.Equal(t, int32(2), fb.rtCalls.Load())

	h.press("r")
	assert.Equal(t, msgRefreshLimit, h.m.Status())
	assert.Equal(t, int32(2), fb.serverCalls.Load())

	h.clock.Advance(5 * time.Second)
	h.press("r")
	assert.Equal(t, int32(3), fb.serverCalls.Load())
}

func TestStatusMessageExpires(t *testing.T) {
	_, client := newFakeBackend(t)
	h := newHarness(t, client)

	h.press("r")
	assert.Equal(t, msgRefreshing, h.m.Status())
	assert.Contains(t, h.view(), msgRefreshing)

	h.advance(statusTTL)
	assert.Empty(t, h.m.Status())
	assert.NotContains(t, h.view(), msgRefreshing)

	// A newer status outlives the expiry of the one it replaced.
	h.press("c")
	h.advance(2 * time.Second)
	h.press("c")
	h.advance(time.Second)
	assert.Equal(t, msgCopied, h.m.Status())

	h.advance(2 * time.Second)
	assert.Empty(t, h.m.Status())
}

func TestCopyServerID(t *testing.T) {
	_, client := newFakeBackend(t)
	h := newHarness(t, client)

	h.press("c")
	assert.Equal(t, []string{"175928847299117063"}, h.copied)
	assert.Contains(t, h.view(), msgCopied)

	h.copyErr = errors.New("no clipboard")
	h.press("c")
	assert.Equal(t, msgCopyFailed, h.m.Status())
}

func TestCopyWithoutData(t *testing.T) {
	fb, client := newFakeBackend(t)
	fb.serverErr.Store(true)

	h := newHarness(t, client)
	h.press("c")

	assert.Empty(t, h.copied)
	assert.Equal(t, msgNothingCopy, h.m.Status())
}

func TestHelpToggle(t *testing.T) {
	_, client := newFakeBackend(t)
	h := newHarness(t, client)

	assert.NotContains(t, h.view(), "jump to tab")

	h.press("?")
	assert.Contains(t, h.view(), "jump to tab")
}

func TestNarrowTerminalStacksPresence(t *testing.T) {
	_, client := newFakeBackend(t)
	h := newHarness(t, client)

	h.send(tea.WindowSizeMsg{Width: 80, Height: 400})

	view := h.view()
	assert.Contains(t, view, "Server Details")
	assert.Contains(t, view, "3 online")
	assert.Less(t, strings.Index(view, "Server Details"), strings.Index(view, "3 online"))
}
