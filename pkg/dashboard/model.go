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

// Package dashboard is the terminal view of the community server: a tabbed
// snapshot browser fed by one poller and a presence panel fed by another.
package dashboard

import (
	"errors"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/carverauto/guilddash/pkg/api"
	"github.com/carverauto/guilddash/pkg/config"
	"github.com/carverauto/guilddash/pkg/format"
	"github.com/carverauto/guilddash/pkg/logger"
	"github.com/carverauto/guilddash/pkg/models"
	"github.com/carverauto/guilddash/pkg/poller"
)

const (
	SnapshotFailureMessage = "Failed to load server data. Please try again later."
	RealtimeFailureMessage = "Failed to load Discord data. Please try again later."

	snapshotPollerName = "snapshot"
	realtimePollerName = "realtime"

	appTitle          = "Discord Server Information"
	loadingServerText = "Loading server data..."
	unknownUpdate     = "Unknown"

	sidebarWidth    = 38
	sidebarMinWidth = 100

	msgCopied       = "Server ID copied to clipboard!"
	msgCopyFailed   = "Failed to copy to clipboard"
	msgNothingCopy  = "No server ID to copy yet"
	msgRefreshing   = "Refreshing..."
	msgRefreshLimit = "Refresh is rate limited, try again in a moment"

	statusTTL = 3 * time.Second
)

var errClientRequired = errors.New("dashboard requires an api client")

// statusExpiredMsg clears the footer status set with the same seq.
type statusExpiredMsg struct {
	seq uint64
}

// Options configures a Model.
type Options struct {
	Client api.Client
	Poll   config.PollConfig
	// RequestTimeout bounds each poll. Zero leaves it to the client.
	RequestTimeout time.Duration
	// Location is the zone timestamps are shown in. Nil means local.
	Location *time.Location
	// Sidebar shows the presence panel beside the tabs on wide terminals.
	Sidebar bool
	// Clock drives both pollers. Nil uses real time.
	Clock  poller.Clock
	Logger logger.Logger
	// Clipboard writes the copied server ID. Nil uses the system clipboard.
	Clipboard     func(string) error
	PollerOptions []poller.Option
}

// Model is the bubbletea model of the dashboard.
type Model struct {
	snapshot *poller.Poller[models.ServerSnapshot]
	realtime *poller.Poller[models.RealtimeSnapshot]

	view     ViewState
	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	viewport viewport.Model
	styles   styles

	loc       *time.Location
	clock     poller.Clock
	sidebar   bool
	clipboard func(string) error
	logger    zerolog.Logger

	width     int
	height    int
	ready     bool
	status    string
	statusSeq uint64
}

// New builds an inactive dashboard. Init starts polling.
func New(opts Options) (*Model, error) {
	if opts.Client == nil {
		return nil, errClientRequired
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewTestLogger()
	}

	snap, err := poller.New[models.ServerSnapshot](poller.Config{
		Name:            snapshotPollerName,
		Interval:        opts.Poll.SnapshotInterval,
		FailureMessage:  SnapshotFailureMessage,
		Overlap:         opts.Poll.Overlap,
		RefreshCooldown: opts.Poll.RefreshCooldown,
		Timeout:         opts.RequestTimeout,
	}, opts.Client.FetchServer, opts.Clock, log, opts.PollerOptions...)
	if err != nil {
		return nil, err
	}

	rt, err := poller.New[models.RealtimeSnapshot](poller.Config{
		Name:            realtimePollerName,
		Interval:        opts.Poll.RealtimeInterval,
		FailureMessage:  RealtimeFailureMessage,
		Overlap:         opts.Poll.Overlap,
		RefreshCooldown: opts.Poll.RefreshCooldown,
		Timeout:         opts.RequestTimeout,
	}, opts.Client.FetchRealtime, opts.Clock, log, opts.PollerOptions...)
	if err != nil {
		return nil, err
	}

	spin := spinner.New()
	spin.Spinner = spinner.MiniDot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(draculaPink))

	copyFn := opts.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	return &Model{
		snapshot:  snap,
		realtime:  rt,
		keys:      newKeyMap(),
		help:      help.New(),
		spinner:   spin,
		viewport:  viewport.New(0, 0),
		styles:    newStyles(),
		loc:       loc,
		clock:     opts.Clock,
		sidebar:   opts.Sidebar,
		clipboard: copyFn,
		logger:    log.WithComponent("dashboard"),
	}, nil
}

// Snapshot returns the server snapshot poller state.
func (m *Model) Snapshot() poller.State[models.ServerSnapshot] {
	return m.snapshot.State()
}

// Realtime returns the presence poller state.
func (m *Model) Realtime() poller.State[models.RealtimeSnapshot] {
	return m.realtime.State()
}

func (m *Model) ActiveTab() Tab {
	return m.view.Active()
}

// Status is the transient message shown in the footer.
func (m *Model) Status() string {
	return m.status
}

// Stop deactivates both pollers. Results still in flight are discarded.
func (m *Model) Stop() {
	m.snapshot.Deactivate()
	m.realtime.Deactivate()
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.snapshot.Activate(), m.realtime.Activate())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width
	case tea.KeyMsg:
		cmd = m.handleKeyMsg(msg)
	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
	case statusExpiredMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
	default:
		cmd = tea.Batch(m.snapshot.Update(msg), m.realtime.Update(msg))
	}

	m.layout()

	return m, cmd
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	if tab, ok := m.keys.tabFor(msg); ok {
		m.selectTab(func(v *ViewState) { v.Select(tab) })

		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Next):
		m.selectTab((*ViewState).Next)
	case key.Matches(msg, m.keys.Prev):
		m.selectTab((*ViewState).Prev)
	case key.Matches(msg, m.keys.Refresh):
		return m.refresh()
	case key.Matches(msg, m.keys.Copy):
		return m.copyServerID()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up, m.keys.Down):
		var cmd tea.Cmd

		m.viewport, cmd = m.viewport.Update(msg)

		return cmd
	}

	return nil
}

func (m *Model) quit() tea.Cmd {
	m.Stop()

	return tea.Quit
}

func (m *Model) selectTab(move func(*ViewState)) {
	before := m.view.Active()
	move(&m.view)

	if m.view.Active() != before {
		m.viewport.GotoTop()
		m.logger.Debug().Str("tab", m.view.Active().String()).Msg("Switched tab")
	}
}

func (m *Model) refresh() tea.Cmd {
	snapCmd, snapOK := m.snapshot.Refresh()
	rtCmd, rtOK := m.realtime.Refresh()

	if !snapOK && !rtOK {
		return m.setStatus(msgRefreshLimit)
	}

	return tea.Batch(snapCmd, rtCmd, m.setStatus(msgRefreshing))
}

func (m *Model) copyServerID() tea.Cmd {
	st := m.snapshot.State()
	if !st.HasData() || st.Data.ServerID == "" {
		return m.setStatus(msgNothingCopy)
	}

	if err := m.clipboard(st.Data.ServerID.String()); err != nil {
		m.logger.Warn().Err(err).Msg("Clipboard write failed")

		return m.setStatus(msgCopyFailed)
	}

	return m.setStatus(msgCopied)
}

// setStatus shows s in the footer until statusTTL passes or another status
// replaces it.
func (m *Model) setStatus(s string) tea.Cmd {
	m.status = s
	m.statusSeq++

	seq := m.statusSeq
	expire := func(time.Time) tea.Msg { return statusExpiredMsg{seq: seq} }

	if m.clock == nil {
		return tea.Tick(statusTTL, expire)
	}

	return m.clock.After(statusTTL, expire)
}

func (m *Model) showSidebar() bool {
	return m.sidebar && m.ready && m.width >= sidebarMinWidth
}

func (m *Model) mainWidth() int {
	if m.showSidebar() {
		return m.width - sidebarWidth - 1
	}

	return m.width
}

func (m *Model) renderOptions() RenderOptions {
	return RenderOptions{Location: m.loc, Width: m.mainWidth()}
}

// layout sizes the viewport and loads the active tab into it.
func (m *Model) layout() {
	if !m.ready {
		return
	}

	m.viewport.Width = m.mainWidth()

	chrome := lipgloss.Height(m.header()) + lipgloss.Height(m.tabBar()) + lipgloss.Height(m.footer())
	if m.sidebar && !m.showSidebar() {
		chrome += lipgloss.Height(m.presence())
	}

	m.viewport.Height = max(m.height-chrome, 1)
	m.viewport.SetContent(RenderTab(m.view.Active(), m.snapshot.State().Data, m.renderOptions()))
}

func (m *Model) View() string {
	main := m.mainView()

	switch {
	case m.showSidebar():
		main = lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(m.mainWidth()).Render(main),
			" ",
			m.presence(),
		)
	case m.sidebar:
		main = lipgloss.JoinVertical(lipgloss.Left, main, m.presence())
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.header(), main, m.footer())
}

// mainView applies the page precedence: loading, then error, then content.
func (m *Model) mainView() string {
	st := m.snapshot.State()

	switch {
	case st.Loading:
		return m.spinner.View() + " " + m.styles.muted.Render(loadingServerText)
	case st.Err != "":
		return m.styles.errorBanner.Render(st.Err)
	}

	body := m.viewport.View()
	if !m.ready {
		body = RenderTab(m.view.Active(), st.Data, m.renderOptions())
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.tabBar(), body)
}

func (m *Model) header() string {
	title := m.styles.title.Render(appTitle)

	if st := m.snapshot.State(); st.HasData() && st.Data.ServerName != "" {
		title += " " + m.styles.subtitle.Render("· "+st.Data.ServerName)
	}

	return title + "\n"
}

func (m *Model) tabBar() string {
	tabs := make([]string, 0, len(Tabs))

	for i, t := range Tabs {
		label := tabLabel(i, t)
		if t == m.view.Active() {
			tabs = append(tabs, m.styles.activeTab.Render(label))
		} else {
			tabs = append(tabs, m.styles.tab.Render(label))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n"
}

func tabLabel(i int, t Tab) string {
	return string(rune('1'+i)) + " " + format.TabLabel(t.String())
}

func (m *Model) presence() string {
	panel := m.styles.panel
	if m.showSidebar() {
		panel = panel.Width(sidebarWidth - 2)
	}

	return panel.Render(RenderPresence(m.realtime.State(), RenderOptions{Location: m.loc, Width: sidebarWidth - 4}))
}

func (m *Model) footer() string {
	updated := unknownUpdate
	if st := m.snapshot.State(); st.HasData() {
		updated = format.LastUpdated(st.Data.ExportTime, m.loc, unknownUpdate)
	}

	lines := []string{"", m.styles.muted.Render("Data last updated: " + updated)}

	if m.status != "" {
		style := m.styles.success
		if m.status == msgCopyFailed || m.status == msgRefreshLimit {
			style = m.styles.warning
		}

		lines = append(lines, style.Render(m.status))
	}

	lines = append(lines, m.help.View(m.keys))

	return strings.Join(lines, "\n")
}
