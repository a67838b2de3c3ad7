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
	"errors"
	"fmt"
)

var errUnknownTab = errors.New("unknown tab")

// Tab selects which section of the server snapshot is shown.
type Tab int

const (
	TabSummary Tab = iota
	TabChannels
	TabRoles
	TabMembers
	TabEvents
)

// Tabs lists every tab in display order.
var Tabs = []Tab{TabSummary, TabChannels, TabRoles, TabMembers, TabEvents}

var tabNames = map[Tab]string{
	TabSummary:  "summary",
	TabChannels: "channels",
	TabRoles:    "roles",
	TabMembers:  "members",
	TabEvents:   "events",
}

func (t Tab) String() string {
	if name, ok := tabNames[t]; ok {
		return name
	}

	return fmt.Sprintf("tab(%d)", int(t))
}

// ParseTab maps a tab name to a Tab.
func ParseTab(name string) (Tab, error) {
	for t, n := range tabNames {
		if n == name {
			return t, nil
		}
	}

	return TabSummary, fmt.Errorf("%w: %q", errUnknownTab, name)
}

// ViewState is the tab selection. The zero value shows the summary.
type ViewState struct {
	active Tab
}

func (v ViewState) Active() Tab {
	return v.active
}

// Select makes t the active tab. Out-of-range values fall back to summary.
func (v *ViewState) Select(t Tab) {
	if _, ok := tabNames[t]; !ok {
		t = TabSummary
	}

	v.active = t
}

// Next moves right, wrapping around.
func (v *ViewState) Next() {
	v.active = Tabs[(int(v.active)+1)%len(Tabs)]
}

// Prev moves left, wrapping around.
func (v *ViewState) Prev() {
	v.active = Tabs[(int(v.active)-1+len(Tabs))%len(Tabs)]
}
