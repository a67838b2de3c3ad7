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

package normalize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func rawList(t *testing.T, s string) []json.RawMessage {
	t.Helper()

	var items []json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(s), &items))

	return items
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Kind
	}{
		{name: "empty list", in: `[]`, want: Empty},
		{name: "single entry", in: `[{"id": 1, "name": "general"}]`, want: Data},
		{name: "many entries", in: `[{"id": 1}, {"id": 2}]`, want: Data},
		{name: "sentinel", in: `[{"error": "Missing permissions"}]`, want: ErrorSentinel},
		{name: "sentinel with count", in: `[{"error": "Missing permissions", "member_count": 42}]`, want: ErrorSentinel},
		{name: "null error is data", in: `[{"error": null, "id": 3}]`, want: Data},
		{name: "two elements with error are data", in: `[{"error": "x"}, {"error": "y"}]`, want: Data},
		{name: "scalar element", in: `["error"]`, want: Data},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Classify(rawList(t, tt.in))
			assert.Equal(t, tt.want, res.Kind)

			if tt.want == ErrorSentinel {
				require.NotNil(t, res.Sentinel)
				assert.Empty(t, res.Items)
			} else {
				assert.Nil(t, res.Sentinel)
			}
		})
	}
}

func TestClassify_SentinelFields(t *testing.T) {
	res := Classify(rawList(t, `[{"error": "Missing permissions", "member_count": 42}]`))

	require.Equal(t, ErrorSentinel, res.Kind)
	assert.Equal(t, "Missing permissions", res.Sentinel.Message)
	assert.Equal(t, "42", res.Sentinel.MemberCount)
	assert.True(t, res.Sentinel.HasMemberCount())
	assert.Contains(t, res.Sentinel.Context, "member_count")

	res = Classify(rawList(t, `[{"error": "no intents", "member_count": "unknown"}]`))
	assert.Equal(t, "unknown", res.Sentinel.MemberCount)

	res = Classify(rawList(t, `[{"error": "boom"}]`))
	assert.False(t, res.Sentinel.HasMemberCount())
}

func TestClassifyRaw(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Kind
		wantErr bool
	}{
		{name: "missing", in: ``, want: Empty},
		{name: "null", in: `null`, want: Empty},
		{name: "array", in: `[{"id": 1}]`, want: Data},
		{name: "bare error object", in: `{"error": "File not found: x.json"}`, want: ErrorSentinel},
		{name: "object without error", in: `{"id": 1}`, wantErr: true},
		{name: "string", in: `"nope"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ClassifyRaw(json.RawMessage(tt.in))
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Kind)
		})
	}
}

type entry struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func TestCollection_Unmarshal(t *testing.T) {
	var payload struct {
		Channels Collection[entry] `json:"channels"`
		Members  Collection[entry] `json:"members"`
		Events   Collection[entry] `json:"events"`
		Roles    Collection[entry] `json:"roles"`
	}

	body := `{
		"channels": [{"id": 1, "name": "general"}, {"id": 2, "name": "random"}],
		"members": [{"error": "Missing permissions", "member_count": 42}],
		"events": []
	}`

	require.NoError(t, json.Unmarshal([]byte(body), &payload))

	assert.Equal(t, Data, payload.Channels.Kind)
	assert.Equal(t, 2, payload.Channels.Len())
	assert.Equal(t, "random", payload.Channels.Items[1].Name)

	assert.True(t, payload.Members.IsError())
	assert.Equal(t, 0, payload.Members.Len())
	assert.Equal(t, "42", payload.Members.Sentinel.MemberCount)

	assert.Equal(t, Empty, payload.Events.Kind)
	assert.False(t, payload.Events.IsError())

	assert.Equal(t, Empty, payload.Roles.Kind)
}

func TestCollection_UnmarshalBadEntry(t *testing.T) {
	var c Collection[entry]

	err := json.Unmarshal([]byte(`[{"id": "not-a-number"}, {"id": 2}]`), &c)
	require.Error(t, err)
}

func TestCollection_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(Of(entry{ID: 1, Name: "a"}))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id": 1, "name": "a"}]`, string(out))

	out, err = json.Marshal(Collection[entry]{})
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(out))

	failed := Failed[entry]("Missing permissions")
	failed.Sentinel.MemberCount = "42"

	out, err = json.Marshal(failed)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"error": "Missing permissions", "member_count": 42}]`, string(out))

	failed.Sentinel.MemberCount = "unknown"

	out, err = json.Marshal(failed)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"error": "Missing permissions", "member_count": "unknown"}]`, string(out))
}

func TestCollection_SentinelKeepsWireTypes(t *testing.T) {
	wire := `[{"error": "Missing permissions", "member_count": 42, "retry": false}]`

	var c Collection[entry]
	require.NoError(t, json.Unmarshal([]byte(wire), &c))
	require.True(t, c.IsError())

	out, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, wire, string(out))

	y, err := yaml.Marshal(c)
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, yaml.Unmarshal(y, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, 42, decoded[0]["member_count"])
	assert.Equal(t, false, decoded[0]["retry"])
	assert.Equal(t, "Missing permissions", decoded[0]["error"])
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "empty", Empty.String())
	assert.Equal(t, "data", Data.String())
	assert.Equal(t, "error", ErrorSentinel.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
