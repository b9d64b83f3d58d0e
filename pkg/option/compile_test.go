// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package option

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cnserrors "github.com/ffprofile/profilemaker/pkg/errors"
)

// cookiesGroup mirrors the shape of the privacy group: a text passthrough,
// a contested preference and a choice.
func cookiesGroup(t *testing.T) *Group {
	t.Helper()
	g := &Group{
		ID:   "privacy",
		Name: "Privacy",
		Options: []Option{
			{Key: "useragent", Kind: KindText, Rule: Rule{Value: "general.useragent.override"}},
			{Key: "thirdparty_cookies", Kind: KindBoolean, Default: true,
				Rule: Rule{Set: map[string]any{"network.cookie.cookieBehavior": 1}}},
			{Key: "all_cookies", Kind: KindBoolean, Default: false,
				Rule: Rule{Set: map[string]any{"network.cookie.cookieBehavior": 2}}},
			{Key: "referer", Kind: KindChoice, Default: 0,
				Choices: []Choice{{Value: 0, Label: "Disable"}, {Value: 1}, {Value: 2}},
				Rule:    Rule{Value: "network.http.sendRefererHeader"}},
			{Key: "prefetch", Kind: KindBoolean, Default: true,
				Rule: Rule{Set: map[string]any{"network.prefetch-next": false, "network.dns.disablePrefetch": true}}},
		},
		Precedence: []Precedence{
			{Pref: "network.cookie.cookieBehavior", Order: []string{"all_cookies", "thirdparty_cookies"}},
		},
	}
	require.NoError(t, g.Normalize())
	return g
}

func addonsGroup(t *testing.T) *Group {
	t.Helper()
	g := &Group{
		ID: "addons",
		Options: []Option{
			{Key: "alpha", Kind: "checkbox", Default: true, Rule: Rule{Addon: "alpha.xpi"}},
			{Key: "beta", Kind: "bool", Default: true, Rule: Rule{Addon: "beta.xpi"}},
			{Key: "gamma", Kind: "boolean", Default: false, Rule: Rule{Addon: "gamma.xpi"}},
		},
		EmitOrder: []string{"gamma", "beta", "alpha"},
	}
	require.NoError(t, g.Normalize())
	return g
}

func TestCompilePrecedence(t *testing.T) {
	g := cookiesGroup(t)

	tests := []struct {
		name       string
		thirdparty bool
		all        bool
		want       any
		wantSet    bool
	}{
		{name: "both set, stronger wins", thirdparty: true, all: true, want: 2, wantSet: true},
		{name: "only all cookies", thirdparty: false, all: true, want: 2, wantSet: true},
		{name: "only thirdparty", thirdparty: true, all: false, want: 1, wantSet: true},
		{name: "neither", wantSet: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			overlay, _, err := Compile(g, Submission{
				"thirdparty_cookies": tt.thirdparty,
				"all_cookies":        tt.all,
			})
			require.NoError(t, err)

			got, ok := overlay["network.cookie.cookieBehavior"]
			assert.Equal(t, tt.wantSet, ok)
			if tt.wantSet {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestCompileDefaults(t *testing.T) {
	g := cookiesGroup(t)

	overlay, addons, err := Compile(g, g.DefaultSubmission())
	require.NoError(t, err)

	want := Overlay{
		"network.cookie.cookieBehavior":  1,
		"network.http.sendRefererHeader": 0,
		"network.prefetch-next":          false,
		"network.dns.disablePrefetch":    true,
	}
	if diff := cmp.Diff(want, overlay); diff != "" {
		t.Errorf("overlay mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, addons)
	assert.NotNil(t, addons)
}

func TestCompileTextPassthrough(t *testing.T) {
	g := cookiesGroup(t)

	tests := []struct {
		name    string
		ua      any
		want    string
		wantSet bool
	}{
		{name: "value emitted", ua: "Mozilla/5.0", want: "Mozilla/5.0", wantSet: true},
		{name: "whitespace trimmed", ua: "  Mozilla/5.0 ", want: "Mozilla/5.0", wantSet: true},
		{name: "blank keeps default", ua: "   ", wantSet: false},
		{name: "empty", ua: "", wantSet: false},
		{name: "nil is absent", ua: nil, wantSet: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			overlay, _, err := Compile(g, Submission{"useragent": tt.ua})
			require.NoError(t, err)
			got, ok := overlay["general.useragent.override"]
			assert.Equal(t, tt.wantSet, ok)
			if tt.wantSet {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestCompileChoiceTransports(t *testing.T) {
	g := cookiesGroup(t)

	for _, raw := range []any{2, int64(2), 2.0, "2", uint8(2)} {
		t.Run(fmt.Sprintf("%T", raw), func(t *testing.T) {
			overlay, _, err := Compile(g, Submission{"referer": raw})
			require.NoError(t, err)
			assert.Equal(t, 2, overlay["network.http.sendRefererHeader"])
		})
	}
}

func TestCompileFailClosed(t *testing.T) {
	g := cookiesGroup(t)

	tests := []struct {
		name       string
		submission Submission
		wantFaults []Fault
	}{
		{
			name:       "boolean given a string",
			submission: Submission{"all_cookies": "yes"},
			wantFaults: []Fault{{Key: "all_cookies", Reason: ReasonOutOfDomain}},
		},
		{
			name:       "choice outside declared values",
			submission: Submission{"referer": 7},
			wantFaults: []Fault{{Key: "referer", Reason: ReasonOutOfDomain}},
		},
		{
			name:       "non-integral choice",
			submission: Submission{"referer": 1.5},
			wantFaults: []Fault{{Key: "referer", Reason: ReasonOutOfDomain}},
		},
		{
			name:       "text given a number",
			submission: Submission{"useragent": 42, "prefetch": 1},
			wantFaults: []Fault{
				{Key: "useragent", Reason: ReasonOutOfDomain},
				{Key: "prefetch", Reason: ReasonOutOfDomain},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			overlay, addons, err := Compile(g, tt.submission)
			require.Error(t, err)
			assert.Empty(t, overlay)
			assert.Empty(t, addons)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, "privacy", verr.Group)
			assert.Equal(t, tt.wantFaults, verr.Faults)
		})
	}
}

func TestValidateRequired(t *testing.T) {
	g := &Group{
		ID: "identity",
		Options: []Option{
			{Key: "name", Kind: KindText, Required: true, Rule: Rule{Value: "identity.name"}},
			{Key: "enabled", Kind: KindBoolean, Required: true, Rule: Rule{Set: map[string]any{"identity.enabled": true}}},
		},
	}
	require.NoError(t, g.Normalize())

	_, err := Validate(g, Submission{"name": "  "})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"name", "enabled"}, verr.Keys())

	reason, ok := verr.Reason("enabled")
	assert.True(t, ok)
	assert.Equal(t, ReasonMissingRequired, reason)
	assert.Contains(t, err.Error(), "enabled (missing_required)")

	v, err := Validate(g, Submission{"name": "alice", "enabled": false, "unknown": 1})
	require.NoError(t, err)
	val, ok := v.Value("name")
	assert.True(t, ok)
	assert.Equal(t, "alice", val)
	assert.Same(t, g, v.Group())
}

func TestValidateNilGroup(t *testing.T) {
	_, err := Validate(nil, Submission{})
	require.Error(t, err)
	assert.True(t, cnserrors.HasCode(err, cnserrors.ErrCodeInvalidRequest))
}

func TestEmitNil(t *testing.T) {
	overlay, addons := Emit(nil)
	assert.NotNil(t, overlay)
	assert.NotNil(t, addons)
	assert.Empty(t, overlay)
	assert.Empty(t, addons)
}

func TestCompileAddonOrder(t *testing.T) {
	g := addonsGroup(t)

	// Map iteration order of the submission must not matter.
	for i := 0; i < 20; i++ {
		_, addons, err := Compile(g, Submission{"alpha": true, "beta": true, "gamma": true})
		require.NoError(t, err)
		assert.Equal(t, AddonList{"gamma.xpi", "beta.xpi", "alpha.xpi"}, addons)
	}

	_, addons, err := Compile(g, g.DefaultSubmission())
	require.NoError(t, err)
	assert.Equal(t, AddonList{"beta.xpi", "alpha.xpi"}, addons)
}

func TestCompileDeterministic(t *testing.T) {
	g := cookiesGroup(t)
	s := Submission{"useragent": "UA", "all_cookies": true, "referer": "1"}

	o1, a1, err1 := Compile(g, s)
	o2, a2, err2 := Compile(g, s)
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, o1, o2)
	assert.Equal(t, a1, a2)
}

func TestCompileConcurrent(t *testing.T) {
	g := cookiesGroup(t)
	want, _, err := Compile(g, g.DefaultSubmission())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, _, err := Compile(g, g.DefaultSubmission())
			assert.NoError(t, err)
			assert.Equal(t, want, got)
		}()
	}
	wg.Wait()
}

func TestGroupHelpers(t *testing.T) {
	g := cookiesGroup(t)

	assert.Equal(t, []string{"useragent", "thirdparty_cookies", "all_cookies", "referer", "prefetch"}, g.Keys())
	assert.Equal(t, []string{
		"general.useragent.override",
		"network.cookie.cookieBehavior",
		"network.dns.disablePrefetch",
		"network.http.sendRefererHeader",
		"network.prefetch-next",
	}, g.Prefs())

	o, ok := g.Option("referer")
	require.True(t, ok)
	assert.Equal(t, KindChoice, o.Kind)

	_, ok = g.Option("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"a", "b"}, Overlay{"b": 1, "a": true}.Keys())
}

func TestGroupClone(t *testing.T) {
	g := cookiesGroup(t)
	c := g.Clone()

	c.Options[1].Rule.Set["network.cookie.cookieBehavior"] = 5
	c.Options[3].Choices[0].Label = "changed"
	c.Precedence[0].Order[0] = "thirdparty_cookies"

	assert.Equal(t, 1, g.Options[1].Rule.Set["network.cookie.cookieBehavior"])
	assert.Equal(t, "Disable", g.Options[3].Choices[0].Label)
	assert.Equal(t, "all_cookies", g.Precedence[0].Order[0])
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{in: "boolean", want: KindBoolean},
		{in: "Checkbox", want: KindBoolean},
		{in: "string", want: KindText},
		{in: " text ", want: KindText},
		{in: "enum", want: KindChoice},
		{in: "select", want: KindChoice},
		{in: "number", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.IsValid())
		})
	}

	assert.Equal(t, []string{"boolean", "choice", "text"}, SupportedKinds())
}
