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

package profile

import (
	"github.com/ffprofile/profilemaker/pkg/header"
	"github.com/ffprofile/profilemaker/pkg/option"
)

// Profile is the merged result of compiling one or more option groups.
type Profile struct {
	header.Header `yaml:",inline"`

	// ID is derived from Prefs and Addons; equal results have equal IDs.
	ID string `json:"id" yaml:"id"`

	// Groups lists the compiled groups in merge order.
	Groups []string `json:"groups" yaml:"groups"`

	// Prefs is the merged preference overlay.
	Prefs option.Overlay `json:"prefs" yaml:"prefs"`

	// Addons is the concatenation of every group's add-on list in merge order.
	Addons option.AddonList `json:"addons" yaml:"addons"`

	// Sources maps each preference key to the group that set it.
	Sources map[string]string `json:"sources,omitempty" yaml:"sources,omitempty"`

	// Overrides records preference keys set by more than one group.
	Overrides []Override `json:"overrides,omitempty" yaml:"overrides,omitempty"`
}

// Override describes a preference replaced by a later group.
type Override struct {
	Pref       string `json:"pref" yaml:"pref"`
	Group      string `json:"group" yaml:"group"`
	Value      any    `json:"value" yaml:"value"`
	Overridden string `json:"overridden" yaml:"overridden"`
	Previous   any    `json:"previous" yaml:"previous"`
}

// Report is the outcome of validating submissions without merging them.
type Report struct {
	header.Header `yaml:",inline"`

	Valid  bool          `json:"valid" yaml:"valid"`
	Groups []GroupReport `json:"groups" yaml:"groups"`
}

// GroupReport is the validation outcome of one group.
type GroupReport struct {
	Group  string         `json:"group" yaml:"group"`
	Valid  bool           `json:"valid" yaml:"valid"`
	Faults []option.Fault `json:"faults,omitempty" yaml:"faults,omitempty"`
}
