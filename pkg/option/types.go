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
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"
)

// Kind is the value type of an Option.
type Kind string

// Kind constants for supported option value types.
const (
	KindBoolean Kind = "boolean"
	KindText    Kind = "text"
	KindChoice  Kind = "choice"
)

// ParseKind parses a kind name, accepting the form-field aliases used in
// declaration files (checkbox, string, select, enum).
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "boolean", "bool", "checkbox":
		return KindBoolean, nil
	case "text", "string":
		return KindText, nil
	case "choice", "enum", "select":
		return KindChoice, nil
	default:
		return "", fmt.Errorf("invalid option kind: %q", s)
	}
}

// IsValid reports whether k is a known kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindBoolean, KindText, KindChoice:
		return true
	default:
		return false
	}
}

// String returns the string representation of the Kind.
func (k Kind) String() string {
	return string(k)
}

// SupportedKinds returns all supported kinds sorted alphabetically.
func SupportedKinds() []string {
	return []string{string(KindBoolean), string(KindChoice), string(KindText)}
}

// Display holds presentation-only metadata. The compiler never reads it.
type Display struct {
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
	Help  string `json:"help,omitempty" yaml:"help,omitempty"`
}

// Choice is one permitted value of a choice option.
type Choice struct {
	Value any    `json:"value" yaml:"value"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// Rule declares what an option emits once its value is validated.
//
// Set entries are emitted when the option is active: a boolean that is true,
// a text that is non-empty, or any choice. Value names a preference that
// receives the submitted value itself. Addon is appended to the add-on list
// when a boolean option is true.
type Rule struct {
	Set   map[string]any `json:"set,omitempty" yaml:"set,omitempty"`
	Value string         `json:"value,omitempty" yaml:"value,omitempty"`
	Addon string         `json:"addon,omitempty" yaml:"addon,omitempty"`
}

// IsEmpty reports whether the rule emits nothing.
func (r Rule) IsEmpty() bool {
	return len(r.Set) == 0 && r.Value == "" && r.Addon == ""
}

// Prefs returns the preference keys the rule can emit, sorted.
func (r Rule) Prefs() []string {
	prefs := make([]string, 0, len(r.Set)+1)
	for k := range r.Set {
		prefs = append(prefs, k)
	}
	if r.Value != "" {
		if _, dup := r.Set[r.Value]; !dup {
			prefs = append(prefs, r.Value)
		}
	}
	sort.Strings(prefs)
	return prefs
}

// Option is one user-configurable toggle, text field or choice.
type Option struct {
	Key      string   `json:"key" yaml:"key"`
	Kind     Kind     `json:"kind" yaml:"kind"`
	Default  any      `json:"default,omitempty" yaml:"default,omitempty"`
	Required bool     `json:"required,omitempty" yaml:"required,omitempty"`
	Choices  []Choice `json:"choices,omitempty" yaml:"choices,omitempty"`
	Rule     Rule     `json:"emit" yaml:"emit"`

	Display `yaml:",inline"`
}

// active reports whether a resolved value triggers the option's rule.
func (o *Option) active(v any) bool {
	switch o.Kind {
	case KindBoolean:
		b, _ := v.(bool)
		return b
	case KindText:
		s, _ := v.(string)
		return s != ""
	case KindChoice:
		return true
	default:
		return false
	}
}

// Precedence orders the options of one group that govern the same preference.
// The first active option in Order emits Pref; the others are suppressed for it.
type Precedence struct {
	Pref  string   `json:"pref" yaml:"pref"`
	Order []string `json:"order" yaml:"order"`
}

// Group is a named, ordered collection of options compiled together.
// Options are in display order; EmitOrder, when set, overrides the order in
// which options are evaluated and add-ons are appended.
type Group struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Options     []Option     `json:"options" yaml:"options"`
	EmitOrder   []string     `json:"emitOrder,omitempty" yaml:"emitOrder,omitempty"`
	Precedence  []Precedence `json:"precedence,omitempty" yaml:"precedence,omitempty"`
}

// Option returns the option declared under key.
func (g *Group) Option(key string) (*Option, bool) {
	for i := range g.Options {
		if g.Options[i].Key == key {
			return &g.Options[i], true
		}
	}
	return nil, false
}

// Keys returns the option keys in display order.
func (g *Group) Keys() []string {
	keys := make([]string, len(g.Options))
	for i := range g.Options {
		keys[i] = g.Options[i].Key
	}
	return keys
}

// DefaultSubmission returns a submission holding every option's default.
func (g *Group) DefaultSubmission() Submission {
	s := make(Submission, len(g.Options))
	for i := range g.Options {
		s[g.Options[i].Key] = g.Options[i].Default
	}
	return s
}

// Prefs returns every preference key the group can emit, sorted and de-duplicated.
func (g *Group) Prefs() []string {
	seen := make(map[string]bool)
	var prefs []string
	for i := range g.Options {
		for _, p := range g.Options[i].Rule.Prefs() {
			if !seen[p] {
				seen[p] = true
				prefs = append(prefs, p)
			}
		}
	}
	sort.Strings(prefs)
	return prefs
}

// Clone returns a deep copy of the group declaration.
func (g *Group) Clone() *Group {
	c := *g
	c.Options = make([]Option, len(g.Options))
	for i, o := range g.Options {
		o.Choices = slices.Clone(o.Choices)
		o.Rule.Set = maps.Clone(o.Rule.Set)
		c.Options[i] = o
	}
	c.EmitOrder = slices.Clone(g.EmitOrder)
	c.Precedence = make([]Precedence, len(g.Precedence))
	for i, p := range g.Precedence {
		c.Precedence[i] = Precedence{Pref: p.Pref, Order: slices.Clone(p.Order)}
	}
	return &c
}

// emissionOrder returns the options in the order their rules are evaluated.
func (g *Group) emissionOrder() []*Option {
	out := make([]*Option, 0, len(g.Options))
	if len(g.EmitOrder) == 0 {
		for i := range g.Options {
			out = append(out, &g.Options[i])
		}
		return out
	}
	for _, key := range g.EmitOrder {
		if o, ok := g.Option(key); ok {
			out = append(out, o)
		}
	}
	return out
}

// Submission holds caller-supplied values for one group, keyed by option key.
// A missing key or a nil value means the option was not submitted.
type Submission map[string]any

// Overlay maps preference keys to literal values (bool, int or string).
type Overlay map[string]any

// Keys returns the overlay keys sorted.
func (o Overlay) Keys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AddonList is an ordered list of add-on identifiers. Duplicates are allowed.
type AddonList []string
