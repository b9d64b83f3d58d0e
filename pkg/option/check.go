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
	"slices"
	"strings"

	cnserrors "github.com/ffprofile/profilemaker/pkg/errors"
)

// Normalize resolves kind aliases, converts decoded literals to bool, int or
// string, fills missing defaults and then runs Check. It mutates g and must
// be called before g is shared; afterwards the group is treated as read-only.
func (g *Group) Normalize() error {
	g.ID = strings.TrimSpace(g.ID)

	for i := range g.Options {
		o := &g.Options[i]
		o.Key = strings.TrimSpace(o.Key)

		kind, err := ParseKind(string(o.Kind))
		if err != nil {
			return declErr(g, o.Key, "invalid kind", err)
		}
		o.Kind = kind

		for j := range o.Choices {
			lit, err := normalizeLiteral(o.Choices[j].Value)
			if err != nil {
				return declErr(g, o.Key, "invalid choice value", err)
			}
			o.Choices[j].Value = lit
		}

		for pref, v := range o.Rule.Set {
			lit, err := normalizeLiteral(v)
			if err != nil {
				return declErr(g, o.Key, fmt.Sprintf("invalid literal for %q", pref), err)
			}
			o.Rule.Set[pref] = lit
		}

		if err := o.normalizeDefault(); err != nil {
			return declErr(g, o.Key, "invalid default", err)
		}
	}

	return g.Check()
}

func (o *Option) normalizeDefault() error {
	switch o.Kind {
	case KindBoolean:
		if o.Default == nil {
			o.Default = false
		}
	case KindText:
		if o.Default == nil {
			o.Default = ""
		}
	case KindChoice:
		if o.Default == nil {
			if len(o.Choices) == 0 {
				return fmt.Errorf("choice option declares no choices")
			}
			o.Default = o.Choices[0].Value
			return nil
		}
		lit, ok := o.matchChoice(o.Default)
		if !ok {
			return fmt.Errorf("default %v is not one of the declared choices", o.Default)
		}
		o.Default = lit
	}
	return nil
}

// Check verifies a group declaration without modifying it. Two options of the
// same group may emit the same preference only when a Precedence entry orders
// all of them.
func (g *Group) Check() error {
	if g.ID == "" {
		return cnserrors.New(cnserrors.ErrCodeInvalidRequest, "option group id cannot be empty")
	}
	if len(g.Options) == 0 {
		return declErr(g, "", "option group declares no options", nil)
	}

	seen := make(map[string]bool, len(g.Options))
	emitters := make(map[string][]string)

	for i := range g.Options {
		o := &g.Options[i]
		if o.Key == "" {
			return declErr(g, "", fmt.Sprintf("option #%d has an empty key", i), nil)
		}
		if seen[o.Key] {
			return declErr(g, o.Key, "duplicate option key", nil)
		}
		seen[o.Key] = true

		if err := o.check(); err != nil {
			return declErr(g, o.Key, "invalid option", err)
		}

		for _, pref := range o.Rule.Prefs() {
			emitters[pref] = append(emitters[pref], o.Key)
		}
	}

	if len(g.EmitOrder) > 0 {
		if len(g.EmitOrder) != len(g.Options) {
			return declErr(g, "", "emitOrder must list every option exactly once", nil)
		}
		listed := make(map[string]bool, len(g.EmitOrder))
		for _, key := range g.EmitOrder {
			if !seen[key] || listed[key] {
				return declErr(g, key, "emitOrder must list every option exactly once", nil)
			}
			listed[key] = true
		}
	}

	ordered := make(map[string][]string, len(g.Precedence))
	for _, p := range g.Precedence {
		if p.Pref == "" {
			return declErr(g, "", "precedence entry has an empty pref", nil)
		}
		if _, dup := ordered[p.Pref]; dup {
			return declErr(g, "", fmt.Sprintf("duplicate precedence entry for %q", p.Pref), nil)
		}
		if len(p.Order) < 2 {
			return declErr(g, "", fmt.Sprintf("precedence for %q must order at least two options", p.Pref), nil)
		}
		for i, key := range p.Order {
			if slices.Contains(p.Order[:i], key) {
				return declErr(g, key, fmt.Sprintf("option listed twice in precedence for %q", p.Pref), nil)
			}
			if !slices.Contains(emitters[p.Pref], key) {
				return declErr(g, key, fmt.Sprintf("option in precedence for %q does not emit it", p.Pref), nil)
			}
		}
		ordered[p.Pref] = p.Order
	}

	for pref, keys := range emitters {
		if len(keys) < 2 {
			continue
		}
		order, ok := ordered[pref]
		if !ok {
			return cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
				fmt.Sprintf("preference %q is emitted by several options without a precedence entry", pref),
				map[string]any{"group": g.ID, "options": keys})
		}
		for _, key := range keys {
			if !slices.Contains(order, key) {
				return declErr(g, key, fmt.Sprintf("option emits %q but is missing from its precedence order", pref), nil)
			}
		}
	}

	return nil
}

func (o *Option) check() error {
	if !o.Kind.IsValid() {
		return fmt.Errorf("invalid kind %q", o.Kind)
	}

	switch o.Kind {
	case KindBoolean:
		if _, ok := o.Default.(bool); !ok {
			return fmt.Errorf("boolean default must be a bool, got %T", o.Default)
		}
	case KindText:
		if _, ok := o.Default.(string); !ok {
			return fmt.Errorf("text default must be a string, got %T", o.Default)
		}
	case KindChoice:
		if len(o.Choices) == 0 {
			return fmt.Errorf("choice option declares no choices")
		}
		seen := make(map[string]bool, len(o.Choices))
		for _, c := range o.Choices {
			key, ok := canonical(c.Value)
			if !ok {
				return fmt.Errorf("unsupported choice value type %T", c.Value)
			}
			if seen[key] {
				return fmt.Errorf("duplicate choice value %v", c.Value)
			}
			seen[key] = true
		}
		if _, ok := o.matchChoice(o.Default); !ok {
			return fmt.Errorf("default %v is not one of the declared choices", o.Default)
		}
	}

	if o.Kind != KindChoice && len(o.Choices) > 0 {
		return fmt.Errorf("only choice options may declare choices")
	}

	for pref, v := range o.Rule.Set {
		if pref == "" || strings.TrimSpace(pref) != pref {
			return fmt.Errorf("invalid preference key %q", pref)
		}
		switch v.(type) {
		case bool, int, string:
		default:
			return fmt.Errorf("literal for %q must be bool, int or string, got %T", pref, v)
		}
	}
	if o.Rule.Value != "" && strings.TrimSpace(o.Rule.Value) != o.Rule.Value {
		return fmt.Errorf("invalid preference key %q", o.Rule.Value)
	}
	if o.Rule.Addon != "" && strings.TrimSpace(o.Rule.Addon) != o.Rule.Addon {
		return fmt.Errorf("invalid add-on identifier %q", o.Rule.Addon)
	}
	if o.Rule.Value != "" && o.Kind == KindBoolean {
		return fmt.Errorf("boolean options cannot emit their value; use set")
	}
	if o.Rule.Addon != "" && o.Kind != KindBoolean {
		return fmt.Errorf("only boolean options may emit an add-on")
	}

	return nil
}

func declErr(g *Group, key, msg string, cause error) error {
	ctx := map[string]any{"group": g.ID}
	if key != "" {
		ctx["option"] = key
	}
	return cnserrors.WrapWithContext(cnserrors.ErrCodeInvalidRequest,
		"invalid option group declaration: "+msg, cause, ctx)
}
