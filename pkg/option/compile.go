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

// Emit turns a validated submission into its preference overlay and add-on
// list. Options are evaluated in the group's emission order; a preference
// named in a Precedence entry is written only by the first active option of
// that entry's order. Emit never fails and has no side effects.
func Emit(v *ValidatedSubmission) (Overlay, AddonList) {
	overlay := Overlay{}
	addons := AddonList{}
	if v == nil || v.group == nil {
		return overlay, addons
	}

	g := v.group
	winners := g.resolvePrecedence(v.values)

	allowed := func(pref, key string) bool {
		w, contested := winners[pref]
		return !contested || w == key
	}

	for _, o := range g.emissionOrder() {
		val := v.values[o.Key]
		if !o.active(val) {
			continue
		}

		for pref, lit := range o.Rule.Set {
			if allowed(pref, o.Key) {
				overlay[pref] = lit
			}
		}

		if o.Rule.Value != "" && allowed(o.Rule.Value, o.Key) {
			overlay[o.Rule.Value] = val
		}

		if o.Rule.Addon != "" && o.Kind == KindBoolean {
			addons = append(addons, o.Rule.Addon)
		}
	}

	return overlay, addons
}

// resolvePrecedence returns, per contested preference, the key of the option
// allowed to emit it, or "" when none of the ordered options is active.
func (g *Group) resolvePrecedence(values map[string]any) map[string]string {
	if len(g.Precedence) == 0 {
		return nil
	}
	winners := make(map[string]string, len(g.Precedence))
	for _, p := range g.Precedence {
		winners[p.Pref] = ""
		for _, key := range p.Order {
			o, ok := g.Option(key)
			if ok && o.active(values[key]) {
				winners[p.Pref] = key
				break
			}
		}
	}
	return winners
}

// Compile validates s against g and emits the result. On a validation error
// the overlay and add-on list are empty, never partial.
func Compile(g *Group, s Submission) (Overlay, AddonList, error) {
	v, err := Validate(g, s)
	if err != nil {
		return Overlay{}, AddonList{}, err
	}
	overlay, addons := Emit(v)
	return overlay, addons, nil
}
