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
	"strings"

	cnserrors "github.com/ffprofile/profilemaker/pkg/errors"
)

// ValidatedSubmission is a submission that passed Validate. It holds a typed
// value for every option of its group: the submitted one or the default.
// It can only be obtained from Validate.
type ValidatedSubmission struct {
	group  *Group
	values map[string]any
}

// Group returns the group the submission was validated against.
func (v *ValidatedSubmission) Group() *Group {
	return v.group
}

// Value returns the resolved value of the option under key.
func (v *ValidatedSubmission) Value(key string) (any, bool) {
	val, ok := v.values[key]
	return val, ok
}

// Validate checks s against the declarations of g. Every required option must
// be present and every present value must match its option's kind: a bool for
// boolean, a string for text, one of the declared choices for choice. Text is
// trimmed of surrounding whitespace. Keys g does not declare are ignored.
//
// All offending keys are reported together in a *ValidationError.
func Validate(g *Group, s Submission) (*ValidatedSubmission, error) {
	if g == nil {
		return nil, cnserrors.New(cnserrors.ErrCodeInvalidRequest, "option group cannot be nil")
	}

	values := make(map[string]any, len(g.Options))
	var faults []Fault

	for i := range g.Options {
		o := &g.Options[i]

		raw, present := s[o.Key]
		if present && raw == nil {
			present = false
		}

		if !present {
			if o.Required {
				faults = append(faults, Fault{Key: o.Key, Reason: ReasonMissingRequired})
				continue
			}
			values[o.Key] = o.Default
			continue
		}

		val, ok := o.coerce(raw)
		if !ok {
			faults = append(faults, Fault{Key: o.Key, Reason: ReasonOutOfDomain})
			continue
		}
		if o.Required && o.Kind == KindText && val == "" {
			faults = append(faults, Fault{Key: o.Key, Reason: ReasonMissingRequired})
			continue
		}
		values[o.Key] = val
	}

	if len(faults) > 0 {
		return nil, &ValidationError{Group: g.ID, Faults: faults}
	}

	return &ValidatedSubmission{group: g, values: values}, nil
}

// coerce maps a submitted value into the option's domain.
func (o *Option) coerce(raw any) (any, bool) {
	switch o.Kind {
	case KindBoolean:
		b, ok := raw.(bool)
		return b, ok
	case KindText:
		s, ok := raw.(string)
		if !ok {
			return nil, false
		}
		return strings.TrimSpace(s), true
	case KindChoice:
		return o.matchChoice(raw)
	default:
		return nil, false
	}
}

// matchChoice returns the declared literal of the choice equal to raw.
func (o *Option) matchChoice(raw any) (any, bool) {
	want, ok := canonical(raw)
	if !ok {
		return nil, false
	}
	for _, c := range o.Choices {
		if got, ok := canonical(c.Value); ok && got == want {
			return c.Value, true
		}
	}
	return nil, false
}
