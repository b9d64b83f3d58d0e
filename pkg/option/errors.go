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
	"strings"
)

// FaultReason classifies why a submitted value was rejected.
type FaultReason string

const (
	// ReasonMissingRequired marks a required option without a usable value.
	ReasonMissingRequired FaultReason = "missing_required"
	// ReasonOutOfDomain marks a value that does not fit the option's kind or choices.
	ReasonOutOfDomain FaultReason = "out_of_domain"
)

// Fault is one rejected option of a submission.
type Fault struct {
	Key    string      `json:"key" yaml:"key"`
	Reason FaultReason `json:"reason" yaml:"reason"`
}

// ValidationError is returned when a submission does not satisfy its group's
// declarations. Faults are listed in option display order.
type ValidationError struct {
	Group  string  `json:"group" yaml:"group"`
	Faults []Fault `json:"faults" yaml:"faults"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Faults))
	for i, f := range e.Faults {
		parts[i] = fmt.Sprintf("%s (%s)", f.Key, f.Reason)
	}
	return fmt.Sprintf("invalid submission for group %q: %s", e.Group, strings.Join(parts, ", "))
}

// Keys returns the offending option keys.
func (e *ValidationError) Keys() []string {
	keys := make([]string, len(e.Faults))
	for i, f := range e.Faults {
		keys[i] = f.Key
	}
	return keys
}

// Reason returns the fault reason recorded for key.
func (e *ValidationError) Reason(key string) (FaultReason, bool) {
	for _, f := range e.Faults {
		if f.Key == key {
			return f.Reason, true
		}
	}
	return "", false
}
