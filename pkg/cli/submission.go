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

package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ffprofile/profilemaker/pkg/catalog"
	"github.com/ffprofile/profilemaker/pkg/errors"
	"github.com/ffprofile/profilemaker/pkg/option"
	"github.com/ffprofile/profilemaker/pkg/serializer"
)

// SubmissionFile is the on-disk form of a set of group submissions.
type SubmissionFile struct {
	Groups map[string]option.Submission `json:"groups" yaml:"groups"`
}

// loadSubmissions reads the submission file at path (if any) and applies the
// --set assignments on top of it.
func loadSubmissions(cat *catalog.Catalog, path string, sets []string) (map[string]option.Submission, error) {
	subs := make(map[string]option.Submission)

	if path != "" {
		f, err := serializer.FromFile[SubmissionFile](path)
		if err != nil {
			return nil, fmt.Errorf("failed to load submission from %q: %w", path, err)
		}
		for id, s := range f.Groups {
			if s == nil {
				s = option.Submission{}
			}
			subs[id] = s
		}
	}

	for _, assignment := range sets {
		id, key, value, err := applySet(cat, assignment)
		if err != nil {
			return nil, err
		}
		if subs[id] == nil {
			subs[id] = option.Submission{}
		}
		subs[id][key] = value
	}

	if err := checkKeys(cat, subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// applySet parses group.option=value and converts value by the option's kind.
// Booleans that do not parse are kept as strings so validation reports them.
func applySet(cat *catalog.Catalog, assignment string) (string, string, any, error) {
	path, raw, ok := strings.Cut(assignment, "=")
	if !ok {
		return "", "", nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"invalid --set value, expected group.option=value", map[string]any{"set": assignment})
	}
	id, key, ok := strings.Cut(strings.TrimSpace(path), ".")
	if !ok || id == "" || key == "" {
		return "", "", nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"invalid --set key, expected group.option", map[string]any{"set": assignment})
	}

	g, found := cat.Group(id)
	if !found {
		return "", "", nil, errors.NewWithContext(errors.ErrCodeNotFound,
			fmt.Sprintf("unknown option group %q", id), map[string]any{"available": cat.IDs()})
	}
	o, found := g.Option(key)
	if !found {
		return "", "", nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("unknown option %q in group %q", key, id), map[string]any{"options": g.Keys()})
	}

	if o.Kind == option.KindBoolean {
		if b, err := strconv.ParseBool(strings.TrimSpace(raw)); err == nil {
			return id, key, b, nil
		}
	}
	return id, key, raw, nil
}

// checkKeys rejects option keys a group does not declare. Unknown groups are
// left to the composer, which reports them as not found.
func checkKeys(cat *catalog.Catalog, subs map[string]option.Submission) error {
	unknown := make(map[string][]string)
	for id, s := range subs {
		g, ok := cat.Group(id)
		if !ok {
			continue
		}
		for key := range s {
			if _, ok := g.Option(key); !ok {
				unknown[id] = append(unknown[id], key)
			}
		}
	}
	if len(unknown) == 0 {
		return nil
	}

	parts := make([]string, 0, len(unknown))
	for id, keys := range unknown {
		sort.Strings(keys)
		parts = append(parts, fmt.Sprintf("%s: %s", id, strings.Join(keys, ", ")))
	}
	sort.Strings(parts)

	return errors.NewWithContext(errors.ErrCodeInvalidRequest,
		fmt.Sprintf("unknown option(s) in submission: %s", strings.Join(parts, "; ")),
		map[string]any{"options": unknown})
}
