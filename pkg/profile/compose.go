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
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ffprofile/profilemaker/pkg/catalog"
	"github.com/ffprofile/profilemaker/pkg/defaults"
	"github.com/ffprofile/profilemaker/pkg/errors"
	"github.com/ffprofile/profilemaker/pkg/header"
	"github.com/ffprofile/profilemaker/pkg/option"
)

// idNamespace scopes profile IDs to this document schema.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte(header.APIVersion))

// Composer compiles submissions against a catalog and merges the results.
// It holds no mutable state and is safe for concurrent use.
type Composer struct {
	catalog     *catalog.Catalog
	version     string
	parallelism int
	allGroups   bool
}

// Option configures a Composer.
type Option func(*Composer)

// WithVersion sets the tool version recorded in profile metadata.
func WithVersion(version string) Option {
	return func(c *Composer) {
		c.version = version
	}
}

// WithParallelism bounds how many groups compile concurrently.
// Values below 1 are ignored.
func WithParallelism(n int) Option {
	return func(c *Composer) {
		if n > 0 {
			c.parallelism = n
		}
	}
}

// WithAllGroups compiles every catalog group, using defaults for groups
// without a submission.
func WithAllGroups() Option {
	return func(c *Composer) {
		c.allGroups = true
	}
}

// NewComposer returns a Composer over cat.
func NewComposer(cat *catalog.Catalog, opts ...Option) *Composer {
	c := &Composer{
		catalog:     cat,
		parallelism: defaults.ComposeParallelism,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type groupResult struct {
	group   *option.Group
	overlay option.Overlay
	addons  option.AddonList
	err     error
}

// Compose compiles the submitted groups and merges their overlays in catalog
// order. A preference set by several groups takes the value of the last one;
// every such replacement is recorded in Overrides. If any group fails
// validation no profile is returned and the error lists every failing group.
func (c *Composer) Compose(ctx context.Context, subs map[string]option.Submission) (*Profile, error) {
	start := time.Now()
	defer func() {
		composeDuration.Observe(time.Since(start).Seconds())
	}()

	results, err := c.compileAll(ctx, subs)
	if err != nil {
		composeTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	if err := validationFailure(results); err != nil {
		composeTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	p := merge(results)
	p.Init(header.KindProfile, c.version)
	if name := c.catalog.Name(); name != "" {
		header.WithMetadata("catalog", name)(&p.Header)
	}

	id, err := profileID(p)
	if err != nil {
		composeTotal.WithLabelValues("error").Inc()
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to derive profile id", err)
	}
	p.ID = id

	composeTotal.WithLabelValues("success").Inc()
	composeOverrides.Add(float64(len(p.Overrides)))

	slog.Info("profile composed",
		"id", p.ID,
		"groups", len(p.Groups),
		"prefs", len(p.Prefs),
		"addons", len(p.Addons),
		"overrides", len(p.Overrides),
	)

	return p, nil
}

// Validate checks the submitted groups without merging them. Validation
// faults are reported in the Report; only unknown groups and cancellation
// produce an error.
func (c *Composer) Validate(ctx context.Context, subs map[string]option.Submission) (*Report, error) {
	results, err := c.compileAll(ctx, subs)
	if err != nil {
		return nil, err
	}

	r := &Report{Valid: true, Groups: make([]GroupReport, 0, len(results))}
	r.Init(header.KindValidationReport, c.version)

	for _, res := range results {
		gr := GroupReport{Group: res.group.ID, Valid: res.err == nil}
		var verr *option.ValidationError
		if stderrors.As(res.err, &verr) {
			gr.Faults = verr.Faults
		}
		if !gr.Valid {
			r.Valid = false
		}
		r.Groups = append(r.Groups, gr)
	}

	return r, nil
}

// selectGroups returns the groups to compile in catalog order.
func (c *Composer) selectGroups(subs map[string]option.Submission) ([]*option.Group, error) {
	if c.catalog == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "catalog cannot be nil")
	}

	var unknown []string
	for id := range subs {
		if _, ok := c.catalog.Group(id); !ok {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, errors.NewWithContext(errors.ErrCodeNotFound,
			fmt.Sprintf("unknown option group(s): %v", unknown),
			map[string]any{"groups": unknown, "available": c.catalog.IDs()})
	}

	var selected []*option.Group
	for _, g := range c.catalog.Groups() {
		if _, ok := subs[g.ID]; ok || c.allGroups {
			selected = append(selected, g)
		}
	}
	return selected, nil
}

// compileAll compiles the selected groups concurrently. Results keep catalog
// order. Validation errors are kept per group; only cancellation aborts.
func (c *Composer) compileAll(ctx context.Context, subs map[string]option.Submission) ([]groupResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTimeout, "composition canceled", err)
	}

	groups, err := c.selectGroups(subs)
	if err != nil {
		return nil, err
	}

	results := make([]groupResult, len(groups))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.parallelism)

	for i, grp := range groups {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			overlay, addons, err := option.Compile(grp, subs[grp.ID])
			results[i] = groupResult{group: grp, overlay: overlay, addons: addons, err: err}
			recordCompile(grp.ID, err)

			slog.Debug("group compiled",
				"group", grp.ID,
				"prefs", len(overlay),
				"addons", len(addons),
				"valid", err == nil,
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTimeout, "composition canceled", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTimeout, "composition canceled", err)
	}

	return results, nil
}

// validationFailure folds every group's validation error into one.
func validationFailure(results []groupResult) error {
	var (
		errs   []error
		groups []string
		faults = make(map[string][]string)
	)
	for _, res := range results {
		if res.err == nil {
			continue
		}
		errs = append(errs, res.err)
		groups = append(groups, res.group.ID)

		var verr *option.ValidationError
		if stderrors.As(res.err, &verr) {
			faults[res.group.ID] = verr.Keys()
		}
	}
	if len(errs) == 0 {
		return nil
	}

	return errors.WrapWithContext(errors.ErrCodeInvalidRequest,
		fmt.Sprintf("invalid submission for %d group(s)", len(groups)),
		stderrors.Join(errs...),
		map[string]any{"groups": groups, "keys": faults})
}

func merge(results []groupResult) *Profile {
	p := &Profile{
		Groups:  make([]string, 0, len(results)),
		Prefs:   option.Overlay{},
		Addons:  option.AddonList{},
		Sources: make(map[string]string),
	}

	for _, res := range results {
		id := res.group.ID
		p.Groups = append(p.Groups, id)

		for _, key := range res.overlay.Keys() {
			val := res.overlay[key]
			if prev, ok := p.Prefs[key]; ok {
				p.Overrides = append(p.Overrides, Override{
					Pref:       key,
					Group:      id,
					Value:      val,
					Overridden: p.Sources[key],
					Previous:   prev,
				})
			}
			p.Prefs[key] = val
			p.Sources[key] = id
		}

		p.Addons = append(p.Addons, res.addons...)
	}

	return p
}

// profileID hashes the canonical JSON form of the merged output. JSON object
// keys are sorted by encoding/json, so the encoding is stable.
func profileID(p *Profile) (string, error) {
	content, err := json.Marshal(struct {
		Prefs  option.Overlay   `json:"prefs"`
		Addons option.AddonList `json:"addons"`
	}{p.Prefs, p.Addons})
	if err != nil {
		return "", err
	}
	return uuid.NewSHA1(idNamespace, content).String(), nil
}
