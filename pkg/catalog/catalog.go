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

package catalog

import (
	"bytes"
	"embed"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	cnserrors "github.com/ffprofile/profilemaker/pkg/errors"
	"github.com/ffprofile/profilemaker/pkg/header"
	"github.com/ffprofile/profilemaker/pkg/option"
	"github.com/ffprofile/profilemaker/pkg/serializer"
)

//go:embed data/index.yaml data/groups/*.yaml
var dataFS embed.FS

var (
	defaultOnce      sync.Once
	cachedCatalog    *Catalog
	cachedCatalogErr error
)

// Document is the serialized form of a catalog: a header followed by the
// group declarations in merge order.
type Document struct {
	header.Header `yaml:",inline"`

	Groups []option.Group `json:"groups" yaml:"groups"`
}

// index lists the embedded group files in merge order.
type index struct {
	header.Header `yaml:",inline"`

	Groups []string `yaml:"groups"`
}

// Catalog is an ordered, immutable set of option groups.
// Callers must treat the returned groups as read-only.
type Catalog struct {
	name   string
	groups []*option.Group
	byID   map[string]*option.Group
}

// Default returns the built-in catalog. It is parsed from embedded data on
// first use and shared by every caller afterwards.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		catalogCacheMisses.Inc()
		cachedCatalog, cachedCatalogErr = loadEmbedded()
		if cachedCatalogErr != nil {
			slog.Error("failed to load built-in catalog", "error", cachedCatalogErr)
		}
	})

	if cachedCatalogErr != nil {
		return nil, cachedCatalogErr
	}
	if cachedCatalog == nil {
		return nil, cnserrors.New(cnserrors.ErrCodeInternal, "catalog not initialized")
	}
	catalogCacheHits.Inc()
	return cachedCatalog, nil
}

func loadEmbedded() (*Catalog, error) {
	content, err := dataFS.ReadFile("data/index.yaml")
	if err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to read catalog index", err)
	}

	var idx index
	if err := yaml.Unmarshal(content, &idx); err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to parse catalog index", err)
	}

	doc := Document{Header: idx.Header, Groups: make([]option.Group, 0, len(idx.Groups))}
	for _, id := range idx.Groups {
		p := path.Join("data", "groups", id+".yaml")
		raw, err := dataFS.ReadFile(p)
		if err != nil {
			return nil, cnserrors.WrapWithContext(cnserrors.ErrCodeInternal,
				"failed to read group declaration", err, map[string]any{"file": p})
		}

		var g option.Group
		if err := yaml.Unmarshal(raw, &g); err != nil {
			return nil, cnserrors.WrapWithContext(cnserrors.ErrCodeInternal,
				"failed to parse group declaration", err, map[string]any{"file": p})
		}
		if g.ID != id {
			return nil, cnserrors.NewWithContext(cnserrors.ErrCodeInternal,
				fmt.Sprintf("group file declares id %q", g.ID), map[string]any{"file": p})
		}
		doc.Groups = append(doc.Groups, g)
	}

	return FromDocument(&doc)
}

// Parse builds a catalog from a YAML or JSON document.
func Parse(data []byte) (*Catalog, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, "failed to parse catalog", err)
	}
	return FromDocument(&doc)
}

// LoadFile reads a catalog document from a YAML, JSON or JSONC file.
// Unknown fields are rejected, as in Parse.
func LoadFile(path string) (*Catalog, error) {
	doc, err := serializer.FromFile[Document](path, serializer.WithStrict())
	if err != nil {
		return nil, err
	}
	slog.Debug("loaded catalog file", "path", path, "groups", len(doc.Groups))
	return FromDocument(doc)
}

// FromDocument normalizes and checks every group of doc and returns them as
// a catalog. Group ids must be unique.
func FromDocument(doc *Document) (*Catalog, error) {
	if doc == nil {
		return nil, cnserrors.New(cnserrors.ErrCodeInvalidRequest, "catalog document cannot be nil")
	}
	if doc.Kind != "" && doc.Kind != header.KindGroupCatalog {
		return nil, cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
			"unexpected document kind", map[string]any{"kind": doc.Kind.String()})
	}
	if len(doc.Groups) == 0 {
		return nil, cnserrors.New(cnserrors.ErrCodeInvalidRequest, "catalog declares no groups")
	}

	c := &Catalog{
		name:   doc.Metadata["name"],
		groups: make([]*option.Group, 0, len(doc.Groups)),
		byID:   make(map[string]*option.Group, len(doc.Groups)),
	}

	for i := range doc.Groups {
		g := doc.Groups[i].Clone()
		if err := g.Normalize(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[g.ID]; dup {
			return nil, cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
				"duplicate group id", map[string]any{"group": g.ID})
		}
		if strings.TrimSpace(g.Name) == "" {
			g.Name = DisplayName(g.ID)
		}
		c.groups = append(c.groups, g)
		c.byID[g.ID] = g
	}

	return c, nil
}

// DisplayName derives a human-readable name from a group id,
// e.g. "firefox_tracking" becomes "Firefox Tracking".
func DisplayName(id string) string {
	words := strings.FieldsFunc(id, func(r rune) bool {
		return r == '_' || r == '-' || r == '.'
	})
	return cases.Title(language.English).String(strings.Join(words, " "))
}

// Name returns the catalog name from its metadata, if any.
func (c *Catalog) Name() string {
	return c.name
}

// Groups returns the groups in merge order.
func (c *Catalog) Groups() []*option.Group {
	out := make([]*option.Group, len(c.groups))
	copy(out, c.groups)
	return out
}

// Group returns the group declared under id.
func (c *Catalog) Group(id string) (*option.Group, bool) {
	g, ok := c.byID[id]
	return g, ok
}

// IDs returns the group ids in merge order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.groups))
	for i, g := range c.groups {
		ids[i] = g.ID
	}
	return ids
}

// Defaults returns a default submission for every group.
func (c *Catalog) Defaults() map[string]option.Submission {
	subs := make(map[string]option.Submission, len(c.groups))
	for _, g := range c.groups {
		subs[g.ID] = g.DefaultSubmission()
	}
	return subs
}

// Document returns the serializable form of the catalog.
func (c *Catalog) Document(version string) *Document {
	doc := &Document{Groups: make([]option.Group, len(c.groups))}
	doc.Init(header.KindGroupCatalog, version)
	header.WithMetadata("name", c.name)(&doc.Header)
	for i, g := range c.groups {
		doc.Groups[i] = *g.Clone()
	}
	return doc
}
