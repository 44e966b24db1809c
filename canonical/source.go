// Copyright 2026
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package canonical

import (
	"errors"
	"fmt"
	"os"

	"github.com/penny-vault/idxstats/data"
	"gopkg.in/yaml.v3"
)

type Shape int

const (
	Flat Shape = iota
	Grouped
)

func (s Shape) String() string {
	if s == Grouped {
		return "grouped"
	}
	return "flat"
}

// Group is one named list of entries in a grouped document
type Group struct {
	Name    string
	Entries []data.Record
}

// Source is a raw input document after its shape has been determined.
// Flat sources use Entries; grouped sources use Groups.
type Source struct {
	Shape   Shape
	Entries []data.Record
	Groups  []Group
}

// Entry is a record together with the group it was found in (empty for
// flat sources)
type Entry struct {
	Group  string
	Record data.Record
}

// Flatten returns every record in document order
func (src *Source) Flatten() []Entry {
	entries := make([]Entry, 0)
	switch src.Shape {
	case Grouped:
		for _, group := range src.Groups {
			for _, rec := range group.Entries {
				entries = append(entries, Entry{Group: group.Name, Record: rec})
			}
		}
	default:
		for _, rec := range src.Entries {
			entries = append(entries, Entry{Record: rec})
		}
	}
	return entries
}

// LoadSource reads and classifies a YAML (or JSON) document
func LoadSource(fn string) (*Source, error) {
	raw, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", data.ErrInputNotFound, fn)
		}
		return nil, err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", data.ErrSchema, fn, err)
	}

	src, err := ReadSource(&doc)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, fn)
	}
	return src, nil
}

// ReadSource determines whether node is a flat list of entries or a mapping
// of group name to entries
func ReadSource(node *yaml.Node) (*Source, error) {
	node = data.Resolve(node)
	if data.IsNull(node) {
		return &Source{Shape: Flat}, nil
	}

	switch node.Kind {
	case yaml.SequenceNode:
		return &Source{Shape: Flat, Entries: records(node)}, nil
	case yaml.MappingNode:
		doc, _ := data.RecordFromNode(node)
		if recs, ok := recordsList(doc); ok {
			return &Source{Shape: Flat, Entries: records(recs)}, nil
		}

		src := &Source{Shape: Grouped}
		for _, name := range doc.Keys {
			value := doc.Fields[name]
			if data.IsNull(value) {
				continue
			}

			var list *yaml.Node
			switch value.Kind {
			case yaml.SequenceNode:
				list = value
			case yaml.MappingNode:
				inner, _ := data.RecordFromNode(value)
				recs, ok := recordsList(inner)
				if !ok {
					return nil, fmt.Errorf("%w: entries for %q must be provided as a list", data.ErrSchema, name)
				}
				list = recs
			default:
				return nil, fmt.Errorf("%w: entries for %q must be provided as a list", data.ErrSchema, name)
			}

			src.Groups = append(src.Groups, Group{Name: name, Entries: records(list)})
		}
		return src, nil
	default:
		return nil, fmt.Errorf("%w: entries must be provided as a list", data.ErrSchema)
	}
}

func recordsList(doc data.Record) (*yaml.Node, bool) {
	recs := doc.Fields["records"]
	if recs == nil || recs.Kind != yaml.SequenceNode {
		return nil, false
	}
	return recs, true
}

// records drops any list item that is not a mapping
func records(list *yaml.Node) []data.Record {
	out := make([]data.Record, 0, len(list.Content))
	for _, item := range list.Content {
		if rec, ok := data.RecordFromNode(item); ok {
			out = append(out, rec)
		}
	}
	return out
}
