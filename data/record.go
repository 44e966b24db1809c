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
package data

import (
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const nullTag = "!!null"

// Record is a single mapping entry from a YAML (or JSON) document. Keys keep
// the order they appeared in the source.
type Record struct {
	Keys   []string
	Fields map[string]*yaml.Node
}

// RecordFromNode returns the record for a mapping node; ok is false for any
// other node kind
func RecordFromNode(node *yaml.Node) (rec Record, ok bool) {
	node = Resolve(node)
	if node == nil || node.Kind != yaml.MappingNode {
		return Record{}, false
	}

	rec = Record{
		Keys:   make([]string, 0, len(node.Content)/2),
		Fields: make(map[string]*yaml.Node, len(node.Content)/2),
	}

	for ii := 0; ii+1 < len(node.Content); ii += 2 {
		key := node.Content[ii].Value
		if _, seen := rec.Fields[key]; !seen {
			rec.Keys = append(rec.Keys, key)
		}
		rec.Fields[key] = Resolve(node.Content[ii+1])
	}

	return rec, true
}

// Has reports whether key is present, even when its value is null
func (rec Record) Has(key string) bool {
	_, ok := rec.Fields[key]
	return ok
}

// Text returns the scalar text stored under key. Null values, nested
// collections and absent keys report ok=false.
func (rec Record) Text(key string) (string, bool) {
	return ScalarText(rec.Fields[key])
}

// Number coerces the value stored under key
func (rec Record) Number(key string) Number {
	return NumberFromNode(rec.Fields[key])
}

// Set adds or replaces a plain string value
func (rec *Record) Set(key, value string) {
	if rec.Fields == nil {
		rec.Fields = make(map[string]*yaml.Node)
	}
	if _, seen := rec.Fields[key]; !seen {
		rec.Keys = append(rec.Keys, key)
	}
	rec.Fields[key] = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

// Resolve follows document wrappers and aliases down to the content node
func Resolve(node *yaml.Node) *yaml.Node {
	for node != nil {
		switch node.Kind {
		case yaml.DocumentNode:
			if len(node.Content) == 0 {
				return nil
			}
			node = node.Content[0]
		case yaml.AliasNode:
			node = node.Alias
		case 0:
			return nil
		default:
			return node
		}
	}
	return nil
}

// IsNull reports whether the node is absent or an explicit null
func IsNull(node *yaml.Node) bool {
	node = Resolve(node)
	return node == nil || (node.Kind == yaml.ScalarNode && node.Tag == nullTag)
}

// ScalarText returns the literal text of a non-null scalar node
func ScalarText(node *yaml.Node) (string, bool) {
	node = Resolve(node)
	if node == nil || node.Kind != yaml.ScalarNode || node.Tag == nullTag {
		return "", false
	}
	return node.Value, true
}

// NumberFromNode coerces a scalar node into a Number
func NumberFromNode(node *yaml.Node) Number {
	text, ok := ScalarText(node)
	if !ok {
		return Number{}
	}
	return ParseNumberString(text)
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006/01/02",
	"20060102",
}

// ParseDate reads a date in any of the layouts seen in the raw financial
// files; unparseable input returns nil.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	for _, layout := range dateLayouts {
		if dt, err := time.Parse(layout, s); err == nil {
			dt = dt.UTC()
			return &dt
		}
	}

	return nil
}

// FormatDate renders a date as YYYY-MM-DD; nil becomes the empty string
func FormatDate(dt *time.Time) string {
	if dt == nil {
		return ""
	}
	return dt.Format("2006-01-02")
}
