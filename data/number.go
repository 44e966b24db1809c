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
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Number is a float64 that may be missing. The zero value is missing.
type Number struct {
	Value float64
	Valid bool
}

// Some returns a present Number; NaN and infinities are treated as missing
func Some(v float64) Number {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Number{}
	}
	return Number{Value: v, Valid: true}
}

// ParseNumber coerces v into a Number. Values that cannot be read as a
// float become missing rather than producing an error.
func ParseNumber(v any) Number {
	switch x := v.(type) {
	case nil:
		return Number{}
	case Number:
		return x
	case *float64:
		if x == nil {
			return Number{}
		}
		return Some(*x)
	case float64:
		return Some(x)
	case float32:
		return Some(float64(x))
	case int:
		return Some(float64(x))
	case int32:
		return Some(float64(x))
	case int64:
		return Some(float64(x))
	case uint:
		return Some(float64(x))
	case uint64:
		return Some(float64(x))
	case string:
		return ParseNumberString(x)
	default:
		return Number{}
	}
}

// ParseNumberString parses s as a float; blank or malformed input is missing
func ParseNumberString(s string) Number {
	s = strings.TrimSpace(s)
	if s == "" {
		return Number{}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Number{}
	}

	return Some(f)
}

// Ptr returns nil for a missing number
func (n Number) Ptr() *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

// Or returns the receiver if present and fallback otherwise
func (n Number) Or(fallback Number) Number {
	if n.Valid {
		return n
	}
	return fallback
}

func (n Number) String() string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

// MarshalCSV writes missing values as an empty cell
func (n Number) MarshalCSV() (string, error) {
	return n.String(), nil
}

func (n *Number) UnmarshalCSV(s string) error {
	*n = ParseNumberString(s)
	return nil
}

func (n Number) MarshalYAML() (interface{}, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.Value, nil
}

func (n *Number) UnmarshalYAML(node *yaml.Node) error {
	*n = NumberFromNode(node)
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid || math.IsInf(n.Value, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

func (n *Number) UnmarshalJSON(b []byte) error {
	var raw interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		*n = Number{}
		return nil
	}
	*n = ParseNumber(raw)
	return nil
}
