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
package render

import (
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	"github.com/penny-vault/idxstats/data"
	"github.com/penny-vault/idxstats/metrics"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NotAvailable is printed wherever a value is missing
const NotAvailable = "N/A"

func funcMap() map[string]any {
	return map[string]any{
		"number":  FormatNumber,
		"percent": FormatPercent,
		"at":      At,
		"count":   FormatCount,
		"slug":    slug.Make,
		"join":    join,
	}
}

func toNumber(v any) data.Number {
	switch x := v.(type) {
	case *int:
		if x == nil {
			return data.Number{}
		}
		return data.Some(float64(*x))
	default:
		return data.ParseNumber(v)
	}
}

// FormatNumber prints v with the given number of decimals
func FormatNumber(v any, digits int) string {
	n := toNumber(v)
	if !n.Valid {
		return NotAvailable
	}
	return fmt.Sprintf("%.*f", digits, n.Value)
}

// FormatPercent prints the fraction v as a percentage. Values that are
// already percentages, like dividend yield, go through FormatNumber.
func FormatPercent(v any, digits int) string {
	n := toNumber(v)
	if !n.Valid {
		return NotAvailable
	}
	return fmt.Sprintf("%.*f%%", digits, n.Value*100)
}

// FormatCount prints an integer with thousands separators
func FormatCount(v any) string {
	n := toNumber(v)
	if !n.Valid {
		return NotAvailable
	}
	p := message.NewPrinter(language.English)
	return p.Sprintf("%d", int64(n.Value))
}

// At looks key up in a metrics map. Nil maps and absent keys give a
// missing number.
func At(m any, key string) any {
	switch x := m.(type) {
	case metrics.Values:
		return x.Get(key)
	case map[string]*float64:
		return metrics.Values(x).Get(key)
	case metrics.Counts:
		if v, ok := x[key]; ok {
			return data.Some(float64(v))
		}
	case map[string]int:
		if v, ok := x[key]; ok {
			return data.Some(float64(v))
		}
	case map[string]metrics.Values:
		return x[key]
	}
	return data.Number{}
}

func join(items []string, sep string) string {
	return strings.Join(items, sep)
}
