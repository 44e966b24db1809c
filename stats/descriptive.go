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

// Package stats computes per-index descriptive statistics over a canonical
// table. Every function is pure and returns a metrics document.
package stats

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/penny-vault/idxstats/data"
)

// require returns a schema error naming the first missing column
func require(tbl *data.Table, cols ...string) error {
	if tbl == nil {
		return fmt.Errorf("%w: canonical table is nil", data.ErrSchema)
	}
	for _, col := range cols {
		if !tbl.HasColumn(col) {
			return fmt.Errorf("%w: canonical dataset must include a %q column", data.ErrSchema, col)
		}
	}
	return nil
}

// groupRows partitions rows by index, skipping rows without one. Index
// names are returned sorted.
func groupRows(tbl *data.Table) ([]string, map[string][]*data.Row) {
	groups := make(map[string][]*data.Row)
	for idx := range tbl.Rows {
		row := &tbl.Rows[idx]
		if row.Index == "" {
			continue
		}
		groups[row.Index] = append(groups[row.Index], row)
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, groups
}

// observed collects the present values of col, sorted ascending
func observed(rows []*data.Row, col string) []float64 {
	vals := make([]float64, 0, len(rows))
	for _, row := range rows {
		if v := row.Value(col); v.Valid {
			vals = append(vals, v.Value)
		}
	}
	slices.Sort(vals)
	return vals
}

func mean(vals []float64) data.Number {
	if len(vals) == 0 {
		return data.Number{}
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return data.Some(sum / float64(len(vals)))
}

// quantile uses linear interpolation between closest ranks, h = (n-1)q.
// vals must be sorted.
func quantile(vals []float64, q float64) data.Number {
	n := len(vals)
	if n == 0 {
		return data.Number{}
	}

	h := float64(n-1) * q
	lo := math.Floor(h)
	hi := math.Ceil(h)
	if lo == hi {
		return data.Some(vals[int(lo)])
	}

	return data.Some(vals[int(lo)] + (h-lo)*(vals[int(hi)]-vals[int(lo)]))
}

func median(vals []float64) data.Number {
	return quantile(vals, 0.5)
}
