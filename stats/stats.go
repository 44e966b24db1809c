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
package stats

import (
	"maps"
	"slices"

	"github.com/penny-vault/idxstats/data"
	"github.com/penny-vault/idxstats/metrics"
)

// PBR reports, per index, the count of price-to-book observations, the
// share trading below book (< 1.0), the mean and the median.
func PBR(tbl *data.Table) (*metrics.PBR, error) {
	if err := require(tbl, data.ColIndex, data.ColPBR); err != nil {
		return nil, err
	}

	doc := metrics.NewPBR()
	names, groups := groupRows(tbl)
	for _, name := range names {
		vals := observed(groups[name], data.ColPBR)
		doc.Count[name] = len(vals)

		var lt1 data.Number
		if len(vals) > 0 {
			below := 0
			for _, v := range vals {
				if v < 1.0 {
					below++
				}
			}
			lt1 = data.Some(float64(below) / float64(len(vals)))
		}

		doc.LT1.Set(name, lt1)
		doc.Mean.Set(name, mean(vals))
		doc.Median.Set(name, median(vals))
	}

	return doc, nil
}

// ROE reports the median and quartiles of return on equity per index
func ROE(tbl *data.Table) (*metrics.ROE, error) {
	if err := require(tbl, data.ColIndex, data.ColROE); err != nil {
		return nil, err
	}

	doc := metrics.NewROE()
	names, groups := groupRows(tbl)
	for _, name := range names {
		vals := observed(groups[name], data.ColROE)
		doc.Count[name] = len(vals)
		doc.Median.Set(name, median(vals))
		for _, q := range metrics.Quantiles {
			doc.Quantiles[q.Key].Set(name, quantile(vals, q.Q))
		}
	}

	return doc, nil
}

// Yield reports the count, mean and median dividend yield per index
func Yield(tbl *data.Table) (*metrics.Yield, error) {
	if err := require(tbl, data.ColIndex, data.ColDY); err != nil {
		return nil, err
	}

	doc := metrics.NewYield()
	names, groups := groupRows(tbl)
	for _, name := range names {
		vals := observed(groups[name], data.ColDY)
		doc.Count[name] = len(vals)
		doc.Mean.Set(name, mean(vals))
		doc.Median.Set(name, median(vals))
	}

	return doc, nil
}

// Concentration reports the sector Herfindahl-Hirschman index, the weight
// held by the ten largest constituents and the constituent count per index.
func Concentration(tbl *data.Table) (*metrics.Concentration, error) {
	if err := require(tbl, data.ColIndex, data.ColSector); err != nil {
		return nil, err
	}

	doc := metrics.NewConcentration()
	names, groups := groupRows(tbl)
	for _, name := range names {
		rows := groups[name]
		weights := Weights(rows)

		sectors := make(map[string]float64)
		for ii, row := range rows {
			sector := row.Sector
			if sector == "" {
				sector = data.UnknownSector
			}
			sectors[sector] += weights[ii]
		}

		// sorted sector order keeps the sum reproducible
		var hhi float64
		for _, sector := range slices.Sorted(maps.Keys(sectors)) {
			hhi += sectors[sector] * sectors[sector]
		}

		sorted := slices.Clone(weights)
		slices.Sort(sorted)
		slices.Reverse(sorted)
		var top10 float64
		for ii := 0; ii < len(sorted) && ii < 10; ii++ {
			top10 += sorted[ii]
		}

		doc.Constituents[name] = len(rows)
		doc.HHI.Set(name, data.Some(hhi))
		doc.Top10Weight.Set(name, data.Some(top10))
	}

	return doc, nil
}

// Weights resolves the normalized weight of each row. Stated weights are
// used when any row has one (missing weights count as zero); otherwise,
// or when the stated weights do not sum to a positive total, every row is
// weighted equally. The result sums to 1 for a non-empty input.
func Weights(rows []*data.Row) []float64 {
	weights := make([]float64, len(rows))
	if len(rows) == 0 {
		return weights
	}

	stated := false
	for _, row := range rows {
		if row.Weight.Valid {
			stated = true
			break
		}
	}

	var total float64
	for ii, row := range rows {
		if stated {
			weights[ii] = row.Weight.Or(data.Some(0)).Value
		} else {
			weights[ii] = 1
		}
		total += weights[ii]
	}

	if total <= 0 {
		for ii := range weights {
			weights[ii] = 1
		}
		total = float64(len(weights))
	}

	for ii := range weights {
		weights[ii] /= total
	}
	return weights
}
