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
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/penny-vault/idxstats/data"
	"github.com/rs/zerolog"
)

type Options struct {
	// DefaultIndex names constituents that carry no index and no group
	DefaultIndex string
}

func (opts Options) defaultIndex() string {
	if opts.DefaultIndex == "" {
		return data.DefaultIndex
	}
	return opts.DefaultIndex
}

type key struct {
	index string
	code  string
}

// Build merges the constituents and financials documents into one canonical
// table with a single row per (index, code), sorted by index then code.
func Build(ctx context.Context, constituentsFn, financialsFn string, opts Options) (*data.Table, error) {
	logger := zerolog.Ctx(ctx)

	logger.Info().Str("FileName", constituentsFn).Msg("loading constituents")
	constituentSrc, err := LoadSource(constituentsFn)
	if err != nil {
		return nil, err
	}

	constituents, err := Constituents(ctx, constituentSrc, opts)
	if err != nil {
		return nil, err
	}

	var financials []*data.Financial
	financialSrc, err := LoadSource(financialsFn)
	switch {
	case errors.Is(err, data.ErrInputNotFound):
		logger.Warn().Str("FileName", financialsFn).Msg("financials file does not exist; continuing without financial data")
	case err != nil:
		return nil, err
	default:
		logger.Info().Str("FileName", financialsFn).Str("Shape", financialSrc.Shape.String()).Msg("loading financials")
		financials = Latest(Financials(financialSrc, opts), HasDates(financialSrc))
	}

	tbl := Merge(constituents, financials)
	if len(financials) > 0 {
		for ii := range tbl.Rows {
			row := &tbl.Rows[ii]
			if !row.PBR.Valid && !row.ROE.Valid && !row.DY.Valid {
				logger.Debug().Object("Row", row).Msg("constituent has no financial data")
			}
		}
	}
	logger.Info().Int("NumRecords", len(tbl.Rows)).Int("NumFinancials", len(financials)).Msg("built canonical table")
	return tbl, nil
}

// Constituents normalizes the members listed in src. Repeated (index, code)
// pairs keep the first occurrence.
func Constituents(ctx context.Context, src *Source, opts Options) ([]*data.Constituent, error) {
	logger := zerolog.Ctx(ctx)

	seen := make(map[key]bool)
	members := make([]*data.Constituent, 0)

	for _, entry := range src.Flatten() {
		rec := entry.Record
		member := &data.Constituent{
			Index:  indexOf(rec, entry.Group, opts),
			Code:   codeOf(rec),
			Weight: rec.Number(data.ColWeight),
		}
		member.Name, _ = rec.Text(data.ColName)
		if sector, ok := rec.Text(data.ColSector); ok && strings.TrimSpace(sector) != "" {
			member.Sector = sector
		} else {
			member.Sector = data.UnknownSector
		}

		k := key{member.Index, member.Code}
		if seen[k] {
			logger.Warn().Str("Index", member.Index).Str("Code", member.Code).Msg("duplicate constituent ignored")
			continue
		}
		seen[k] = true
		members = append(members, member)
	}

	if len(members) == 0 {
		return nil, fmt.Errorf("%w: no constituent records found", data.ErrSchema)
	}

	return members, nil
}

// Financials normalizes every entry in src regardless of its shape
func Financials(src *Source, opts Options) []*data.Financial {
	entries := src.Flatten()
	financials := make([]*data.Financial, 0, len(entries))

	for _, entry := range entries {
		rec := entry.Record
		fin := &data.Financial{
			Index:     indexOf(rec, entry.Group, opts),
			Code:      codeOf(rec),
			PBR:       rec.Number(data.ColPBR),
			ROE:       rec.Number(data.ColROE),
			DY:        rec.Number(data.ColDY),
			MarketCap: rec.Number(data.ColMarketCap),
			Weight:    rec.Number(data.ColWeight),
		}
		if dt, ok := rec.Text(data.ColDate); ok {
			fin.Date = data.ParseDate(dt)
		}
		financials = append(financials, fin)
	}

	return financials
}

// HasDates reports whether any financial entry carries a date key
func HasDates(src *Source) bool {
	for _, entry := range src.Flatten() {
		if entry.Record.Has(data.ColDate) {
			return true
		}
	}
	return false
}

// Latest keeps one financial per (index, code). When dated, entries are
// ordered by (index, code, date) with missing dates last and the final
// entry wins; otherwise the last occurrence wins.
func Latest(financials []*data.Financial, dated bool) []*data.Financial {
	ordered := make([]*data.Financial, len(financials))
	copy(ordered, financials)

	if dated {
		sort.SliceStable(ordered, func(i, j int) bool {
			a, b := ordered[i], ordered[j]
			if a.Index != b.Index {
				return a.Index < b.Index
			}
			if a.Code != b.Code {
				return a.Code < b.Code
			}
			switch {
			case a.Date == nil:
				return false
			case b.Date == nil:
				return true
			default:
				return a.Date.Before(*b.Date)
			}
		})
	}

	position := make(map[key]int)
	latest := make([]*data.Financial, 0, len(ordered))
	for _, fin := range ordered {
		k := key{fin.Index, fin.Code}
		if pos, ok := position[k]; ok {
			latest[pos] = fin
			continue
		}
		position[k] = len(latest)
		latest = append(latest, fin)
	}

	return latest
}

// Merge left joins constituents with financials on (index, code). The
// constituent weight takes precedence over the financial weight.
func Merge(constituents []*data.Constituent, financials []*data.Financial) *data.Table {
	byKey := make(map[key]*data.Financial, len(financials))
	for _, fin := range financials {
		byKey[key{fin.Index, fin.Code}] = fin
	}

	tbl := &data.Table{
		Columns: data.MemberColumns,
		Rows:    make([]data.Row, 0, len(constituents)),
	}
	if len(financials) > 0 {
		tbl.Columns = data.CanonicalColumns
	}

	for _, member := range constituents {
		row := data.Row{
			Index:  member.Index,
			Code:   member.Code,
			Name:   member.Name,
			Sector: member.Sector,
			Weight: member.Weight,
		}
		if fin, ok := byKey[key{member.Index, member.Code}]; ok {
			row.Weight = member.Weight.Or(fin.Weight)
			row.Date = data.FormatDate(fin.Date)
			row.PBR = fin.PBR
			row.ROE = fin.ROE
			row.DY = fin.DY
			row.MarketCap = fin.MarketCap
		}
		tbl.Rows = append(tbl.Rows, row)
	}

	sort.SliceStable(tbl.Rows, func(i, j int) bool {
		if tbl.Rows[i].Index != tbl.Rows[j].Index {
			return tbl.Rows[i].Index < tbl.Rows[j].Index
		}
		return tbl.Rows[i].Code < tbl.Rows[j].Code
	})

	return tbl
}

func indexOf(rec data.Record, group string, opts Options) string {
	if index, ok := rec.Text(data.ColIndex); ok && index != "" {
		return index
	}
	if group != "" {
		return group
	}
	return opts.defaultIndex()
}

func codeOf(rec data.Record) string {
	code, _ := rec.Text(data.ColCode)
	return strings.TrimSpace(code)
}
