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
	"errors"
	"slices"
	"time"

	"github.com/rs/zerolog"
)

var (
	ErrInputNotFound     = errors.New("input not found")
	ErrSchema            = errors.New("schema validation failed")
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

const (
	ColIndex     = "index"
	ColCode      = "code"
	ColName      = "name"
	ColSector    = "sector"
	ColWeight    = "weight"
	ColDate      = "date"
	ColPBR       = "pbr"
	ColROE       = "roe"
	ColDY        = "dy"
	ColMarketCap = "market_cap"
)

// DefaultIndex is used when neither the entry nor its group names an index
const DefaultIndex = "yomiuri333"

// UnknownSector buckets constituents without a sector
const UnknownSector = "Unknown"

var (
	MemberColumns    = []string{ColIndex, ColCode, ColName, ColSector, ColWeight}
	CanonicalColumns = []string{ColIndex, ColCode, ColName, ColSector, ColWeight, ColDate, ColPBR, ColROE, ColDY, ColMarketCap}
)

// Constituent is one member of an index
type Constituent struct {
	Index  string
	Code   string
	Name   string
	Sector string
	Weight Number
}

// Financial is a dated observation of a constituent's fundamentals
type Financial struct {
	Index     string
	Code      string
	Date      *time.Time
	PBR       Number
	ROE       Number
	DY        Number
	MarketCap Number
	Weight    Number
}

// Row is one line of the canonical table
type Row struct {
	Index     string `csv:"index" json:"index" yaml:"index"`
	Code      string `csv:"code" json:"code" yaml:"code"`
	Name      string `csv:"name" json:"name" yaml:"name"`
	Sector    string `csv:"sector" json:"sector" yaml:"sector"`
	Weight    Number `csv:"weight" json:"weight" yaml:"weight"`
	Date      string `csv:"date" json:"date" yaml:"date"`
	PBR       Number `csv:"pbr" json:"pbr" yaml:"pbr"`
	ROE       Number `csv:"roe" json:"roe" yaml:"roe"`
	DY        Number `csv:"dy" json:"dy" yaml:"dy"`
	MarketCap Number `csv:"market_cap" json:"market_cap" yaml:"market_cap"`
}

// Value returns the numeric column col; non-numeric columns are missing
func (row *Row) Value(col string) Number {
	switch col {
	case ColWeight:
		return row.Weight
	case ColPBR:
		return row.PBR
	case ColROE:
		return row.ROE
	case ColDY:
		return row.DY
	case ColMarketCap:
		return row.MarketCap
	default:
		return Number{}
	}
}

// Text returns the string column col
func (row *Row) Text(col string) string {
	switch col {
	case ColIndex:
		return row.Index
	case ColCode:
		return row.Code
	case ColName:
		return row.Name
	case ColSector:
		return row.Sector
	case ColDate:
		return row.Date
	default:
		return ""
	}
}

func (row *Row) MarshalZerologObject(e *zerolog.Event) {
	e.Str("Index", row.Index)
	e.Str("Code", row.Code)
	e.Str("Date", row.Date)
}

// Table is a list of canonical rows together with the columns the source
// actually carried
type Table struct {
	Columns []string
	Rows    []Row
}

func (tbl *Table) HasColumn(name string) bool {
	return slices.Contains(tbl.Columns, name)
}

// Indices returns the distinct non-empty index names in order of first
// appearance
func (tbl *Table) Indices() []string {
	seen := make(map[string]bool)
	indices := make([]string, 0)
	for _, row := range tbl.Rows {
		if row.Index == "" || seen[row.Index] {
			continue
		}
		seen[row.Index] = true
		indices = append(indices, row.Index)
	}
	return indices
}

// hasFinancials reports whether any canonical financial column is present
func (tbl *Table) hasFinancials() bool {
	for _, col := range CanonicalColumns[len(MemberColumns):] {
		if tbl.HasColumn(col) {
			return true
		}
	}
	return false
}
