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

// Package metrics holds the JSON documents that the statistics stage hands
// to the renderer. Every document maps metric name to index name to value;
// fields are declared alphabetically so the encoded key order is sorted.
package metrics

import (
	"github.com/penny-vault/idxstats/data"
)

const (
	FamilyPBR           = "pbr"
	FamilyROE           = "roe"
	FamilyYield         = "dy"
	FamilyConcentration = "hhi"
)

// Quantiles reported by the ROE document, keyed by percentile
var Quantiles = []struct {
	Key string
	Q   float64
}{
	{"25", 0.25},
	{"50", 0.50},
	{"75", 0.75},
}

// Values maps index name to a value that may be null
type Values map[string]*float64

// Get returns the value for index; absent or null entries are missing
func (v Values) Get(index string) data.Number {
	if v == nil {
		return data.Number{}
	}
	return data.ParseNumber(v[index])
}

// Set stores n under index, writing null when n is missing
func (v Values) Set(index string, n data.Number) {
	v[index] = n.Ptr()
}

// Counts maps index name to a number of observations
type Counts map[string]int

type PBR struct {
	Count  Counts `json:"count"`
	LT1    Values `json:"lt1"`
	Mean   Values `json:"mean"`
	Median Values `json:"median"`
}

func NewPBR() *PBR {
	return &PBR{Count: Counts{}, LT1: Values{}, Mean: Values{}, Median: Values{}}
}

type ROE struct {
	Count     Counts            `json:"count"`
	Median    Values            `json:"median"`
	Quantiles map[string]Values `json:"quantiles"`
}

func NewROE() *ROE {
	doc := &ROE{Count: Counts{}, Median: Values{}, Quantiles: make(map[string]Values, len(Quantiles))}
	for _, q := range Quantiles {
		doc.Quantiles[q.Key] = Values{}
	}
	return doc
}

// Quantile returns the percentile p (e.g. "25") for index
func (doc *ROE) Quantile(p, index string) data.Number {
	if doc == nil {
		return data.Number{}
	}
	return doc.Quantiles[p].Get(index)
}

type Yield struct {
	Count  Counts `json:"count"`
	Mean   Values `json:"mean"`
	Median Values `json:"median"`
}

func NewYield() *Yield {
	return &Yield{Count: Counts{}, Mean: Values{}, Median: Values{}}
}

type Concentration struct {
	Constituents Counts `json:"constituents"`
	HHI          Values `json:"hhi"`
	Top10Weight  Values `json:"top10_weight"`
}

func NewConcentration() *Concentration {
	return &Concentration{Constituents: Counts{}, HHI: Values{}, Top10Weight: Values{}}
}
