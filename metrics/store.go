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
package metrics

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/goccy/go-json"
	"github.com/penny-vault/idxstats/data"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Save writes doc as indented JSON, creating parent directories as needed
func Save(fn string, doc any) error {
	if err := os.MkdirAll(filepath.Dir(fn), 0o755); err != nil {
		return err
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(fn, raw, 0o644); err != nil {
		return err
	}

	log.Info().Str("FileName", fn).Msg("wrote metrics document")
	return nil
}

// Load reads a metrics document into doc
func Load(fn string, doc any) error {
	raw, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", data.ErrInputNotFound, fn)
		}
		return err
	}

	if err := json.Unmarshal(raw, doc); err != nil {
		return fmt.Errorf("%w: %s: %w", data.ErrSchema, fn, err)
	}
	return nil
}

// Paths locates the four metrics documents. Empty paths are skipped.
type Paths struct {
	PBR           string
	ROE           string
	Yield         string
	Concentration string
}

// Bundle is the full set of documents consumed by the renderer
type Bundle struct {
	PBR           *PBR
	ROE           *ROE
	Yield         *Yield
	Concentration *Concentration
}

// NewBundle returns a bundle of empty documents
func NewBundle() *Bundle {
	return &Bundle{
		PBR:           NewPBR(),
		ROE:           NewROE(),
		Yield:         NewYield(),
		Concentration: NewConcentration(),
	}
}

// LoadBundle reads all four documents. A missing file leaves that document
// empty and logs a warning; a malformed file is an error.
func LoadBundle(ctx context.Context, paths Paths) (*Bundle, error) {
	bundle := NewBundle()
	docs := []struct {
		fn  string
		doc any
	}{
		{paths.PBR, bundle.PBR},
		{paths.ROE, bundle.ROE},
		{paths.Yield, bundle.Yield},
		{paths.Concentration, bundle.Concentration},
	}

	logger := zerolog.Ctx(ctx)
	for _, item := range docs {
		if item.fn == "" {
			continue
		}
		err := Load(item.fn, item.doc)
		switch {
		case errors.Is(err, data.ErrInputNotFound):
			logger.Warn().Str("FileName", item.fn).Msg("metrics file not found")
		case err != nil:
			return nil, err
		}
	}

	return bundle, nil
}

// Indices returns the sorted union of index names across every document
func (b *Bundle) Indices() []string {
	seen := make(map[string]bool)
	add := func(names ...map[string]*float64) {
		for _, m := range names {
			for k := range m {
				seen[k] = true
			}
		}
	}
	addCounts := func(names ...map[string]int) {
		for _, m := range names {
			for k := range m {
				seen[k] = true
			}
		}
	}

	if b.PBR != nil {
		addCounts(b.PBR.Count)
		add(b.PBR.LT1, b.PBR.Mean, b.PBR.Median)
	}
	if b.ROE != nil {
		addCounts(b.ROE.Count)
		add(b.ROE.Median)
		for _, q := range b.ROE.Quantiles {
			add(q)
		}
	}
	if b.Yield != nil {
		addCounts(b.Yield.Count)
		add(b.Yield.Mean, b.Yield.Median)
	}
	if b.Concentration != nil {
		addCounts(b.Concentration.Constituents)
		add(b.Concentration.HHI, b.Concentration.Top10Weight)
	}

	indices := make([]string, 0, len(seen))
	for k := range seen {
		indices = append(indices, k)
	}
	sort.Strings(indices)
	return indices
}

// Observation is a single flattened metric value
type Observation struct {
	Family string
	Metric string
	Index  string
	Value  *float64
}

// Observations flattens the bundle in family, metric, index order
func (b *Bundle) Observations() []*Observation {
	obs := make([]*Observation, 0)

	values := func(family, metric string, vals map[string]*float64) {
		for _, index := range sortedKeys(vals) {
			obs = append(obs, &Observation{Family: family, Metric: metric, Index: index, Value: vals[index]})
		}
	}
	counts := func(family, metric string, vals map[string]int) {
		for _, index := range sortedKeys(vals) {
			v := float64(vals[index])
			obs = append(obs, &Observation{Family: family, Metric: metric, Index: index, Value: &v})
		}
	}

	if b.PBR != nil {
		counts(FamilyPBR, "count", b.PBR.Count)
		values(FamilyPBR, "lt1", b.PBR.LT1)
		values(FamilyPBR, "mean", b.PBR.Mean)
		values(FamilyPBR, "median", b.PBR.Median)
	}
	if b.ROE != nil {
		counts(FamilyROE, "count", b.ROE.Count)
		values(FamilyROE, "median", b.ROE.Median)
		for _, p := range sortedKeys(b.ROE.Quantiles) {
			values(FamilyROE, "quantile_"+p, b.ROE.Quantiles[p])
		}
	}
	if b.Yield != nil {
		counts(FamilyYield, "count", b.Yield.Count)
		values(FamilyYield, "mean", b.Yield.Mean)
		values(FamilyYield, "median", b.Yield.Median)
	}
	if b.Concentration != nil {
		counts(FamilyConcentration, "constituents", b.Concentration.Constituents)
		values(FamilyConcentration, "hhi", b.Concentration.HHI)
		values(FamilyConcentration, "top10_weight", b.Concentration.Top10Weight)
	}

	return obs
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
