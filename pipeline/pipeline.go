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

// Package pipeline runs every step from raw inputs to rendered report in a
// single call: canonical table, the four metric families, site and README.
package pipeline

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"time"

	"github.com/penny-vault/idxstats/canonical"
	"github.com/penny-vault/idxstats/data"
	"github.com/penny-vault/idxstats/metrics"
	"github.com/penny-vault/idxstats/render"
	"github.com/penny-vault/idxstats/stats"
	"github.com/rs/zerolog"
)

// Output file names, relative to Config.OutDir
const (
	CanonicalFile     = "canonical.csv"
	PBRFile           = "metrics/pbr.json"
	ROEFile           = "metrics/roe.json"
	YieldFile         = "metrics/dy.json"
	ConcentrationFile = "metrics/hhi.json"
	SiteFile          = "site/index.html"
	ReadmeFile        = "README.md"
)

type Config struct {
	Constituents string
	Financials   string
	OutDir       string

	// Notes is an optional markdown file included in both reports
	Notes string

	Canonical canonical.Options
	Render    render.Config
}

// Result describes a completed run
type Result struct {
	NumRecords int
	Indices    []string
	Bundle     *metrics.Bundle
	Files      []string
	Elapsed    time.Duration
}

// Paths returns the location of each metrics document written by a run
func (cfg Config) Paths() metrics.Paths {
	return metrics.Paths{
		PBR:           filepath.Join(cfg.OutDir, PBRFile),
		ROE:           filepath.Join(cfg.OutDir, ROEFile),
		Yield:         filepath.Join(cfg.OutDir, YieldFile),
		Concentration: filepath.Join(cfg.OutDir, ConcentrationFile),
	}
}

// Run executes the whole pipeline. A metric family whose column is absent
// from the canonical table is written as an empty document.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	logger := zerolog.Ctx(ctx)
	start := time.Now()

	renderer, err := render.New(cfg.Render)
	if err != nil {
		return nil, err
	}

	tbl, err := canonical.Build(ctx, cfg.Constituents, cfg.Financials, cfg.Canonical)
	if err != nil {
		return nil, err
	}

	result := &Result{
		NumRecords: len(tbl.Rows),
		Indices:    tbl.Indices(),
		Bundle:     metrics.NewBundle(),
	}

	canonicalFn := filepath.Join(cfg.OutDir, CanonicalFile)
	if err := data.DumpTable(tbl, canonicalFn, time.Now().UTC()); err != nil {
		return nil, err
	}
	result.Files = append(result.Files, canonicalFn)

	paths := cfg.Paths()
	steps := []struct {
		name string
		fn   string
		run  func() error
		doc  func() any
	}{
		{metrics.FamilyPBR, paths.PBR, func() error {
			doc, err := stats.PBR(tbl)
			if err == nil {
				result.Bundle.PBR = doc
			}
			return err
		}, func() any { return result.Bundle.PBR }},
		{metrics.FamilyROE, paths.ROE, func() error {
			doc, err := stats.ROE(tbl)
			if err == nil {
				result.Bundle.ROE = doc
			}
			return err
		}, func() any { return result.Bundle.ROE }},
		{metrics.FamilyYield, paths.Yield, func() error {
			doc, err := stats.Yield(tbl)
			if err == nil {
				result.Bundle.Yield = doc
			}
			return err
		}, func() any { return result.Bundle.Yield }},
		{metrics.FamilyConcentration, paths.Concentration, func() error {
			doc, err := stats.Concentration(tbl)
			if err == nil {
				result.Bundle.Concentration = doc
			}
			return err
		}, func() any { return result.Bundle.Concentration }},
	}

	for _, step := range steps {
		err := step.run()
		switch {
		case errors.Is(err, data.ErrSchema):
			logger.Warn().Err(err).Str("Metric", step.name).Msg("column missing from canonical table; writing empty metrics")
		case err != nil:
			return nil, err
		}

		if err := metrics.Save(step.fn, step.doc()); err != nil {
			return nil, err
		}
		result.Files = append(result.Files, step.fn)
	}

	notes := render.ReadNotes(ctx, cfg.Notes)

	siteFn := filepath.Join(cfg.OutDir, SiteFile)
	err = render.WriteFile(siteFn, func(w io.Writer) error {
		return renderer.Site(ctx, result.Bundle, notes, w)
	})
	if err != nil {
		return nil, err
	}
	result.Files = append(result.Files, siteFn)

	readmeFn := filepath.Join(cfg.OutDir, ReadmeFile)
	err = render.WriteFile(readmeFn, func(w io.Writer) error {
		return renderer.Readme(ctx, result.Bundle, notes, w)
	})
	if err != nil {
		return nil, err
	}
	result.Files = append(result.Files, readmeFn)

	result.Elapsed = time.Since(start)
	logger.Info().Int("NumRecords", result.NumRecords).Int("NumFiles", len(result.Files)).Dur("Elapsed", result.Elapsed).Msg("pipeline complete")

	return result, nil
}
