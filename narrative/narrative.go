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

// Package narrative turns two indices' metrics into comparison sentences
// and a strengths / weaknesses / cautions summary. All comparisons are
// primary minus benchmark, and a difference of exactly zero takes the
// favourable branch.
package narrative

import (
	"fmt"
	"math"

	"github.com/penny-vault/idxstats/data"
	"github.com/penny-vault/idxstats/metrics"
)

// Comparison names the index being described and the one it is measured
// against
type Comparison struct {
	Primary        string
	Benchmark      string
	PrimaryLabel   string
	BenchmarkLabel string
}

func DefaultComparison() Comparison {
	return Comparison{
		Primary:        data.DefaultIndex,
		Benchmark:      "topix",
		PrimaryLabel:   "Yomiuri 333",
		BenchmarkLabel: "TOPIX",
	}
}

func (cmp Comparison) primary() string {
	if cmp.PrimaryLabel != "" {
		return cmp.PrimaryLabel
	}
	return cmp.Primary
}

func (cmp Comparison) benchmark() string {
	if cmp.BenchmarkLabel != "" {
		return cmp.BenchmarkLabel
	}
	return cmp.Benchmark
}

type Logic struct {
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
	Cautions   []string `json:"cautions"`
}

// pair is the primary and benchmark value of one metric
type pair struct {
	primary   data.Number
	benchmark data.Number
}

func (p pair) ok() bool {
	return p.primary.Valid && p.benchmark.Valid
}

func (p pair) diff() float64 {
	return p.primary.Value - p.benchmark.Value
}

func lookup(vals metrics.Values, cmp Comparison) pair {
	return pair{primary: vals.Get(cmp.Primary), benchmark: vals.Get(cmp.Benchmark)}
}

func pbrLT1(b *metrics.Bundle, cmp Comparison) pair {
	if b == nil || b.PBR == nil {
		return pair{}
	}
	return lookup(b.PBR.LT1, cmp)
}

func roeMedian(b *metrics.Bundle, cmp Comparison) pair {
	if b == nil || b.ROE == nil {
		return pair{}
	}
	return lookup(b.ROE.Median, cmp)
}

func dyMean(b *metrics.Bundle, cmp Comparison) pair {
	if b == nil || b.Yield == nil {
		return pair{}
	}
	return lookup(b.Yield.Mean, cmp)
}

func hhi(b *metrics.Bundle, cmp Comparison) pair {
	if b == nil || b.Concentration == nil {
		return pair{}
	}
	return lookup(b.Concentration.HHI, cmp)
}

// Insights returns one comparison sentence for each metric family, in the
// order value, profitability, income, concentration.
func Insights(b *metrics.Bundle, cmp Comparison) []string {
	insights := make([]string, 0, 4)

	if p := pbrLT1(b, cmp); p.ok() {
		diff := p.diff() * 100
		direction := "above"
		if diff < 0 {
			direction = "below"
		}
		insights = append(insights, fmt.Sprintf(
			"Value: the share of %s constituents trading below book (PBR<1) is %.1f pts %s %s.",
			cmp.primary(), math.Abs(diff), direction, cmp.benchmark()))
	} else {
		insights = append(insights, "Value: PBR data is insufficient for a comparison.")
	}

	if p := roeMedian(b, cmp); p.ok() {
		descriptor := "higher than"
		if p.diff() < 0 {
			descriptor = "lower than"
		}
		insights = append(insights, fmt.Sprintf(
			"Profitability: the %s ROE median is %s %s (%.2f vs %.2f).",
			cmp.primary(), descriptor, cmp.benchmark(), p.primary.Value, p.benchmark.Value))
	} else {
		insights = append(insights, "Profitability: ROE medians cannot be compared.")
	}

	if p := dyMean(b, cmp); p.ok() {
		descriptor := "higher than"
		if p.diff() < 0 {
			descriptor = "lower than"
		}
		insights = append(insights, fmt.Sprintf(
			"Income: the %s mean dividend yield is %s %s (%.2f%% vs %.2f%%).",
			cmp.primary(), descriptor, cmp.benchmark(), p.primary.Value, p.benchmark.Value))
	} else {
		insights = append(insights, "Income: dividend yield data is insufficient.")
	}

	if p := hhi(b, cmp); p.ok() {
		descriptor := "no more concentrated than"
		if p.diff() > 0 {
			descriptor = "more concentrated than"
		}
		insights = append(insights, fmt.Sprintf(
			"Concentration: the %s sector HHI is %.3f, %s %s (%.3f).",
			cmp.primary(), p.primary.Value, descriptor, cmp.benchmark(), p.benchmark.Value))
	} else {
		insights = append(insights, "Concentration: sector HHI data is insufficient.")
	}

	return insights
}

// Summarize sorts each metric family into exactly one of strengths,
// weaknesses or cautions. Missing data always lands in cautions.
func Summarize(b *metrics.Bundle, cmp Comparison) Logic {
	logic := Logic{
		Strengths:  []string{},
		Weaknesses: []string{},
		Cautions:   []string{},
	}

	if p := pbrLT1(b, cmp); p.ok() {
		gap := math.Abs(p.diff()) * 100
		if p.diff() >= 0 {
			logic.Strengths = append(logic.Strengths, fmt.Sprintf(
				"The PBR<1 share is %.1f pts higher than %s, leaving more room for a value re-rating.",
				gap, cmp.benchmark()))
		} else {
			logic.Weaknesses = append(logic.Weaknesses, fmt.Sprintf(
				"The PBR<1 share is %.1f pts lower than %s, so deep-value exposure is limited.",
				gap, cmp.benchmark()))
		}
	} else {
		logic.Cautions = append(logic.Cautions, "PBR data is incomplete, so the value tilt cannot be verified.")
	}

	if p := roeMedian(b, cmp); p.ok() {
		if p.diff() >= 0 {
			logic.Strengths = append(logic.Strengths, fmt.Sprintf(
				"The ROE median is on par with or above %s (%.2f vs %.2f), easing the low-ROE bias.",
				cmp.benchmark(), p.primary.Value, p.benchmark.Value))
		} else {
			logic.Weaknesses = append(logic.Weaknesses, fmt.Sprintf(
				"The ROE median trails %s by %.2f points, a headwind for capital efficiency.",
				cmp.benchmark(), math.Abs(p.diff())))
		}
	} else {
		logic.Cautions = append(logic.Cautions, "ROE data is missing, so profitability should be read with care.")
	}

	if p := dyMean(b, cmp); p.ok() {
		if p.diff() >= 0 {
			logic.Strengths = append(logic.Strengths, fmt.Sprintf(
				"The mean dividend yield is %.2f pts above %s, keeping the income profile attractive.",
				p.diff(), cmp.benchmark()))
		} else {
			logic.Weaknesses = append(logic.Weaknesses, fmt.Sprintf(
				"The mean dividend yield is %.2f pts below %s, so its income contribution is limited.",
				math.Abs(p.diff()), cmp.benchmark()))
		}
	} else {
		logic.Cautions = append(logic.Cautions, "The dividend yield data is missing, so the income profile is hard to assess.")
	}

	if p := hhi(b, cmp); p.ok() {
		if p.diff() > 0 {
			logic.Weaknesses = append(logic.Weaknesses, fmt.Sprintf(
				"The sector HHI (%.3f) is higher than %s (%.3f), a relatively larger concentration risk.",
				p.primary.Value, cmp.benchmark(), p.benchmark.Value))
		} else {
			logic.Strengths = append(logic.Strengths, fmt.Sprintf(
				"The sector HHI is %.3f against %.3f for %s, confirming the diversification of the equal-weight design.",
				p.primary.Value, p.benchmark.Value, cmp.benchmark()))
		}
	} else {
		logic.Cautions = append(logic.Cautions, "Sector data is insufficient to trace HHI concentration.")
	}

	var top10 data.Number
	if b != nil && b.Concentration != nil {
		top10 = b.Concentration.Top10Weight.Get(cmp.Primary)
	}
	if !top10.Valid {
		logic.Cautions = append(logic.Cautions, "Top-10 weight data is missing, which limits checks on single-name concentration.")
	}

	return logic
}
