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
package cmd

import (
	"context"
	"io"

	"github.com/penny-vault/idxstats/metrics"
	"github.com/penny-vault/idxstats/render"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type reportFunc func(context.Context, *metrics.Bundle, string, io.Writer) error

// reportFlags are shared by the site and readme commands
type reportFlags struct {
	metricsFlags
	template string
	out      string
	notes    string
}

func (flags *reportFlags) register(cmd *cobra.Command, defaultOut string) {
	flags.metricsFlags.register(cmd)
	cmd.Flags().StringVar(&flags.template, "template", "", "template file (defaults to the built-in template)")
	cmd.Flags().StringVarP(&flags.out, "out", "o", defaultOut, "output file")
	cmd.Flags().StringVar(&flags.notes, "notes", "", "markdown commentary to include")
}

// writeReport loads the metrics documents named by flags and renders them
// to flags.out with the selected renderer method
func writeReport(flags *reportFlags, configure func(*render.Config), method func(*render.Renderer) reportFunc) {
	ctx := commandContext()

	bundle, err := metrics.LoadBundle(ctx, flags.paths())
	if err != nil {
		log.Fatal().Err(err).Msg("could not load metrics")
	}

	cfg := renderConfig()
	configure(&cfg)
	renderer, err := render.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("Template", flags.template).Msg("could not load template")
	}

	notes := render.ReadNotes(ctx, flags.notes)
	fill := method(renderer)
	err = render.WriteFile(flags.out, func(w io.Writer) error {
		return fill(ctx, bundle, notes, w)
	})
	if err != nil {
		log.Fatal().Err(err).Str("FileName", flags.out).Msg("could not write report")
	}

	log.Info().Str("FileName", flags.out).Strs("Indices", bundle.Indices()).Msg("report written")
}
