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
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/penny-vault/idxstats/canonical"
	"github.com/penny-vault/idxstats/metrics"
	"github.com/penny-vault/idxstats/narrative"
	"github.com/penny-vault/idxstats/notes"
	"github.com/penny-vault/idxstats/render"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// metricsFlags are the metrics document locations shared by the report
// commands
type metricsFlags struct {
	pbr   string
	roe   string
	yield string
	hhi   string
}

func (flags *metricsFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flags.pbr, "pbr", "", "price-to-book metrics file")
	cmd.Flags().StringVar(&flags.roe, "roe", "", "return on equity metrics file")
	cmd.Flags().StringVar(&flags.yield, "yield", "", "dividend yield metrics file")
	cmd.Flags().StringVar(&flags.hhi, "hhi", "", "sector concentration metrics file")
}

func (flags *metricsFlags) paths() metrics.Paths {
	return metrics.Paths{
		PBR:           flags.pbr,
		ROE:           flags.roe,
		Yield:         flags.yield,
		Concentration: flags.hhi,
	}
}

// commandContext returns a context carrying the global logger
func commandContext() context.Context {
	return log.Logger.WithContext(context.Background())
}

func canonicalOptions() canonical.Options {
	return canonical.Options{DefaultIndex: viper.GetString("index.default")}
}

func comparison() narrative.Comparison {
	return narrative.Comparison{
		Primary:        viper.GetString("index.primary"),
		Benchmark:      viper.GetString("index.benchmark"),
		PrimaryLabel:   viper.GetString("index.primary_label"),
		BenchmarkLabel: viper.GetString("index.benchmark_label"),
	}
}

func renderConfig() render.Config {
	return render.Config{
		Repository: viper.GetString("render.repository"),
		Comparison: comparison(),
	}
}

// notesOptions collects the request options for providerName; the API key
// is read from the "<provider>.api_key" setting
func notesOptions(providerName string) notes.Options {
	return notes.Options{
		Model:       viper.GetString("notes.model"),
		Temperature: viper.GetFloat64("notes.temperature"),
		APIKey:      viper.GetString(fmt.Sprintf("%s.api_key", providerName)),
		BaseURL:     viper.GetString("notes.base_url"),
		MaxTokens:   viper.GetInt("notes.max_tokens"),
	}
}

func dbURL(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return viper.GetString("db.url")
}

// printMarkdown renders doc for the terminal
func printMarkdown(doc string) {
	r, _ := glamour.NewTermRenderer(
		// detect background color and pick either the default dark or light theme
		glamour.WithAutoStyle(),
		// wrap output at specific width (default is 80)
		glamour.WithWordWrap(80),
	)

	out, err := r.Render(doc)
	if err != nil {
		log.Fatal().Err(err).Msg("could not render markdown document")
	}

	fmt.Print(out)
}
