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
	"github.com/penny-vault/idxstats/notes"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	notesPrompt string
	notesOut    string
)

// notesCmd represents the notes command
var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Ask a language model to refresh the report commentary",
	Long: `Send the prompt file to the configured provider and write the reply as
markdown. When the provider is not configured or the request fails a
placeholder is written instead so that the report can still be rendered.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := commandContext()

		providerName := viper.GetString("notes.provider")
		if err := notes.Refresh(ctx, providerName, notesPrompt, notesOut, notesOptions(providerName)); err != nil {
			log.Fatal().Err(err).Str("Prompt", notesPrompt).Msg("could not refresh notes")
		}
	},
}

func init() {
	rootCmd.AddCommand(notesCmd)

	notesCmd.Flags().StringVar(&notesPrompt, "prompt", "", "prompt template file")
	notesCmd.Flags().StringVarP(&notesOut, "out", "o", "", "destination markdown file")
	notesCmd.Flags().String("provider", "openai", "commentary provider (see `idxstats providers`)")
	notesCmd.Flags().String("model", "", "model name (defaults to the provider's default model)")
	notesCmd.Flags().Float64("temperature", 0.2, "sampling temperature")

	for _, name := range []string{"prompt", "out"} {
		if err := notesCmd.MarkFlagRequired(name); err != nil {
			log.Panic().Err(err).Str("Flag", name).Msg("MarkFlagRequired failed")
		}
	}

	for _, name := range []string{"provider", "model", "temperature"} {
		if err := viper.BindPFlag("notes."+name, notesCmd.Flags().Lookup(name)); err != nil {
			log.Panic().Err(err).Str("Flag", name).Msg("BindPFlag failed")
		}
	}
}
