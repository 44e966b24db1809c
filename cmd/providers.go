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
	"fmt"
	"slices"
	"strings"

	"github.com/penny-vault/idxstats/notes"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// providersCmd represents the providers command
var providersCmd = &cobra.Command{
	Use:   "providers [name]",
	Args:  cobra.MaximumNArgs(1),
	Short: "List all commentary providers or get details about a specific provider",
	Run: func(cmd *cobra.Command, args []string) {
		builder := strings.Builder{}

		if len(args) > 0 {
			provider, ok := notes.Map[args[0]]
			if !ok {
				log.Fatal().Str("Provider", args[0]).Msg("unknown provider")
			}
			builder.WriteString(fmt.Sprintf("# %s\n", provider.Name()))
			builder.WriteString(provider.Description())
			builder.WriteString("\n\n## Configuration\n")
			builder.WriteString(fmt.Sprintf("- default model: %s\n", provider.DefaultModel()))
			builder.WriteString(fmt.Sprintf("- api key: `%s` or `%s.api_key` in the config file\n", provider.KeyEnv(), args[0]))
		} else {
			builder.WriteString("# Available Providers\n")
			names := make([]string, 0, len(notes.Map))
			for name := range notes.Map {
				names = append(names, name)
			}
			slices.Sort(names)
			for _, name := range names {
				provider := notes.Map[name]
				builder.WriteString(fmt.Sprintf("\n## %s (`%s`)\n", provider.Name(), name))
				builder.WriteString(provider.Description())
				builder.WriteString("\n")
			}
		}

		printMarkdown(builder.String())
	},
}

func init() {
	rootCmd.AddCommand(providersCmd)
}
