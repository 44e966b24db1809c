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
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	logLevel string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "idxstats",
	Short: "idxstats builds valuation, profitability, income and concentration reports for equity indices",
	Long: `idxstats is a command line utility that turns constituent lists and
per-company financials for one or more equity indices into a small set of
comparative metrics:

	* price-to-book (share of members trading below book, mean, median)
	* return on equity (median and quartiles)
	* dividend yield (mean and median)
	* sector concentration (Herfindahl-Hirschman index and top 10 weight)

The metrics are rendered into a static HTML report and a README with a short
narrative comparing a primary index against its benchmark. Runs can be
archived to PostgreSQL and the rendered report published to Backblaze B2.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initLogging)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.idxstats.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".idxstats" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("toml")
		viper.SetConfigName(".idxstats")
	}

	setDefaults()

	viper.SetEnvPrefix("IDXSTATS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	bindEnv("render.repository", "IDXSTATS_RENDER_REPOSITORY", "GITHUB_REPOSITORY")
	bindEnv("openai.api_key", "IDXSTATS_OPENAI_API_KEY", "OPENAI_API_KEY")
	bindEnv("anthropic.api_key", "IDXSTATS_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
	bindEnv("gemini.api_key", "IDXSTATS_GEMINI_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY")

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Info().Str("ConfigFN", viper.ConfigFileUsed()).Msg("Using config file")
	}
}

func initLogging() {
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		log.Warn().Str("LogLevel", logLevel).Msg("unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}

func setDefaults() {
	viper.SetDefault("index.default", "yomiuri333")
	viper.SetDefault("index.primary", "yomiuri333")
	viper.SetDefault("index.benchmark", "topix")
	viper.SetDefault("index.primary_label", "Yomiuri 333")
	viper.SetDefault("index.benchmark_label", "TOPIX")
	viper.SetDefault("notes.provider", "openai")
	viper.SetDefault("notes.temperature", 0.2)
	viper.SetDefault("notes.max_tokens", 1024)
}

func bindEnv(key string, envs ...string) {
	if err := viper.BindEnv(append([]string{key}, envs...)...); err != nil {
		log.Panic().Err(err).Str("Key", key).Msg("BindEnv failed")
	}
}
