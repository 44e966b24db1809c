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
	"errors"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5"
	"github.com/pelletier/go-toml/v2"
	"github.com/penny-vault/idxstats/db"
	"github.com/penny-vault/idxstats/library"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	initOut   string
	initForce bool
	initDB    library.Library
)

type indexConfig struct {
	Default        string `toml:"default"`
	Primary        string `toml:"primary"`
	Benchmark      string `toml:"benchmark"`
	PrimaryLabel   string `toml:"primary_label"`
	BenchmarkLabel string `toml:"benchmark_label"`
}

type renderSettings struct {
	Repository string `toml:"repository"`
}

type notesConfig struct {
	Provider    string  `toml:"provider"`
	Model       string  `toml:"model"`
	Temperature float64 `toml:"temperature"`
	BaseURL     string  `toml:"base_url"`
}

type backblazeConfig struct {
	ApplicationID  string `toml:"application_id"`
	ApplicationKey string `toml:"application_key"`
	Bucket         string `toml:"bucket"`
}

type healthchecksConfig struct {
	PingID string `toml:"ping_id"`
}

// configFile is the layout of $HOME/.idxstats.toml
type configFile struct {
	Index        indexConfig        `toml:"index"`
	Render       renderSettings     `toml:"render"`
	Notes        notesConfig        `toml:"notes"`
	DB           library.Library    `toml:"db"`
	Backblaze    backblazeConfig    `toml:"backblaze"`
	Healthchecks healthchecksConfig `toml:"healthchecks"`
}

func defaultConfigFile() configFile {
	return configFile{
		Index: indexConfig{
			Default:        "yomiuri333",
			Primary:        "yomiuri333",
			Benchmark:      "topix",
			PrimaryLabel:   "Yomiuri 333",
			BenchmarkLabel: "TOPIX",
		},
		Notes: notesConfig{
			Provider:    "openai",
			Temperature: 0.2,
		},
	}
}

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file and optionally set up the archive schema",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		configFN := initOut
		if configFN == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				log.Fatal().Err(err).Msg("could not determine user home directory")
			}
			configFN = filepath.Join(home, ".idxstats.toml")
		}

		if _, err := os.Stat(configFN); err == nil && !initForce {
			log.Fatal().Str("ConfigFile", configFN).Msg("config file already exists; use --force to overwrite")
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Fatal().Err(err).Str("ConfigFile", configFN).Msg("could not stat config file")
		}

		conf := defaultConfigFile()

		if initDB.DBUrl != "" {
			if _, err := pgx.ParseConfig(initDB.DBUrl); err != nil {
				log.Fatal().Err(err).Msg("invalid database connection string")
			}

			log.Info().Msg("creating database tables")
			if err := db.Migrate(initDB.DBUrl); err != nil {
				log.Fatal().Err(err).Msg("error running database migration")
			}
			log.Info().Msg("database tables created")

			log.Info().Msg("Saving library name and owner to database")
			if err := initDB.Connect(ctx); err != nil {
				log.Fatal().Err(err).Msg("could not connect to database")
			}
			defer initDB.Close()

			if err := initDB.SaveDB(ctx); err != nil {
				log.Fatal().Err(err).Msg("error saving library settings to database")
			}

			conf.DB = initDB
		}

		log.Info().Str("ConfigFile", configFN).Msg("Saving configuration to file")
		configData, err := toml.Marshal(conf)
		if err != nil {
			log.Fatal().Err(err).Msg("could not marshal configuration data")
		}

		err = os.WriteFile(configFN, configData, 0600)
		if err != nil {
			log.Fatal().Err(err).Str("FileName", configFN).Msg("could not save configuration to file")
		}

		log.Info().Msg("idxstats has been initialized")
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVarP(&initOut, "out", "o", "", "config file to write (default is $HOME/.idxstats.toml)")
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
	initCmd.Flags().StringVar(&initDB.DBUrl, "db-url", "", "PostgreSQL DSN for the metrics archive (postgres://[user[:password]@][netloc][:port][/dbname])")
	initCmd.Flags().StringVar(&initDB.Name, "name", "idxstats", "archive name")
	initCmd.Flags().StringVar(&initDB.Owner, "owner", "", "archive owner")
}
