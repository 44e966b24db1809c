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
	"github.com/penny-vault/idxstats/backblaze"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	publishDir    string
	publishPrefix string
)

// publishCmd represents the publish command
var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Upload the rendered report to a Backblaze B2 bucket",
	Run: func(cmd *cobra.Command, args []string) {
		bucket := viper.GetString("backblaze.bucket")
		if bucket == "" {
			log.Fatal().Msg("no bucket configured; set --bucket or backblaze.bucket")
		}

		numFiles, err := publish(publishDir, bucket, publishPrefix)
		if err != nil {
			log.Fatal().Err(err).Str("Dir", publishDir).Str("BucketName", bucket).Msg("publish failed")
		}

		log.Info().Int("NumFiles", numFiles).Str("BucketName", bucket).Str("Prefix", publishPrefix).Msg("report published")
	},
}

func publish(dir, bucket, prefix string) (int, error) {
	creds := backblaze.Credentials{
		ApplicationID:  viper.GetString("backblaze.application_id"),
		ApplicationKey: viper.GetString("backblaze.application_key"),
	}
	return backblaze.UploadDir(creds, bucket, prefix, dir)
}

func init() {
	rootCmd.AddCommand(publishCmd)

	publishCmd.Flags().StringVar(&publishDir, "dir", "site", "directory to upload")
	publishCmd.Flags().String("bucket", "", "destination bucket (defaults to backblaze.bucket)")
	publishCmd.Flags().StringVar(&publishPrefix, "prefix", "", "object name prefix")

	if err := viper.BindPFlag("backblaze.bucket", publishCmd.Flags().Lookup("bucket")); err != nil {
		log.Panic().Err(err).Msg("BindPFlag for bucket failed")
	}
}
