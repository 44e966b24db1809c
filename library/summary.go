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
package library

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/penny-vault/idxstats/metrics"
	"github.com/xeonx/timeago"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// History is everything the summary document reports about the archive
type History struct {
	Name              string
	DBUrl             string
	NumRuns           int
	TotalObservations int
	LastUpdated       time.Time
	Runs              []*Run
	Latest            []*metrics.Observation
}

// Summary returns a description of the archive and its most recent runs
// in markdown
func (myLibrary *Library) Summary(ctx context.Context, limit int) (string, error) {
	var err error
	hist := History{
		Name:  myLibrary.Name,
		DBUrl: myLibrary.DBUrl,
	}

	if hist.NumRuns, err = myLibrary.NumRuns(ctx); err != nil {
		return "", err
	}

	if hist.TotalObservations, err = myLibrary.TotalObservations(ctx); err != nil {
		return "", err
	}

	if hist.LastUpdated, err = myLibrary.LastUpdated(ctx); err != nil {
		return "", err
	}

	if hist.Runs, err = myLibrary.Runs(ctx, limit); err != nil {
		return "", err
	}

	if len(hist.Runs) > 0 {
		if hist.Latest, err = myLibrary.RunObservations(ctx, hist.Runs[0].ID); err != nil {
			return "", err
		}
	}

	return hist.Markdown(), nil
}

// Markdown formats the history for display with glamour
func (hist *History) Markdown() string {
	p := message.NewPrinter(language.English)
	builder := strings.Builder{}

	builder.WriteString(fmt.Sprintf("# %s\n", hist.Name))
	builder.WriteString("## Details\n\n")
	builder.WriteString(fmt.Sprintf("Database: %s\n\n", redact(hist.DBUrl)))
	builder.WriteString(p.Sprintf("  * Runs Archived: %d\n", hist.NumRuns))
	builder.WriteString(p.Sprintf("  * Total Observations: %d\n\n", hist.TotalObservations))

	if hist.LastUpdated.IsZero() || hist.LastUpdated.Year() <= 1 {
		builder.WriteString("Last Updated: Never\n\n")
	} else {
		builder.WriteString(fmt.Sprintf("Last Updated: %s (%s)\n\n",
			timeago.English.Format(hist.LastUpdated), hist.LastUpdated.Local().Format("01/02/2006")))
	}

	builder.WriteString("## Recent runs\n\n")
	if len(hist.Runs) == 0 {
		builder.WriteString("No runs have been archived yet.\n")
		return builder.String()
	}

	for _, run := range hist.Runs {
		builder.WriteString(p.Sprintf("  * %s %s vs %s, %d observations (%s) [%s]\n",
			run.CreatedOn.UTC().Format("2006-01-02 15:04"), run.PrimaryIndex, run.BenchmarkIndex,
			run.NumObservations, timeago.English.Format(run.CreatedOn), run.ID.String()[:6]))
	}

	if len(hist.Latest) > 0 {
		builder.WriteString("\n## Latest run\n\n")
		builder.WriteString("| family | metric | index | value |\n|---|---|---|---|\n")
		for _, obs := range hist.Latest {
			value := "N/A"
			if obs.Value != nil {
				value = strconv.FormatFloat(*obs.Value, 'f', 4, 64)
			}
			builder.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", obs.Family, obs.Metric, obs.Index, value))
		}
	}

	return builder.String()
}

// redact hides the password of a connection URL
func redact(dbURL string) string {
	u, err := url.Parse(dbURL)
	if err != nil || u.User == nil {
		return dbURL
	}
	return u.Redacted()
}
