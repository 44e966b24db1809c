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

// Package library archives metrics runs in PostgreSQL so that successive
// reports can be compared over time.
package library

import (
	"context"
	"errors"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/penny-vault/idxstats/metrics"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Library struct {
	DBUrl string `toml:"url"`
	Name  string `toml:"name"`
	Owner string `toml:"owner"`

	Pool *pgxpool.Pool `toml:"-"`
}

// Run is one archived execution of the metrics pipeline
type Run struct {
	ID              uuid.UUID `db:"id"`
	CreatedOn       time.Time `db:"created_on"`
	Source          string    `db:"source"`
	PrimaryIndex    string    `db:"primary_index"`
	BenchmarkIndex  string    `db:"benchmark_index"`
	NumObservations int       `db:"num_observations"`
}

func (run *Run) MarshalZerologObject(e *zerolog.Event) {
	e.Str("RunID", run.ID.String())
	e.Str("Source", run.Source)
	e.Int("NumObservations", run.NumObservations)
}

// Connect to the database configured for the library
func (myLibrary *Library) Connect(ctx context.Context) error {
	if myLibrary.Pool != nil {
		return nil
	}

	pool, err := pgxpool.New(ctx, myLibrary.DBUrl)
	if err != nil {
		return err
	}
	myLibrary.Pool = pool

	return nil
}

// Close the database pool
func (myLibrary *Library) Close() {
	if myLibrary.Pool != nil {
		myLibrary.Pool.Close()
	}
}

// NewFromDB creates a new library object with values from the database
func NewFromDB(ctx context.Context, dbURL string) (*Library, error) {
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, err
	}

	myLibrary := Library{
		DBUrl: dbURL,
		Pool:  pool,
	}

	err = pool.QueryRow(ctx, "SELECT name, owner FROM library LIMIT 1").Scan(&myLibrary.Name, &myLibrary.Owner)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		myLibrary.Name = "idxstats"
	case err != nil:
		pool.Close()
		return nil, err
	}

	return &myLibrary, nil
}

// SaveDB creates a new record in the library table for this library
func (myLibrary *Library) SaveDB(ctx context.Context) error {
	_, err := myLibrary.Pool.Exec(ctx, `INSERT INTO library ("name", "owner") VALUES ($1, $2)`, myLibrary.Name, myLibrary.Owner)
	return err
}

// SaveRun stores run and its observations in a single transaction. A zero
// run ID is replaced with a new random one.
func (myLibrary *Library) SaveRun(ctx context.Context, run *Run, observations []*metrics.Observation) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.CreatedOn.IsZero() {
		run.CreatedOn = time.Now().UTC()
	}
	run.NumObservations = len(observations)

	tx, err := myLibrary.Pool.Begin(ctx)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `INSERT INTO runs (
		"id",
		"created_on",
		"source",
		"primary_index",
		"benchmark_index",
		"num_observations"
	) VALUES ($1, $2, $3, $4, $5, $6)`,
		run.ID, run.CreatedOn, run.Source, run.PrimaryIndex, run.BenchmarkIndex, run.NumObservations)
	if err != nil {
		log.Error().Err(err).Object("Run", run).Msg("save run to DB failed")
		if err2 := tx.Rollback(ctx); err2 != nil {
			log.Error().Err(err2).Msg("error rolling back tx")
		}
		return err
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"observations"},
		[]string{"run_id", "family", "metric", "index_name", "value"},
		pgx.CopyFromSlice(len(observations), func(idx int) ([]any, error) {
			obs := observations[idx]
			return []any{run.ID, obs.Family, obs.Metric, obs.Index, obs.Value}, nil
		}),
	)
	if err != nil {
		log.Error().Err(err).Object("Run", run).Msg("save observations to DB failed")
		if err2 := tx.Rollback(ctx); err2 != nil {
			log.Error().Err(err2).Msg("error rolling back tx")
		}
		return err
	}

	return tx.Commit(ctx)
}

// Runs returns the most recent runs, newest first
func (myLibrary *Library) Runs(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 10
	}

	var runs []*Run
	err := pgxscan.Select(ctx, myLibrary.Pool, &runs,
		`SELECT id, created_on, source, primary_index, benchmark_index, num_observations
FROM runs ORDER BY created_on DESC LIMIT $1`, limit)
	return runs, err
}

// RunObservations returns every observation stored for a run in family,
// metric, index order
func (myLibrary *Library) RunObservations(ctx context.Context, runID uuid.UUID) ([]*metrics.Observation, error) {
	var observations []*metrics.Observation
	err := pgxscan.Select(ctx, myLibrary.Pool, &observations,
		`SELECT family, metric, index_name AS "index", value FROM observations
WHERE run_id = $1 ORDER BY family, metric, index_name`, runID)
	return observations, err
}

// NumRuns returns the total count of archived runs
func (myLibrary *Library) NumRuns(ctx context.Context) (int, error) {
	count := 0
	err := myLibrary.Pool.QueryRow(ctx, "SELECT count(*) FROM runs").Scan(&count)
	return count, err
}

// TotalObservations returns the number of values stored across all runs
func (myLibrary *Library) TotalObservations(ctx context.Context) (int, error) {
	count := 0
	err := myLibrary.Pool.QueryRow(ctx, "SELECT coalesce(sum(num_observations), 0) FROM runs").Scan(&count)
	return count, err
}

// LastUpdated returns the time of the most recent run
func (myLibrary *Library) LastUpdated(ctx context.Context) (time.Time, error) {
	var lastUpdated time.Time
	err := myLibrary.Pool.QueryRow(ctx, "SELECT coalesce(max(created_on), '0001-01-01'::timestamptz) FROM runs").Scan(&lastUpdated)
	if err != nil {
		return time.Time{}, err
	}

	return lastUpdated, nil
}
