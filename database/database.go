// Copyright 2024-2025
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

package database

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// PgxIface is the subset of pgxpool.Pool the application uses; tests swap in
// a pgxmock connection via SetPool
type PgxIface interface {
	Begin(context.Context) (pgx.Tx, error)
}

var pool PgxIface

var schema = []string{
	`CREATE TABLE IF NOT EXISTS eod (
		ticker     VARCHAR NOT NULL,
		event_date DATE NOT NULL,
		open       DOUBLE PRECISION,
		high       DOUBLE PRECISION,
		low        DOUBLE PRECISION,
		close      DOUBLE PRECISION,
		PRIMARY KEY (ticker, event_date)
	)`,
	`CREATE TABLE IF NOT EXISTS sectors (
		ticker VARCHAR PRIMARY KEY,
		sector VARCHAR NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS portfolios (
		id           UUID PRIMARY KEY,
		name         VARCHAR NOT NULL,
		benchmark    VARCHAR NOT NULL,
		transactions JSONB NOT NULL,
		created      TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
		lastchanged  TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
	)`,
}

// SetPool replaces the global connection pool; used by tests to install a
// pgxmock connection
func SetPool(myPool PgxIface) {
	pool = myPool
}

func Connect(ctx context.Context) error {
	myPool, err := pgxpool.Connect(ctx, viper.GetString("database.url"))
	if err != nil {
		log.Error().Stack().Err(err).Msg("could not connect to pool")
		return err
	}
	if err = myPool.Ping(ctx); err != nil {
		log.Error().Stack().Err(err).Msg("could not ping database server")
		return err
	}
	SetPool(myPool)
	return nil
}

// Trx begins a new database transaction
func Trx(ctx context.Context) (pgx.Tx, error) {
	return pool.Begin(ctx)
}

// Migrate creates the application tables if they don't already exist
func Migrate(ctx context.Context) error {
	trx, err := pool.Begin(ctx)
	if err != nil {
		log.Error().Stack().Err(err).Msg("could not begin migration transaction")
		return err
	}

	for _, stmt := range schema {
		if _, err := trx.Exec(ctx, stmt); err != nil {
			log.Error().Stack().Err(err).Str("Query", stmt).Msg("migration statement failed")
			if err := trx.Rollback(ctx); err != nil {
				log.Error().Stack().Err(err).Msg("could not rollback transaction")
			}
			return err
		}
	}

	if err := trx.Commit(ctx); err != nil {
		log.Warn().Stack().Err(err).Msg("could not commit migration transaction")
		return err
	}
	return nil
}
