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

package data

import (
	"context"
	"time"

	"github.com/Vasilyeu/hedge-simulator/common"
	"github.com/Vasilyeu/hedge-simulator/database"
	"github.com/Vasilyeu/hedge-simulator/dataframe"
	"github.com/rs/zerolog/log"
)

// PriceDb reads and writes EOD price history and sector classifications in
// the local PostgreSQL database
type PriceDb struct {
}

func NewPriceDb() *PriceDb {
	return &PriceDb{}
}

// CoveredRange returns the first and last event dates stored for ticker;
// both are zero when the ticker has no rows
func (p *PriceDb) CoveredRange(ctx context.Context, ticker string) (time.Time, time.Time, error) {
	subLog := log.With().Str("Ticker", ticker).Logger()

	trx, err := database.Trx(ctx)
	if err != nil {
		subLog.Error().Stack().Err(err).Msg("could not get transaction when querying covered range")
		return time.Time{}, time.Time{}, err
	}

	var minDate, maxDate *time.Time
	row := trx.QueryRow(ctx, "SELECT MIN(event_date), MAX(event_date) FROM eod WHERE ticker=$1", ticker)
	if err := row.Scan(&minDate, &maxDate); err != nil {
		subLog.Error().Stack().Err(err).Msg("could not scan covered range")
		if err := trx.Rollback(ctx); err != nil {
			subLog.Error().Stack().Err(err).Msg("could not rollback transaction")
		}
		return time.Time{}, time.Time{}, err
	}

	if err := trx.Commit(ctx); err != nil {
		subLog.Warn().Stack().Err(err).Msg("could not commit transaction")
	}

	var begin, end time.Time
	if minDate != nil {
		begin = *minDate
	}
	if maxDate != nil {
		end = *maxDate
	}
	return begin, end, nil
}

// SavePrices stores the price history dataframe for ticker; rows that already
// exist are left untouched
func (p *PriceDb) SavePrices(ctx context.Context, ticker string, df *dataframe.DataFrame) error {
	subLog := log.With().Str("Ticker", ticker).Logger()

	trx, err := database.Trx(ctx)
	if err != nil {
		subLog.Error().Stack().Err(err).Msg("could not get transaction when saving prices")
		return err
	}

	openIdx := df.ColIndex(string(MetricOpen))
	highIdx := df.ColIndex(string(MetricHigh))
	lowIdx := df.ColIndex(string(MetricLow))
	closeIdx := df.ColIndex(string(MetricClose))

	for rowIdx, date := range df.Dates {
		_, err = trx.Exec(ctx,
			`INSERT INTO eod ("ticker", "event_date", "open", "high", "low", "close") VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT ON CONSTRAINT eod_pkey DO NOTHING`,
			ticker, date,
			df.Vals[openIdx][rowIdx], df.Vals[highIdx][rowIdx],
			df.Vals[lowIdx][rowIdx], df.Vals[closeIdx][rowIdx])
		if err != nil {
			subLog.Error().Stack().Err(err).Time("EventDate", date).Msg("could not insert eod row")
			if err := trx.Rollback(ctx); err != nil {
				subLog.Error().Stack().Err(err).Msg("could not rollback transaction")
			}
			return err
		}
	}

	if err := trx.Commit(ctx); err != nil {
		subLog.Warn().Stack().Err(err).Msg("could not commit transaction")
		return err
	}
	return nil
}

// Prices returns the stored close series for ticker between begin and end
// (inclusive)
func (p *PriceDb) Prices(ctx context.Context, ticker string, begin, end time.Time) ([]time.Time, []float64, error) {
	subLog := log.With().Str("Ticker", ticker).Time("Begin", begin).Time("End", end).Logger()

	trx, err := database.Trx(ctx)
	if err != nil {
		subLog.Error().Stack().Err(err).Msg("could not get transaction when querying prices")
		return nil, nil, err
	}

	rows, err := trx.Query(ctx, `SELECT event_date, close FROM eod WHERE ticker=$1 AND event_date BETWEEN $2 AND $3 ORDER BY event_date`, ticker, begin, end)
	if err != nil {
		subLog.Error().Stack().Err(err).Msg("could not query prices")
		if err := trx.Rollback(ctx); err != nil {
			subLog.Error().Stack().Err(err).Msg("could not rollback transaction")
		}
		return nil, nil, err
	}

	tz := common.GetTimezone()
	dates := make([]time.Time, 0, 252)
	closes := make([]float64, 0, 252)
	for rows.Next() {
		var dt time.Time
		var cl float64
		if err := rows.Scan(&dt, &cl); err != nil {
			subLog.Error().Stack().Err(err).Msg("could not scan price row")
			if err := trx.Rollback(ctx); err != nil {
				subLog.Error().Stack().Err(err).Msg("could not rollback transaction")
			}
			return nil, nil, err
		}
		dates = append(dates, time.Date(dt.Year(), dt.Month(), dt.Day(), 0, 0, 0, 0, tz))
		closes = append(closes, cl)
	}

	if err := trx.Commit(ctx); err != nil {
		subLog.Warn().Stack().Err(err).Msg("could not commit transaction")
	}
	return dates, closes, nil
}

// KnownTickers lists the distinct tickers with stored price history
func (p *PriceDb) KnownTickers(ctx context.Context) ([]string, error) {
	trx, err := database.Trx(ctx)
	if err != nil {
		log.Error().Stack().Err(err).Msg("could not get transaction when querying known tickers")
		return nil, err
	}

	rows, err := trx.Query(ctx, `SELECT DISTINCT ticker FROM eod ORDER BY ticker`)
	if err != nil {
		log.Error().Stack().Err(err).Msg("could not query known tickers")
		if err := trx.Rollback(ctx); err != nil {
			log.Error().Stack().Err(err).Msg("could not rollback transaction")
		}
		return nil, err
	}

	tickers := make([]string, 0, 64)
	for rows.Next() {
		var ticker string
		if err := rows.Scan(&ticker); err != nil {
			log.Error().Stack().Err(err).Msg("could not scan ticker row")
			if err := trx.Rollback(ctx); err != nil {
				log.Error().Stack().Err(err).Msg("could not rollback transaction")
			}
			return nil, err
		}
		tickers = append(tickers, ticker)
	}

	if err := trx.Commit(ctx); err != nil {
		log.Warn().Stack().Err(err).Msg("could not commit transaction")
	}
	return tickers, nil
}

// SaveSector records the sector classification for ticker
func (p *PriceDb) SaveSector(ctx context.Context, ticker string, sector string) error {
	subLog := log.With().Str("Ticker", ticker).Str("Sector", sector).Logger()

	trx, err := database.Trx(ctx)
	if err != nil {
		subLog.Error().Stack().Err(err).Msg("could not get transaction when saving sector")
		return err
	}

	if _, err := trx.Exec(ctx, `INSERT INTO sectors ("ticker", "sector") VALUES ($1, $2) ON CONFLICT ON CONSTRAINT sectors_pkey DO NOTHING`, ticker, sector); err != nil {
		subLog.Error().Stack().Err(err).Msg("could not insert sector")
		if err := trx.Rollback(ctx); err != nil {
			subLog.Error().Stack().Err(err).Msg("could not rollback transaction")
		}
		return err
	}

	if err := trx.Commit(ctx); err != nil {
		subLog.Warn().Stack().Err(err).Msg("could not commit transaction")
		return err
	}
	return nil
}

// Sectors returns the stored sector classifications for the requested tickers;
// tickers with no stored sector are absent from the map
func (p *PriceDb) Sectors(ctx context.Context, tickers []string) (map[string]string, error) {
	trx, err := database.Trx(ctx)
	if err != nil {
		log.Error().Stack().Err(err).Msg("could not get transaction when querying sectors")
		return nil, err
	}

	rows, err := trx.Query(ctx, `SELECT ticker, sector FROM sectors WHERE ticker = ANY($1)`, tickers)
	if err != nil {
		log.Error().Stack().Err(err).Msg("could not query sectors")
		if err := trx.Rollback(ctx); err != nil {
			log.Error().Stack().Err(err).Msg("could not rollback transaction")
		}
		return nil, err
	}

	sectors := make(map[string]string, len(tickers))
	for rows.Next() {
		var ticker, sector string
		if err := rows.Scan(&ticker, &sector); err != nil {
			log.Error().Stack().Err(err).Msg("could not scan sector row")
			if err := trx.Rollback(ctx); err != nil {
				log.Error().Stack().Err(err).Msg("could not rollback transaction")
			}
			return nil, err
		}
		sectors[ticker] = sector
	}

	if err := trx.Commit(ctx); err != nil {
		log.Warn().Stack().Err(err).Msg("could not commit transaction")
	}
	return sectors, nil
}
