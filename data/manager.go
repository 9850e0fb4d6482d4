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
	"sync"
	"time"

	"github.com/Vasilyeu/hedge-simulator/common"
	"github.com/Vasilyeu/hedge-simulator/dataframe"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Provider fetches market data from a remote source
type Provider interface {
	PriceHistory(ctx context.Context, ticker string, begin, end time.Time) (*dataframe.DataFrame, error)
	Sector(ctx context.Context, ticker string) (string, error)
}

// Manager serves price and sector reads local-first: the database is
// consulted before the remote provider and any gaps in local coverage are
// fetched and persisted before the read is answered. Served series are held
// in an in-process interval cache.
type Manager struct {
	cache    *SecurityMetricCache
	priceDb  *PriceDb
	provider Provider
	locker   sync.Mutex
}

var (
	managerOnce     sync.Once
	managerInstance *Manager
)

// NewManager creates a manager with the given provider; used directly by
// tests, production code goes through GetManagerInstance
func NewManager(provider Provider) *Manager {
	cacheBytes := viper.GetInt64("data.cache_bytes")
	if cacheBytes == 0 {
		cacheBytes = 64 << 20
	}
	return &Manager{
		cache:    NewSecurityMetricCache(cacheBytes),
		priceDb:  NewPriceDb(),
		provider: provider,
	}
}

func GetManagerInstance() *Manager {
	managerOnce.Do(func() {
		managerInstance = NewManager(NewYahoo())
	})
	return managerInstance
}

// Prices returns the daily close series for ticker between begin and end as
// a single-column dataframe named after the ticker
func (manager *Manager) Prices(ctx context.Context, ticker string, begin, end time.Time) (*dataframe.DataFrame, error) {
	subLog := log.With().Str("Ticker", ticker).Time("Begin", begin).Time("End", end).Logger()

	if contains, _ := manager.cache.Check(ticker, MetricClose, begin, end); contains {
		dates, vals, err := manager.cache.Get(ticker, MetricClose, begin, end)
		if err == nil {
			return &dataframe.DataFrame{
				Dates:    dates,
				ColNames: []string{ticker},
				Vals:     [][]float64{vals},
			}, nil
		}
	}

	manager.locker.Lock()
	err := manager.fillGaps(ctx, ticker, begin, end)
	manager.locker.Unlock()
	if err != nil {
		subLog.Error().Err(err).Msg("could not fill local price gaps")
		return nil, err
	}

	dates, closes, err := manager.priceDb.Prices(ctx, ticker, begin, end)
	if err != nil {
		subLog.Error().Err(err).Msg("could not read prices from database")
		return nil, err
	}
	if len(dates) == 0 {
		return nil, ErrNoData
	}

	if err := manager.cache.Set(ticker, MetricClose, begin, end, dates, closes); err != nil {
		subLog.Warn().Err(err).Msg("could not cache price series")
	}

	return &dataframe.DataFrame{
		Dates:    dates,
		ColNames: []string{ticker},
		Vals:     [][]float64{closes},
	}, nil
}

// Sectors returns sector classifications for the requested tickers, fetching
// and persisting any that are not stored locally
func (manager *Manager) Sectors(ctx context.Context, tickers []string) (map[string]string, error) {
	sectors, err := manager.priceDb.Sectors(ctx, tickers)
	if err != nil {
		return nil, err
	}

	for _, ticker := range tickers {
		if _, ok := sectors[ticker]; ok {
			continue
		}
		sector, err := manager.provider.Sector(ctx, ticker)
		if err != nil {
			log.Warn().Err(err).Str("Ticker", ticker).Msg("could not fetch sector from provider")
			continue
		}
		if err := manager.priceDb.SaveSector(ctx, ticker, sector); err != nil {
			return nil, err
		}
		sectors[ticker] = sector
	}

	return sectors, nil
}

// RefreshDailyPrices extends the stored history of every known ticker
// through yesterday; run nightly by the server and by the update command
func (manager *Manager) RefreshDailyPrices(ctx context.Context) error {
	tickers, err := manager.priceDb.KnownTickers(ctx)
	if err != nil {
		return err
	}

	tz := common.GetTimezone()
	now := time.Now().In(tz)
	yesterday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, tz).AddDate(0, 0, -1)

	for _, ticker := range tickers {
		_, dbEnd, err := manager.priceDb.CoveredRange(ctx, ticker)
		if err != nil {
			return err
		}
		if !dbEnd.Before(yesterday) {
			continue
		}

		manager.locker.Lock()
		err = manager.fillGaps(ctx, ticker, dbEnd.AddDate(0, 0, 1), yesterday)
		manager.locker.Unlock()
		if err != nil {
			log.Warn().Err(err).Str("Ticker", ticker).Msg("could not refresh price history")
		}
	}
	return nil
}

// fillGaps fetches from the provider any part of [begin, end] that the local
// database does not cover yet
func (manager *Manager) fillGaps(ctx context.Context, ticker string, begin, end time.Time) error {
	dbBegin, dbEnd, err := manager.priceDb.CoveredRange(ctx, ticker)
	if err != nil {
		return err
	}

	if dbBegin.IsZero() {
		// nothing stored yet; fetch the whole range
		df, err := manager.provider.PriceHistory(ctx, ticker, begin, end)
		if err != nil {
			return err
		}
		return manager.priceDb.SavePrices(ctx, ticker, df)
	}

	if begin.Before(dbBegin) {
		df, err := manager.provider.PriceHistory(ctx, ticker, begin, dbBegin.AddDate(0, 0, -1))
		if err != nil {
			return err
		}
		if err := manager.priceDb.SavePrices(ctx, ticker, df); err != nil {
			return err
		}
	}

	if end.After(dbEnd) {
		df, err := manager.provider.PriceHistory(ctx, ticker, dbEnd.AddDate(0, 0, 1), end)
		if err != nil {
			return err
		}
		if err := manager.priceDb.SavePrices(ctx, ticker, df); err != nil {
			return err
		}
	}

	return nil
}
