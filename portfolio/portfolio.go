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

package portfolio

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/Vasilyeu/hedge-simulator/common"
	"github.com/Vasilyeu/hedge-simulator/data"
	"github.com/Vasilyeu/hedge-simulator/dataframe"
	"github.com/rs/zerolog/log"
)

// Portfolio tracks daily positions and prices of the assets traded by a
// transaction list plus an implicit cash position fed by the trades
type Portfolio struct {
	Transactions []*Transaction

	// Positions holds per-ticker share counts per day plus the $CASH column;
	// Prices holds the matching close prices with $CASH pinned to 1.0
	Positions *dataframe.DataFrame
	Prices    *dataframe.DataFrame

	Capitalisation    []float64
	Returns           []float64
	CumulativeReturns []float64

	// HedgeCost and Cash are set by the hedge simulator: the total premium
	// paid for put protection and the cash remainder of exercised puts
	HedgeCost float64
	Cash      float64
}

// New assembles a portfolio from pre-built positions and prices. Rows where
// any price is missing are dropped. The cash column is derived from the
// transaction list: each trade moves amount*price out of (or into) cash and
// the starting cash balance equals the first day's asset value.
func New(positions *dataframe.DataFrame, prices *dataframe.DataFrame, transactions []*Transaction) *Portfolio {
	prices = prices.DropNA()
	positions = alignPositions(positions, prices.Dates)

	p := &Portfolio{
		Transactions: transactions,
		Positions:    positions,
		Prices:       prices,
	}

	p.applyCashFlow()
	p.Capitalisation = p.Positions.Mul(p.Prices).RowSum()
	p.Returns = dataframe.PctChange(p.Capitalisation)
	p.CumulativeReturns = dataframe.CumProd1p(p.Returns)
	return p
}

// BuildFromTransactions loads market data for every traded ticker and
// assembles the portfolio; the daily index runs from the first transaction
// to yesterday
func BuildFromTransactions(ctx context.Context, mgr *data.Manager, transactions []*Transaction) (*Portfolio, error) {
	if err := ValidateTransactions(transactions); err != nil {
		return nil, err
	}
	SortTransactions(transactions)

	begin := transactions[0].Date
	tz := common.GetTimezone()
	now := time.Now().In(tz)
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, tz).AddDate(0, 0, -1)

	prices, err := PriceMatrix(ctx, mgr, Tickers(transactions), begin, end)
	if err != nil {
		return nil, err
	}

	positions := BuildPositions(transactions, prices.Dates)
	return New(positions, prices, transactions), nil
}

// PriceMatrix fetches close prices for every ticker and joins them into a
// single frame on the union of their trading days; missing observations are
// NaN
func PriceMatrix(ctx context.Context, mgr *data.Manager, tickers []string, begin, end time.Time) (*dataframe.DataFrame, error) {
	frames := make([]*dataframe.DataFrame, 0, len(tickers))
	dateSet := make(map[time.Time]bool, 252)
	for _, ticker := range tickers {
		df, err := mgr.Prices(ctx, ticker, begin, end)
		if err != nil {
			log.Error().Err(err).Str("Ticker", ticker).Msg("could not load prices for ticker")
			return nil, err
		}
		frames = append(frames, df)
		for _, dt := range df.Dates {
			dateSet[dt] = true
		}
	}

	dates := make([]time.Time, 0, len(dateSet))
	for dt := range dateSet {
		dates = append(dates, dt)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	joined := dataframe.New(dates)
	for idx, ticker := range tickers {
		col := make([]float64, len(dates))
		for ii, dt := range dates {
			col[ii] = frames[idx].ValueAt(dt, ticker)
		}
		joined.Insert(ticker, col)
	}
	return joined, nil
}

// BuildPositions converts the transaction list into a per-day share count
// matrix on the given date index; a trade takes effect on its own date
func BuildPositions(transactions []*Transaction, dates []time.Time) *dataframe.DataFrame {
	positions := dataframe.New(dates)
	for _, ticker := range Tickers(transactions) {
		col := make([]float64, len(dates))
		for _, trx := range transactions {
			if trx.Ticker != ticker {
				continue
			}
			for ii, dt := range dates {
				if !dt.Before(trx.Date) {
					col[ii] += trx.Amount
				}
			}
		}
		positions.Insert(ticker, col)
	}
	return positions
}

// applyCashFlow adds the $CASH column: every trade moves amount*price out of
// cash, starting from a balance equal to the first day's asset value
func (p *Portfolio) applyCashFlow() {
	initialCash := 0.0
	if p.Positions.Len() > 0 {
		initialCash = p.Positions.Mul(p.Prices).RowSum()[0]
	}

	// cash delta per index date
	deltas := make([]float64, p.Prices.Len())
	for _, trx := range p.Transactions {
		price := p.priceOnOrBefore(trx.Ticker, trx.Date)
		if math.IsNaN(price) {
			log.Warn().Str("Ticker", trx.Ticker).Time("Date", trx.Date).Msg("no price on transaction date; cash flow skipped")
			continue
		}
		idx := sort.Search(len(p.Prices.Dates), func(i int) bool {
			return !p.Prices.Dates[i].Before(trx.Date)
		})
		if idx < len(deltas) {
			deltas[idx] -= trx.Amount * price
		}
	}

	cash := make([]float64, len(deltas))
	acc := initialCash
	for ii, d := range deltas {
		acc += d
		cash[ii] = acc
	}

	p.Positions.Insert(data.CashAsset, cash)

	ones := make([]float64, p.Prices.Len())
	for ii := range ones {
		ones[ii] = 1.0
	}
	p.Prices.Insert(data.CashAsset, ones)
}

// priceOnOrBefore returns the close of ticker on date, falling back to the
// most recent prior close when date is not a trading day
func (p *Portfolio) priceOnOrBefore(ticker string, date time.Time) float64 {
	colIdx := p.Prices.ColIndex(ticker)
	if colIdx == -1 {
		return math.NaN()
	}
	idx := sort.Search(len(p.Prices.Dates), func(i int) bool {
		return p.Prices.Dates[i].After(date)
	})
	for idx--; idx >= 0; idx-- {
		if !math.IsNaN(p.Prices.Vals[colIdx][idx]) {
			return p.Prices.Vals[colIdx][idx]
		}
	}
	return math.NaN()
}

// alignPositions reindexes the position matrix onto the given dates; share
// counts carry forward because positions are step functions of time
func alignPositions(positions *dataframe.DataFrame, dates []time.Time) *dataframe.DataFrame {
	aligned := dataframe.New(dates)
	for colIdx, colName := range positions.ColNames {
		col := make([]float64, len(dates))
		for ii, dt := range dates {
			idx := sort.Search(len(positions.Dates), func(i int) bool {
				return positions.Dates[i].After(dt)
			})
			if idx > 0 {
				col[ii] = positions.Vals[colIdx][idx-1]
			}
		}
		aligned.Insert(colName, col)
	}
	return aligned
}
