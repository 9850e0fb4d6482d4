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

package hedge

import (
	"container/heap"
	"context"
	"math"
	"sort"
	"time"

	"github.com/Vasilyeu/hedge-simulator/data"
	"github.com/Vasilyeu/hedge-simulator/dataframe"
	"github.com/Vasilyeu/hedge-simulator/portfolio"
	"github.com/rs/zerolog/log"
)

// PutOption is one entry of the simulator's option ledger
type PutOption struct {
	Ticker  string    `json:"ticker"`
	Date    time.Time `json:"date"`
	Expire  time.Time `json:"expire"`
	Amount  float64   `json:"amount"`
	Premium float64   `json:"premium"`
	Cost    float64   `json:"cost"`
	Strike  float64   `json:"strike"`
}

// optionHeap orders active options by expiry
type optionHeap []*PutOption

func (h optionHeap) Len() int            { return len(h) }
func (h optionHeap) Less(i, j int) bool  { return h[i].Expire.Before(h[j].Expire) }
func (h optionHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *optionHeap) Push(x interface{}) { *h = append(*h, x.(*PutOption)) }
func (h *optionHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Simulator applies a protective put strategy to an existing portfolio.
// Every buy transaction is insured with puts struck at RelativeStrike times
// the purchase price. Expired in-the-money puts are exercised (proceeds are
// re-invested in whole shares, the remainder accumulates as cash) and the
// position is re-insured. When NewOptionTrigger is set, a price rise past
// watermark*trigger re-insures the whole position at the higher level.
type Simulator struct {
	RelativeStrike   float64
	MaturityMonths   int
	NewOptionTrigger *float64

	// populated by ApplyStrategy
	Options   []*PutOption
	HedgeCost float64
	Cash      float64

	mgr *data.Manager
}

// NewSimulator creates a put-option simulator; newOptionTrigger may be nil
// to disable re-insurance on price increases
func NewSimulator(mgr *data.Manager, relativeStrike float64, maturityMonths int, newOptionTrigger *float64) *Simulator {
	return &Simulator{
		RelativeStrike:   relativeStrike,
		MaturityMonths:   maturityMonths,
		NewOptionTrigger: newOptionTrigger,
		mgr:              mgr,
	}
}

// ApplyStrategy simulates the put strategy over the portfolio's history and
// returns the hedged portfolio: the augmented transaction list priced
// against a series floored at the strike of the best active put
func (s *Simulator) ApplyStrategy(ctx context.Context, p *portfolio.Portfolio) (*portfolio.Portfolio, error) {
	options, transactions, err := s.putOptions(ctx, p)
	if err != nil {
		return nil, err
	}

	s.Options = options
	s.HedgeCost = 0
	for _, opt := range options {
		s.HedgeCost += opt.Cost
	}

	marketPrices := p.Prices.Copy().Drop(data.CashAsset)
	adjusted := marketPrices.EWMax(strikeFloor(options))

	positions := portfolio.BuildPositions(transactions, adjusted.Dates)
	hedged := portfolio.New(positions, adjusted, transactions)
	hedged.HedgeCost = s.HedgeCost
	hedged.Cash = s.Cash
	return hedged, nil
}

// putOptions walks every buy transaction, writing the initial put and then
// rolling protection forward through expiries and trigger events. Returns
// the option ledger and the augmented transaction list.
func (s *Simulator) putOptions(ctx context.Context, p *portfolio.Portfolio) ([]*PutOption, []*portfolio.Transaction, error) {
	ledger := []*PutOption{}
	newTransactions := []*portfolio.Transaction{}

	for _, trx := range p.Transactions {
		if trx.Amount <= 0 {
			continue
		}

		ticker := trx.Ticker
		active := &optionHeap{}
		heap.Init(active)

		opt, err := s.writeOption(ctx, p, trx.Date, ticker, trx.Amount)
		if err != nil {
			return nil, nil, err
		}
		heap.Push(active, opt)
		ledger = append(ledger, opt)
		newTransactions = append(newTransactions, trx)

		currentPosition := trx.Amount
		currentOptions := opt.Amount
		currentMaxPrice := p.Prices.ValueAt(trx.Date, ticker)

		next := heap.Pop(active).(*PutOption)

		colIdx := p.Prices.ColIndex(ticker)
		for rowIdx := 1; rowIdx < p.Prices.Len(); rowIdx++ {
			date := p.Prices.Dates[rowIdx]
			price := p.Prices.Vals[colIdx][rowIdx]
			if math.IsNaN(price) {
				continue
			}

			if next != nil && date.Equal(next.Expire) {
				if price < next.Strike {
					// exercised: sell at strike, re-invest in whole shares
					soldMoney := next.Strike * next.Amount
					newShares := math.Floor(soldMoney / price)
					s.Cash += soldMoney - newShares*price
					additionalShares := newShares - next.Amount
					currentOptions -= next.Amount

					if additionalShares > 0 {
						newTransactions = append(newTransactions,
							&portfolio.Transaction{Date: date.AddDate(0, 0, -1), Ticker: ticker, Amount: -next.Amount},
							&portfolio.Transaction{Date: date, Ticker: ticker, Amount: newShares},
						)
						currentPosition += additionalShares
					}
				} else {
					// lapsed worthless
					currentOptions -= next.Amount
				}

				if required := currentPosition - currentOptions; required > 0 {
					opt, err := s.writeOption(ctx, p, date, ticker, required)
					if err != nil {
						return nil, nil, err
					}
					heap.Push(active, opt)
					ledger = append(ledger, opt)
					currentOptions += required
				}

				next = popOption(active)
			}

			if s.NewOptionTrigger != nil && currentMaxPrice*(*s.NewOptionTrigger) < price {
				opt, err := s.writeOption(ctx, p, date, ticker, currentPosition)
				if err != nil {
					return nil, nil, err
				}
				heap.Push(active, opt)
				ledger = append(ledger, opt)
				currentOptions += currentPosition
				currentMaxPrice = price * (*s.NewOptionTrigger)

				if next != nil {
					heap.Push(active, next)
				}
				next = popOption(active)
			}
		}
	}

	// sells pass through unhedged
	for _, trx := range p.Transactions {
		if trx.Amount <= 0 {
			newTransactions = append(newTransactions, trx)
		}
	}
	portfolio.SortTransactions(newTransactions)

	return ledger, newTransactions, nil
}

// writeOption prices one put: volatility from the 366 days of history before
// the trade date, premium from Black-Scholes with a zero risk-free rate,
// expiry snapped to the Friday after the maturity period
func (s *Simulator) writeOption(ctx context.Context, p *portfolio.Portfolio, date time.Time, ticker string, amount float64) (*PutOption, error) {
	price := p.Prices.ValueAt(date, ticker)
	if math.IsNaN(price) {
		log.Error().Str("Ticker", ticker).Time("Date", date).Msg("no price on option write date")
		return nil, portfolio.ErrUnknownPriceOnDay
	}

	history, err := s.mgr.Prices(ctx, ticker, date.AddDate(0, 0, -366), date)
	if err != nil {
		return nil, err
	}
	sigma := portfolio.Volatility(history.Vals[0])

	bs := &BlackScholes{
		S:     price,
		K:     price * s.RelativeStrike,
		T:     float64(s.MaturityMonths) / 12.0,
		R:     0.0,
		Sigma: sigma,
	}
	premium := bs.Put()

	expire := NextFriday(date.AddDate(0, 0, int(float64(s.MaturityMonths)*30.5)))
	return &PutOption{
		Ticker:  ticker,
		Date:    date,
		Expire:  expire,
		Amount:  amount,
		Premium: premium,
		Cost:    amount * premium,
		Strike:  price * s.RelativeStrike,
	}, nil
}

func popOption(active *optionHeap) *PutOption {
	if active.Len() == 0 {
		return nil
	}
	return heap.Pop(active).(*PutOption)
}

// strikeFloor builds a frame holding, per ticker and day, the highest strike
// among puts active on that day; a put covers its purchase date through the
// day before expiry
func strikeFloor(options []*PutOption) *dataframe.DataFrame {
	byDate := make(map[time.Time]map[string]float64)
	for _, opt := range options {
		for d := opt.Date; d.Before(opt.Expire); d = d.AddDate(0, 0, 1) {
			row, ok := byDate[d]
			if !ok {
				row = make(map[string]float64)
				byDate[d] = row
			}
			if opt.Strike > row[opt.Ticker] {
				row[opt.Ticker] = opt.Strike
			}
		}
	}

	dates := make([]time.Time, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	colSet := make(map[string]bool)
	for _, row := range byDate {
		for ticker := range row {
			colSet[ticker] = true
		}
	}

	df := dataframe.New(dates)
	for ticker := range colSet {
		col := make([]float64, len(dates))
		for ii, d := range dates {
			if v, ok := byDate[d][ticker]; ok {
				col[ii] = v
			} else {
				col[ii] = math.NaN()
			}
		}
		df.Insert(ticker, col)
	}
	return df
}
