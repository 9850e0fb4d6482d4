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
	"errors"
	"sort"
	"time"
)

// Transaction is a single trade: a positive amount buys shares of ticker, a
// negative amount sells them
type Transaction struct {
	Date   time.Time `json:"date"`
	Ticker string    `json:"ticker"`
	Amount float64   `json:"amount"`
}

var (
	ErrNoTransactions    = errors.New("transaction list is empty")
	ErrInvalidTicker     = errors.New("transaction ticker is empty")
	ErrZeroAmount        = errors.New("transaction amount is zero")
	ErrInsufficientData  = errors.New("not enough price history to compute metrics")
	ErrUnknownPriceOnDay = errors.New("no price available on transaction date")
)

// ValidateTransactions checks the transaction list for obvious input errors
func ValidateTransactions(transactions []*Transaction) error {
	if len(transactions) == 0 {
		return ErrNoTransactions
	}
	for _, trx := range transactions {
		if trx.Ticker == "" {
			return ErrInvalidTicker
		}
		if trx.Amount == 0 {
			return ErrZeroAmount
		}
	}
	return nil
}

// SortTransactions orders transactions by date (stable for equal dates)
func SortTransactions(transactions []*Transaction) {
	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].Date.Before(transactions[j].Date)
	})
}

// Tickers returns the unique set of tickers referenced by the transactions
func Tickers(transactions []*Transaction) []string {
	seen := make(map[string]bool, len(transactions))
	tickers := make([]string, 0, len(transactions))
	for _, trx := range transactions {
		if !seen[trx.Ticker] {
			seen[trx.Ticker] = true
			tickers = append(tickers, trx.Ticker)
		}
	}
	return tickers
}
