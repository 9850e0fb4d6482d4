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

// Package pgxmockhelper builds pgxmock expectations for the eod and sectors
// tables so data layer tests stay terse.
package pgxmockhelper

import (
	"time"

	"github.com/pashagolub/pgxmock"
)

// MockCoveredRange expects the MIN/MAX event_date query and returns the
// given coverage; pass zero times for a ticker with no stored rows
func MockCoveredRange(db pgxmock.PgxConnIface, begin, end time.Time) {
	rows := pgxmock.NewRows([]string{"min", "max"})
	if begin.IsZero() {
		rows.AddRow(nil, nil)
	} else {
		rows.AddRow(&begin, &end)
	}
	db.ExpectBegin()
	db.ExpectQuery("SELECT MIN\\(event_date\\), MAX\\(event_date\\) FROM eod").WillReturnRows(rows)
	db.ExpectCommit()
}

// MockPrices expects the close series select and returns one row per
// date/close pair
func MockPrices(db pgxmock.PgxConnIface, dates []time.Time, closes []float64) {
	rows := pgxmock.NewRows([]string{"event_date", "close"})
	for idx := range dates {
		rows.AddRow(dates[idx], closes[idx])
	}
	db.ExpectBegin()
	db.ExpectQuery("SELECT event_date, close FROM eod").WillReturnRows(rows)
	db.ExpectCommit()
}

// MockSavePrices expects numRows eod inserts inside a single transaction
func MockSavePrices(db pgxmock.PgxConnIface, numRows int) {
	db.ExpectBegin()
	for ii := 0; ii < numRows; ii++ {
		db.ExpectExec("INSERT INTO eod").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}
	db.ExpectCommit()
}

// MockSectors expects the sectors select and returns the given
// classification map
func MockSectors(db pgxmock.PgxConnIface, sectors map[string]string) {
	rows := pgxmock.NewRows([]string{"ticker", "sector"})
	for ticker, sector := range sectors {
		rows.AddRow(ticker, sector)
	}
	db.ExpectBegin()
	db.ExpectQuery("SELECT ticker, sector FROM sectors").WillReturnRows(rows)
	db.ExpectCommit()
}

// MockSaveSector expects a single sector insert
func MockSaveSector(db pgxmock.PgxConnIface) {
	db.ExpectBegin()
	db.ExpectExec("INSERT INTO sectors").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	db.ExpectCommit()
}
