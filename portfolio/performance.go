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
	"math"
	"time"

	"github.com/goccy/go-json"
)

// Performance summarises a portfolio's track record; the benchmark-relative
// fields are nil when no benchmark is supplied
type Performance struct {
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
	StartValue float64   `json:"startValue"`
	EndValue   float64   `json:"endValue"`

	Profit        float64 `json:"profit"`
	Profitability float64 `json:"profitability"`

	HedgeCost              float64 `json:"hedgeCost"`
	ProfitWithHedge        float64 `json:"profitWithHedge"`
	ProfitabilityWithHedge float64 `json:"profitabilityWithHedge"`

	Volatility3M  float64 `json:"volatility3M"`
	Volatility6M  float64 `json:"volatility6M"`
	Volatility12M float64 `json:"volatility12M"`
	Volatility3Y  float64 `json:"volatility3Y"`

	Sharpe      float64 `json:"sharpe"`
	Sortino     float64 `json:"sortino"`
	MaxDrawdown float64 `json:"maxDrawdown"`

	UpsideCaptureRatio   *float64 `json:"upsideCaptureRatio"`
	DownsideCaptureRatio *float64 `json:"downsideCaptureRatio"`
	Alpha                *float64 `json:"alpha"`
	Beta                 *float64 `json:"beta"`
	TrackingError        *float64 `json:"trackingError"`
}

// Performance computes the portfolio's track record, optionally against a
// benchmark portfolio and optionally restricted to dates on or after
// startDate (pass the zero time for the full history)
func (p *Portfolio) Performance(benchmark *Portfolio, startDate time.Time) *Performance {
	dates := p.Prices.Dates
	capitalisation := p.Capitalisation
	returns := p.Returns

	if !startDate.IsZero() {
		offset := 0
		for offset < len(dates) && dates[offset].Before(startDate) {
			offset++
		}
		dates = dates[offset:]
		capitalisation = capitalisation[offset:]
		returns = returns[offset:]
	}

	if len(dates) == 0 {
		return &Performance{}
	}

	endDate := dates[len(dates)-1]
	profit := p.Cash + capitalisation[len(capitalisation)-1] - capitalisation[0]

	perf := &Performance{
		StartDate:  dates[0],
		EndDate:    endDate,
		StartValue: capitalisation[0],
		EndValue:   capitalisation[len(capitalisation)-1],

		Profit:        profit,
		Profitability: profit / capitalisation[0],

		HedgeCost:              p.HedgeCost,
		ProfitWithHedge:        profit - p.HedgeCost,
		ProfitabilityWithHedge: (profit - p.HedgeCost) / capitalisation[0],

		Volatility3M:  Volatility(trailing(dates, capitalisation, endDate.AddDate(0, 0, -93))),
		Volatility6M:  Volatility(trailing(dates, capitalisation, endDate.AddDate(0, 0, -183))),
		Volatility12M: Volatility(trailing(dates, capitalisation, endDate.AddDate(0, 0, -365))),
		Volatility3Y:  Volatility(trailing(dates, capitalisation, endDate.AddDate(0, 0, -365*3))),

		Sharpe:      SharpeRatio(returns, 0.0),
		Sortino:     SortinoRatio(returns),
		MaxDrawdown: MaxDrawdown(returns),
	}

	if benchmark != nil {
		benchReturns := benchmark.Returns
		benchDates := benchmark.Prices.Dates
		if !startDate.IsZero() {
			offset := 0
			for offset < len(benchDates) && benchDates[offset].Before(startDate) {
				offset++
			}
			benchDates = benchDates[offset:]
			benchReturns = benchReturns[offset:]
		}

		portfolioAligned, benchmarkAligned := alignReturns(dates, returns, benchDates, benchReturns)

		upside := UpsideCaptureRatio(portfolioAligned, benchmarkAligned)
		downside := DownsideCaptureRatio(portfolioAligned, benchmarkAligned)
		alpha := Alpha(portfolioAligned, benchmarkAligned)
		beta := Beta(portfolioAligned, benchmarkAligned)
		te := TrackingError(portfolioAligned, benchmarkAligned)

		perf.UpsideCaptureRatio = &upside
		perf.DownsideCaptureRatio = &downside
		perf.Alpha = &alpha
		perf.Beta = &beta
		perf.TrackingError = &te
	}

	return perf
}

// MarshalJSON renders NaN metrics as null; short histories legitimately
// produce NaN (e.g. a 3 year volatility window on a 6 month portfolio)
func (perf *Performance) MarshalJSON() ([]byte, error) {
	num := func(f float64) interface{} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return f
	}
	opt := func(f *float64) interface{} {
		if f == nil {
			return nil
		}
		return num(*f)
	}

	return json.Marshal(map[string]interface{}{
		"startDate":              perf.StartDate,
		"endDate":                perf.EndDate,
		"startValue":             num(perf.StartValue),
		"endValue":               num(perf.EndValue),
		"profit":                 num(perf.Profit),
		"profitability":          num(perf.Profitability),
		"hedgeCost":              num(perf.HedgeCost),
		"profitWithHedge":        num(perf.ProfitWithHedge),
		"profitabilityWithHedge": num(perf.ProfitabilityWithHedge),
		"volatility3M":           num(perf.Volatility3M),
		"volatility6M":           num(perf.Volatility6M),
		"volatility12M":          num(perf.Volatility12M),
		"volatility3Y":           num(perf.Volatility3Y),
		"sharpe":                 num(perf.Sharpe),
		"sortino":                num(perf.Sortino),
		"maxDrawdown":            num(perf.MaxDrawdown),
		"upsideCaptureRatio":     opt(perf.UpsideCaptureRatio),
		"downsideCaptureRatio":   opt(perf.DownsideCaptureRatio),
		"alpha":                  opt(perf.Alpha),
		"beta":                   opt(perf.Beta),
		"trackingError":          opt(perf.TrackingError),
	})
}

// trailing returns the subset of values whose date is strictly after cutoff
func trailing(dates []time.Time, values []float64, cutoff time.Time) []float64 {
	idx := 0
	for idx < len(dates) && !dates[idx].After(cutoff) {
		idx++
	}
	return values[idx:]
}

// alignReturns intersects two dated return series on their common dates
func alignReturns(aDates []time.Time, aVals []float64, bDates []time.Time, bVals []float64) ([]float64, []float64) {
	bIdx := make(map[time.Time]int, len(bDates))
	for ii, dt := range bDates {
		bIdx[dt] = ii
	}

	outA := make([]float64, 0, len(aVals))
	outB := make([]float64, 0, len(aVals))
	for ii, dt := range aDates {
		if jj, ok := bIdx[dt]; ok {
			outA = append(outA, aVals[ii])
			outB = append(outB, bVals[jj])
		}
	}
	return outA, outB
}
