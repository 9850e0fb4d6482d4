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

	"github.com/Vasilyeu/hedge-simulator/dataframe"
	"gonum.org/v1/gonum/stat"
)

// TradingDaysPerYear is the annualization factor for daily return series
const TradingDaysPerYear = 252

// Volatility computes the volatility of a value series as the standard
// deviation of its log returns scaled by the square root of the series
// length
func Volatility(values []float64) float64 {
	if len(values) < 3 {
		return math.NaN()
	}
	logReturns := dataframe.LogReturns(values)
	return stat.StdDev(logReturns, nil) * math.Sqrt(float64(len(values)))
}

// SharpeRatio computes the annualized sharpe ratio of a daily return series
func SharpeRatio(returns []float64, dailyRiskFreeRate float64) float64 {
	if len(returns) < 2 {
		return math.NaN()
	}
	return (stat.Mean(returns, nil) - dailyRiskFreeRate) / stat.StdDev(returns, nil) * math.Sqrt(TradingDaysPerYear)
}

// SortinoRatio computes the annualized sortino ratio of a daily return
// series with a required return of zero
func SortinoRatio(returns []float64) float64 {
	if len(returns) == 0 {
		return math.NaN()
	}

	downside := DownsideRisk(returns)
	if downside == 0 {
		return math.NaN()
	}

	averageAnnualReturn := stat.Mean(returns, nil) * TradingDaysPerYear
	return averageAnnualReturn / downside
}

// DownsideRisk is the annualized second lower partial moment of a daily
// return series around zero
func DownsideRisk(returns []float64) float64 {
	if len(returns) == 0 {
		return math.NaN()
	}
	sumSquares := 0.0
	for _, r := range returns {
		if r < 0 {
			sumSquares += r * r
		}
	}
	meanSquares := sumSquares / float64(len(returns))
	return math.Sqrt(meanSquares) * math.Sqrt(TradingDaysPerYear)
}

// MaxDrawdown computes the largest peak-to-trough loss of a daily return
// series; the result is negative or zero
func MaxDrawdown(returns []float64) float64 {
	if len(returns) == 0 {
		return math.NaN()
	}
	cumulative := dataframe.CumProd1p(returns)
	peak := cumulative[0]
	maxDD := 0.0
	for _, v := range cumulative {
		if v > peak {
			peak = v
		}
		dd := (v - peak) / peak
		if dd < maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// AnnualReturn computes the compound annual growth rate of a daily return
// series
func AnnualReturn(returns []float64) float64 {
	if len(returns) == 0 {
		return math.NaN()
	}
	endingValue := 1.0
	for _, r := range returns {
		endingValue *= (1.0 + r)
	}
	numYears := float64(len(returns)) / TradingDaysPerYear
	return math.Pow(endingValue, 1.0/numYears) - 1.0
}

// UpsideCaptureRatio compares annualized portfolio growth to benchmark
// growth over the days the benchmark was up
func UpsideCaptureRatio(returns, benchmarkReturns []float64) float64 {
	return captureRatio(returns, benchmarkReturns, func(b float64) bool { return b > 0 })
}

// DownsideCaptureRatio compares annualized portfolio growth to benchmark
// growth over the days the benchmark was down
func DownsideCaptureRatio(returns, benchmarkReturns []float64) float64 {
	return captureRatio(returns, benchmarkReturns, func(b float64) bool { return b < 0 })
}

func captureRatio(returns, benchmarkReturns []float64, keep func(float64) bool) float64 {
	n := len(returns)
	if len(benchmarkReturns) < n {
		n = len(benchmarkReturns)
	}
	maskedPortfolio := make([]float64, 0, n)
	maskedBenchmark := make([]float64, 0, n)
	for ii := 0; ii < n; ii++ {
		if keep(benchmarkReturns[ii]) {
			maskedPortfolio = append(maskedPortfolio, returns[ii])
			maskedBenchmark = append(maskedBenchmark, benchmarkReturns[ii])
		}
	}
	if len(maskedBenchmark) == 0 {
		return math.NaN()
	}
	return AnnualReturn(maskedPortfolio) / AnnualReturn(maskedBenchmark)
}

// Beta regresses portfolio returns on benchmark returns and returns the
// slope
func Beta(returns, benchmarkReturns []float64) float64 {
	n := len(returns)
	if len(benchmarkReturns) < n {
		n = len(benchmarkReturns)
	}
	if n < 2 {
		return math.NaN()
	}
	_, slope := stat.LinearRegression(benchmarkReturns[:n], returns[:n], nil, false)
	return slope
}

// Alpha computes the annualized excess return of the portfolio over its
// beta-scaled benchmark
func Alpha(returns, benchmarkReturns []float64) float64 {
	n := len(returns)
	if len(benchmarkReturns) < n {
		n = len(benchmarkReturns)
	}
	if n < 2 {
		return math.NaN()
	}

	beta := Beta(returns[:n], benchmarkReturns[:n])
	excess := make([]float64, n)
	for ii := 0; ii < n; ii++ {
		excess[ii] = returns[ii] - beta*benchmarkReturns[ii]
	}
	return math.Pow(1.0+stat.Mean(excess, nil), TradingDaysPerYear) - 1.0
}

// TrackingError is the annualized standard deviation of portfolio minus
// benchmark returns
func TrackingError(returns, benchmarkReturns []float64) float64 {
	n := len(returns)
	if len(benchmarkReturns) < n {
		n = len(benchmarkReturns)
	}
	if n < 2 {
		return math.NaN()
	}
	diff := make([]float64, n)
	for ii := 0; ii < n; ii++ {
		diff[ii] = returns[ii] - benchmarkReturns[ii]
	}
	return stat.StdDev(diff, nil) * math.Sqrt(TradingDaysPerYear)
}
