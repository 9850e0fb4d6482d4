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

package portfolio_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Vasilyeu/hedge-simulator/portfolio"
)

var _ = Describe("Metrics tests", func() {
	Context("volatility", func() {
		It("is NaN for short series", func() {
			Expect(math.IsNaN(portfolio.Volatility([]float64{100, 110}))).To(BeTrue())
		})

		It("is zero for constant growth", func() {
			Expect(portfolio.Volatility([]float64{100, 110, 121, 133.1})).To(BeNumerically("~", 0, 1e-9))
		})

		It("scales the stddev of log returns by sqrt of length", func() {
			Expect(portfolio.Volatility([]float64{100, 110, 99})).To(BeNumerically("~", 0.245770, 1e-5))
		})
	})

	Context("sharpe and sortino", func() {
		returns := []float64{0.1, -0.05, 0.2}

		It("computes annualized sharpe", func() {
			Expect(portfolio.SharpeRatio(returns, 0)).To(BeNumerically("~", 10.513150, 1e-5))
		})

		It("computes downside risk from negative days only", func() {
			Expect(portfolio.DownsideRisk(returns)).To(BeNumerically("~", 0.458258, 1e-5))
		})

		It("computes annualized sortino", func() {
			Expect(portfolio.SortinoRatio(returns)).To(BeNumerically("~", 45.825757, 1e-5))
		})

		It("sortino is NaN when there are no losing days", func() {
			Expect(math.IsNaN(portfolio.SortinoRatio([]float64{0.1, 0.05}))).To(BeTrue())
		})
	})

	Context("drawdown and annual return", func() {
		It("finds the largest peak-to-trough loss", func() {
			Expect(portfolio.MaxDrawdown([]float64{0.1, -0.5, 0.2})).To(BeNumerically("~", -0.5, 1e-9))
		})

		It("reports zero drawdown for a rising series", func() {
			Expect(portfolio.MaxDrawdown([]float64{0.1, 0.1})).To(Equal(0.0))
		})

		It("compounds a one-year daily series", func() {
			returns := make([]float64, 252)
			for ii := range returns {
				returns[ii] = 0.001
			}
			Expect(portfolio.AnnualReturn(returns)).To(BeNumerically("~", 0.286434, 1e-5))
		})
	})

	Context("benchmark-relative metrics", func() {
		benchmark := []float64{0.01, -0.02, 0.015, 0.005, -0.01}
		leveraged := make([]float64, len(benchmark))

		BeforeEach(func() {
			for ii, b := range benchmark {
				leveraged[ii] = 2*b + 0.001
			}
		})

		It("regresses beta", func() {
			Expect(portfolio.Beta(leveraged, benchmark)).To(BeNumerically("~", 2.0, 1e-9))
		})

		It("annualizes alpha", func() {
			Expect(portfolio.Alpha(leveraged, benchmark)).To(BeNumerically("~", 0.286434, 1e-5))
		})

		It("annualizes tracking error", func() {
			Expect(portfolio.TrackingError(leveraged, benchmark)).To(BeNumerically("~", 0.231409, 1e-5))
		})

		It("capture ratios are one for a portfolio equal to its benchmark", func() {
			Expect(portfolio.UpsideCaptureRatio(benchmark, benchmark)).To(BeNumerically("~", 1.0, 1e-9))
			Expect(portfolio.DownsideCaptureRatio(benchmark, benchmark)).To(BeNumerically("~", 1.0, 1e-9))
		})

		It("capture ratios are NaN without qualifying days", func() {
			up := []float64{0.01, 0.02}
			Expect(math.IsNaN(portfolio.DownsideCaptureRatio(up, up))).To(BeTrue())
		})
	})
})
