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

package dataframe_test

import (
	"math"
	"time"

	"github.com/Vasilyeu/hedge-simulator/dataframe"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("DataFrame math tests", func() {
	var (
		df    *dataframe.DataFrame
		tz    *time.Location
		dates []time.Time
	)

	BeforeEach(func() {
		tz, _ = time.LoadLocation("America/New_York")
		dates = []time.Time{
			time.Date(2021, time.January, 4, 0, 0, 0, 0, tz),
			time.Date(2021, time.January, 5, 0, 0, 0, 0, tz),
			time.Date(2021, time.January, 6, 0, 0, 0, 0, tz),
		}

		df = &dataframe.DataFrame{
			Dates:    dates,
			ColNames: []string{"AAPL", "MSFT"},
			Vals: [][]float64{
				{100, 110, 120},
				{200, 210, 220},
			},
		}
	})

	Context("when multiplying", func() {
		It("multiplies matching columns element-wise", func() {
			other := &dataframe.DataFrame{
				Dates:    dates,
				ColNames: []string{"AAPL"},
				Vals:     [][]float64{{2, 2, 2}},
			}
			product := df.Mul(other)
			Expect(product.Col("AAPL")).To(Equal([]float64{200, 220, 240}))
			Expect(product.Col("MSFT")).To(Equal([]float64{200, 210, 220}))
			// original unchanged
			Expect(df.Col("AAPL")).To(Equal([]float64{100, 110, 120}))
		})

		It("multiplies by a scalar", func() {
			product := df.MulScalar(0.5)
			Expect(product.Col("AAPL")).To(Equal([]float64{50, 55, 60}))
			Expect(product.Col("MSFT")).To(Equal([]float64{100, 105, 110}))
		})
	})

	Context("when summing rows", func() {
		It("returns the per-row total", func() {
			Expect(df.RowSum()).To(Equal([]float64{300, 320, 340}))
		})
	})

	Context("when taking the element-wise maximum", func() {
		It("keeps the larger value per cell", func() {
			other := &dataframe.DataFrame{
				Dates:    dates[1:],
				ColNames: []string{"AAPL"},
				Vals:     [][]float64{{115, 90}},
			}
			adjusted := df.EWMax(other)
			Expect(adjusted.Col("AAPL")).To(Equal([]float64{100, 115, 120}))
			Expect(adjusted.Col("MSFT")).To(Equal([]float64{200, 210, 220}))
		})

		It("overwrites NaN cells with the other value", func() {
			df.Vals[0][1] = math.NaN()
			other := &dataframe.DataFrame{
				Dates:    dates,
				ColNames: []string{"AAPL"},
				Vals:     [][]float64{{1, 105, 1}},
			}
			adjusted := df.EWMax(other)
			Expect(adjusted.Col("AAPL")).To(Equal([]float64{100, 105, 120}))
		})
	})

	Context("series helpers", func() {
		It("computes percent change with a leading zero", func() {
			pct := dataframe.PctChange([]float64{100, 110, 99})
			Expect(pct[0]).To(Equal(0.0))
			Expect(pct[1]).To(BeNumerically("~", 0.1, 1e-9))
			Expect(pct[2]).To(BeNumerically("~", -0.1, 1e-9))
		})

		It("computes cumulative growth", func() {
			cum := dataframe.CumProd1p([]float64{0, 0.1, -0.1})
			Expect(cum[0]).To(Equal(1.0))
			Expect(cum[1]).To(BeNumerically("~", 1.1, 1e-9))
			Expect(cum[2]).To(BeNumerically("~", 0.99, 1e-9))
		})

		It("computes log returns", func() {
			logret := dataframe.LogReturns([]float64{100, 110})
			Expect(logret).To(HaveLen(1))
			Expect(logret[0]).To(BeNumerically("~", math.Log(1.1), 1e-9))
		})

		It("returns an empty slice of log returns for short series", func() {
			Expect(dataframe.LogReturns([]float64{100})).To(BeEmpty())
		})
	})
})
