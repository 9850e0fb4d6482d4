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

var _ = Describe("DataFrame tests", func() {
	var (
		df  *dataframe.DataFrame
		tz  *time.Location
		dt1 time.Time
		dt2 time.Time
		dt3 time.Time
	)

	BeforeEach(func() {
		tz, _ = time.LoadLocation("America/New_York")
		dt1 = time.Date(2021, time.January, 4, 0, 0, 0, 0, tz)
		dt2 = time.Date(2021, time.January, 5, 0, 0, 0, 0, tz)
		dt3 = time.Date(2021, time.January, 6, 0, 0, 0, 0, tz)

		df = &dataframe.DataFrame{
			Dates:    []time.Time{dt1, dt2, dt3},
			ColNames: []string{"VFINX", "PRIDX"},
			Vals: [][]float64{
				{1, 2, 3},
				{10, 20, 30},
			},
		}
	})

	Context("with a populated dataframe", func() {
		It("has the expected dimensions", func() {
			Expect(df.Len()).To(Equal(3))
			Expect(df.ColCount()).To(Equal(2))
		})

		It("returns start and end dates", func() {
			Expect(df.Start()).To(Equal(dt1))
			Expect(df.End()).To(Equal(dt3))
		})

		It("finds columns by name", func() {
			Expect(df.ColIndex("PRIDX")).To(Equal(1))
			Expect(df.ColIndex("MISSING")).To(Equal(-1))
			Expect(df.Col("VFINX")).To(Equal([]float64{1, 2, 3}))
			Expect(df.Col("MISSING")).To(BeNil())
		})

		It("finds rows by date", func() {
			Expect(df.RowIndex(dt2)).To(Equal(1))
			Expect(df.RowIndex(dt2.AddDate(0, 1, 0))).To(Equal(-1))
		})

		It("returns values by date and column", func() {
			Expect(df.ValueAt(dt2, "PRIDX")).To(Equal(20.0))
			Expect(math.IsNaN(df.ValueAt(dt2, "MISSING"))).To(BeTrue())
			Expect(math.IsNaN(df.ValueAt(dt2.AddDate(0, 1, 0), "PRIDX"))).To(BeTrue())
		})

		It("copies without sharing memory", func() {
			df2 := df.Copy()
			df2.Vals[0][0] = 99
			Expect(df.Vals[0][0]).To(Equal(1.0))
		})

		It("inserts a new column", func() {
			df.Insert("RISK", []float64{5, 6, 7})
			Expect(df.ColCount()).To(Equal(3))
			Expect(df.Col("RISK")).To(Equal([]float64{5, 6, 7}))
		})

		It("replaces an existing column on insert", func() {
			df.Insert("VFINX", []float64{7, 8, 9})
			Expect(df.ColCount()).To(Equal(2))
			Expect(df.Col("VFINX")).To(Equal([]float64{7, 8, 9}))
		})

		It("drops a column", func() {
			df.Drop("VFINX")
			Expect(df.ColCount()).To(Equal(1))
			Expect(df.ColNames).To(Equal([]string{"PRIDX"}))
		})

		It("trims to a date range inclusive of both ends", func() {
			df2 := df.Trim(dt2, dt3)
			Expect(df2.Len()).To(Equal(2))
			Expect(df2.Start()).To(Equal(dt2))
			Expect(df2.Col("VFINX")).To(Equal([]float64{2, 3}))
		})

		It("trims to an empty dataframe when range is inverted", func() {
			df2 := df.Trim(dt3, dt1)
			Expect(df2.Len()).To(Equal(0))
		})

		It("updates values through ForEach", func() {
			df.ForEach(func(rowIdx int, date time.Time, vals map[string]float64) map[string]float64 {
				if date.Equal(dt2) {
					return map[string]float64{"VFINX": vals["VFINX"] * 2}
				}
				return nil
			})
			Expect(df.Col("VFINX")).To(Equal([]float64{1, 4, 3}))
		})
	})

	Context("with NaN values", func() {
		It("drops rows containing NaN", func() {
			df.Vals[1][1] = math.NaN()
			df2 := df.DropNA()
			Expect(df2.Len()).To(Equal(2))
			Expect(df2.Dates).To(Equal([]time.Time{dt1, dt3}))
			Expect(df2.Col("VFINX")).To(Equal([]float64{1, 3}))
		})
	})
})
