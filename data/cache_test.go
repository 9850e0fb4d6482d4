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

package data_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Vasilyeu/hedge-simulator/data"
)

var _ = Describe("SecurityMetricCache tests", func() {
	var (
		cache *data.SecurityMetricCache
		dates []time.Time
		vals  []float64
		begin time.Time
		end   time.Time
	)

	BeforeEach(func() {
		cache = data.NewSecurityMetricCache(1024)

		begin = time.Date(2021, 1, 4, 0, 0, 0, 0, tz())
		end = time.Date(2021, 1, 8, 0, 0, 0, 0, tz())
		dates = []time.Time{
			time.Date(2021, 1, 4, 0, 0, 0, 0, tz()),
			time.Date(2021, 1, 5, 0, 0, 0, 0, tz()),
			time.Date(2021, 1, 6, 0, 0, 0, 0, tz()),
			time.Date(2021, 1, 7, 0, 0, 0, 0, tz()),
			time.Date(2021, 1, 8, 0, 0, 0, 0, tz()),
		}
		vals = []float64{1, 2, 3, 4, 5}
	})

	Context("with an empty cache", func() {
		It("reports no coverage", func() {
			covered, intervals := cache.Check("VFINX", data.MetricClose, begin, end)
			Expect(covered).To(BeFalse())
			Expect(intervals).To(BeEmpty())
		})

		It("errors on get", func() {
			_, _, err := cache.Get("VFINX", data.MetricClose, begin, end)
			Expect(err).To(MatchError(data.ErrRangeDoesNotExist))
		})

		It("rejects items larger than the cache", func() {
			small := data.NewSecurityMetricCache(16)
			err := small.Set("VFINX", data.MetricClose, begin, end, dates, vals)
			Expect(err).To(MatchError(data.ErrDataLargerThanCache))
		})
	})

	Context("after setting a series", func() {
		BeforeEach(func() {
			err := cache.Set("VFINX", data.MetricClose, begin, end, dates, vals)
			Expect(err).To(BeNil())
		})

		It("covers the stored range", func() {
			covered, _ := cache.Check("VFINX", data.MetricClose, begin, end)
			Expect(covered).To(BeTrue())
		})

		It("covers sub-ranges", func() {
			covered, _ := cache.Check("VFINX", data.MetricClose, dates[1], dates[3])
			Expect(covered).To(BeTrue())
		})

		It("does not cover a wider range", func() {
			covered, intervals := cache.Check("VFINX", data.MetricClose, begin, end.AddDate(0, 1, 0))
			Expect(covered).To(BeFalse())
			Expect(intervals).To(HaveLen(1))
		})

		It("does not cover other tickers", func() {
			covered, _ := cache.Check("PRIDX", data.MetricClose, begin, end)
			Expect(covered).To(BeFalse())
		})

		It("returns the stored values", func() {
			gotDates, gotVals, err := cache.Get("VFINX", data.MetricClose, begin, end)
			Expect(err).To(BeNil())
			Expect(gotDates).To(Equal(dates))
			Expect(gotVals).To(Equal(vals))
		})

		It("returns a sub-range", func() {
			gotDates, gotVals, err := cache.Get("VFINX", data.MetricClose, dates[1], dates[3])
			Expect(err).To(BeNil())
			Expect(gotDates).To(Equal(dates[1:4]))
			Expect(gotVals).To(Equal(vals[1:4]))
		})

		It("accounts 16 bytes per observation", func() {
			Expect(cache.Size()).To(Equal(int64(len(vals) * 16)))
			Expect(cache.Count()).To(Equal(1))
		})

		It("merges an adjacent stretch into a single interval", func() {
			begin2 := end.AddDate(0, 0, 1)
			end2 := end.AddDate(0, 0, 4)
			dates2 := []time.Time{
				time.Date(2021, 1, 11, 0, 0, 0, 0, tz()),
				time.Date(2021, 1, 12, 0, 0, 0, 0, tz()),
			}
			err := cache.Set("VFINX", data.MetricClose, begin2, end2, dates2, []float64{6, 7})
			Expect(err).To(BeNil())

			covered, _ := cache.Check("VFINX", data.MetricClose, begin, end2)
			Expect(covered).To(BeTrue())

			gotDates, gotVals, err := cache.Get("VFINX", data.MetricClose, begin, end2)
			Expect(err).To(BeNil())
			Expect(gotDates).To(HaveLen(7))
			Expect(gotVals).To(Equal([]float64{1, 2, 3, 4, 5, 6, 7}))
		})

		It("keeps disjoint stretches separate", func() {
			begin2 := end.AddDate(0, 1, 0)
			end2 := begin2.AddDate(0, 0, 1)
			err := cache.Set("VFINX", data.MetricClose, begin2, end2, []time.Time{begin2}, []float64{9})
			Expect(err).To(BeNil())

			covered, _ := cache.Check("VFINX", data.MetricClose, begin, end2)
			Expect(covered).To(BeFalse())

			_, _, err = cache.Get("VFINX", data.MetricClose, begin, end2)
			Expect(err).To(MatchError(data.ErrRangeDoesNotExist))
		})
	})

	Context("when the cache budget is exceeded", func() {
		It("evicts the least recently used series", func() {
			small := data.NewSecurityMetricCache(int64(len(vals)*16) + 16)

			err := small.Set("VFINX", data.MetricClose, begin, end, dates, vals)
			Expect(err).To(BeNil())
			err = small.Set("PRIDX", data.MetricClose, begin, end, dates, vals)
			Expect(err).To(BeNil())

			covered, _ := small.Check("VFINX", data.MetricClose, begin, end)
			Expect(covered).To(BeFalse())
			covered, _ = small.Check("PRIDX", data.MetricClose, begin, end)
			Expect(covered).To(BeTrue())
		})
	})
})
