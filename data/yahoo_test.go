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
	"context"
	"fmt"
	"time"

	"github.com/jarcoal/httpmock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Vasilyeu/hedge-simulator/data"
)

var _ = Describe("Yahoo provider tests", func() {
	var (
		provider *data.Yahoo
		begin    time.Time
		end      time.Time
	)

	BeforeEach(func() {
		httpmock.Activate()
		provider = data.NewYahoo()
		begin = time.Date(2021, 1, 4, 0, 0, 0, 0, tz())
		end = time.Date(2021, 1, 5, 0, 0, 0, 0, tz())
	})

	AfterEach(func() {
		httpmock.DeactivateAndReset()
	})

	Context("when fetching price history", func() {
		It("parses the chart response into a dataframe", func() {
			chartJSON := fmt.Sprintf(`{
				"chart": {
					"result": [{
						"timestamp": [%d, %d],
						"indicators": {
							"quote": [{
								"open": [133.52, 128.89],
								"high": [133.61, 131.74],
								"low": [126.76, 128.43],
								"close": [129.41, 131.01]
							}]
						}
					}],
					"error": null
				}
			}`, begin.Add(14*time.Hour+30*time.Minute).Unix(), end.Add(14*time.Hour+30*time.Minute).Unix())

			httpmock.RegisterResponder("GET", `=~^https://query1\.finance\.yahoo\.com/v8/finance/chart/AAPL`,
				httpmock.NewStringResponder(200, chartJSON))

			df, err := provider.PriceHistory(context.Background(), "AAPL", begin, end)
			Expect(err).To(BeNil())
			Expect(df.Len()).To(Equal(2))
			Expect(df.Dates[0]).To(Equal(begin))
			Expect(df.Dates[1]).To(Equal(end))
			Expect(df.Col(string(data.MetricClose))).To(Equal([]float64{129.41, 131.01}))
			Expect(df.Col(string(data.MetricOpen))).To(Equal([]float64{133.52, 128.89}))
		})

		It("errors when yahoo reports an application error", func() {
			chartJSON := `{
				"chart": {
					"result": null,
					"error": {"code": "Not Found", "description": "No data found, symbol may be delisted"}
				}
			}`
			httpmock.RegisterResponder("GET", `=~^https://query1\.finance\.yahoo\.com/v8/finance/chart/MISSING`,
				httpmock.NewStringResponder(200, chartJSON))

			_, err := provider.PriceHistory(context.Background(), "MISSING", begin, end)
			Expect(err).ToNot(BeNil())
		})

		It("errors on a bad HTTP status", func() {
			httpmock.RegisterResponder("GET", `=~^https://query1\.finance\.yahoo\.com/v8/finance/chart/RATELIMIT`,
				httpmock.NewStringResponder(429, "Too Many Requests"))

			_, err := provider.PriceHistory(context.Background(), "RATELIMIT", begin, end)
			Expect(err).To(MatchError(data.ErrProviderStatus))
		})
	})

	Context("when fetching company profiles", func() {
		It("returns the sector", func() {
			profileJSON := `{
				"quoteSummary": {
					"result": [{
						"assetProfile": {"sector": "Technology"}
					}]
				}
			}`
			httpmock.RegisterResponder("GET", `=~^https://query1\.finance\.yahoo\.com/v10/finance/quoteSummary/MSFT`,
				httpmock.NewStringResponder(200, profileJSON))

			sector, err := provider.Sector(context.Background(), "MSFT")
			Expect(err).To(BeNil())
			Expect(sector).To(Equal("Technology"))
		})

		It("errors when no profile is returned", func() {
			profileJSON := `{"quoteSummary": {"result": []}}`
			httpmock.RegisterResponder("GET", `=~^https://query1\.finance\.yahoo\.com/v10/finance/quoteSummary/EMPTY`,
				httpmock.NewStringResponder(200, profileJSON))

			_, err := provider.Sector(context.Background(), "EMPTY")
			Expect(err).To(MatchError(data.ErrSectorUnknown))
		})
	})
})
