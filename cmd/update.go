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

package cmd

import (
	"context"
	"time"

	"github.com/Vasilyeu/hedge-simulator/common"
	"github.com/Vasilyeu/hedge-simulator/data"
	"github.com/Vasilyeu/hedge-simulator/database"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var updateTickers []string
var updateFrom string

func init() {
	updateCmd.Flags().StringSliceVar(&updateTickers, "tickers", []string{}, "Tickers to fetch history for; when empty refresh every ticker already stored")
	updateCmd.Flags().StringVar(&updateFrom, "from", "", "Earliest date to fetch specified as YYYY-MM-DD")
	rootCmd.AddCommand(updateCmd)
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Fetch price history into the local database",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		common.SetupLogging()
		common.SetupCache()
		log.Info().Msg("initialized logging")

		if err := database.Connect(ctx); err != nil {
			log.Fatal().Err(err).Msg("database connection failed")
		}
		if err := database.Migrate(ctx); err != nil {
			log.Fatal().Err(err).Msg("database migration failed")
		}

		mgr := data.GetManagerInstance()

		if len(updateTickers) == 0 {
			if err := mgr.RefreshDailyPrices(ctx); err != nil {
				log.Fatal().Err(err).Msg("could not refresh price history")
			}
			return
		}

		tz := common.GetTimezone()
		now := time.Now().In(tz)
		end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, tz).AddDate(0, 0, -1)
		begin := end.AddDate(-5, 0, 0)
		if updateFrom != "" {
			var err error
			begin, err = time.Parse("2006-01-02", updateFrom)
			if err != nil {
				log.Fatal().Err(err).Str("InputStr", updateFrom).Msg("could not parse from date - expected format 2006-01-02")
			}
			begin = begin.In(tz)
		}

		common.ArrToUpper(updateTickers)
		for _, ticker := range updateTickers {
			subLog := log.With().Str("Ticker", ticker).Time("Begin", begin).Time("End", end).Logger()
			if _, err := mgr.Prices(ctx, ticker, begin, end); err != nil {
				subLog.Error().Err(err).Msg("could not fetch price history")
				continue
			}
			subLog.Info().Msg("fetched price history")
		}
	},
}
