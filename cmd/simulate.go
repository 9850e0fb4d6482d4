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
	"fmt"
	"os"
	"time"

	"github.com/Vasilyeu/hedge-simulator/common"
	"github.com/Vasilyeu/hedge-simulator/data"
	"github.com/Vasilyeu/hedge-simulator/database"
	"github.com/Vasilyeu/hedge-simulator/hedge"
	"github.com/Vasilyeu/hedge-simulator/portfolio"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	simRelativeStrike   float64
	simMaturityMonths   int
	simNewOptionTrigger float64
	simTechnologyOnly   bool
)

func init() {
	simulateCmd.Flags().Float64Var(&simRelativeStrike, "relative-strike", 0.9, "Option strike as a fraction of the stock price")
	simulateCmd.Flags().IntVar(&simMaturityMonths, "maturity-months", 12, "Option maturity in months")
	simulateCmd.Flags().Float64Var(&simNewOptionTrigger, "new-option-trigger", 0, "Re-insure when the price rises above watermark times this factor; 0 disables the trigger")
	simulateCmd.Flags().BoolVar(&simTechnologyOnly, "technology-only", false, "Hedge only technology sector holdings")
	rootCmd.AddCommand(simulateCmd)
}

var simulateCmd = &cobra.Command{
	Use:   "simulate [transactions.json]",
	Short: "Run the put-option hedge strategy over a transaction list",
	Long: `Read a JSON transaction list, build the portfolio and simulate the
rolling protective-put hedge strategy. Results are written to stdout as JSON.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		common.SetupLogging()
		common.SetupCache()

		if err := database.Connect(ctx); err != nil {
			log.Fatal().Err(err).Msg("database connection failed")
		}
		if err := database.Migrate(ctx); err != nil {
			log.Fatal().Err(err).Msg("database migration failed")
		}

		raw, err := os.ReadFile(args[0])
		if err != nil {
			log.Fatal().Err(err).Str("FileName", args[0]).Msg("could not read transactions file")
		}
		var transactions []*portfolio.Transaction
		if err := json.Unmarshal(raw, &transactions); err != nil {
			log.Fatal().Err(err).Str("FileName", args[0]).Msg("could not parse transactions file")
		}

		mgr := data.GetManagerInstance()

		if simTechnologyOnly {
			transactions, err = hedge.FilterTechnology(ctx, mgr, transactions)
			if err != nil {
				log.Fatal().Err(err).Msg("could not filter transactions by sector")
			}
			if len(transactions) == 0 {
				log.Fatal().Msg("no technology holdings to hedge")
			}
		}

		unhedged, err := portfolio.BuildFromTransactions(ctx, mgr, transactions)
		if err != nil {
			log.Fatal().Err(err).Msg("could not build portfolio")
		}

		var trigger *float64
		if simNewOptionTrigger > 0 {
			trigger = &simNewOptionTrigger
		}
		sim := hedge.NewSimulator(mgr, simRelativeStrike, simMaturityMonths, trigger)
		hedged, err := sim.ApplyStrategy(ctx, unhedged)
		if err != nil {
			log.Fatal().Err(err).Msg("hedge simulation failed")
		}

		result := map[string]interface{}{
			"options":              sim.Options,
			"transactions":         hedged.Transactions,
			"hedgeCost":            hedged.HedgeCost,
			"cash":                 hedged.Cash,
			"performance":          hedged.Performance(unhedged, time.Time{}),
			"benchmarkPerformance": unhedged.Performance(nil, time.Time{}),
		}
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			log.Fatal().Err(err).Msg("could not marshal simulation result")
		}
		fmt.Println(string(out))
	},
}
