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

package handler

import (
	"errors"
	"time"

	"github.com/Vasilyeu/hedge-simulator/data"
	"github.com/Vasilyeu/hedge-simulator/hedge"
	"github.com/Vasilyeu/hedge-simulator/portfolio"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type hedgeRequest struct {
	RelativeStrike   float64  `json:"relativeStrike"`
	MaturityMonths   int      `json:"maturityMonths"`
	NewOptionTrigger *float64 `json:"newOptionTrigger"`
	TechnologyOnly   bool     `json:"technologyOnly"`
	StartDate        string   `json:"startDate"`
}

type hedgeResponse struct {
	Options              []*hedge.PutOption       `json:"options"`
	Transactions         []*portfolio.Transaction `json:"transactions"`
	HedgeCost            float64                  `json:"hedgeCost"`
	Cash                 float64                  `json:"cash"`
	Performance          *portfolio.Performance   `json:"performance"`
	BenchmarkPerformance *portfolio.Performance   `json:"benchmarkPerformance"`
}

// SimulateHedge runs the put-option hedge strategy over a saved portfolio
// and returns the option ledger along with hedged and unhedged performance
func SimulateHedge(c *fiber.Ctx) error {
	portfolioID := c.Params("id")

	params := hedgeRequest{}
	if err := json.Unmarshal(c.Body(), &params); err != nil {
		log.Warn().Err(err).Msg("SimulateHedge bad request")
		return fiber.ErrBadRequest
	}
	if params.RelativeStrike <= 0 || params.MaturityMonths <= 0 {
		log.Warn().Float64("RelativeStrike", params.RelativeStrike).Int("MaturityMonths", params.MaturityMonths).Msg("SimulateHedge invalid strategy parameters")
		return fiber.ErrBadRequest
	}

	var startDate time.Time
	if params.StartDate != "" {
		var err error
		startDate, err = time.Parse("2006-01-02", params.StartDate)
		if err != nil {
			log.Warn().Err(err).Str("StartDateStr", params.StartDate).Msg("cannot parse start date")
			return fiber.ErrNotAcceptable
		}
	}

	saved, err := loadPortfolio(c.Context(), portfolioID)
	if err != nil {
		return fiber.ErrNotFound
	}

	mgr := data.GetManagerInstance()
	transactions := saved.Transactions
	if params.TechnologyOnly {
		transactions, err = hedge.FilterTechnology(c.Context(), mgr, transactions)
		if err != nil {
			log.Error().Err(err).Str("PortfolioID", portfolioID).Msg("could not filter transactions by sector")
			return fiber.ErrInternalServerError
		}
		if len(transactions) == 0 {
			log.Warn().Str("PortfolioID", portfolioID).Msg("no technology holdings to hedge")
			return fiber.ErrBadRequest
		}
	}

	unhedged, err := portfolio.BuildFromTransactions(c.Context(), mgr, transactions)
	if err != nil {
		log.Error().Err(err).Str("PortfolioID", portfolioID).Msg("could not build portfolio")
		return hedgeBuildError(err)
	}

	sim := hedge.NewSimulator(mgr, params.RelativeStrike, params.MaturityMonths, params.NewOptionTrigger)
	hedged, err := sim.ApplyStrategy(c.Context(), unhedged)
	if err != nil {
		log.Error().Err(err).Str("PortfolioID", portfolioID).Msg("hedge simulation failed")
		return hedgeBuildError(err)
	}

	return c.JSON(hedgeResponse{
		Options:              sim.Options,
		Transactions:         hedged.Transactions,
		HedgeCost:            hedged.HedgeCost,
		Cash:                 hedged.Cash,
		Performance:          hedged.Performance(unhedged, startDate),
		BenchmarkPerformance: unhedged.Performance(nil, startDate),
	})
}

func hedgeBuildError(err error) error {
	switch {
	case errors.Is(err, portfolio.ErrNoTransactions),
		errors.Is(err, portfolio.ErrInsufficientData),
		errors.Is(err, portfolio.ErrUnknownPriceOnDay),
		errors.Is(err, data.ErrNoData):
		return fiber.ErrBadRequest
	default:
		return fiber.ErrInternalServerError
	}
}
