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
	"context"
	"time"

	"github.com/Vasilyeu/hedge-simulator/data"
	"github.com/Vasilyeu/hedge-simulator/database"
	"github.com/Vasilyeu/hedge-simulator/portfolio"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const defaultBenchmark = "SPY"

type portfolioRequest struct {
	Name         string                   `json:"name"`
	Benchmark    string                   `json:"benchmark"`
	Transactions []*portfolio.Transaction `json:"transactions"`
}

type portfolioResponse struct {
	ID           uuid.UUID                `json:"id"`
	Name         string                   `json:"name"`
	Benchmark    string                   `json:"benchmark"`
	Transactions []*portfolio.Transaction `json:"transactions,omitempty"`
	Performance  *portfolio.Performance   `json:"performance,omitempty"`
	Created      float64                  `json:"created,omitempty"`
	LastChanged  float64                  `json:"lastchanged,omitempty"`
}

// CreatePortfolio builds a portfolio from a transaction list, stores it and
// returns its performance against the benchmark
func CreatePortfolio(c *fiber.Ctx) error {
	params := portfolioRequest{}
	if err := json.Unmarshal(c.Body(), &params); err != nil {
		log.Warn().Err(err).Msg("CreatePortfolio bad request")
		return fiber.ErrBadRequest
	}
	if params.Benchmark == "" {
		params.Benchmark = defaultBenchmark
	}

	p, benchmark, err := buildWithBenchmark(c.Context(), params.Transactions, params.Benchmark)
	if err != nil {
		log.Warn().Err(err).Msg("CreatePortfolio could not build portfolio")
		return fiber.ErrBadRequest
	}

	transactionsJSON, err := json.Marshal(params.Transactions)
	if err != nil {
		log.Warn().Err(err).Msg("CreatePortfolio could not marshal transactions")
		return fiber.ErrBadRequest
	}

	portfolioID := uuid.New()
	trx, err := database.Trx(c.Context())
	if err != nil {
		log.Error().Stack().Err(err).Msg("CreatePortfolio could not get transaction")
		return fiber.ErrInternalServerError
	}
	_, err = trx.Exec(c.Context(), `INSERT INTO portfolios ("id", "name", "benchmark", "transactions") VALUES ($1, $2, $3, $4)`,
		portfolioID, params.Name, params.Benchmark, transactionsJSON)
	if err != nil {
		log.Error().Stack().Err(err).Msg("CreatePortfolio insert failed")
		if err := trx.Rollback(c.Context()); err != nil {
			log.Error().Stack().Err(err).Msg("could not rollback transaction")
		}
		return fiber.ErrBadRequest
	}
	if err := trx.Commit(c.Context()); err != nil {
		log.Error().Stack().Err(err).Msg("CreatePortfolio commit failed")
		return fiber.ErrInternalServerError
	}

	return c.JSON(portfolioResponse{
		ID:          portfolioID,
		Name:        params.Name,
		Benchmark:   params.Benchmark,
		Performance: p.Performance(benchmark, time.Time{}),
	})
}

// ListPortfolios lists all saved portfolios
func ListPortfolios(c *fiber.Ctx) error {
	trx, err := database.Trx(c.Context())
	if err != nil {
		log.Error().Stack().Err(err).Msg("ListPortfolios could not get transaction")
		return fiber.ErrInternalServerError
	}

	rows, err := trx.Query(c.Context(), `SELECT id, name, benchmark, extract(epoch from created) as created, extract(epoch from lastchanged) as lastchanged FROM portfolios ORDER BY name, created`)
	if err != nil {
		log.Warn().Err(err).Msg("ListPortfolios query failed")
		if err := trx.Rollback(c.Context()); err != nil {
			log.Error().Stack().Err(err).Msg("could not rollback transaction")
		}
		return fiber.ErrNotFound
	}

	portfolios := []portfolioResponse{}
	for rows.Next() {
		p := portfolioResponse{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Benchmark, &p.Created, &p.LastChanged); err != nil {
			log.Warn().Err(err).Msg("ListPortfolios scan failed")
		}
		portfolios = append(portfolios, p)
	}

	if err := trx.Commit(c.Context()); err != nil {
		log.Warn().Stack().Err(err).Msg("could not commit transaction")
	}
	return c.JSON(portfolios)
}

// GetPortfolio returns a saved portfolio with its transactions
func GetPortfolio(c *fiber.Ctx) error {
	portfolioID := c.Params("id")
	p, err := loadPortfolio(c.Context(), portfolioID)
	if err != nil {
		return fiber.ErrNotFound
	}
	return c.JSON(p)
}

// DeletePortfolio removes a saved portfolio
func DeletePortfolio(c *fiber.Ctx) error {
	portfolioID := c.Params("id")

	trx, err := database.Trx(c.Context())
	if err != nil {
		log.Error().Stack().Err(err).Msg("DeletePortfolio could not get transaction")
		return fiber.ErrInternalServerError
	}

	tag, err := trx.Exec(c.Context(), `DELETE FROM portfolios WHERE id=$1`, portfolioID)
	if err != nil {
		log.Warn().Err(err).Str("PortfolioID", portfolioID).Msg("DeletePortfolio failed")
		if err := trx.Rollback(c.Context()); err != nil {
			log.Error().Stack().Err(err).Msg("could not rollback transaction")
		}
		return fiber.ErrNotFound
	}
	if err := trx.Commit(c.Context()); err != nil {
		log.Warn().Stack().Err(err).Msg("could not commit transaction")
	}

	if tag.RowsAffected() == 0 {
		return fiber.ErrNotFound
	}
	return c.JSON(fiber.Map{"status": "success"})
}

// GetPerformance recomputes performance of a saved portfolio against its
// benchmark; an optional startDate query parameter (YYYY-MM-DD) restricts
// the metric window
func GetPerformance(c *fiber.Ctx) error {
	portfolioID := c.Params("id")

	var startDate time.Time
	if startDateStr := c.Query("startDate"); startDateStr != "" {
		var err error
		startDate, err = time.Parse("2006-01-02", startDateStr)
		if err != nil {
			log.Warn().Err(err).Str("StartDateStr", startDateStr).Msg("cannot parse start date query parameter")
			return fiber.ErrNotAcceptable
		}
	}

	saved, err := loadPortfolio(c.Context(), portfolioID)
	if err != nil {
		return fiber.ErrNotFound
	}

	p, benchmark, err := buildWithBenchmark(c.Context(), saved.Transactions, saved.Benchmark)
	if err != nil {
		log.Error().Err(err).Str("PortfolioID", portfolioID).Msg("could not build portfolio")
		return fiber.ErrInternalServerError
	}

	return c.JSON(p.Performance(benchmark, startDate))
}

// loadPortfolio fetches a saved portfolio row and unmarshals its
// transactions
func loadPortfolio(ctx context.Context, portfolioID string) (*portfolioResponse, error) {
	trx, err := database.Trx(ctx)
	if err != nil {
		log.Error().Stack().Err(err).Msg("loadPortfolio could not get transaction")
		return nil, err
	}

	row := trx.QueryRow(ctx, `SELECT id, name, benchmark, transactions, extract(epoch from created) as created, extract(epoch from lastchanged) as lastchanged FROM portfolios WHERE id=$1`, portfolioID)
	p := portfolioResponse{}
	var transactionsJSON []byte
	if err := row.Scan(&p.ID, &p.Name, &p.Benchmark, &transactionsJSON, &p.Created, &p.LastChanged); err != nil {
		log.Warn().Err(err).Str("PortfolioID", portfolioID).Msg("loadPortfolio scan failed")
		if err := trx.Rollback(ctx); err != nil {
			log.Error().Stack().Err(err).Msg("could not rollback transaction")
		}
		return nil, err
	}
	if err := trx.Commit(ctx); err != nil {
		log.Warn().Stack().Err(err).Msg("could not commit transaction")
	}

	if err := json.Unmarshal(transactionsJSON, &p.Transactions); err != nil {
		log.Error().Err(err).Str("PortfolioID", portfolioID).Msg("could not unmarshal stored transactions")
		return nil, err
	}
	return &p, nil
}

// buildWithBenchmark assembles the portfolio and a benchmark portfolio
// holding one share of the benchmark ticker from the first transaction date
func buildWithBenchmark(ctx context.Context, transactions []*portfolio.Transaction, benchmarkTicker string) (*portfolio.Portfolio, *portfolio.Portfolio, error) {
	mgr := data.GetManagerInstance()

	p, err := portfolio.BuildFromTransactions(ctx, mgr, transactions)
	if err != nil {
		return nil, nil, err
	}

	benchmarkTransactions := []*portfolio.Transaction{
		{Date: p.Transactions[0].Date, Ticker: benchmarkTicker, Amount: 1},
	}
	benchmark, err := portfolio.BuildFromTransactions(ctx, mgr, benchmarkTransactions)
	if err != nil {
		return nil, nil, err
	}

	return p, benchmark, nil
}
