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

package router

import (
	"github.com/Vasilyeu/hedge-simulator/handler"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes setup router api
func SetupRoutes(app *fiber.App) {
	app.Get("/health", handler.Health)

	api := app.Group("/v1")
	api.Get("/", handler.Ping)

	// Portfolio
	portfolio := api.Group("/portfolio")
	portfolio.Get("/:id/performance", handler.GetPerformance)
	portfolio.Post("/:id/hedge", handler.SimulateHedge)
	portfolio.Get("/:id", handler.GetPortfolio)
	portfolio.Get("/", handler.ListPortfolios)
	portfolio.Post("/", handler.CreatePortfolio)
	portfolio.Delete("/:id", handler.DeletePortfolio)
}
