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
	"os"
	"os/signal"

	"github.com/Vasilyeu/hedge-simulator/common"
	"github.com/Vasilyeu/hedge-simulator/data"
	"github.com/Vasilyeu/hedge-simulator/database"
	"github.com/Vasilyeu/hedge-simulator/middleware"
	"github.com/Vasilyeu/hedge-simulator/observability/opentelemetry"
	"github.com/Vasilyeu/hedge-simulator/router"

	"github.com/go-co-op/gocron"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	viper.BindEnv("server.port", "PORT")
	serveCmd.Flags().IntP("port", "p", 8501, "Port to run application server on")
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))

	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the hedge simulator server",
	Long:  `Run HTTP server that implements the hedge simulator API`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		common.SetupLogging()
		common.SetupCache()
		log.Info().Msg("initialized logging")

		if viper.GetString("otlp.endpoint") != "" {
			shutdown, err := opentelemetry.Setup()
			if err != nil {
				log.Fatal().Err(err).Msg("could not setup tracing")
			}
			defer func() {
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("could not shutdown tracing")
				}
			}()
		}

		// setup database
		if err := database.Connect(ctx); err != nil {
			log.Fatal().Err(err).Msg("database connection failed")
		}
		if err := database.Migrate(ctx); err != nil {
			log.Fatal().Err(err).Msg("database migration failed")
		}

		mgr := data.GetManagerInstance()
		log.Info().Msg("initialized data framework")

		app := fiber.New(fiber.Config{
			JSONEncoder: json.Marshal,
			JSONDecoder: json.Unmarshal,
		})

		// shutdown cleanly on interrupt
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt)
		go func() {
			sig := <-c // block until signal is read
			log.Info().Str("Signal", sig.String()).Msg("received signal; shutting down")
			if err := app.Shutdown(); err != nil {
				log.Fatal().Err(err).Msg("could not shutdown server")
			}
		}()

		app.Use(cors.New(cors.Config{
			AllowHeaders: "*",
			AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		}))
		app.Use(middleware.NewLogger())

		router.SetupRoutes(app)

		// extend stored price history every night after the NYSE close
		scheduler := gocron.NewScheduler(common.GetTimezone())
		scheduler.Every(1).Day().At("21:00").Do(func() {
			if err := mgr.RefreshDailyPrices(context.Background()); err != nil {
				log.Error().Err(err).Msg("nightly price refresh failed")
			}
		})
		scheduler.StartAsync()

		if err := app.Listen(":" + viper.GetString("server.port")); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	},
}
