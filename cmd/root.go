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
	"fmt"
	"os"

	"github.com/Vasilyeu/hedge-simulator/common"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Database
	viper.BindEnv("database.url", "DATABASE_URL")
	rootCmd.PersistentFlags().String("database-url", "", "PostgreSQL connection string")
	viper.BindPFlag("database.url", rootCmd.PersistentFlags().Lookup("database-url"))

	// Cache
	rootCmd.PersistentFlags().Int("cache-size", 1000, "Maximum number of entries kept in the local response cache")
	viper.BindPFlag("cache.local_size", rootCmd.PersistentFlags().Lookup("cache-size"))

	rootCmd.PersistentFlags().Int("cache-ttl", 3600, "Seconds redis cache entries live before expiring")
	viper.BindPFlag("cache.ttl", rootCmd.PersistentFlags().Lookup("cache-ttl"))

	viper.BindEnv("cache.redis_url", "REDIS_URL")
	rootCmd.PersistentFlags().String("redis-url", "", "Redis connection string, if blank only the local cache is used")
	viper.BindPFlag("cache.redis_url", rootCmd.PersistentFlags().Lookup("redis-url"))

	// Logging configuration
	viper.BindEnv("log.level", "HEDGESIM_LOG_LEVEL")
	rootCmd.PersistentFlags().String("log-level", "warning", "Logging level")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	viper.BindEnv("log.report_caller", "HEDGESIM_LOG_REPORT_CALLER")
	rootCmd.PersistentFlags().Bool("log-report-caller", false, "Log function name that called log statement")
	viper.BindPFlag("log.report_caller", rootCmd.PersistentFlags().Lookup("log-report-caller"))

	viper.BindEnv("log.output", "HEDGESIM_LOG_OUTPUT")
	rootCmd.PersistentFlags().String("log-output", "stdout", "Write logs to specified output one of: file path, `stdout`, or `stderr`")
	viper.BindPFlag("log.output", rootCmd.PersistentFlags().Lookup("log-output"))

	viper.BindEnv("log.pretty", "HEDGESIM_LOG_PRETTY")
	rootCmd.PersistentFlags().Bool("log-pretty", false, "Print logs in human readable format")
	viper.BindPFlag("log.pretty", rootCmd.PersistentFlags().Lookup("log-pretty"))

	// Tracing
	viper.BindEnv("otlp.endpoint", "OTLP_ENDPOINT")
	rootCmd.PersistentFlags().String("otlp-endpoint", "", "OTLP trace collector endpoint, if blank tracing is disabled")
	viper.BindPFlag("otlp.endpoint", rootCmd.PersistentFlags().Lookup("otlp-endpoint"))
}

var rootCmd = &cobra.Command{
	Use:     "hedgesim",
	Version: common.Version,
	Short:   "hedgesim simulates put-option hedge strategies over stock portfolios",
	Long: `hedgesim builds portfolios from transaction lists, prices them from a
local database backed by Yahoo Finance, and simulates a rolling
protective-put hedge strategy with configurable strike, maturity and
re-insurance trigger.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
