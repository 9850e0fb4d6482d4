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

package data

import "errors"

const (
	CashAsset = "$CASH"
)

// Metric is a column of the EOD price table
type Metric string

const (
	MetricOpen  Metric = "Open"
	MetricLow   Metric = "Low"
	MetricHigh  Metric = "High"
	MetricClose Metric = "Close"
)

// SecurityMetric identifies a single series: one metric of one ticker
type SecurityMetric struct {
	Ticker string
	Metric Metric
}

var (
	ErrBeginAfterEnd       = errors.New("interval begin after end")
	ErrInvalidTimeRange    = errors.New("invalid time range")
	ErrRangeDoesNotExist   = errors.New("requested range does not exist in cache")
	ErrDataLargerThanCache = errors.New("data is larger than cache size")
	ErrNoData              = errors.New("no data available for ticker")
	ErrSectorUnknown       = errors.New("no sector recorded for ticker")
	ErrProviderStatus      = errors.New("provider returned invalid status code")
)
