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

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Vasilyeu/hedge-simulator/common"
	"github.com/Vasilyeu/hedge-simulator/dataframe"
	"github.com/Vasilyeu/hedge-simulator/observability/opentelemetry"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

var yahooAPI = "https://query1.finance.yahoo.com"

// Yahoo retrieves EOD price history and company profiles from the Yahoo
// Finance chart API. Requests are rate limited to 2 per 5 seconds and
// responses are stored in the shared cache.
type Yahoo struct {
	limiter *rate.Limiter
}

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open  []float64 `json:"open"`
					High  []float64 `json:"high"`
					Low   []float64 `json:"low"`
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type yahooProfileResponse struct {
	QuoteSummary struct {
		Result []struct {
			AssetProfile struct {
				Sector string `json:"sector"`
			} `json:"assetProfile"`
		} `json:"result"`
	} `json:"quoteSummary"`
}

// NewYahoo creates a new Yahoo Finance data provider
func NewYahoo() *Yahoo {
	return &Yahoo{
		// 2 requests every 5 seconds
		limiter: rate.NewLimiter(rate.Every(5*time.Second/2), 2),
	}
}

// PriceHistory returns daily open/high/low/close prices for ticker between
// begin and end (inclusive)
func (y *Yahoo) PriceHistory(ctx context.Context, ticker string, begin, end time.Time) (*dataframe.DataFrame, error) {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "yahoo.PriceHistory")
	defer span.End()

	subLog := log.With().Str("Ticker", ticker).Time("Begin", begin).Time("End", end).Logger()

	url := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d&events=div%%2Csplit",
		yahooAPI, ticker, begin.Unix(), end.AddDate(0, 0, 1).Unix())

	span.SetAttributes(
		attribute.KeyValue{
			Key:   "Ticker",
			Value: attribute.StringValue(ticker),
		},
	)

	body, err := y.fetch(ctx, url, fmt.Sprintf("yahoo:chart:%s:%d:%d", ticker, begin.Unix(), end.Unix()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "yahoo chart request failed")
		subLog.Error().Err(err).Msg("yahoo chart request failed")
		return nil, err
	}

	jsonResp := yahooChartResponse{}
	if err := json.Unmarshal(body, &jsonResp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "could not unmarshal json")
		subLog.Error().Err(err).Bytes("Body", body).Msg("could not unmarshal json")
		return nil, err
	}

	if jsonResp.Chart.Error != nil {
		err := fmt.Errorf("yahoo chart error: %s", jsonResp.Chart.Error.Description)
		subLog.Error().Err(err).Msg("yahoo returned an application error")
		return nil, err
	}

	if len(jsonResp.Chart.Result) == 0 || len(jsonResp.Chart.Result[0].Indicators.Quote) == 0 {
		subLog.Warn().Msg("yahoo returned no quotes")
		return nil, ErrNoData
	}

	result := jsonResp.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	tz := common.GetTimezone()

	df := &dataframe.DataFrame{
		Dates:    make([]time.Time, 0, len(result.Timestamp)),
		ColNames: []string{string(MetricOpen), string(MetricHigh), string(MetricLow), string(MetricClose)},
		Vals:     make([][]float64, 4),
	}

	for idx, stamp := range result.Timestamp {
		dt := time.Unix(stamp, 0).In(tz)
		dt = time.Date(dt.Year(), dt.Month(), dt.Day(), 0, 0, 0, 0, tz)
		if dt.After(end) {
			continue
		}
		df.Dates = append(df.Dates, dt)
		df.Vals[0] = append(df.Vals[0], quote.Open[idx])
		df.Vals[1] = append(df.Vals[1], quote.High[idx])
		df.Vals[2] = append(df.Vals[2], quote.Low[idx])
		df.Vals[3] = append(df.Vals[3], quote.Close[idx])
	}

	return df, nil
}

// Sector returns the company sector classification for ticker
func (y *Yahoo) Sector(ctx context.Context, ticker string) (string, error) {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "yahoo.Sector")
	defer span.End()

	subLog := log.With().Str("Ticker", ticker).Logger()

	url := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=assetProfile", yahooAPI, ticker)
	body, err := y.fetch(ctx, url, fmt.Sprintf("yahoo:profile:%s", ticker))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "yahoo profile request failed")
		subLog.Error().Err(err).Msg("yahoo profile request failed")
		return "", err
	}

	jsonResp := yahooProfileResponse{}
	if err := json.Unmarshal(body, &jsonResp); err != nil {
		subLog.Error().Err(err).Bytes("Body", body).Msg("could not unmarshal json")
		return "", err
	}

	if len(jsonResp.QuoteSummary.Result) == 0 {
		return "", ErrSectorUnknown
	}

	return jsonResp.QuoteSummary.Result[0].AssetProfile.Sector, nil
}

func (y *Yahoo) fetch(ctx context.Context, url string, cacheKey string) ([]byte, error) {
	if body, err := common.CacheGet(cacheKey); err == nil && len(body) > 0 {
		return body, nil
	}

	if err := y.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "hedge-simulator/"+common.Version)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		log.Error().Int("HTTPResponseStatusCode", resp.StatusCode).Str("Url", url).Msg("yahoo returned invalid response code")
		return nil, ErrProviderStatus
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if err := common.CacheSet(cacheKey, body); err != nil {
		log.Warn().Err(err).Str("CacheKey", cacheKey).Msg("could not cache provider response")
	}

	return body, nil
}
