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

package hedge

import (
	"context"

	"github.com/Vasilyeu/hedge-simulator/data"
	"github.com/Vasilyeu/hedge-simulator/portfolio"
)

// TechnologySector is the sector classification kept by FilterTechnology
const TechnologySector = "Technology"

// FilterTechnology removes transactions whose ticker is not classified in
// the Technology sector
func FilterTechnology(ctx context.Context, mgr *data.Manager, transactions []*portfolio.Transaction) ([]*portfolio.Transaction, error) {
	sectors, err := mgr.Sectors(ctx, portfolio.Tickers(transactions))
	if err != nil {
		return nil, err
	}

	filtered := make([]*portfolio.Transaction, 0, len(transactions))
	for _, trx := range transactions {
		if sectors[trx.Ticker] == TechnologySector {
			filtered = append(filtered, trx)
		}
	}
	return filtered, nil
}
