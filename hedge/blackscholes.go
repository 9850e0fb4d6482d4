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
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// BlackScholes prices European options on a non-dividend-paying asset
type BlackScholes struct {
	S     float64 // underlying asset price
	K     float64 // option strike price
	T     float64 // time to expiration in years
	R     float64 // risk-free interest rate
	Sigma float64 // volatility of the underlying asset
}

// D1 calculates d1 of the Black-Scholes formula
func (bs *BlackScholes) D1() float64 {
	return (math.Log(bs.S/bs.K) + (bs.R+0.5*bs.Sigma*bs.Sigma)*bs.T) / (bs.Sigma * math.Sqrt(bs.T))
}

// D2 calculates d2 of the Black-Scholes formula
func (bs *BlackScholes) D2() float64 {
	return bs.D1() - bs.Sigma*math.Sqrt(bs.T)
}

// Call returns the call option premium
func (bs *BlackScholes) Call() float64 {
	norm := distuv.UnitNormal
	return bs.S*norm.CDF(bs.D1()) - bs.K*math.Exp(-bs.R*bs.T)*norm.CDF(bs.D2())
}

// Put returns the put option premium
func (bs *BlackScholes) Put() float64 {
	norm := distuv.UnitNormal
	return bs.K*math.Exp(-bs.R*bs.T)*norm.CDF(-bs.D2()) - bs.S*norm.CDF(-bs.D1())
}
