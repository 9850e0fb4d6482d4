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

package dataframe

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Mul multiplies all columns in dataframe df by the corresponding column in
// dataframe other and returns a new dataframe. Columns of df with no
// counterpart in other are left unchanged.
// panics if rows are not equal.
func (df *DataFrame) Mul(other *DataFrame) *DataFrame {
	df = df.Copy()

	otherMap := make(map[string]int, len(other.ColNames))
	for idx, val := range other.ColNames {
		otherMap[val] = idx
	}

	for idx, colName := range df.ColNames {
		if otherIdx, ok := otherMap[colName]; ok {
			floats.Mul(df.Vals[idx], other.Vals[otherIdx])
		}
	}
	return df
}

// MulScalar multiplies all columns in dataframe df by the scalar and returns
// a new dataframe
func (df *DataFrame) MulScalar(scalar float64) *DataFrame {
	df = df.Copy()

	for colIdx := range df.ColNames {
		for rowIdx := range df.Vals[colIdx] {
			df.Vals[colIdx][rowIdx] *= scalar
		}
	}
	return df
}

// RowSum sums the values of each row and returns a single series
func (df *DataFrame) RowSum() []float64 {
	sums := make([]float64, df.Len())
	for rowIdx := range df.Dates {
		for colIdx := range df.Vals {
			sums[rowIdx] += df.Vals[colIdx][rowIdx]
		}
	}
	return sums
}

// EWMax computes the element-wise maximum of df and other aligned by column
// name and date; other may cover only a sub-range of df's dates. Columns of
// other with no counterpart in df are ignored.
func (df *DataFrame) EWMax(other *DataFrame) *DataFrame {
	df = df.Copy()

	otherColMap := make(map[string]int, len(other.ColNames))
	for idx, val := range other.ColNames {
		otherColMap[val] = idx
	}

	for colIdx, colName := range df.ColNames {
		otherColIdx, ok := otherColMap[colName]
		if !ok {
			continue
		}
		for otherRowIdx, date := range other.Dates {
			rowIdx := df.RowIndex(date)
			if rowIdx == -1 {
				continue
			}
			v := other.Vals[otherColIdx][otherRowIdx]
			if v > df.Vals[colIdx][rowIdx] || math.IsNaN(df.Vals[colIdx][rowIdx]) {
				df.Vals[colIdx][rowIdx] = v
			}
		}
	}
	return df
}

// PctChange computes period-over-period percent change of a series; the
// first element is 0
func PctChange(vals []float64) []float64 {
	out := make([]float64, len(vals))
	for ii := 1; ii < len(vals); ii++ {
		out[ii] = vals[ii]/vals[ii-1] - 1.0
	}
	return out
}

// CumProd1p computes the cumulative product of (1 + vals)
func CumProd1p(vals []float64) []float64 {
	out := make([]float64, len(vals))
	acc := 1.0
	for ii, v := range vals {
		acc *= (1.0 + v)
		out[ii] = acc
	}
	return out
}

// LogReturns computes log(vals[i] / vals[i-1]); result has len(vals)-1
// elements
func LogReturns(vals []float64) []float64 {
	if len(vals) < 2 {
		return []float64{}
	}
	out := make([]float64, len(vals)-1)
	for ii := 1; ii < len(vals); ii++ {
		out[ii-1] = math.Log(vals[ii] / vals[ii-1])
	}
	return out
}
