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
	"sort"
	"time"
)

// New creates an empty dataframe with the given date index
func New(dates []time.Time) *DataFrame {
	return &DataFrame{
		Dates:    dates,
		ColNames: []string{},
		Vals:     [][]float64{},
	}
}

// Len returns the number of rows in the dataframe
func (df *DataFrame) Len() int {
	return len(df.Dates)
}

// ColCount returns the number of columns in the dataframe
func (df *DataFrame) ColCount() int {
	return len(df.ColNames)
}

// ColIndex returns the index of the specified column; -1 if column doesn't exist
func (df *DataFrame) ColIndex(colName string) int {
	for idx, val := range df.ColNames {
		if colName == val {
			return idx
		}
	}

	return -1
}

// Col returns the values of the named column or nil when the column does not
// exist
func (df *DataFrame) Col(colName string) []float64 {
	idx := df.ColIndex(colName)
	if idx == -1 {
		return nil
	}
	return df.Vals[idx]
}

// Copy creates a copy of the dataframe
func (df *DataFrame) Copy() *DataFrame {
	df2 := &DataFrame{
		ColNames: make([]string, len(df.ColNames)),
		Dates:    make([]time.Time, len(df.Dates)),
		Vals:     make([][]float64, len(df.Vals)),
	}

	copy(df2.ColNames, df.ColNames)
	copy(df2.Dates, df.Dates)

	for idx := range df2.Vals {
		df2.Vals[idx] = make([]float64, len(df.Vals[idx]))
		copy(df2.Vals[idx], df.Vals[idx])
	}

	return df2
}

// Insert adds the column to the dataframe; an existing column of the same
// name is replaced
func (df *DataFrame) Insert(name string, col []float64) *DataFrame {
	if idx := df.ColIndex(name); idx != -1 {
		df.Vals[idx] = col
		return df
	}
	df.ColNames = append(df.ColNames, name)
	df.Vals = append(df.Vals, col)
	return df
}

// Drop removes the named column from the dataframe
func (df *DataFrame) Drop(name string) *DataFrame {
	idx := df.ColIndex(name)
	if idx == -1 {
		return df
	}
	df.ColNames = append(df.ColNames[:idx], df.ColNames[idx+1:]...)
	df.Vals = append(df.Vals[:idx], df.Vals[idx+1:]...)
	return df
}

// Start returns the first date of the dataframe
func (df *DataFrame) Start() time.Time {
	if len(df.Dates) == 0 {
		return time.Time{}
	}
	return df.Dates[0]
}

// End returns the last date of the dataframe
func (df *DataFrame) End() time.Time {
	if len(df.Dates) == 0 {
		return time.Time{}
	}
	return df.Dates[len(df.Dates)-1]
}

// RowIndex returns the row holding the requested date; -1 when the date is
// not part of the index
func (df *DataFrame) RowIndex(date time.Time) int {
	idx := sort.Search(len(df.Dates), func(i int) bool {
		return !df.Dates[i].Before(date)
	})
	if idx < len(df.Dates) && df.Dates[idx].Equal(date) {
		return idx
	}
	return -1
}

// ValueAt returns the value in the named column on the requested date; NaN
// when either does not exist
func (df *DataFrame) ValueAt(date time.Time, colName string) float64 {
	colIdx := df.ColIndex(colName)
	rowIdx := df.RowIndex(date)
	if colIdx == -1 || rowIdx == -1 {
		return math.NaN()
	}
	return df.Vals[colIdx][rowIdx]
}

// Trim the dataframe to the specified date range (inclusive)
func (df *DataFrame) Trim(begin, end time.Time) *DataFrame {
	df2 := &DataFrame{
		ColNames: df.ColNames,
		Dates:    df.Dates,
		Vals:     df.Vals,
	}

	// special case 0: requested range is invalid
	if end.Before(begin) {
		df2.Dates = []time.Time{}
		df2.Vals = make([][]float64, len(df.ColNames))
		return df2
	}

	// special case 1: data frame is empty
	if df.Len() == 0 {
		return df2
	}

	beginIdx := sort.Search(len(df.Dates), func(i int) bool {
		return !df.Dates[i].Before(begin)
	})
	endIdx := sort.Search(len(df.Dates), func(i int) bool {
		return df.Dates[i].After(end)
	})

	df2.Dates = df.Dates[beginIdx:endIdx]
	df2.Vals = make([][]float64, len(df.Vals))
	for idx := range df.Vals {
		df2.Vals[idx] = df.Vals[idx][beginIdx:endIdx]
	}
	return df2
}

// DropNA removes all rows that contain a NaN value
func (df *DataFrame) DropNA() *DataFrame {
	df2 := &DataFrame{
		ColNames: df.ColNames,
		Dates:    make([]time.Time, 0, len(df.Dates)),
		Vals:     make([][]float64, len(df.Vals)),
	}

	for rowIdx := range df.Dates {
		keep := true
		for colIdx := range df.Vals {
			if math.IsNaN(df.Vals[colIdx][rowIdx]) {
				keep = false
				break
			}
		}
		if keep {
			df2.Dates = append(df2.Dates, df.Dates[rowIdx])
			for colIdx := range df.Vals {
				df2.Vals[colIdx] = append(df2.Vals[colIdx], df.Vals[colIdx][rowIdx])
			}
		}
	}
	return df2
}

// ForEach calls lambda for each row of the dataframe; if the lambda returns a
// non-nil map then values of columns in the map are updated
func (df *DataFrame) ForEach(lambda func(rowIdx int, date time.Time, vals map[string]float64) map[string]float64) {
	for rowIdx, date := range df.Dates {
		row := make(map[string]float64, len(df.ColNames))
		for colIdx, colName := range df.ColNames {
			row[colName] = df.Vals[colIdx][rowIdx]
		}
		ret := lambda(rowIdx, date, row)
		if ret != nil {
			for colName, v := range ret {
				if colIdx := df.ColIndex(colName); colIdx != -1 {
					df.Vals[colIdx][rowIdx] = v
				}
			}
		}
	}
}
