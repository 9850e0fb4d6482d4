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
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// CacheItem holds one contiguous stretch of a series; dates and values run in
// parallel and are sorted ascending
type CacheItem struct {
	Dates  []time.Time
	Values []float64
	Period *Interval
}

// SecurityMetricCache is an in-process cache of price series organized by
// ticker and metric. Stretches of the same series are merged as they are
// added so that coverage checks work on whole intervals. When the byte
// budget is exceeded the least recently used series are evicted.
type SecurityMetricCache struct {
	sizeBytes    int64
	maxSizeBytes int64
	values       map[string][]*CacheItem
	lastSeen     map[string]time.Time
	locker       sync.RWMutex
}

type pair struct {
	key  string
	last time.Time
}

type byDate []pair

func (a byDate) Len() int           { return len(a) }
func (a byDate) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byDate) Less(i, j int) bool { return a[i].last.Before(a[j].last) }

func NewSecurityMetricCache(sz int64) *SecurityMetricCache {
	return &SecurityMetricCache{
		sizeBytes:    0,
		maxSizeBytes: sz,
		values:       make(map[string][]*CacheItem, 10),
		lastSeen:     make(map[string]time.Time, 10),
	}
}

// Check returns whether the requested range is fully covered by the cache.
// If the range is not completely covered returns false and the list of
// cached intervals that partially overlap the requested range.
func (cache *SecurityMetricCache) Check(ticker string, metric Metric, begin, end time.Time) (bool, []*Interval) {
	cache.locker.RLock()
	defer cache.locker.RUnlock()

	requestedInterval := &Interval{
		Begin: begin,
		End:   end,
	}

	if err := requestedInterval.Valid(); err != nil {
		log.Error().Err(err).Msg("cannot check cache with invalid interval")
		return false, []*Interval{}
	}

	touchingIntervals := []*Interval{}
	if items, ok := cache.values[key(SecurityMetric{Ticker: ticker, Metric: metric})]; ok {
		for _, item := range items {
			if item.Period.Contains(requestedInterval) {
				return true, []*Interval{item.Period}
			}
			if item.Period.Overlaps(requestedInterval) {
				touchingIntervals = append(touchingIntervals, item.Period)
			}
		}
	}

	return false, touchingIntervals
}

// Get returns the cached dates and values over the requested range. If the
// range is not fully covered returns ErrRangeDoesNotExist.
func (cache *SecurityMetricCache) Get(ticker string, metric Metric, begin, end time.Time) ([]time.Time, []float64, error) {
	cache.locker.Lock()
	defer cache.locker.Unlock()

	requestedInterval := &Interval{
		Begin: begin,
		End:   end,
	}

	if err := requestedInterval.Valid(); err != nil {
		return nil, nil, ErrInvalidTimeRange
	}

	k := key(SecurityMetric{Ticker: ticker, Metric: metric})
	items, ok := cache.values[k]
	if !ok {
		return nil, nil, ErrRangeDoesNotExist
	}

	for _, item := range items {
		if !item.Period.Contains(requestedInterval) {
			continue
		}

		beginIdx := sort.Search(len(item.Dates), func(i int) bool {
			return !item.Dates[i].Before(begin)
		})
		endIdx := sort.Search(len(item.Dates), func(i int) bool {
			return item.Dates[i].After(end)
		})

		cache.lastSeen[k] = time.Now()
		return item.Dates[beginIdx:endIdx], item.Values[beginIdx:endIdx], nil
	}

	return nil, nil, ErrRangeDoesNotExist
}

// Set adds the data for the specified ticker and metric to the cache. The
// covered interval may be wider than the observation dates (weekends and
// holidays have no observations).
func (cache *SecurityMetricCache) Set(ticker string, metric Metric, begin, end time.Time, dates []time.Time, vals []float64) error {
	cache.locker.Lock()
	defer cache.locker.Unlock()

	interval := &Interval{
		Begin: begin,
		End:   end,
	}

	if err := interval.Valid(); err != nil {
		log.Error().Err(err).Msg("cannot set cache value with invalid interval")
		return ErrInvalidTimeRange
	}

	toAddBytes := int64(len(vals) * 16)
	if cache.maxSizeBytes < toAddBytes {
		return ErrDataLargerThanCache
	}

	if toAddBytes+cache.sizeBytes > cache.maxSizeBytes {
		cache.deleteLRU(toAddBytes)
	}

	k := key(SecurityMetric{Ticker: ticker, Metric: metric})

	items, ok := cache.values[k]
	if !ok {
		items = []*CacheItem{}
	}

	items, sizeAdded := merge(&CacheItem{
		Dates:  dates,
		Values: vals,
		Period: interval,
	}, items)

	cache.values[k] = items
	cache.lastSeen[k] = time.Now()
	cache.sizeBytes += int64(sizeAdded * 16)

	return nil
}

// Count returns the number of series in the cache
func (cache *SecurityMetricCache) Count() int {
	cache.locker.RLock()
	defer cache.locker.RUnlock()
	return len(cache.values)
}

func (cache *SecurityMetricCache) Size() int64 {
	cache.locker.RLock()
	defer cache.locker.RUnlock()
	return cache.sizeBytes
}

// Private implementation

func key(s SecurityMetric) string {
	return fmt.Sprintf("%s:%s", s.Ticker, s.Metric)
}

func (cache *SecurityMetricCache) deleteLRU(bytesToDelete int64) {
	lastAccess := make([]pair, 0, len(cache.lastSeen))
	for k, t := range cache.lastSeen {
		lastAccess = append(lastAccess, pair{key: k, last: t})
	}

	sort.Sort(byDate(lastAccess))

	cleared := int64(0)
	for _, keyPair := range lastAccess {
		entry := cache.values[keyPair.key]
		delete(cache.values, keyPair.key)
		delete(cache.lastSeen, keyPair.key)

		for _, item := range entry {
			cleared += int64(len(item.Values) * 16)
		}

		if cleared > bytesToDelete {
			break
		}
	}
	cache.sizeBytes -= cleared
	if cache.sizeBytes < 0 {
		cache.sizeBytes = 0
	}
}

// merge adds a new item to the list of cached stretches. Stretches that
// overlap or touch the new one are folded into a single item; otherwise it
// is inserted in Period.Begin order. Returns the merged list and the number
// of newly added observations.
func merge(add *CacheItem, items []*CacheItem) ([]*CacheItem, int) {
	countBefore := 0
	for _, item := range items {
		countBefore += len(item.Values)
	}

	merged := add
	out := make([]*CacheItem, 0, len(items)+1)
	for _, item := range items {
		if item.Period.Contains(merged.Period) ||
			item.Period.Contiguous(merged.Period) ||
			merged.Period.Contains(item.Period) {
			merged = mergeTwo(item, merged)
		} else {
			out = append(out, item)
		}
	}

	out = append(out, merged)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Period.Begin.Before(out[j].Period.Begin)
	})

	countAfter := 0
	for _, item := range out {
		countAfter += len(item.Values)
	}

	return out, countAfter - countBefore
}

// mergeTwo folds two overlapping or adjacent stretches into one by date
// union; on a date present in both, a's observation wins
func mergeTwo(a, b *CacheItem) *CacheItem {
	seen := make(map[time.Time]float64, len(a.Dates)+len(b.Dates))
	for idx, dt := range b.Dates {
		seen[dt] = b.Values[idx]
	}
	for idx, dt := range a.Dates {
		seen[dt] = a.Values[idx]
	}

	dates := make([]time.Time, 0, len(seen))
	for dt := range seen {
		dates = append(dates, dt)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	vals := make([]float64, len(dates))
	for idx, dt := range dates {
		vals[idx] = seen[dt]
	}

	return &CacheItem{
		Dates:  dates,
		Values: vals,
		Period: &Interval{
			Begin: minTime(a.Period.Begin, b.Period.Begin),
			End:   maxTime(a.Period.End, b.Period.End),
		},
	}
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
