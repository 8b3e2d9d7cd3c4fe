/*
 * Copyright (C) 2024 Finscope, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

// Package extract turns record-level datasets into period-level series.
package extract

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/finscope/finrisk-pipeline/pkg/api"
	"github.com/finscope/finrisk-pipeline/pkg/config"
	"github.com/finscope/finrisk-pipeline/pkg/utils"
)

var monthlyLog = logrus.WithField("component", "extract.Monthly")

type groupState struct {
	sum   float64
	min   float64
	max   float64
	count int
}

// Monthly aggregates records into one row per period key, ascending.
type Monthly struct {
	keyField string
	aggs     []api.MonthlyAggregate
}

// NewMonthlyAggregator creates a grouped aggregator keyed on a period column.
func NewMonthlyAggregator(keyField string, aggs []api.MonthlyAggregate) (*Monthly, error) {
	if keyField == "" {
		return nil, errors.New("monthly aggregator: key field must be provided")
	}
	for i, agg := range aggs {
		if agg.Name == "" {
			return nil, errors.Errorf("aggregate %d: name must be provided", i)
		}
		switch agg.Operation {
		case api.AggregateSum, api.AggregateAvg, api.AggregateMin, api.AggregateMax:
			if agg.RecordKey == "" {
				return nil, errors.Errorf("aggregate %s: operation %s needs a recordKey", agg.Name, agg.Operation)
			}
		case api.AggregateCount:
		default:
			return nil, errors.Errorf("aggregate %s: unknown operation %s", agg.Name, agg.Operation)
		}
	}
	return &Monthly{keyField: keyField, aggs: aggs}, nil
}

// Extract groups the records by period key and computes every configured
// aggregate, returning one row per period in ascending key order. Records
// without the key column and non-numeric cells are skipped.
func (m *Monthly) Extract(entries []config.GenericMap) []config.GenericMap {
	groups := make(map[string][]*groupState)
	var keys []string

	for _, entry := range entries {
		raw, ok := entry[m.keyField]
		if !ok {
			monthlyLog.Debugf("record without %s column, skipping", m.keyField)
			continue
		}
		key := utils.ConvertToString(raw)
		states, ok := groups[key]
		if !ok {
			states = make([]*groupState, len(m.aggs))
			for i := range states {
				states[i] = &groupState{min: math.MaxFloat64, max: -math.MaxFloat64}
			}
			groups[key] = states
			keys = append(keys, key)
		}
		for i, agg := range m.aggs {
			state := states[i]
			if agg.Operation == api.AggregateCount {
				state.count++
				continue
			}
			v, err := utils.ConvertToFloat64(entry[agg.RecordKey])
			if err != nil {
				monthlyLog.Debugf("aggregate %s: %v", agg.Name, err)
				continue
			}
			state.sum += v
			state.count++
			state.min = math.Min(state.min, v)
			state.max = math.Max(state.max, v)
		}
	}

	sort.Strings(keys)
	out := make([]config.GenericMap, 0, len(keys))
	for _, key := range keys {
		row := config.GenericMap{m.keyField: key}
		for i, agg := range m.aggs {
			row[agg.Name] = resolve(agg, groups[key][i])
		}
		out = append(out, row)
	}
	monthlyLog.Debugf("aggregated %d records into %d periods", len(entries), len(out))
	return out
}

// resolve turns the accumulated state into the aggregate's final value.
func resolve(a api.MonthlyAggregate, state *groupState) float64 {
	switch a.Operation {
	case api.AggregateSum:
		return state.sum
	case api.AggregateAvg:
		if state.count == 0 {
			return 0
		}
		return state.sum / float64(state.count)
	case api.AggregateMin:
		if state.count == 0 {
			return 0
		}
		return state.min
	case api.AggregateMax:
		if state.count == 0 {
			return 0
		}
		return state.max
	case api.AggregateCount:
		return float64(state.count)
	}
	return 0
}
