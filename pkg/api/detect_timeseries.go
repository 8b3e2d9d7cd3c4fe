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

package api

// TimeSeriesRules describes which metrics of a period-keyed series are
// checked against a rolling local baseline.
type TimeSeriesRules struct {
	PeriodField string   `yaml:"periodField" json:"periodField" doc:"column holding the coarse time bucket the series is ordered by"`
	Metrics     []string `yaml:"metrics" json:"metrics" doc:"metric columns scanned one by one; missing columns are skipped"`
}

// DefaultKPIRules returns the standard monthly KPI series schema.
func DefaultKPIRules() TimeSeriesRules {
	return TimeSeriesRules{
		PeriodField: "month",
		Metrics:     []string{"total_revenue", "actual_amount", "profit", "variance_pct"},
	}
}
