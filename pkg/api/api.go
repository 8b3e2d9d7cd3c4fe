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

// Package api holds the configuration types of every pipeline stage.
package api

const (
	// DefaultThreshold is the z-score magnitude above which a record is flagged.
	DefaultThreshold = 3.0
	// DefaultWindowCap is the maximum trailing window used for rolling statistics.
	DefaultWindowCap = 3
	// DefaultTopN is the number of findings per category kept in the combined table.
	DefaultTopN = 10
)

// Detection tunes the anomaly detectors. Zero values fall back to the
// documented defaults; nil category rules fall back to the standard
// cost/loan/KPI schemas.
type Detection struct {
	Threshold float64            `yaml:"threshold,omitempty" json:"threshold,omitempty" doc:"z-score magnitude above which a record is flagged (default 3.0)"`
	WindowCap int                `yaml:"windowCap,omitempty" json:"windowCap,omitempty" doc:"maximum trailing window for time-series rolling statistics (default 3)"`
	Costs     *CrossSectionRules `yaml:"costs,omitempty" json:"costs,omitempty" doc:"cross-sectional rules for the cost dataset"`
	Loans     *CrossSectionRules `yaml:"loans,omitempty" json:"loans,omitempty" doc:"cross-sectional rules for the loan dataset"`
	KPIs      *TimeSeriesRules   `yaml:"kpis,omitempty" json:"kpis,omitempty" doc:"time-series rules for the monthly KPI series"`
}

// Report tunes the cross-category report aggregation.
type Report struct {
	TopN int `yaml:"topN,omitempty" json:"topN,omitempty" doc:"findings per category in the combined table (default 10)"`
}
