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

// WatchField is one numeric column scored by the cross-sectional detector.
// The order of watch fields matters: when several fields breach the
// threshold for the same record, the anomaly type is taken from the first
// one in declaration order, regardless of which deviation is larger.
type WatchField struct {
	Field      string `yaml:"field" json:"field" doc:"numeric column to score"`
	Label      string `yaml:"label" json:"label" doc:"anomaly type assigned when this field drives the flag"`
	ScoreField string `yaml:"scoreField,omitempty" json:"scoreField,omitempty" doc:"output column for this field's z-score (default <field>_z_score)"`
}

// CrossSectionRules describes one dataset category for cross-sectional detection.
type CrossSectionRules struct {
	IDField        string       `yaml:"idField" json:"idField" doc:"unique record identifier column"`
	DimensionField string       `yaml:"dimensionField" json:"dimensionField" doc:"grouping dimension reported as the category's top issue"`
	MagnitudeField string       `yaml:"magnitudeField" json:"magnitudeField" doc:"column summed into the category's aggregate magnitude"`
	WatchFields    []WatchField `yaml:"watchFields" json:"watchFields" doc:"ordered list of scored columns; order decides the anomaly type on ties"`
}

// OutputScoreField resolves the z-score output column for a watch field.
func (w *WatchField) OutputScoreField() string {
	if w.ScoreField != "" {
		return w.ScoreField
	}
	return w.Field + "_z_score"
}

// DefaultCostRules returns the standard cost ledger schema.
func DefaultCostRules() CrossSectionRules {
	return CrossSectionRules{
		IDField:        "cost_id",
		DimensionField: "business_unit",
		MagnitudeField: "variance_amount",
		WatchFields: []WatchField{
			{Field: "variance_pct", Label: "High Variance", ScoreField: "variance_z_score"},
			{Field: "actual_amount", Label: "High Amount", ScoreField: "actual_z_score"},
		},
	}
}

// DefaultLoanRules returns the standard loan portfolio schema.
func DefaultLoanRules() CrossSectionRules {
	return CrossSectionRules{
		IDField:        "loan_id",
		DimensionField: "loan_type",
		MagnitudeField: "ecl",
		WatchFields: []WatchField{
			{Field: "pd", Label: "High PD"},
			{Field: "ecl", Label: "High ECL"},
			{Field: "ead", Label: "High EAD"},
		},
	}
}
