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

// EnrichRuleType is one of the supported derived-field computations.
// For doc generation, enum definitions must match format `Constant Type = "value" // doc`
type EnrichRuleType string

const (
	EnrichVariance EnrichRuleType = "variance"             // budget vs actual variance amount and percentage
	EnrichECL      EnrichRuleType = "expected_credit_loss" // expected credit loss: pd * lgd * ead
	EnrichMonth    EnrichRuleType = "month"                // YYYY-MM period key derived from a date column
)

// TransformEnrich recomputes derived financial columns on every record.
type TransformEnrich struct {
	Rules []EnrichRule `yaml:"rules" json:"rules" doc:"list of derived-field rules applied in order"`
}

// EnrichRule is a single derived-field computation.
type EnrichRule struct {
	Type     EnrichRuleType `yaml:"type" json:"type" doc:"(enum) rule kind: variance, expected_credit_loss or month"`
	Variance *VarianceRule  `yaml:"variance,omitempty" json:"variance,omitempty" doc:"configuration for variance rules"`
	ECL      *ECLRule       `yaml:"expected_credit_loss,omitempty" json:"expected_credit_loss,omitempty" doc:"configuration for expected_credit_loss rules"`
	Month    *MonthRule     `yaml:"month,omitempty" json:"month,omitempty" doc:"configuration for month rules"`
}

// VarianceRule computes actual-budget and its ratio to budget.
type VarianceRule struct {
	Budget       string `yaml:"budget" json:"budget" doc:"budget amount column"`
	Actual       string `yaml:"actual" json:"actual" doc:"actual amount column"`
	OutputAmount string `yaml:"outputAmount,omitempty" json:"outputAmount,omitempty" doc:"output column for actual-budget (default variance_amount)"`
	OutputPct    string `yaml:"outputPct,omitempty" json:"outputPct,omitempty" doc:"output column for the ratio to budget, 0 when budget is 0 (default variance_pct)"`
}

// ECLRule computes expected credit loss from the credit risk parameters.
type ECLRule struct {
	PD     string `yaml:"pd" json:"pd" doc:"probability of default column"`
	LGD    string `yaml:"lgd" json:"lgd" doc:"loss given default column"`
	EAD    string `yaml:"ead" json:"ead" doc:"exposure at default column"`
	Output string `yaml:"output,omitempty" json:"output,omitempty" doc:"output column (default ecl)"`
}

// MonthRule derives a YYYY-MM period key from a date column.
type MonthRule struct {
	DateField string `yaml:"dateField" json:"dateField" doc:"column holding a YYYY-MM-DD date"`
	Output    string `yaml:"output,omitempty" json:"output,omitempty" doc:"output column (default month)"`
}

// TransformFilterRuleType is one of the supported row filter actions.
// For doc generation, enum definitions must match format `Constant Type = "value" // doc`
type TransformFilterRuleType string

const (
	KeepEntryIf   TransformFilterRuleType = "keep_entry_if"   // keep the record only when the expression is true
	RemoveEntryIf TransformFilterRuleType = "remove_entry_if" // drop the record when the expression is true
)

// TransformFilter keeps or drops records by evaluating expressions over
// their columns.
type TransformFilter struct {
	Rules []TransformFilterRule `yaml:"rules" json:"rules" doc:"list of filter rules applied in order"`
}

// TransformFilterRule is a single keep/drop expression.
type TransformFilterRule struct {
	Type       TransformFilterRuleType `yaml:"type" json:"type" doc:"(enum) action: keep_entry_if or remove_entry_if"`
	Expression string                  `yaml:"expression" json:"expression" doc:"boolean expression over record columns, e.g. transaction_type == 'Credit'"`
}
