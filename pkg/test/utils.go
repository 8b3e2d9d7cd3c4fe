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

// Package test holds helpers shared by the package tests.
package test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/finscope/finrisk-pipeline/pkg/config"
)

// InitConfig parses a YAML literal the way the CLI would.
func InitConfig(t *testing.T, conf string) (*viper.Viper, *config.Config) {
	v := viper.New()
	v.SetConfigType("yaml")
	err := v.ReadConfig(bytes.NewReader([]byte(conf)))
	require.NoError(t, err)
	cfg, err := config.ParseConfig(v)
	require.NoError(t, err)
	return v, cfg
}

// CostRecord builds a cost ledger record with consistent derived fields.
func CostRecord(id int, businessUnit string, budget, actual float64) config.GenericMap {
	variance := actual - budget
	pct := 0.0
	if budget != 0 {
		pct = variance / budget
	}
	return config.GenericMap{
		"cost_id":         float64(id),
		"cost_date":       fmt.Sprintf("2024-%02d-15", id%12+1),
		"business_unit":   businessUnit,
		"budget_amount":   budget,
		"actual_amount":   actual,
		"variance_amount": variance,
		"variance_pct":    pct,
	}
}

// LoanRecord builds a loan portfolio record with a consistent ECL.
func LoanRecord(id int, loanType string, pd, lgd, ead float64) config.GenericMap {
	return config.GenericMap{
		"loan_id":   float64(id),
		"loan_type": loanType,
		"pd":        pd,
		"lgd":       lgd,
		"ead":       ead,
		"ecl":       pd * lgd * ead,
	}
}

// KPIPoint builds one monthly KPI series point.
func KPIPoint(month string, values map[string]float64) config.GenericMap {
	entry := config.GenericMap{"month": month}
	for k, v := range values {
		entry[k] = v
	}
	return entry
}
