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

package detect

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finscope/finrisk-pipeline/pkg/api"
	"github.com/finscope/finrisk-pipeline/pkg/config"
	"github.com/finscope/finrisk-pipeline/pkg/operational"
)

func testLoanRules() api.CrossSectionRules {
	return api.DefaultLoanRules()
}

func loanEntry(id int, pd, ecl, ead float64) config.GenericMap {
	return config.GenericMap{
		"loan_id":   float64(id),
		"loan_type": "Personal",
		"pd":        pd,
		"ecl":       ecl,
		"ead":       ead,
	}
}

// tightLoans builds a large population of nearly identical loans so that a
// single extreme record dominates the column statistics.
func tightLoans(n int) []config.GenericMap {
	loans := make([]config.GenericMap, 0, n)
	for i := 0; i < n; i++ {
		jitter := float64(i%2)*0.0002 - 0.0001
		loans = append(loans, loanEntry(i+1, 0.02+jitter, 1000, 50000))
	}
	return loans
}

func newTestCrossSection(t *testing.T, rules api.CrossSectionRules, threshold float64) *CrossSection {
	d, err := NewCrossSection("Loans", rules, threshold, operational.NewMetrics(nil))
	require.NoError(t, err)
	return d
}

func TestCrossSectionEmptyDataset(t *testing.T) {
	d := newTestCrossSection(t, testLoanRules(), 3.0)
	anomalies, err := d.Detect(nil)
	require.NoError(t, err)
	assert.Empty(t, anomalies)
}

func TestCrossSectionMissingColumns(t *testing.T) {
	d := newTestCrossSection(t, testLoanRules(), 3.0)
	_, err := d.Detect([]config.GenericMap{{"loan_id": 1.0, "loan_type": "Auto"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pd")
	assert.Contains(t, err.Error(), "ecl")
	assert.Contains(t, err.Error(), "ead")
}

func TestCrossSectionConstantColumnNeverFlags(t *testing.T) {
	loans := make([]config.GenericMap, 0, 10)
	for i := 0; i < 10; i++ {
		loans = append(loans, loanEntry(i+1, 0.02, 1000, 50000))
	}
	d := newTestCrossSection(t, testLoanRules(), 3.0)
	anomalies, err := d.Detect(loans)
	require.NoError(t, err)
	assert.Empty(t, anomalies)
}

func TestCrossSectionOutlierSeverity(t *testing.T) {
	loans := tightLoans(200)
	// pd ten sigmas and more above the tight population
	loans = append(loans, loanEntry(201, 0.90, 1000, 50000))

	d := newTestCrossSection(t, testLoanRules(), 3.0)
	anomalies, err := d.Detect(loans)
	require.NoError(t, err)
	require.Len(t, anomalies, 1)

	flagged := anomalies[0]
	assert.Equal(t, float64(201), flagged["loan_id"])
	assert.Equal(t, "High PD", flagged["anomaly_type"])
	assert.GreaterOrEqual(t, flagged["severity"].(float64), 10.0)
}

func TestCrossSectionPriorityOrder(t *testing.T) {
	// pd population with real spread so the pd z-score stays moderate,
	// ead population tight so the ead z-score dwarfs it
	loans := make([]config.GenericMap, 0, 201)
	for i := 0; i < 200; i++ {
		loans = append(loans, loanEntry(i+1, 0.01+0.0001*float64(i), 1000, 50000))
	}
	// both pd and ead breach the threshold; ead deviates much more, yet
	// the label must come from pd, the earlier watched field
	loans = append(loans, loanEntry(201, 0.06, 1000, 5000000))

	d := newTestCrossSection(t, testLoanRules(), 3.0)
	anomalies, err := d.Detect(loans)
	require.NoError(t, err)
	require.Len(t, anomalies, 1)

	flagged := anomalies[0]
	pdScore := flagged["pd_z_score"].(float64)
	eadScore := flagged["ead_z_score"].(float64)
	assert.Greater(t, eadScore, pdScore)
	assert.Equal(t, "High PD", flagged["anomaly_type"])
	assert.InDelta(t, eadScore, flagged["severity"].(float64), 1e-9)
}

func TestCrossSectionSortedBySeverity(t *testing.T) {
	loans := tightLoans(200)
	loans = append(loans, loanEntry(201, 0.50, 1000, 50000))
	loans = append(loans, loanEntry(202, 0.90, 1000, 50000))

	d := newTestCrossSection(t, testLoanRules(), 3.0)
	anomalies, err := d.Detect(loans)
	require.NoError(t, err)
	require.Len(t, anomalies, 2)
	assert.Equal(t, float64(202), anomalies[0]["loan_id"])
	assert.Equal(t, float64(201), anomalies[1]["loan_id"])
	assert.Greater(t, anomalies[0]["severity"].(float64), anomalies[1]["severity"].(float64))
}

func TestCrossSectionDoesNotMutateInput(t *testing.T) {
	loans := tightLoans(50)
	loans = append(loans, loanEntry(51, 0.90, 1000, 50000))
	before := fmt.Sprintf("%v", loans[50])

	d := newTestCrossSection(t, testLoanRules(), 3.0)
	_, err := d.Detect(loans)
	require.NoError(t, err)
	assert.Equal(t, before, fmt.Sprintf("%v", loans[50]))
	_, hasType := loans[50]["anomaly_type"]
	assert.False(t, hasType)
}

func TestCrossSectionDeterministic(t *testing.T) {
	loans := tightLoans(100)
	loans = append(loans, loanEntry(101, 0.90, 1000, 50000))

	d := newTestCrossSection(t, testLoanRules(), 3.0)
	first, err := d.Detect(loans)
	require.NoError(t, err)
	second, err := d.Detect(loans)
	require.NoError(t, err)
	assert.True(t, reflect.DeepEqual(first, second))
}

func TestNewCrossSectionValidation(t *testing.T) {
	_, err := NewCrossSection("Loans", api.CrossSectionRules{}, 3.0, operational.NewMetrics(nil))
	require.Error(t, err)

	_, err = NewCrossSection("Loans", api.CrossSectionRules{
		WatchFields: []api.WatchField{{Label: "No Column"}},
	}, 3.0, operational.NewMetrics(nil))
	require.Error(t, err)
}
