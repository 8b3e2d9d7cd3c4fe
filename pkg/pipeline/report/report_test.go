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

package report

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finscope/finrisk-pipeline/pkg/api"
	"github.com/finscope/finrisk-pipeline/pkg/config"
	"github.com/finscope/finrisk-pipeline/pkg/operational"
	"github.com/finscope/finrisk-pipeline/pkg/test"
)

func newTestGenerator(t *testing.T, detection api.Detection, reportCfg api.Report) *Generator {
	g, err := NewGenerator(detection, reportCfg, operational.NewMetrics(nil))
	require.NoError(t, err)
	return g
}

// tightCosts builds a large population of on-budget cost records so that a
// single runaway record dominates the column statistics.
func tightCosts(n int) []config.GenericMap {
	costs := make([]config.GenericMap, 0, n)
	for i := 0; i < n; i++ {
		jitter := float64(i%2)*20 - 10
		costs = append(costs, test.CostRecord(i+1, "Operations", 100000, 102000+jitter))
	}
	return costs
}

func tableByName(tables []Table, name string) *Table {
	for i := range tables {
		if tables[i].Name == name {
			return &tables[i]
		}
	}
	return nil
}

func TestGenerateCostAnomalyReport(t *testing.T) {
	costs := tightCosts(200)
	costs = append(costs, test.CostRecord(201, "Logistics", 100000, 145000))

	g := newTestGenerator(t, api.Detection{}, api.Report{})
	tables := g.Generate(Datasets{Costs: costs})

	summary := tableByName(tables, TableSummary)
	require.NotNil(t, summary)
	require.Len(t, summary.Rows, 1)
	row := summary.Rows[0]
	assert.Equal(t, CategoryCosts, row["category"])
	assert.Equal(t, 1.0, row["anomaly_count"])
	assert.Equal(t, "Logistics", row["top_issue"])
	assert.Greater(t, row["max_severity"].(float64), 3.0)
	assert.InDelta(t, 45000.0, row["total_variance"].(float64), 1e-6)

	detail := tableByName(tables, TableCostDetail)
	require.NotNil(t, detail)
	require.Len(t, detail.Rows, 1)
	assert.Equal(t, "cost_id", detail.Columns[0])
	assert.Equal(t, "business_unit", detail.Columns[1])
	assert.Equal(t, "severity", detail.Columns[len(detail.Columns)-1])
	flagged := detail.Rows[0]
	assert.Equal(t, float64(201), flagged["cost_id"])
	assert.Equal(t, "High Variance", flagged["anomaly_type"])

	combined := tableByName(tables, TableCombined)
	require.NotNil(t, combined)
	require.Len(t, combined.Rows, 1)
	assert.Equal(t, "Cost", combined.Rows[0]["category"])
	assert.Equal(t, float64(201), combined.Rows[0]["record_id"])
	assert.Equal(t, "Logistics", combined.Rows[0]["dimension"])
}

func TestGenerateOmitsEmptyCategories(t *testing.T) {
	g := newTestGenerator(t, api.Detection{}, api.Report{})
	tables := g.Generate(Datasets{Costs: tightCosts(20)})

	require.Len(t, tables, 1)
	assert.Equal(t, TableSummary, tables[0].Name)
	assert.Empty(t, tables[0].Rows)
}

func TestGenerateIsolatesCategoryFailures(t *testing.T) {
	costs := tightCosts(200)
	costs = append(costs, test.CostRecord(201, "Logistics", 100000, 145000))
	// loans are missing their risk columns, so their detection fails
	badLoans := []config.GenericMap{{"loan_id": 1.0, "loan_type": "Auto"}}

	g := newTestGenerator(t, api.Detection{}, api.Report{})
	tables := g.Generate(Datasets{Costs: costs, Loans: badLoans})

	assert.Nil(t, tableByName(tables, TableLoanDetail))
	require.NotNil(t, tableByName(tables, TableCostDetail))

	summary := tableByName(tables, TableSummary)
	require.NotNil(t, summary)
	require.Len(t, summary.Rows, 1)
	assert.Equal(t, CategoryCosts, summary.Rows[0]["category"])
}

func TestGenerateCombinedRespectsTopN(t *testing.T) {
	costs := tightCosts(200)
	costs = append(costs, test.CostRecord(201, "Logistics", 100000, 145000))
	costs = append(costs, test.CostRecord(202, "Facilities", 100000, 135000))
	costs = append(costs, test.CostRecord(203, "Travel", 100000, 130000))

	g := newTestGenerator(t, api.Detection{}, api.Report{TopN: 2})
	tables := g.Generate(Datasets{Costs: costs})

	combined := tableByName(tables, TableCombined)
	require.NotNil(t, combined)
	require.Len(t, combined.Rows, 2)
	// highest severity first
	assert.Equal(t, float64(201), combined.Rows[0]["record_id"])
	assert.Equal(t, float64(202), combined.Rows[1]["record_id"])
}

func TestGenerateKPITable(t *testing.T) {
	kpis := []config.GenericMap{
		test.KPIPoint("2024-01", map[string]float64{"profit": 100}),
		test.KPIPoint("2024-02", map[string]float64{"profit": 100}),
		test.KPIPoint("2024-03", map[string]float64{"profit": 100}),
		test.KPIPoint("2024-04", map[string]float64{"profit": 100}),
		test.KPIPoint("2024-05", map[string]float64{"profit": 200}),
	}

	g := newTestGenerator(t, api.Detection{Threshold: 1.0}, api.Report{})
	tables := g.Generate(Datasets{MonthlyKPIs: kpis})

	kpiDetail := tableByName(tables, TableKPIDetail)
	require.NotNil(t, kpiDetail)
	require.Len(t, kpiDetail.Rows, 1)
	assert.Equal(t, "2024-05", kpiDetail.Rows[0]["month"])
	assert.Equal(t, "profit", kpiDetail.Rows[0]["kpi_name"])

	summary := tableByName(tables, TableSummary)
	require.NotNil(t, summary)
	require.Len(t, summary.Rows, 1)
	row := summary.Rows[0]
	assert.Equal(t, CategoryKPIs, row["category"])
	assert.Equal(t, "profit", row["top_issue"])
	assert.InDelta(t, 2.0/1.7320508075688772, row["max_severity"].(float64), 1e-9)
	assert.Equal(t, 0.0, row["total_variance"])

	// KPI findings never enter the combined record table
	assert.Nil(t, tableByName(tables, TableCombined))
}

func TestGenerateDeterministic(t *testing.T) {
	costs := tightCosts(200)
	costs = append(costs, test.CostRecord(201, "Logistics", 100000, 145000))
	loans := []config.GenericMap{}
	for i := 0; i < 200; i++ {
		jitter := float64(i%2)*0.0002 - 0.0001
		loans = append(loans, test.LoanRecord(i+1, "Personal", 0.02+jitter, 0.45, 50000))
	}
	loans = append(loans, test.LoanRecord(201, "Personal", 0.90, 0.45, 50000))

	g := newTestGenerator(t, api.Detection{}, api.Report{})
	ds := Datasets{Costs: costs, Loans: loans}
	first := g.Generate(ds)
	second := g.Generate(ds)
	assert.True(t, reflect.DeepEqual(first, second))
}
