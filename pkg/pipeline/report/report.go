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

// Package report orchestrates the detectors across the dataset categories
// and assembles the summary and combined findings tables.
package report

import (
	"math"
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/finscope/finrisk-pipeline/pkg/api"
	"github.com/finscope/finrisk-pipeline/pkg/config"
	"github.com/finscope/finrisk-pipeline/pkg/operational"
	"github.com/finscope/finrisk-pipeline/pkg/pipeline/detect"
	"github.com/finscope/finrisk-pipeline/pkg/utils"
)

var rlog = logrus.WithField("component", "report.Generator")

var detectorErrors = operational.DefineMetric(
	"detector_errors",
	"Number of category detections that failed",
	operational.TypeCounter,
	"category",
)

const (
	CategoryCosts = "Costs"
	CategoryLoans = "Loans"
	CategoryKPIs  = "KPIs"

	TableSummary    = "anomalies_summary"
	TableCostDetail = "cost_anomalies"
	TableLoanDetail = "loan_anomalies"
	TableKPIDetail  = "kpi_anomalies"
	TableCombined   = "anomalies"
)

// Table is one named report output with a deterministic column order.
type Table struct {
	Name    string
	Columns []string
	Rows    []config.GenericMap
}

// Datasets are the validated input snapshots, one per category.
type Datasets struct {
	Costs       []config.GenericMap
	Loans       []config.GenericMap
	MonthlyKPIs []config.GenericMap
}

// Generator runs the detectors and aggregates their findings.
type Generator struct {
	costs         *detect.CrossSection
	loans         *detect.CrossSection
	kpis          *detect.TimeSeries
	topN          int
	errorsCounter *prometheus.CounterVec
}

// NewGenerator builds the per-category detectors from the detection and
// report configuration, falling back to the standard category schemas.
func NewGenerator(detection api.Detection, reportCfg api.Report, opMetrics *operational.Metrics) (*Generator, error) {
	costRules := api.DefaultCostRules()
	if detection.Costs != nil {
		costRules = *detection.Costs
	}
	loanRules := api.DefaultLoanRules()
	if detection.Loans != nil {
		loanRules = *detection.Loans
	}
	kpiRules := api.DefaultKPIRules()
	if detection.KPIs != nil {
		kpiRules = *detection.KPIs
	}

	costs, err := detect.NewCrossSection(CategoryCosts, costRules, detection.Threshold, opMetrics)
	if err != nil {
		return nil, err
	}
	loans, err := detect.NewCrossSection(CategoryLoans, loanRules, detection.Threshold, opMetrics)
	if err != nil {
		return nil, err
	}
	kpis, err := detect.NewTimeSeries(CategoryKPIs, kpiRules, detection.Threshold, detection.WindowCap, opMetrics)
	if err != nil {
		return nil, err
	}

	topN := reportCfg.TopN
	if topN <= 0 {
		topN = api.DefaultTopN
	}

	return &Generator{
		costs:         costs,
		loans:         loans,
		kpis:          kpis,
		topN:          topN,
		errorsCounter: opMetrics.NewCounterVec(&detectorErrors),
	}, nil
}

type categoryResult struct {
	rows []config.GenericMap
	err  error
}

// Generate runs the three categories concurrently over their immutable
// snapshots and joins the results. A failing category is logged, counted
// and omitted from the report; it never aborts its siblings.
func (g *Generator) Generate(ds Datasets) []Table {
	var costRes, loanRes, kpiRes categoryResult
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		costRes.rows, costRes.err = g.costs.Detect(ds.Costs)
	}()
	go func() {
		defer wg.Done()
		loanRes.rows, loanRes.err = g.loans.Detect(ds.Loans)
	}()
	go func() {
		defer wg.Done()
		kpiRes.rows, kpiRes.err = g.kpis.DetectAll(ds.MonthlyKPIs)
	}()
	wg.Wait()

	g.reportFailure(CategoryCosts, &costRes)
	g.reportFailure(CategoryLoans, &loanRes)
	g.reportFailure(CategoryKPIs, &kpiRes)

	tables := []Table{g.summaryTable(costRes.rows, loanRes.rows, kpiRes.rows)}
	if len(costRes.rows) > 0 {
		tables = append(tables, g.detailTable(TableCostDetail, g.costs.Rules(), costRes.rows))
	}
	if len(loanRes.rows) > 0 {
		tables = append(tables, g.detailTable(TableLoanDetail, g.loans.Rules(), loanRes.rows))
	}
	if len(kpiRes.rows) > 0 {
		tables = append(tables, g.kpiTable(kpiRes.rows))
	}
	if combined := g.combinedTable(costRes.rows, loanRes.rows); len(combined.Rows) > 0 {
		tables = append(tables, combined)
	}
	return tables
}

func (g *Generator) reportFailure(category string, res *categoryResult) {
	if res.err != nil {
		rlog.Errorf("category %s detection failed, omitting from report: %v", category, res.err)
		g.errorsCounter.WithLabelValues(category).Inc()
		res.rows = nil
	}
}

// summaryTable builds one row per non-empty category; empty categories get
// no placeholder row.
func (g *Generator) summaryTable(costs, loans, kpis []config.GenericMap) Table {
	table := Table{
		Name:    TableSummary,
		Columns: []string{"category", "anomaly_count", "top_issue", "max_severity", "total_variance"},
	}
	if len(costs) > 0 {
		table.Rows = append(table.Rows, crossSectionSummary(CategoryCosts, g.costs.Rules(), costs))
	}
	if len(loans) > 0 {
		table.Rows = append(table.Rows, crossSectionSummary(CategoryLoans, g.loans.Rules(), loans))
	}
	if len(kpis) > 0 {
		table.Rows = append(table.Rows, kpiSummary(kpis))
	}
	return table
}

func crossSectionSummary(category string, rules api.CrossSectionRules, rows []config.GenericMap) config.GenericMap {
	maxSeverity := 0.0
	totalMagnitude := 0.0
	for _, row := range rows {
		if s, ok := row["severity"].(float64); ok && s > maxSeverity {
			maxSeverity = s
		}
		if v, err := utils.ConvertToFloat64(row[rules.MagnitudeField]); err == nil {
			totalMagnitude += v
		}
	}
	return config.GenericMap{
		"category":       category,
		"anomaly_count":  float64(len(rows)),
		"top_issue":      utils.ConvertToString(rows[0][rules.DimensionField]),
		"max_severity":   maxSeverity,
		"total_variance": totalMagnitude,
	}
}

// kpiSummary has no comparable magnitude across heterogeneous metrics, so
// total_variance stays 0.
func kpiSummary(rows []config.GenericMap) config.GenericMap {
	maxSeverity := 0.0
	for _, row := range rows {
		if s, ok := row["rolling_z_score"].(float64); ok && math.Abs(s) > maxSeverity {
			maxSeverity = math.Abs(s)
		}
	}
	return config.GenericMap{
		"category":       CategoryKPIs,
		"anomaly_count":  float64(len(rows)),
		"top_issue":      utils.ConvertToString(rows[0]["kpi_name"]),
		"max_severity":   maxSeverity,
		"total_variance": 0.0,
	}
}

// detailTable keeps every column of the flagged records: identity and
// dimension first, the derived columns last, the rest alphabetical so the
// output is reproducible.
func (g *Generator) detailTable(name string, rules api.CrossSectionRules, rows []config.GenericMap) Table {
	head := []string{rules.IDField, rules.DimensionField}
	tail := []string{"anomaly_type", "severity"}
	fixed := make(map[string]bool)
	for _, c := range append(append([]string{}, head...), tail...) {
		fixed[c] = true
	}
	var middle []string
	seen := make(map[string]bool)
	for _, row := range rows {
		for col := range row {
			if !fixed[col] && !seen[col] {
				seen[col] = true
				middle = append(middle, col)
			}
		}
	}
	sort.Strings(middle)
	columns := append(append(head, middle...), tail...)
	return Table{Name: name, Columns: columns, Rows: rows}
}

func (g *Generator) kpiTable(rows []config.GenericMap) Table {
	return Table{
		Name:    TableKPIDetail,
		Columns: []string{g.kpis.Rules().PeriodField, "kpi_name", "value", "rolling_mean", "rolling_std", "rolling_z_score"},
		Rows:    rows,
	}
}

// combinedTable takes the topN highest-severity findings per record
// category, normalized to a common shape. KPI findings are reported
// separately since their rows have a different shape.
func (g *Generator) combinedTable(costs, loans []config.GenericMap) Table {
	table := Table{
		Name:    TableCombined,
		Columns: []string{"category", "record_id", "dimension", "anomaly_type", "severity"},
	}
	table.Rows = append(table.Rows, g.topFindings("Cost", g.costs.Rules(), costs)...)
	table.Rows = append(table.Rows, g.topFindings("Loan", g.loans.Rules(), loans)...)
	return table
}

func (g *Generator) topFindings(category string, rules api.CrossSectionRules, rows []config.GenericMap) []config.GenericMap {
	var out []config.GenericMap
	for i, row := range rows {
		if i >= g.topN {
			break
		}
		out = append(out, config.GenericMap{
			"category":     category,
			"record_id":    row[rules.IDField],
			"dimension":    row[rules.DimensionField],
			"anomaly_type": row["anomaly_type"],
			"severity":     row["severity"],
		})
	}
	return out
}
