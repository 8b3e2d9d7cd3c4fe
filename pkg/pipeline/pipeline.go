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

// Package pipeline wires ingestion, enrichment, KPI extraction, anomaly
// detection and report writing into a single batch run.
package pipeline

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/finscope/finrisk-pipeline/pkg/api"
	"github.com/finscope/finrisk-pipeline/pkg/config"
	"github.com/finscope/finrisk-pipeline/pkg/operational"
	"github.com/finscope/finrisk-pipeline/pkg/pipeline/extract"
	"github.com/finscope/finrisk-pipeline/pkg/pipeline/ingest"
	"github.com/finscope/finrisk-pipeline/pkg/pipeline/report"
	"github.com/finscope/finrisk-pipeline/pkg/pipeline/transform"
	"github.com/finscope/finrisk-pipeline/pkg/pipeline/write"
)

// Pipeline is one configured report run.
type Pipeline struct {
	ingester ingest.Ingester
	writer   write.Writer
	reporter *report.Generator

	costEnrich   *transform.Enrich
	loanEnrich   *transform.Enrich
	txEnrich     *transform.Enrich
	creditFilter *transform.Filter
	revenueAgg   *extract.Monthly
	spendAgg     *extract.Monthly
}

// NewPipeline builds every stage from the configuration.
func NewPipeline(cfg *config.Config, opMetrics *operational.Metrics) (*Pipeline, error) {
	ingester, err := getIngester(cfg.Ingest)
	if err != nil {
		return nil, err
	}
	writer, err := getWriter(cfg.Write)
	if err != nil {
		return nil, err
	}
	reporter, err := report.NewGenerator(cfg.Detection, cfg.Report, opMetrics)
	if err != nil {
		return nil, err
	}

	costEnrich, err := transform.NewTransformEnrich(api.TransformEnrich{Rules: []api.EnrichRule{
		{Type: api.EnrichMonth, Month: &api.MonthRule{DateField: "cost_date"}},
		{Type: api.EnrichVariance, Variance: &api.VarianceRule{Budget: "budget_amount", Actual: "actual_amount"}},
	}})
	if err != nil {
		return nil, err
	}
	loanEnrich, err := transform.NewTransformEnrich(api.TransformEnrich{Rules: []api.EnrichRule{
		{Type: api.EnrichECL, ECL: &api.ECLRule{PD: "pd", LGD: "lgd", EAD: "ead"}},
	}})
	if err != nil {
		return nil, err
	}
	txEnrich, err := transform.NewTransformEnrich(api.TransformEnrich{Rules: []api.EnrichRule{
		{Type: api.EnrichMonth, Month: &api.MonthRule{DateField: "transaction_date"}},
	}})
	if err != nil {
		return nil, err
	}
	creditFilter, err := transform.NewTransformFilter(api.TransformFilter{Rules: []api.TransformFilterRule{
		{Type: api.KeepEntryIf, Expression: "transaction_type == 'Credit'"},
	}})
	if err != nil {
		return nil, err
	}
	revenueAgg, err := extract.NewMonthlyAggregator("month", []api.MonthlyAggregate{
		{Name: "total_revenue", Operation: api.AggregateSum, RecordKey: "amount"},
	})
	if err != nil {
		return nil, err
	}
	spendAgg, err := extract.NewMonthlyAggregator("month", []api.MonthlyAggregate{
		{Name: "actual_amount", Operation: api.AggregateSum, RecordKey: "actual_amount"},
		{Name: "variance_pct", Operation: api.AggregateAvg, RecordKey: "variance_pct"},
	})
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		ingester:     ingester,
		writer:       writer,
		reporter:     reporter,
		costEnrich:   costEnrich,
		loanEnrich:   loanEnrich,
		txEnrich:     txEnrich,
		creditFilter: creditFilter,
		revenueAgg:   revenueAgg,
		spendAgg:     spendAgg,
	}, nil
}

// Run loads the datasets, prepares them, generates the anomaly report and
// writes every table.
func (p *Pipeline) Run(ctx context.Context) error {
	tables, err := p.ingester.Ingest(ctx)
	if err != nil {
		return errors.Wrap(err, "ingesting datasets")
	}

	costs := p.costEnrich.Transform(tables.Costs)
	loans := p.loanEnrich.Transform(tables.Loans)
	kpis := p.MonthlyKPIs(costs, tables.Transactions)

	results := p.reporter.Generate(report.Datasets{
		Costs:       costs,
		Loans:       loans,
		MonthlyKPIs: kpis,
	})

	for _, table := range results {
		if err := p.writer.Write(table); err != nil {
			return errors.Wrapf(err, "writing table %s", table.Name)
		}
	}
	log.Infof("report complete: %d tables written", len(results))
	return nil
}

// MonthlyKPIs composes the monthly KPI series from the enriched costs and
// the raw transactions: revenue from credit transactions, spend and
// variance from the cost ledger, profit as their difference.
func (p *Pipeline) MonthlyKPIs(costs, transactions []config.GenericMap) []config.GenericMap {
	credits := p.creditFilter.Transform(p.txEnrich.Transform(transactions))
	revenue := p.revenueAgg.Extract(credits)
	spend := p.spendAgg.Extract(costs)

	byMonth := make(map[string]config.GenericMap)
	var months []string
	for _, row := range append(append([]config.GenericMap{}, revenue...), spend...) {
		month, _ := row["month"].(string)
		merged, ok := byMonth[month]
		if !ok {
			merged = config.GenericMap{
				"month":         month,
				"total_revenue": 0.0,
				"actual_amount": 0.0,
				"variance_pct":  0.0,
			}
			byMonth[month] = merged
			months = append(months, month)
		}
		for k, v := range row {
			if k != "month" {
				merged[k] = v
			}
		}
	}

	// months arrive sorted from each aggregator; the merge of the two
	// sources can interleave, so sort once more for a stable series.
	sort.Strings(months)
	out := make([]config.GenericMap, 0, len(months))
	for _, month := range months {
		row := byMonth[month]
		rev, _ := row["total_revenue"].(float64)
		spent, _ := row["actual_amount"].(float64)
		row["profit"] = rev - spent
		out = append(out, row)
	}
	log.Debugf("monthly KPI series spans %d periods", len(out))
	return out
}

func getIngester(cfg config.Ingest) (ingest.Ingester, error) {
	switch cfg.Type {
	case "csv":
		return ingest.NewIngestCSV(cfg.CSV)
	case "postgres":
		return ingest.NewIngestPostgres(cfg.Postgres)
	default:
		return nil, errors.Errorf("ingest type %s not defined", cfg.Type)
	}
}

func getWriter(cfg config.Write) (write.Writer, error) {
	switch cfg.Type {
	case "csv":
		return write.NewWriteCSV(cfg.CSV)
	case "stdout":
		return write.NewWriteStdout()
	default:
		return nil, errors.Errorf("write type %s not defined", cfg.Type)
	}
}
