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

// Package generator produces internally consistent synthetic banking
// datasets (cost ledger, loan portfolio, transactions) for demos and tests.
package generator

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/sirupsen/logrus"

	"github.com/finscope/finrisk-pipeline/pkg/config"
)

var glog = logrus.WithField("component", "generator")

// Config sizes the generated datasets. The same seed always produces the
// same data.
type Config struct {
	Seed         uint64
	Costs        int
	Loans        int
	Transactions int
	// BaseDate anchors every generated date so runs are reproducible.
	BaseDate time.Time
}

// Generator produces the synthetic datasets.
type Generator struct {
	cfg   Config
	faker *gofakeit.Faker
	rng   *rand.Rand
}

// New creates a generator; zero sizes fall back to the standard demo sizes.
func New(cfg Config) *Generator {
	if cfg.Costs <= 0 {
		cfg.Costs = 1000
	}
	if cfg.Loans <= 0 {
		cfg.Loans = 5000
	}
	if cfg.Transactions <= 0 {
		cfg.Transactions = 20000
	}
	if cfg.BaseDate.IsZero() {
		cfg.BaseDate = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return &Generator{
		cfg:   cfg,
		faker: gofakeit.New(cfg.Seed),
		rng:   rand.New(rand.NewSource(int64(cfg.Seed))),
	}
}

var (
	businessUnits  = []string{"Retail Banking", "Corporate Banking", "Operations", "Technology", "Risk Management"}
	costCategories = []string{"Personnel", "Technology", "Marketing", "Facilities", "Compliance", "Other"}
	loanTypes      = []string{"Personal", "Mortgage", "Auto", "Business"}
	loanTypeProbs  = []float64{0.3, 0.35, 0.25, 0.1}
)

// Costs generates the cost ledger: budgets with mostly small variances and
// an occasional 20-50% overrun, the leakage the anomaly report should find.
func (g *Generator) Costs() []config.GenericMap {
	start := g.cfg.BaseDate.AddDate(-2, 0, 0)
	vendors := make([]string, 20)
	for i := range vendors {
		vendors[i] = g.faker.Company()
	}

	out := make([]config.GenericMap, 0, g.cfg.Costs)
	for i := 0; i < g.cfg.Costs; i++ {
		budget := g.logNormal(10, 1.5)
		var variancePct float64
		if g.rng.Float64() < 0.15 {
			variancePct = 0.20 + g.rng.Float64()*0.30
		} else {
			variancePct = g.rng.NormFloat64() * 0.10
		}
		actual := budget * (1 + variancePct)
		out = append(out, config.GenericMap{
			"cost_id":         float64(i + 1),
			"cost_date":       start.AddDate(0, i%24, 0).Format("2006-01-02"),
			"business_unit":   businessUnits[g.rng.Intn(len(businessUnits))],
			"cost_category":   costCategories[g.rng.Intn(len(costCategories))],
			"vendor":          vendors[g.rng.Intn(len(vendors))],
			"budget_amount":   round2(budget),
			"actual_amount":   round2(actual),
			"variance_amount": round2(actual - budget),
			"variance_pct":    round4(variancePct),
		})
	}
	glog.Infof("generated %d cost records", len(out))
	return out
}

// Loans generates the loan portfolio with credit-score-driven risk
// parameters: PD by score band, LGD in 0.30-0.65, EAD as the outstanding
// balance and ECL = PD * LGD * EAD.
func (g *Generator) Loans() []config.GenericMap {
	out := make([]config.GenericMap, 0, g.cfg.Loans)
	for i := 0; i < g.cfg.Loans; i++ {
		creditScore := clamp(g.rng.NormFloat64()*80+680, 300, 850)
		pd := g.pdForScore(creditScore)
		lgd := 0.30 + g.rng.Float64()*0.35
		amount := g.logNormal(10, 1.5)
		outstanding := amount * (0.3 + g.rng.Float64()*0.7)
		ead := outstanding
		status, dpd := g.loanStatus(pd)

		out = append(out, config.GenericMap{
			"loan_id":             float64(i + 1),
			"customer_id":         float64(g.rng.Intn(10000) + 1),
			"loan_type":           g.pick(loanTypes, loanTypeProbs),
			"origination_date":    g.faker.DateRange(g.cfg.BaseDate.AddDate(-3, 0, 0), g.cfg.BaseDate.AddDate(0, -6, 0)).Format("2006-01-02"),
			"maturity_date":       g.faker.DateRange(g.cfg.BaseDate, g.cfg.BaseDate.AddDate(10, 0, 0)).Format("2006-01-02"),
			"original_amount":     round2(amount),
			"outstanding_balance": round2(outstanding),
			"interest_rate":       round2(3.5 + g.rng.Float64()*9.0),
			"loan_status":         status,
			"days_past_due":       float64(dpd),
			"credit_score":        math.Trunc(creditScore),
			"pd":                  round4(pd),
			"lgd":                 round4(lgd),
			"ead":                 round2(ead),
			"ecl":                 round2(pd * lgd * ead),
		})
	}
	glog.Infof("generated %d loan records", len(out))
	return out
}

// Transactions generates a year of account activity ending at the base date.
func (g *Generator) Transactions() []config.GenericMap {
	types := []string{"Debit", "Credit", "Fee", "Interest"}
	typeProbs := []float64{0.45, 0.40, 0.10, 0.05}
	debitCategories := []string{"Shopping", "Dining", "Bills", "Transfer", "ATM"}
	creditCategories := []string{"Salary", "Transfer", "Refund", "Investment"}
	start := g.cfg.BaseDate.AddDate(-1, 0, 0)

	out := make([]config.GenericMap, 0, g.cfg.Transactions)
	for i := 0; i < g.cfg.Transactions; i++ {
		txType := g.pick(types, typeProbs)
		var amount float64
		var category string
		switch txType {
		case "Debit":
			amount = g.logNormal(3, 1.5)
			category = debitCategories[g.rng.Intn(len(debitCategories))]
		case "Credit":
			amount = g.logNormal(4, 1.5)
			category = creditCategories[g.rng.Intn(len(creditCategories))]
		case "Fee":
			amount = 5 + g.rng.Float64()*45
			category = "Service_Fee"
		default:
			amount = g.logNormal(1, 1)
			category = "Interest_Income"
		}
		out = append(out, config.GenericMap{
			"transaction_id":   float64(i + 1),
			"account_id":       float64(g.rng.Intn(15000) + 1),
			"customer_id":      float64(g.rng.Intn(10000) + 1),
			"transaction_date": start.AddDate(0, 0, g.rng.Intn(365)).Format("2006-01-02"),
			"transaction_type": txType,
			"amount":           round2(amount),
			"category":         category,
			"description":      fmt.Sprintf("%s - %s", txType, category),
		})
	}
	glog.Infof("generated %d transaction records", len(out))
	return out
}

func (g *Generator) pdForScore(score float64) float64 {
	switch {
	case score >= 750:
		return 0.005 + g.rng.Float64()*0.015
	case score >= 650:
		return 0.02 + g.rng.Float64()*0.03
	case score >= 550:
		return 0.05 + g.rng.Float64()*0.07
	default:
		return 0.12 + g.rng.Float64()*0.13
	}
}

func (g *Generator) loanStatus(pd float64) (string, int) {
	probs := []float64{0.85, 0.08, 0.04, 0.03}
	if pd >= 0.05 {
		probs = []float64{0.70, 0.15, 0.10, 0.05}
	}
	status := g.pick([]string{"Current", "DPD_30", "DPD_90", "Default"}, probs)
	switch status {
	case "DPD_30":
		return status, 30
	case "DPD_90":
		return status, 90
	case "Default":
		return status, 120
	default:
		return status, 0
	}
}

// pick draws one choice with the given probabilities.
func (g *Generator) pick(choices []string, probs []float64) string {
	r := g.rng.Float64()
	acc := 0.0
	for i, p := range probs {
		acc += p
		if r < acc {
			return choices[i]
		}
	}
	return choices[len(choices)-1]
}

func (g *Generator) logNormal(mu, sigma float64) float64 {
	return math.Exp(g.rng.NormFloat64()*sigma + mu)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
