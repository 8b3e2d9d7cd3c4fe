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

package generator

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratorDeterministic(t *testing.T) {
	cfg := Config{Seed: 42, Costs: 50, Loans: 50, Transactions: 50}
	first := New(cfg)
	second := New(cfg)
	assert.True(t, reflect.DeepEqual(first.Costs(), second.Costs()))
	assert.True(t, reflect.DeepEqual(first.Loans(), second.Loans()))
	assert.True(t, reflect.DeepEqual(first.Transactions(), second.Transactions()))
}

func TestGeneratorSeedChangesData(t *testing.T) {
	costs42 := New(Config{Seed: 42, Costs: 50, Loans: 1, Transactions: 1}).Costs()
	costs43 := New(Config{Seed: 43, Costs: 50, Loans: 1, Transactions: 1}).Costs()
	assert.False(t, reflect.DeepEqual(costs42, costs43))
}

func TestGeneratedCostsAreConsistent(t *testing.T) {
	costs := New(Config{Seed: 7, Costs: 200, Loans: 1, Transactions: 1}).Costs()
	require.Len(t, costs, 200)
	for _, c := range costs {
		budget := c["budget_amount"].(float64)
		actual := c["actual_amount"].(float64)
		variance := c["variance_amount"].(float64)
		assert.Greater(t, budget, 0.0)
		// rounding happens per column, so allow a cent of slack
		assert.InDelta(t, actual-budget, variance, 0.011)
		require.IsType(t, "", c["cost_date"])
		assert.Len(t, c["cost_date"].(string), 10)
	}
}

func TestGeneratedLoansAreConsistent(t *testing.T) {
	loans := New(Config{Seed: 7, Costs: 1, Loans: 500, Transactions: 1}).Loans()
	require.Len(t, loans, 500)
	for _, l := range loans {
		pd := l["pd"].(float64)
		lgd := l["lgd"].(float64)
		ead := l["ead"].(float64)
		ecl := l["ecl"].(float64)
		score := l["credit_score"].(float64)

		assert.GreaterOrEqual(t, score, 300.0)
		assert.LessOrEqual(t, score, 850.0)
		assert.Greater(t, pd, 0.0)
		assert.Less(t, pd, 0.26)
		assert.GreaterOrEqual(t, lgd, 0.30)
		assert.LessOrEqual(t, lgd, 0.65)
		// pd, lgd and ead are rounded per column, so recomputing the
		// product carries a small relative error
		assert.InDelta(t, pd*lgd*ead, ecl, 0.011+pd*lgd*ead*0.02)

		dpd := l["days_past_due"].(float64)
		assert.Contains(t, []float64{0, 30, 90, 120}, dpd)
	}
}

func TestGeneratedTransactionsAreConsistent(t *testing.T) {
	txs := New(Config{Seed: 7, Costs: 1, Loans: 1, Transactions: 500}).Transactions()
	require.Len(t, txs, 500)
	types := map[string]bool{}
	for _, tx := range txs {
		txType := tx["transaction_type"].(string)
		types[txType] = true
		assert.Contains(t, []string{"Debit", "Credit", "Fee", "Interest"}, txType)
		assert.Greater(t, tx["amount"].(float64), 0.0)
		assert.Len(t, tx["transaction_date"].(string), 10)
	}
	// with 500 draws both major types show up
	assert.True(t, types["Debit"])
	assert.True(t, types["Credit"])
}

func TestGeneratorDefaultSizes(t *testing.T) {
	g := New(Config{Seed: 1})
	assert.Equal(t, 1000, g.cfg.Costs)
	assert.Equal(t, 5000, g.cfg.Loans)
	assert.Equal(t, 20000, g.cfg.Transactions)
	assert.False(t, g.cfg.BaseDate.IsZero())
}
