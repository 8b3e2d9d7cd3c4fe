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

package transform

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/finscope/finrisk-pipeline/pkg/api"
	"github.com/finscope/finrisk-pipeline/pkg/config"
	"github.com/finscope/finrisk-pipeline/pkg/utils"
)

var enrichLog = logrus.WithField("component", "transform.Enrich")

// Enrich recomputes derived financial columns on a copy of every record, so
// the engine never trusts upstream arithmetic.
type Enrich struct {
	rules []api.EnrichRule
}

// NewTransformEnrich creates an enricher from its rule list.
func NewTransformEnrich(cfg api.TransformEnrich) (*Enrich, error) {
	for i, rule := range cfg.Rules {
		switch rule.Type {
		case api.EnrichVariance:
			if rule.Variance == nil || rule.Variance.Budget == "" || rule.Variance.Actual == "" {
				return nil, errors.Errorf("enrich rule %d: variance rules need budget and actual columns", i)
			}
		case api.EnrichECL:
			if rule.ECL == nil || rule.ECL.PD == "" || rule.ECL.LGD == "" || rule.ECL.EAD == "" {
				return nil, errors.Errorf("enrich rule %d: expected_credit_loss rules need pd, lgd and ead columns", i)
			}
		case api.EnrichMonth:
			if rule.Month == nil || rule.Month.DateField == "" {
				return nil, errors.Errorf("enrich rule %d: month rules need a dateField", i)
			}
		default:
			return nil, errors.Errorf("enrich rule %d: unknown type %s", i, rule.Type)
		}
	}
	return &Enrich{rules: cfg.Rules}, nil
}

// Transform applies every rule to a copy of each record. A rule that cannot
// be computed for one record (missing or non-numeric column) leaves that
// record unchanged and is logged at debug level.
func (e *Enrich) Transform(in []config.GenericMap) []config.GenericMap {
	out := make([]config.GenericMap, 0, len(in))
	for _, entry := range in {
		enriched := entry.Copy()
		for _, rule := range e.rules {
			switch rule.Type {
			case api.EnrichVariance:
				applyVariance(enriched, rule.Variance)
			case api.EnrichECL:
				applyECL(enriched, rule.ECL)
			case api.EnrichMonth:
				applyMonth(enriched, rule.Month)
			}
		}
		out = append(out, enriched)
	}
	return out
}

func applyVariance(entry config.GenericMap, rule *api.VarianceRule) {
	budget, err := utils.ConvertToFloat64(entry[rule.Budget])
	if err != nil {
		enrichLog.Debugf("variance: %v", err)
		return
	}
	actual, err := utils.ConvertToFloat64(entry[rule.Actual])
	if err != nil {
		enrichLog.Debugf("variance: %v", err)
		return
	}
	amountField := rule.OutputAmount
	if amountField == "" {
		amountField = "variance_amount"
	}
	pctField := rule.OutputPct
	if pctField == "" {
		pctField = "variance_pct"
	}
	amount := actual - budget
	entry[amountField] = amount
	if budget == 0 {
		entry[pctField] = 0.0
	} else {
		entry[pctField] = amount / budget
	}
}

func applyECL(entry config.GenericMap, rule *api.ECLRule) {
	pd, errPD := utils.ConvertToFloat64(entry[rule.PD])
	lgd, errLGD := utils.ConvertToFloat64(entry[rule.LGD])
	ead, errEAD := utils.ConvertToFloat64(entry[rule.EAD])
	if errPD != nil || errLGD != nil || errEAD != nil {
		enrichLog.Debugf("expected_credit_loss: pd=%v lgd=%v ead=%v", errPD, errLGD, errEAD)
		return
	}
	output := rule.Output
	if output == "" {
		output = "ecl"
	}
	entry[output] = pd * lgd * ead
}

func applyMonth(entry config.GenericMap, rule *api.MonthRule) {
	date := utils.ConvertToString(entry[rule.DateField])
	if len(date) < 7 {
		enrichLog.Debugf("month: cannot derive a period from %q", date)
		return
	}
	output := rule.Output
	if output == "" {
		output = "month"
	}
	entry[output] = date[:7]
}
