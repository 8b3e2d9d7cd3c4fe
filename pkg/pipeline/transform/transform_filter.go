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
	"github.com/Knetic/govaluate"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/finscope/finrisk-pipeline/pkg/api"
	"github.com/finscope/finrisk-pipeline/pkg/config"
)

var filterLog = logrus.WithField("component", "transform.Filter")

type filterRule struct {
	action     api.TransformFilterRuleType
	expression *govaluate.EvaluableExpression
}

// Filter keeps or drops records based on boolean expressions over their
// columns.
type Filter struct {
	rules []filterRule
}

// NewTransformFilter compiles the filter expressions.
func NewTransformFilter(cfg api.TransformFilter) (*Filter, error) {
	rules := make([]filterRule, 0, len(cfg.Rules))
	for i, rule := range cfg.Rules {
		switch rule.Type {
		case api.KeepEntryIf, api.RemoveEntryIf:
		default:
			return nil, errors.Errorf("filter rule %d: unknown type %s", i, rule.Type)
		}
		expression, err := govaluate.NewEvaluableExpression(rule.Expression)
		if err != nil {
			return nil, errors.Wrapf(err, "filter rule %d: parsing %q", i, rule.Expression)
		}
		rules = append(rules, filterRule{action: rule.Type, expression: expression})
	}
	return &Filter{rules: rules}, nil
}

// Transform returns the records surviving every rule. A record whose
// expression fails to evaluate (e.g. missing column) does not match the
// rule.
func (f *Filter) Transform(in []config.GenericMap) []config.GenericMap {
	out := make([]config.GenericMap, 0, len(in))
	for _, entry := range in {
		if f.keep(entry) {
			out = append(out, entry)
		}
	}
	filterLog.Debugf("%d of %d records kept", len(out), len(in))
	return out
}

func (f *Filter) keep(entry config.GenericMap) bool {
	for _, rule := range f.rules {
		matched := false
		result, err := rule.expression.Evaluate(map[string]interface{}(entry))
		if err != nil {
			filterLog.Debugf("expression %s: %v", rule.expression, err)
		} else if b, ok := result.(bool); ok {
			matched = b
		}
		switch rule.action {
		case api.KeepEntryIf:
			if !matched {
				return false
			}
		case api.RemoveEntryIf:
			if matched {
				return false
			}
		}
	}
	return true
}
