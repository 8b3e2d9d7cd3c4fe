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
	"math"
	"sort"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/finscope/finrisk-pipeline/pkg/api"
	"github.com/finscope/finrisk-pipeline/pkg/config"
	"github.com/finscope/finrisk-pipeline/pkg/operational"
	"github.com/finscope/finrisk-pipeline/pkg/utils"
)

var tsLog = logrus.WithField("component", "detect.TimeSeries")

// TimeSeries flags points of a period-keyed metric series that deviate from
// a trailing rolling baseline, as opposed to CrossSection which scores
// against the whole population.
type TimeSeries struct {
	category       string
	rules          api.TimeSeriesRules
	threshold      float64
	windowCap      int
	scannedCounter prometheus.Counter
	flaggedCounter prometheus.Counter
}

// NewTimeSeries creates a time-series detector for one metric series category.
func NewTimeSeries(category string, rules api.TimeSeriesRules, threshold float64, windowCap int, opMetrics *operational.Metrics) (*TimeSeries, error) {
	if rules.PeriodField == "" {
		return nil, errors.Errorf("category %s: periodField must be provided", category)
	}
	if len(rules.Metrics) == 0 {
		return nil, errors.Errorf("category %s: at least one metric must be provided", category)
	}
	if threshold <= 0 {
		threshold = api.DefaultThreshold
	}
	if windowCap <= 0 {
		windowCap = api.DefaultWindowCap
	}
	tsLog.Debugf("NewTimeSeries category=%s threshold=%v windowCap=%d metrics=%v", category, threshold, windowCap, rules.Metrics)
	return &TimeSeries{
		category:       category,
		rules:          rules,
		threshold:      threshold,
		windowCap:      windowCap,
		scannedCounter: opMetrics.NewCounter(&recordsScanned, category),
		flaggedCounter: opMetrics.NewCounter(&anomaliesFound, category),
	}, nil
}

// DetectAll runs Detect once per configured metric and concatenates the
// findings, each tagged with the metric that produced it. Metrics absent
// from the series are skipped.
func (d *TimeSeries) DetectAll(series []config.GenericMap) ([]config.GenericMap, error) {
	var anomalies []config.GenericMap
	for _, metric := range d.rules.Metrics {
		if len(series) > 0 {
			if _, ok := series[0][metric]; !ok {
				tsLog.Debugf("category %s: metric %s not in series, skipping", d.category, metric)
				continue
			}
		}
		found, err := d.Detect(series, metric)
		if err != nil {
			return nil, err
		}
		anomalies = append(anomalies, found...)
	}
	tsLog.Infof("category %s: %d points flagged across %d metrics", d.category, len(anomalies), len(d.rules.Metrics))
	return anomalies, nil
}

// Detect flags the points of one metric whose rolling z-score magnitude
// exceeds the threshold. Points with insufficient trailing history or a
// zero rolling standard deviation cannot be evaluated and are never
// flagged; they are not given a default score of 0, because a flat recent
// window followed by a jump is exactly the signal being sought. Findings
// are returned in chronological order.
func (d *TimeSeries) Detect(series []config.GenericMap, metric string) ([]config.GenericMap, error) {
	n := len(series)
	window := d.windowCap
	if n-1 < window {
		window = n - 1
	}
	if window < 2 {
		tsLog.Debugf("category %s: %d points is not enough history for a rolling window", d.category, n)
		return nil, nil
	}
	if err := d.checkSchema(series[0], metric); err != nil {
		return nil, err
	}

	// Chronological order; the caller's slice is left untouched.
	sorted := make([]config.GenericMap, n)
	copy(sorted, series)
	sort.SliceStable(sorted, func(i, j int) bool {
		return utils.ConvertToString(sorted[i][d.rules.PeriodField]) < utils.ConvertToString(sorted[j][d.rules.PeriodField])
	})

	values := make([]float64, n)
	for i, entry := range sorted {
		v, err := utils.ConvertToFloat64(entry[metric])
		if err != nil {
			return nil, errors.Wrapf(err, "category %s: metric %s, row %d", d.category, metric, i)
		}
		values[i] = v
	}
	d.scannedCounter.Add(float64(n))

	var anomalies []config.GenericMap
	for i := window - 1; i < n; i++ {
		mean, std := MeanStd(values[i-window+1 : i+1])
		if std == 0 {
			continue
		}
		score := (values[i] - mean) / std
		if math.Abs(score) <= d.threshold {
			continue
		}
		out := sorted[i].Copy()
		out["kpi_name"] = metric
		out["value"] = values[i]
		out["rolling_mean"] = mean
		out["rolling_std"] = std
		out["rolling_z_score"] = score
		anomalies = append(anomalies, out)
	}

	d.flaggedCounter.Add(float64(len(anomalies)))
	tsLog.Debugf("category %s: metric %s, %d of %d points flagged", d.category, metric, len(anomalies), n)
	return anomalies, nil
}

// Rules exposes the series schema for the report aggregator.
func (d *TimeSeries) Rules() api.TimeSeriesRules {
	return d.rules
}

func (d *TimeSeries) checkSchema(entry config.GenericMap, metric string) error {
	var missing []string
	if _, ok := entry[d.rules.PeriodField]; !ok {
		missing = append(missing, d.rules.PeriodField)
	}
	if _, ok := entry[metric]; !ok {
		missing = append(missing, metric)
	}
	if len(missing) > 0 {
		return errors.Errorf("category %s: series missing required columns: %v", d.category, missing)
	}
	return nil
}
