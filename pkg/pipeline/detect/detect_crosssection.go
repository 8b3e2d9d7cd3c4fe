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
	"strings"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/finscope/finrisk-pipeline/pkg/api"
	"github.com/finscope/finrisk-pipeline/pkg/config"
	"github.com/finscope/finrisk-pipeline/pkg/operational"
	"github.com/finscope/finrisk-pipeline/pkg/utils"
)

var csLog = logrus.WithField("component", "detect.CrossSection")

var (
	recordsScanned = operational.DefineMetric(
		"records_scanned",
		"Number of records scanned by the anomaly detectors",
		operational.TypeCounter,
		"category",
	)
	anomaliesFound = operational.DefineMetric(
		"anomalies_found",
		"Number of records flagged as anomalous",
		operational.TypeCounter,
		"category",
	)
)

// CrossSection flags records whose z-score on any watched field exceeds the
// threshold, scoring each field against its own column over the whole
// dataset.
type CrossSection struct {
	category       string
	rules          api.CrossSectionRules
	threshold      float64
	scannedCounter prometheus.Counter
	flaggedCounter prometheus.Counter
}

// NewCrossSection creates a cross-sectional detector for one dataset category.
func NewCrossSection(category string, rules api.CrossSectionRules, threshold float64, opMetrics *operational.Metrics) (*CrossSection, error) {
	if len(rules.WatchFields) == 0 {
		return nil, errors.Errorf("category %s: at least one watch field must be provided", category)
	}
	for _, wf := range rules.WatchFields {
		if wf.Field == "" {
			return nil, errors.Errorf("category %s: watch field without a column name", category)
		}
	}
	if threshold <= 0 {
		threshold = api.DefaultThreshold
	}
	csLog.Debugf("NewCrossSection category=%s threshold=%v watchFields=%d", category, threshold, len(rules.WatchFields))
	return &CrossSection{
		category:       category,
		rules:          rules,
		threshold:      threshold,
		scannedCounter: opMetrics.NewCounter(&recordsScanned, category),
		flaggedCounter: opMetrics.NewCounter(&anomaliesFound, category),
	}, nil
}

// Detect returns the flagged records, severity-descending. Each returned
// record is a copy of the input record with the per-field z-scores, the
// anomaly type and the severity added. The input dataset is not modified.
func (d *CrossSection) Detect(dataset []config.GenericMap) ([]config.GenericMap, error) {
	if len(dataset) == 0 {
		csLog.Debugf("category %s: empty dataset, no findings", d.category)
		return nil, nil
	}
	if err := d.checkSchema(dataset[0]); err != nil {
		return nil, err
	}
	d.scannedCounter.Add(float64(len(dataset)))

	scores := make([][]float64, len(d.rules.WatchFields))
	for f, wf := range d.rules.WatchFields {
		column, err := d.column(dataset, wf.Field)
		if err != nil {
			return nil, err
		}
		scores[f] = ZScores(column)
	}

	var anomalies []config.GenericMap
	for i, entry := range dataset {
		// The anomaly type comes from the first watched field whose
		// score breaches the threshold, even when a later field
		// deviates more. Severity is independent of that choice.
		anomalyType := ""
		severity := 0.0
		for f, wf := range d.rules.WatchFields {
			abs := math.Abs(scores[f][i])
			if abs > d.threshold && anomalyType == "" {
				anomalyType = wf.Label
			}
			if abs > severity {
				severity = abs
			}
		}
		if anomalyType == "" {
			continue
		}
		out := entry.Copy()
		for f, wf := range d.rules.WatchFields {
			out[wf.OutputScoreField()] = scores[f][i]
		}
		out["anomaly_type"] = anomalyType
		out["severity"] = severity
		anomalies = append(anomalies, out)
	}

	sort.SliceStable(anomalies, func(i, j int) bool {
		si, _ := anomalies[i]["severity"].(float64)
		sj, _ := anomalies[j]["severity"].(float64)
		return si > sj
	})

	d.flaggedCounter.Add(float64(len(anomalies)))
	csLog.Infof("category %s: %d of %d records flagged (threshold %v)", d.category, len(anomalies), len(dataset), d.threshold)
	return anomalies, nil
}

// Rules exposes the category schema; the report aggregator needs the id,
// dimension and magnitude columns.
func (d *CrossSection) Rules() api.CrossSectionRules {
	return d.rules
}

func (d *CrossSection) checkSchema(entry config.GenericMap) error {
	required := []string{d.rules.IDField, d.rules.DimensionField, d.rules.MagnitudeField}
	for _, wf := range d.rules.WatchFields {
		required = append(required, wf.Field)
	}
	var missing []string
	for _, col := range required {
		if col == "" {
			continue
		}
		if _, ok := entry[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return errors.Errorf("category %s: dataset missing required columns: %s", d.category, strings.Join(missing, ", "))
	}
	return nil
}

func (d *CrossSection) column(dataset []config.GenericMap, field string) ([]float64, error) {
	column := make([]float64, len(dataset))
	for i, entry := range dataset {
		v, err := utils.ConvertToFloat64(entry[field])
		if err != nil {
			return nil, errors.Wrapf(err, "category %s: column %s, row %d", d.category, field, i)
		}
		column[i] = v
	}
	return column, nil
}
