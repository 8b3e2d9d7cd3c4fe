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

// Package operational wraps the prometheus counters that instrument the
// pipeline itself (records scanned, anomalies found, stage errors).
package operational

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

const prefix = "finrisk_"

type MetricType string

const (
	TypeCounter MetricType = "counter"
	TypeGauge   MetricType = "gauge"
)

// MetricDefinition describes one operational metric before registration.
type MetricDefinition struct {
	Name   string
	Help   string
	Type   MetricType
	Labels []string
}

var (
	mlog       = logrus.WithField("component", "operational.Metrics")
	allMetrics = []MetricDefinition{}
)

// DefineMetric registers a metric definition for documentation purposes and
// returns it for instantiation via Metrics.
func DefineMetric(name, help string, t MetricType, labels ...string) MetricDefinition {
	def := MetricDefinition{
		Name:   name,
		Help:   help,
		Type:   t,
		Labels: labels,
	}
	allMetrics = append(allMetrics, def)
	return def
}

// GetDocumentation lists all defined metrics, for doc generation.
func GetDocumentation() []MetricDefinition {
	return allMetrics
}

// Metrics instantiates operational metrics against a single registry.
type Metrics struct {
	registry prometheus.Registerer
}

// NewMetrics creates a metrics factory; a nil registry keeps the metrics
// unregistered, which is convenient in tests.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	return &Metrics{registry: registry}
}

// register registers the collector, or returns the one already registered
// under the same name so that every stage shares the same vector.
func (m *Metrics) register(c prometheus.Collector, name string) prometheus.Collector {
	if m.registry == nil {
		return c
	}
	if err := m.registry.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			mlog.Debugf("metric %s already registered", name)
			return are.ExistingCollector
		}
		mlog.Errorf("cannot register metric %s: %v", name, err)
	}
	return c
}

func (m *Metrics) NewCounter(def *MetricDefinition, labelValues ...string) prometheus.Counter {
	return m.NewCounterVec(def).WithLabelValues(labelValues...)
}

func (m *Metrics) NewCounterVec(def *MetricDefinition) *prometheus.CounterVec {
	verifyMetricType(def, TypeCounter)
	c := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: prefix + def.Name,
		Help: def.Help,
	}, def.Labels)
	return m.register(c, def.Name).(*prometheus.CounterVec)
}

func (m *Metrics) NewGauge(def *MetricDefinition, labelValues ...string) prometheus.Gauge {
	verifyMetricType(def, TypeGauge)
	g := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: prefix + def.Name,
		Help: def.Help,
	}, def.Labels)
	return m.register(g, def.Name).(*prometheus.GaugeVec).WithLabelValues(labelValues...)
}

func verifyMetricType(def *MetricDefinition, t MetricType) {
	if def.Type != t {
		mlog.Panicf("operational metric %s requested as %s but defined as %s", def.Name, t, def.Type)
	}
}
