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

package config

import (
	ms "github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/finscope/finrisk-pipeline/pkg/api"
)

var clog = logrus.WithField("component", "config")

// Config is the full configuration of a report run.
type Config struct {
	LogLevel    string        `yaml:"log-level" json:"log-level" doc:"one of: trace, debug, info, warning, error, fatal, panic"`
	MetricsPort int           `yaml:"metricsPort" json:"metricsPort" doc:"port to expose operational prometheus metrics on while the run is in progress; 0 disables the endpoint"`
	Ingest      Ingest        `yaml:"ingest" json:"ingest" doc:"where the input datasets come from"`
	Detection   api.Detection `yaml:"detection" json:"detection" doc:"anomaly detection tuning"`
	Report      api.Report    `yaml:"report" json:"report" doc:"report aggregation tuning"`
	Write       Write         `yaml:"write" json:"write" doc:"where the report tables go"`
}

// Ingest selects and configures the dataset source.
type Ingest struct {
	Type     string              `yaml:"type" json:"type" doc:"one of: csv, postgres"`
	CSV      *api.IngestCSV      `yaml:"csv,omitempty" json:"csv,omitempty" doc:"csv source configuration"`
	Postgres *api.IngestPostgres `yaml:"postgres,omitempty" json:"postgres,omitempty" doc:"postgres source configuration"`
}

// Write selects and configures the report sink.
type Write struct {
	Type string        `yaml:"type" json:"type" doc:"one of: csv, stdout"`
	CSV  *api.WriteCSV `yaml:"csv,omitempty" json:"csv,omitempty" doc:"csv sink configuration"`
}

// ParseConfig decodes the viper settings tree into a Config.
func ParseConfig(v *viper.Viper) (*Config, error) {
	cfg := Config{}
	decoder, err := ms.NewDecoder(&ms.DecoderConfig{
		TagName:          "yaml",
		WeaklyTypedInput: true,
		Result:           &cfg,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating config decoder")
	}
	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, errors.Wrap(err, "decoding configuration")
	}
	if cfg.Ingest.Type == "" {
		cfg.Ingest.Type = "csv"
	}
	if cfg.Write.Type == "" {
		cfg.Write.Type = "csv"
	}
	clog.Debugf("parsed config: %+v", cfg)
	return &cfg, nil
}
