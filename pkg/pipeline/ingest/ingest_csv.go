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

package ingest

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/finscope/finrisk-pipeline/pkg/api"
	"github.com/finscope/finrisk-pipeline/pkg/config"
)

const (
	defaultCostsFile        = "costs.csv"
	defaultLoansFile        = "loans.csv"
	defaultTransactionsFile = "transactions.csv"
)

type ingestCSV struct {
	dir          string
	costs        string
	loans        string
	transactions string
}

// NewIngestCSV creates an ingester reading the datasets from CSV files.
func NewIngestCSV(cfg *api.IngestCSV) (Ingester, error) {
	if cfg == nil || cfg.Directory == "" {
		return nil, errors.New("csv ingest: directory must be provided")
	}
	in := &ingestCSV{
		dir:          cfg.Directory,
		costs:        cfg.Costs,
		loans:        cfg.Loans,
		transactions: cfg.Transactions,
	}
	if in.costs == "" {
		in.costs = defaultCostsFile
	}
	if in.loans == "" {
		in.loans = defaultLoansFile
	}
	if in.transactions == "" {
		in.transactions = defaultTransactionsFile
	}
	return in, nil
}

// Ingest reads the three datasets. Numeric cells become float64, everything
// else stays a string.
func (in *ingestCSV) Ingest(_ context.Context) (*Tables, error) {
	costs, err := ReadTable(filepath.Join(in.dir, in.costs))
	if err != nil {
		return nil, err
	}
	loans, err := ReadTable(filepath.Join(in.dir, in.loans))
	if err != nil {
		return nil, err
	}
	transactions, err := ReadTable(filepath.Join(in.dir, in.transactions))
	if err != nil {
		return nil, err
	}
	log.Infof("ingested %d costs, %d loans, %d transactions from %s", len(costs), len(loans), len(transactions), in.dir)
	return &Tables{Costs: costs, Loans: loans, Transactions: transactions}, nil
}

// ReadTable reads one CSV file into records, using the header row as column
// names.
func ReadTable(path string) ([]config.GenericMap, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer func() {
		_ = file.Close()
	}()

	reader := csv.NewReader(file)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	if len(rows) == 0 {
		return nil, errors.Errorf("%s has no header row", path)
	}

	header := rows[0]
	entries := make([]config.GenericMap, 0, len(rows)-1)
	for _, row := range rows[1:] {
		entry := make(config.GenericMap, len(header))
		for i, col := range header {
			if i >= len(row) {
				break
			}
			if f, err := strconv.ParseFloat(row[i], 64); err == nil {
				entry[col] = f
			} else {
				entry[col] = row[i]
			}
		}
		entries = append(entries, entry)
	}
	log.Debugf("read %d records from %s", len(entries), path)
	return entries, nil
}
