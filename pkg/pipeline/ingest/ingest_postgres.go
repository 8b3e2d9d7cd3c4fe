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
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/finscope/finrisk-pipeline/pkg/api"
	"github.com/finscope/finrisk-pipeline/pkg/config"
)

const (
	defaultCostsQuery        = "SELECT * FROM costs"
	defaultLoansQuery        = "SELECT * FROM loans"
	defaultTransactionsQuery = "SELECT * FROM transactions"
)

type ingestPostgres struct {
	url               string
	costsQuery        string
	loansQuery        string
	transactionsQuery string
}

// NewIngestPostgres creates an ingester querying the datasets from Postgres.
func NewIngestPostgres(cfg *api.IngestPostgres) (Ingester, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, errors.New("postgres ingest: url must be provided")
	}
	in := &ingestPostgres{
		url:               cfg.URL,
		costsQuery:        cfg.CostsQuery,
		loansQuery:        cfg.LoansQuery,
		transactionsQuery: cfg.TransactionsQuery,
	}
	if in.costsQuery == "" {
		in.costsQuery = defaultCostsQuery
	}
	if in.loansQuery == "" {
		in.loansQuery = defaultLoansQuery
	}
	if in.transactionsQuery == "" {
		in.transactionsQuery = defaultTransactionsQuery
	}
	return in, nil
}

func (in *ingestPostgres) Ingest(ctx context.Context) (*Tables, error) {
	conn, err := pgx.Connect(ctx, in.url)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to postgres")
	}
	defer func() {
		_ = conn.Close(ctx)
	}()

	costs, err := queryTable(ctx, conn, in.costsQuery)
	if err != nil {
		return nil, errors.Wrap(err, "loading costs")
	}
	loans, err := queryTable(ctx, conn, in.loansQuery)
	if err != nil {
		return nil, errors.Wrap(err, "loading loans")
	}
	transactions, err := queryTable(ctx, conn, in.transactionsQuery)
	if err != nil {
		return nil, errors.Wrap(err, "loading transactions")
	}
	log.Infof("ingested %d costs, %d loans, %d transactions from postgres", len(costs), len(loans), len(transactions))
	return &Tables{Costs: costs, Loans: loans, Transactions: transactions}, nil
}

func queryTable(ctx context.Context, conn *pgx.Conn, sql string) ([]config.GenericMap, error) {
	rows, err := conn.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	var entries []config.GenericMap
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		entry := make(config.GenericMap, len(fields))
		for i, fd := range fields {
			entry[fd.Name] = normalizeValue(values[i])
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// normalizeValue flattens driver types so downstream code only ever sees
// float64, string or nil.
func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case time.Time:
		return val.Format("2006-01-02")
	case int64:
		return float64(val)
	case int32:
		return float64(val)
	case int16:
		return float64(val)
	case float32:
		return float64(val)
	default:
		return v
	}
}
