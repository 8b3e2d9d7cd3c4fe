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

package api

// IngestCSV reads the input datasets from CSV files in a directory.
type IngestCSV struct {
	Directory    string `yaml:"directory" json:"directory" doc:"directory holding the input csv files"`
	Costs        string `yaml:"costs,omitempty" json:"costs,omitempty" doc:"cost ledger file name (default costs.csv)"`
	Loans        string `yaml:"loans,omitempty" json:"loans,omitempty" doc:"loan portfolio file name (default loans.csv)"`
	Transactions string `yaml:"transactions,omitempty" json:"transactions,omitempty" doc:"transactions file name (default transactions.csv)"`
}

// IngestPostgres reads the input datasets from a Postgres database.
type IngestPostgres struct {
	URL               string `yaml:"url" json:"url" doc:"postgres connection url"`
	CostsQuery        string `yaml:"costsQuery,omitempty" json:"costsQuery,omitempty" doc:"query returning the cost ledger (default SELECT * FROM costs)"`
	LoansQuery        string `yaml:"loansQuery,omitempty" json:"loansQuery,omitempty" doc:"query returning the loan portfolio (default SELECT * FROM loans)"`
	TransactionsQuery string `yaml:"transactionsQuery,omitempty" json:"transactionsQuery,omitempty" doc:"query returning the transactions (default SELECT * FROM transactions)"`
}
