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

package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/finscope/finrisk-pipeline/pkg/api"
	"github.com/finscope/finrisk-pipeline/pkg/config"
	"github.com/finscope/finrisk-pipeline/pkg/generator"
	"github.com/finscope/finrisk-pipeline/pkg/pipeline/report"
	"github.com/finscope/finrisk-pipeline/pkg/pipeline/write"
)

var (
	seed         uint64
	costs        int
	loans        int
	transactions int
	outputDir    string
)

var rootCmd = &cobra.Command{
	Use:   "datagen",
	Short: "Generate synthetic banking datasets for finrisk-pipeline",
	Run: func(_ *cobra.Command, _ []string) {
		run()
	},
}

func run() {
	gen := generator.New(generator.Config{
		Seed:         seed,
		Costs:        costs,
		Loans:        loans,
		Transactions: transactions,
	})

	writer, err := write.NewWriteCSV(&api.WriteCSV{Directory: outputDir})
	if err != nil {
		log.Errorf("cannot create writer: %v", err)
		os.Exit(1)
	}

	tables := []report.Table{
		asTable("costs", gen.Costs()),
		asTable("loans", gen.Loans()),
		asTable("transactions", gen.Transactions()),
	}
	for _, table := range tables {
		if err := writer.Write(table); err != nil {
			log.Errorf("cannot write %s: %v", table.Name, err)
			os.Exit(1)
		}
	}
	log.Infof("datasets written to %s", outputDir)
}

// asTable gives the generated records a deterministic column order.
func asTable(name string, rows []config.GenericMap) report.Table {
	var columns []string
	if len(rows) > 0 {
		for col := range rows[0] {
			columns = append(columns, col)
		}
		sort.Strings(columns)
	}
	return report.Table{Name: name, Columns: columns, Rows: rows}
}

func main() {
	_ = godotenv.Load()

	rootCmd.Flags().Uint64Var(&seed, "seed", 42, "random seed; the same seed reproduces the same datasets")
	rootCmd.Flags().IntVar(&costs, "costs", 1000, "number of cost records")
	rootCmd.Flags().IntVar(&loans, "loans", 5000, "number of loan records")
	rootCmd.Flags().IntVar(&transactions, "transactions", 20000, "number of transaction records")
	rootCmd.Flags().StringVar(&outputDir, "out", "output", "output directory")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
