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

package write

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	log "github.com/sirupsen/logrus"

	"github.com/finscope/finrisk-pipeline/pkg/pipeline/report"
)

type writeStdout struct{}

// NewWriteStdout creates a writer printing tables to stdout, for ad-hoc runs.
func NewWriteStdout() (Writer, error) {
	log.Debugf("entering NewWriteStdout")
	return &writeStdout{}, nil
}

func (w *writeStdout) Write(table report.Table) error {
	var json = jsoniter.ConfigCompatibleWithStandardLibrary
	fmt.Printf("=== %s (%d rows) ===\n", table.Name, len(table.Rows))
	for _, entry := range table.Rows {
		txt, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		fmt.Println(string(txt))
	}
	return nil
}
