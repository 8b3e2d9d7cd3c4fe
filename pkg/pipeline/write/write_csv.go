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
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/finscope/finrisk-pipeline/pkg/api"
	"github.com/finscope/finrisk-pipeline/pkg/pipeline/report"
	"github.com/finscope/finrisk-pipeline/pkg/utils"
)

const defaultOutputDir = "outputs"

type writeCSV struct {
	dir string
}

// NewWriteCSV creates a writer producing <directory>/<table>.csv files.
func NewWriteCSV(cfg *api.WriteCSV) (Writer, error) {
	dir := defaultOutputDir
	if cfg != nil && cfg.Directory != "" {
		dir = cfg.Directory
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating output directory %s", dir)
	}
	return &writeCSV{dir: dir}, nil
}

// Write saves the table with its declared column order; cells are formatted
// deterministically so identical runs produce identical files.
func (w *writeCSV) Write(table report.Table) error {
	path := filepath.Join(w.dir, table.Name+".csv")
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer func() {
		_ = file.Close()
	}()

	writer := csv.NewWriter(file)
	if err := writer.Write(table.Columns); err != nil {
		return errors.Wrapf(err, "writing header of %s", path)
	}
	row := make([]string, len(table.Columns))
	for _, entry := range table.Rows {
		for i, col := range table.Columns {
			row[i] = utils.ConvertToString(entry[col])
		}
		if err := writer.Write(row); err != nil {
			return errors.Wrapf(err, "writing row of %s", path)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.Wrapf(err, "flushing %s", path)
	}
	log.Infof("saved %s (%d rows)", path, len(table.Rows))
	return nil
}
