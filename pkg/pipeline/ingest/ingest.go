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

	"github.com/finscope/finrisk-pipeline/pkg/config"
)

// Tables are the raw input datasets, before enrichment.
type Tables struct {
	Costs        []config.GenericMap
	Loans        []config.GenericMap
	Transactions []config.GenericMap
}

// Ingester loads the input datasets from a source.
type Ingester interface {
	Ingest(ctx context.Context) (*Tables, error)
}
