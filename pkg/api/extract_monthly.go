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

// AggregateOperation is one of the supported grouped aggregations.
// For doc generation, enum definitions must match format `Constant Type = "value" // doc`
type AggregateOperation string

const (
	AggregateSum   AggregateOperation = "sum"   // sum of the record key over the group
	AggregateAvg   AggregateOperation = "avg"   // mean of the record key over the group
	AggregateMin   AggregateOperation = "min"   // minimum of the record key over the group
	AggregateMax   AggregateOperation = "max"   // maximum of the record key over the group
	AggregateCount AggregateOperation = "count" // number of records in the group
)

// MonthlyAggregate is one output column of the monthly aggregation.
type MonthlyAggregate struct {
	Name      string             `yaml:"name" json:"name" doc:"output column name"`
	Operation AggregateOperation `yaml:"operation" json:"operation" doc:"(enum) aggregation: sum, avg, min, max or count"`
	RecordKey string             `yaml:"recordKey,omitempty" json:"recordKey,omitempty" doc:"input column the operation runs on; unused for count"`
}
