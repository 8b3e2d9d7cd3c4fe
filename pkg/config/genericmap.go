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

// GenericMap is a single tabular record: column name to value.
type GenericMap map[string]interface{}

// Copy returns a shallow copy of the record. Detectors operate on copies
// so the caller's dataset is never mutated in place.
func (m GenericMap) Copy() GenericMap {
	out := make(GenericMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
