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

package utils

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// ConvertToFloat64 converts an arbitrary cell value to float64.
func ConvertToFloat64(unk interface{}) (float64, error) {
	switch i := unk.(type) {
	case float64:
		return i, nil
	case float32:
		return float64(i), nil
	case int64:
		return float64(i), nil
	case int32:
		return float64(i), nil
	case int16:
		return float64(i), nil
	case int8:
		return float64(i), nil
	case int:
		return float64(i), nil
	case uint64:
		return float64(i), nil
	case uint32:
		return float64(i), nil
	case uint16:
		return float64(i), nil
	case uint8:
		return float64(i), nil
	case uint:
		return float64(i), nil
	case bool:
		if i {
			return 1, nil
		}
		return 0, nil
	case string:
		return strconv.ParseFloat(i, 64)
	case nil:
		return math.NaN(), fmt.Errorf("cannot convert nil to float64")
	default:
		return math.NaN(), fmt.Errorf("cannot convert %v (%T) to float64", unk, unk)
	}
}

// ConvertToString converts an arbitrary cell value to its string form.
func ConvertToString(unk interface{}) string {
	switch i := unk.(type) {
	case nil:
		return ""
	case string:
		return i
	case time.Time:
		return i.Format("2006-01-02")
	case float64:
		return strconv.FormatFloat(i, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", unk)
	}
}
