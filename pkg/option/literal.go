// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package option

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// normalizeLiteral converts a decoded literal into bool, int or string.
// JSON numbers decode as float64 and YAML integers may decode as int64; both
// are accepted when they hold an integral value.
func normalizeLiteral(v any) (any, error) {
	switch t := v.(type) {
	case bool, string, int:
		return t, nil
	case int8:
		return int(t), nil
	case int16:
		return int(t), nil
	case int32:
		return int(t), nil
	case int64:
		return int(t), nil
	case uint8:
		return int(t), nil
	case uint16:
		return int(t), nil
	case uint32:
		return int(t), nil
	case uint64:
		if t > math.MaxInt64 {
			return nil, fmt.Errorf("integer literal %d out of range", t)
		}
		return int(t), nil
	case float64:
		if t != math.Trunc(t) || math.IsInf(t, 0) {
			return nil, fmt.Errorf("non-integral number literal %v", t)
		}
		if !fitsInt64(t) {
			return nil, fmt.Errorf("number literal %v out of range", t)
		}
		return int(t), nil
	case float32:
		return normalizeLiteral(float64(t))
	case json.Number:
		i, err := t.Int64()
		if err != nil {
			return nil, fmt.Errorf("non-integral number literal %s", t)
		}
		return int(i), nil
	default:
		return nil, fmt.Errorf("unsupported literal type %T", v)
	}
}

// canonical renders a scalar as the string used to compare choice values,
// so "1", 1 and 1.0 from different transports all match a declared 1.
func canonical(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case float64:
		if t == math.Trunc(t) && !math.IsInf(t, 0) {
			if !fitsInt64(t) {
				return "", false
			}
			return strconv.FormatInt(int64(t), 10), true
		}
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case float32:
		return canonical(float64(t))
	case json.Number:
		return canonical(string(t))
	}
	n, err := normalizeLiteral(v)
	if err != nil {
		return "", false
	}
	if i, ok := n.(int); ok {
		return strconv.Itoa(i), true
	}
	return "", false
}

// fitsInt64 reports whether the integral float t converts to int64 exactly.
// float64(math.MaxInt64) rounds up to 2^63, hence the strict bound.
func fitsInt64(t float64) bool {
	return t >= math.MinInt64 && t < math.MaxInt64
}
