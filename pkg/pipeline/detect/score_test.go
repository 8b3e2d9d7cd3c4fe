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

package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZScoresConstantColumn(t *testing.T) {
	scores := ZScores([]float64{5, 5, 5, 5})
	require.Len(t, scores, 4)
	for _, s := range scores {
		assert.Zero(t, s)
	}
}

func TestZScoresSingleValue(t *testing.T) {
	scores := ZScores([]float64{42})
	require.Len(t, scores, 1)
	assert.Zero(t, scores[0])
}

func TestZScoresSymmetry(t *testing.T) {
	scores := ZScores([]float64{-1, 0, 1})
	require.Len(t, scores, 3)
	assert.InDelta(t, -1.0, scores[0], 1e-9)
	assert.InDelta(t, 0.0, scores[1], 1e-9)
	assert.InDelta(t, 1.0, scores[2], 1e-9)
}

func TestMeanStdSampleConvention(t *testing.T) {
	mean, std := MeanStd([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.InDelta(t, 5.0, mean, 1e-9)
	// sample standard deviation, n-1 denominator
	assert.InDelta(t, 2.13808993529939, std, 1e-9)
}

func TestMeanStdEmpty(t *testing.T) {
	mean, std := MeanStd(nil)
	assert.Zero(t, mean)
	assert.Zero(t, std)
}
