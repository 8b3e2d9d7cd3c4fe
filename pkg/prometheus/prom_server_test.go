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

package prometheus

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/finscope/finrisk-pipeline/pkg/operational"
)

func TestStartServerAsync(t *testing.T) {
	registry := prom.NewRegistry()
	def := operational.DefineMetric("prom_server_test_total", "test counter", operational.TypeCounter, "category")
	operational.NewMetrics(registry).NewCounter(&def, "Costs").Add(3)

	srv := StartServerAsync(9290, registry)
	defer func() {
		_ = srv.Shutdown(context.Background())
	}()

	serverURL := "http://127.0.0.1:9290/metrics"
	httpClient := &http.Client{}
	checkHTTPReady(t, httpClient, serverURL)

	resp, err := httpClient.Get(serverURL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "finrisk_prom_server_test_total")
}

func checkHTTPReady(t *testing.T, httpClient *http.Client, url string) {
	t.Helper()
	for i := 0; i < 60; i++ {
		if r, err := httpClient.Get(url); err == nil {
			r.Body.Close()
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("server at %s never came up", url)
}
