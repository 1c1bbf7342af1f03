// Copyright 2024 Kelpchain Labs
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

package metrics

import (
	"fmt"
	"net/http"

	"github.com/kelpchain/harvestd/internal/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	candidatesEvaluated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvestd_candidates_evaluated_total",
		Help: "The total number of candidate blocks evaluated",
	})
	candidatesAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvestd_candidates_accepted_total",
		Help: "The total number of candidate blocks that hit their target",
	})
)

func GetCandidatesEvaluated() prometheus.Counter {
	return candidatesEvaluated
}

func GetCandidatesAccepted() prometheus.Counter {
	return candidatesAccepted
}

func Start() error {
	cfg := config.GetConfig()
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		// An error here is not fatal; the node can score blocks without
		// serving metrics
		_ = http.ListenAndServe(
			fmt.Sprintf(
				"%s:%d",
				cfg.Metrics.ListenAddress,
				cfg.Metrics.ListenPort,
			),
			nil,
		)
	}()
	return nil
}
