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

package profile

import (
	stderrors "errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ffprofile/profilemaker/pkg/errors"
	"github.com/ffprofile/profilemaker/pkg/option"
)

var (
	composeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "profilemaker_compose_duration_seconds",
			Help:    "Time taken to compile and merge a profile",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	composeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profilemaker_compose_total",
			Help: "Total number of profile compositions",
		},
		[]string{"status"}, // success, invalid or error
	)

	composeOverrides = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "profilemaker_compose_overrides_total",
			Help: "Total number of preferences replaced by a later group",
		},
	)

	groupCompileTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profilemaker_group_compile_total",
			Help: "Total number of option group compilations",
		},
		[]string{"group", "result"}, // result: valid or invalid
	)

	validationFaultTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profilemaker_validation_faults_total",
			Help: "Total number of rejected option values",
		},
		[]string{"reason"},
	)
)

func recordCompile(group string, err error) {
	if err == nil {
		groupCompileTotal.WithLabelValues(group, "valid").Inc()
		return
	}
	groupCompileTotal.WithLabelValues(group, "invalid").Inc()

	var verr *option.ValidationError
	if stderrors.As(err, &verr) {
		for _, f := range verr.Faults {
			validationFaultTotal.WithLabelValues(string(f.Reason)).Inc()
		}
	}
}

// WriteMetrics writes every registered metric to path in the Prometheus
// text exposition format, for pickup by a node exporter textfile collector.
func WriteMetrics(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return errors.WrapWithContext(errors.ErrCodeInternal, "failed to write metrics", err,
			map[string]any{"path": path})
	}
	return nil
}
