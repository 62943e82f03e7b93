// Copyright (c) 2025, Crucible Authors.  All rights reserved.
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

package build

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Build outcome metrics
	buildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crucible_builds_total",
			Help: "Total number of builds by recipe and outcome",
		},
		[]string{"recipe", "status"},
	)

	buildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crucible_build_duration_seconds",
			Help:    "Wall-clock duration of successful builds",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		},
		[]string{"recipe"},
	)

	stepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crucible_build_step_duration_seconds",
			Help:    "Wall-clock duration of individual build steps",
			Buckets: prometheus.ExponentialBuckets(0.1, 4, 10),
		},
		[]string{"recipe", "step"},
	)
)
