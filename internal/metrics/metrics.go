// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

// Package metrics holds the Prometheus instrumentation a [Parser] reports
// through when constructed with WithMetrics. It is a thin wrapper: callers
// own registration, the Set only owns the collector instances.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Set bundles every collector a running parser updates. The namespace is
// fixed to keep metric names stable across callers; MustRegister controls
// where they end up exposed.
type Set struct {
	ItemsCompleted *prometheus.CounterVec
	BytesConsumed  prometheus.Counter
	PathMatches    *prometheus.CounterVec
	Failures       *prometheus.CounterVec
}

// NewSet constructs a Set with unregistered collectors.
func NewSet() *Set {
	return &Set{
		ItemsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cbev",
			Name:      "items_completed_total",
			Help:      "Number of scalar CBOR items (integers, floats, simple values) emitted, by event kind.",
		}, []string{"event"}),
		BytesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cbev",
			Name:      "bytes_consumed_total",
			Help:      "Number of input bytes passed through Parser.Parse.",
		}),
		PathMatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cbev",
			Name:      "path_matches_total",
			Help:      "Number of times a registered pattern newly matched the current path.",
		}, []string{"pattern"}),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cbev",
			Name:      "failures_total",
			Help:      "Number of terminal parse failures, by error code.",
		}, []string{"code"}),
	}
}

// MustRegister registers every collector in the Set against reg.
func (s *Set) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(s.ItemsCompleted, s.BytesConsumed, s.PathMatches, s.Failures)
}
