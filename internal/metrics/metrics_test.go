// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbor-stream/cbev/internal/metrics"
)

func TestNewSetCollectorsAreIndependent(t *testing.T) {
	a := metrics.NewSet()
	b := metrics.NewSet()

	a.BytesConsumed.Add(5)
	assert.Equal(t, float64(0), counterValue(t, b.BytesConsumed))
	assert.Equal(t, float64(5), counterValue(t, a.BytesConsumed))
}

func TestMustRegisterAddsAllCollectors(t *testing.T) {
	s := metrics.NewSet()
	reg := prometheus.NewRegistry()
	s.MustRegister(reg)
	// A vector collector only appears in Gather once it has a child.
	s.ItemsCompleted.WithLabelValues("num_uint")
	s.PathMatches.WithLabelValues("a.b")
	s.Failures.WithLabelValues("bad CBOR coding")

	mfs, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	for _, want := range []string{
		"cbev_items_completed_total",
		"cbev_bytes_consumed_total",
		"cbev_path_matches_total",
		"cbev_failures_total",
	} {
		assert.True(t, names[want], "missing metric %s", want)
	}
}

func TestMustRegisterTwiceOnSameRegistryPanics(t *testing.T) {
	s := metrics.NewSet()
	reg := prometheus.NewRegistry()
	s.MustRegister(reg)
	assert.Panics(t, func() { s.MustRegister(reg) })
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}
