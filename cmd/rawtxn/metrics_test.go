// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestWriteMetrics(t *testing.T) {
	require := require.New(t)

	service := prometheus.NewRegistry()
	added := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pending",
		Name:      "added",
		Help:      "number of envelopes added",
	})
	require.NoError(service.Register(added))
	added.Add(2)

	store := prometheus.NewRegistry()
	writes := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pebble",
		Name:      "writes",
		Help:      "number of keys written",
	})
	require.NoError(store.Register(writes))
	writes.Inc()

	var buf bytes.Buffer
	require.NoError(writeMetrics(&buf, prometheus.Gatherers{service, store}))
	out := buf.String()
	require.Contains(out, "# TYPE pending_added counter\npending_added 2\n")
	require.Contains(out, "# TYPE pebble_writes counter\npebble_writes 1\n")
}

func TestWriteMetricsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeMetrics(&buf, prometheus.Gatherers{prometheus.NewRegistry()}))
	require.Empty(t, buf.String())
}
