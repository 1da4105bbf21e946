// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pending

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	added    *prometheus.CounterVec
	loaded   *prometheus.CounterVec
	removed  prometheus.Counter
	imported prometheus.Counter
	failures *prometheus.CounterVec
}

func newMetrics(r prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		added: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pending",
			Name:      "added",
			Help:      "number of envelopes added by type",
		}, []string{"type"}),
		loaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pending",
			Name:      "loaded",
			Help:      "number of envelopes loaded by type",
		}, []string{"type"}),
		removed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pending",
			Name:      "removed",
			Help:      "number of envelopes removed",
		}),
		imported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pending",
			Name:      "imported",
			Help:      "number of envelopes stored by batch imports",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pending",
			Name:      "failures",
			Help:      "number of failed operations",
		}, []string{"op"}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.added),
		r.Register(m.loaded),
		r.Register(m.removed),
		r.Register(m.imported),
		r.Register(m.failures),
	)
	return m, errs.Err
}
