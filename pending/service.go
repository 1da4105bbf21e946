// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pending keeps serialized transaction proposals until every
// required party has signed them.
package pending

import (
	"context"
	"fmt"
	"time"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/vaultkit/wallet-api/chain"
	"github.com/vaultkit/wallet-api/serialization"

	oteltrace "go.opentelemetry.io/otel/trace"
)

// Service stores raw transactions as tagged envelopes. Values are always
// serialized before they reach the backend and deserialized after they
// leave it.
type Service struct {
	backend Backend
	log     logging.Logger
	tracer  trace.Tracer
	metrics *metrics
	codec   serialization.Codec
	workers int
	now     func() time.Time
}

// NewService returns a Service that rejects envelopes whose canonical
// encoding exceeds [sizeLimit] bytes.
func NewService(
	backend Backend,
	log logging.Logger,
	tracer trace.Tracer,
	registerer prometheus.Registerer,
	workers int,
	sizeLimit int,
) (*Service, error) {
	m, err := newMetrics(registerer)
	if err != nil {
		return nil, err
	}
	return &Service{
		backend: backend,
		log:     log,
		tracer:  tracer,
		metrics: m,
		codec:   serialization.NewCodec(sizeLimit),
		workers: workers,
		now:     time.Now,
	}, nil
}

// Add stores [v] under its id. Adding the same proposal twice overwrites
// the label and creation time.
func (s *Service) Add(ctx context.Context, v chain.RawTransactionValue, label string) (Record, error) {
	ctx, span := s.tracer.Start(ctx, "Pending.Add")
	defer span.End()

	r, err := NewRecord(s.codec, v, label, s.now())
	if err != nil {
		s.metrics.failures.WithLabelValues("add").Inc()
		return Record{}, err
	}
	span.SetAttributes(
		attribute.String("id", r.ID),
		attribute.String("type", r.Envelope.Type.String()),
	)
	if err := s.backend.Put(ctx, r); err != nil {
		s.metrics.failures.WithLabelValues("add").Inc()
		return Record{}, fmt.Errorf("failed to store %s: %w", r.ID, err)
	}
	s.metrics.added.WithLabelValues(r.Envelope.Type.String()).Inc()
	s.log.Info("stored pending transaction",
		zap.String("id", r.ID),
		zap.Stringer("type", r.Envelope.Type),
		zap.String("label", label),
	)
	return r, nil
}

// Load returns the record [id] and its decoded transaction.
func (s *Service) Load(ctx context.Context, id string) (chain.RawTransactionValue, Record, error) {
	ctx, span := s.tracer.Start(ctx, "Pending.Load", oteltrace.WithAttributes(
		attribute.String("id", id),
	))
	defer span.End()

	id, err := ParseID(id)
	if err != nil {
		return nil, Record{}, err
	}
	r, err := s.backend.Get(ctx, id)
	if err != nil {
		s.metrics.failures.WithLabelValues("load").Inc()
		return nil, Record{}, err
	}
	v, err := s.codec.Deserialize(r.Envelope)
	if err != nil {
		s.metrics.failures.WithLabelValues("load").Inc()
		s.log.Warn("stored envelope does not decode",
			zap.String("id", id),
			zap.Error(err),
		)
		return nil, Record{}, err
	}
	s.metrics.loaded.WithLabelValues(r.Envelope.Type.String()).Inc()
	return v, r, nil
}

func (s *Service) Remove(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "Pending.Remove", oteltrace.WithAttributes(
		attribute.String("id", id),
	))
	defer span.End()

	id, err := ParseID(id)
	if err != nil {
		return err
	}
	if err := s.backend.Delete(ctx, id); err != nil {
		s.metrics.failures.WithLabelValues("remove").Inc()
		return err
	}
	s.metrics.removed.Inc()
	s.log.Info("removed pending transaction", zap.String("id", id))
	return nil
}

// List returns every record, oldest first.
func (s *Service) List(ctx context.Context) ([]Record, error) {
	ctx, span := s.tracer.Start(ctx, "Pending.List")
	defer span.End()

	records, err := s.backend.List(ctx)
	if err != nil {
		s.metrics.failures.WithLabelValues("list").Inc()
		return nil, err
	}
	span.SetAttributes(attribute.Int("records", len(records)))
	return records, nil
}

// ImportBatch decodes every envelope of [envs] and, only if all of them
// are valid, stores them with [label]. Envelopes are rebuilt from the
// decoded values so the stored tag always matches the stored bytes.
func (s *Service) ImportBatch(ctx context.Context, envs []serialization.Envelope, label string) ([]Record, error) {
	ctx, span := s.tracer.Start(ctx, "Pending.ImportBatch", oteltrace.WithAttributes(
		attribute.Int("envelopes", len(envs)),
	))
	defer span.End()

	if len(envs) == 0 {
		return nil, ErrEmptyImport
	}
	values, err := s.codec.DeserializeBatch(ctx, envs, s.workers)
	if err != nil {
		s.metrics.failures.WithLabelValues("import").Inc()
		return nil, err
	}

	now := s.now()
	records := make([]Record, len(values))
	for i, v := range values {
		r, err := NewRecord(s.codec, v, label, now)
		if err != nil {
			s.metrics.failures.WithLabelValues("import").Inc()
			return nil, fmt.Errorf("envelope %d: %w", i, err)
		}
		records[i] = r
	}
	if err := s.backend.Put(ctx, records...); err != nil {
		s.metrics.failures.WithLabelValues("import").Inc()
		return nil, err
	}
	s.metrics.imported.Add(float64(len(records)))
	s.log.Info("imported pending transactions",
		zap.Int("count", len(records)),
		zap.String("label", label),
	)
	return records, nil
}

func (s *Service) Close() error {
	return s.backend.Close()
}
