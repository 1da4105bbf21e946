// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package trace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDisabled(t *testing.T) {
	require := require.New(t)

	cfg := NewDefaultConfig()
	tracer, err := New(&cfg)
	require.NoError(err)

	_, span := tracer.Start(context.Background(), "serialize")
	require.False(span.SpanContext().IsValid())
	span.End()
	require.NoError(tracer.Close())
}

func TestNewEnabled(t *testing.T) {
	require := require.New(t)

	cfg := NewDefaultConfig()
	cfg.Enabled = true
	tracer, err := New(&cfg)
	require.NoError(err)

	_, span := tracer.Start(context.Background(), "serialize")
	require.True(span.SpanContext().IsValid())
	span.End()

	cfg.Endpoint = ""
	_, err = New(&cfg)
	require.ErrorIs(err, ErrMissingEndpoint)
}
