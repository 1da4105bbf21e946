// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type bufferCloser struct {
	bytes.Buffer
}

func (*bufferCloser) Close() error { return nil }

func TestNew(t *testing.T) {
	require := require.New(t)

	file := filepath.Join(t.TempDir(), "rawtxn.log")
	cfg := NewDefaultConfig()
	cfg.Format = "plain"
	cfg.File = file

	var console bufferCloser
	log, err := New("rawtxn", cfg, &console)
	require.NoError(err)

	log.Debug("hidden")
	log.Info("stored envelope", zap.String("type", "raw_txn"))
	log.Stop()

	require.Contains(console.String(), "stored envelope")
	require.Contains(console.String(), "raw_txn")
	require.NotContains(console.String(), "hidden")

	contents, err := os.ReadFile(file)
	require.NoError(err)
	require.Contains(string(contents), `"stored envelope"`)
}

func TestNewOff(t *testing.T) {
	require := require.New(t)

	cfg := NewDefaultConfig()
	cfg.Level = logging.Off.String()

	var console bufferCloser
	log, err := New("rawtxn", cfg, &console)
	require.NoError(err)
	require.IsType(logging.NoLog{}, log)

	log.Error("dropped")
	require.Zero(console.Len())
}

func TestNewInvalidConfig(t *testing.T) {
	require := require.New(t)

	cfg := NewDefaultConfig()
	cfg.Level = "loud"
	_, err := New("rawtxn", cfg, &bufferCloser{})
	require.Error(err)

	cfg = NewDefaultConfig()
	cfg.Format = "xml"
	_, err = New("rawtxn", cfg, &bufferCloser{})
	require.Error(err)
}
