// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/vaultkit/wallet-api/consts"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, NewDefaultConfig().Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name          string
		modify        func(*Config)
		expectedField string
	}{
		{
			name:          "unknown backend",
			modify:        func(c *Config) { c.Store.Backend = "sqlite" },
			expectedField: "Backend",
		},
		{
			name:          "pebble without directory",
			modify:        func(c *Config) { c.Store.PebbleDir = "" },
			expectedField: "PebbleDir",
		},
		{
			name: "redis without address",
			modify: func(c *Config) {
				c.Store.Backend = RedisBackend
				c.Store.RedisAddr = ""
			},
			expectedField: "RedisAddr",
		},
		{
			name:          "negative workers",
			modify:        func(c *Config) { c.BatchWorkers = -1 },
			expectedField: "BatchWorkers",
		},
		{
			name:          "zero size limit",
			modify:        func(c *Config) { c.SizeLimit = 0 },
			expectedField: "SizeLimit",
		},
		{
			name:          "size limit above network limit",
			modify:        func(c *Config) { c.SizeLimit = consts.NetworkSizeLimit + 1 },
			expectedField: "SizeLimit",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			c := NewDefaultConfig()
			tt.modify(c)
			err := c.Validate()

			var validationErrs validator.ValidationErrors
			require.True(errors.As(err, &validationErrs))
			require.Len(validationErrs, 1)
			require.Equal(tt.expectedField, validationErrs[0].Field())
		})
	}
}

func TestValidateLogLevel(t *testing.T) {
	require := require.New(t)

	c := NewDefaultConfig()
	c.Log.Level = "shout"
	require.Error(c.Validate())

	c.Log.Level = "debug"
	require.NoError(c.Validate())
}

func TestRedisConfigSkipsPebbleDirectory(t *testing.T) {
	c := NewDefaultConfig()
	c.Store.Backend = RedisBackend
	c.Store.PebbleDir = ""
	require.NoError(t, c.Validate())
}
