// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pending

import "errors"

var (
	ErrNotFound    = errors.New("pending record not found")
	ErrInvalidID   = errors.New("invalid pending record id")
	ErrEmptyImport = errors.New("no envelopes to import")
)
