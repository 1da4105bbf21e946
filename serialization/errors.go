// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package serialization

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedValue is the root of every input contract violation.
	ErrUnexpectedValue = errors.New("unexpected value")

	// ErrInvalidType is returned when an envelope carries a tag other than
	// the three known raw transaction types.
	ErrInvalidType = fmt.Errorf("%w: invalid raw transaction type", ErrUnexpectedValue)

	// ErrUnclassifiable is returned when a value matches none of the three
	// raw transaction shapes.
	ErrUnclassifiable = fmt.Errorf("%w: unclassifiable raw transaction", ErrUnexpectedValue)

	// ErrMalformedPayload is returned when an envelope value does not decode
	// to exactly the shape named by its tag.
	ErrMalformedPayload = errors.New("malformed raw transaction payload")

	// ErrTypeMismatch is returned by the typed entry points when the
	// envelope holds a different shape than requested.
	ErrTypeMismatch = errors.New("raw transaction type mismatch")
)
