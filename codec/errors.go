// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"errors"
	"fmt"
)

var (
	ErrTooManyItems       = errors.New("too many items")
	ErrDuplicateItem      = errors.New("duplicate item")
	ErrInsufficientLength = errors.New("insufficient length")
	ErrInvalidSize        = errors.New("invalid size")
	ErrInvalidObject      = errors.New("invalid object")
	ErrInvalidBool        = errors.New("invalid bool")
	ErrInvalidOption      = errors.New("invalid option tag")
	ErrInvalidUTF8        = errors.New("invalid utf8 string")
	ErrTooLarge           = errors.New("exceeds size limit")
	ErrInvalidHex         = errors.New("invalid hex")

	// ErrNonCanonical is returned for input that decodes but is not the
	// canonical encoding of the decoded value.
	ErrNonCanonical = fmt.Errorf("%w: non-canonical encoding", ErrInvalidObject)
)

var ErrUnknownVariant = errors.New("unknown variant")
