// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import "errors"

var (
	ErrInvalidIdentifier   = errors.New("invalid identifier")
	ErrInvalidTypeTag      = errors.New("invalid type tag")
	ErrTypeTagTooDeep      = errors.New("type tag nested too deeply")
	ErrInvalidFunctionID   = errors.New("invalid function id")
	ErrDeprecatedPayload   = errors.New("module bundle payloads are deprecated")
	ErrMissingPayload      = errors.New("missing payload")
	ErrMissingRawTxn       = errors.New("missing raw transaction")
	ErrVariantMismatch     = errors.New("raw transaction variant mismatch")
	ErrUnknownPayloadType  = errors.New("unknown payload type")
	ErrUnknownArgumentType = errors.New("unknown argument type")
	ErrUnknownVariant      = errors.New("unknown raw transaction variant")
)
