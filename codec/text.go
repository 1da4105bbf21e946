// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import "fmt"

// Marshal serializes [m] into canonical bytes.
func Marshal(m Marshaler, limit int) ([]byte, error) {
	p := NewWriter(limit)
	m.Marshal(p)
	if err := p.Err(); err != nil {
		return nil, err
	}
	return p.Bytes(), nil
}

// Unmarshal decodes [raw] with [f] and requires that every byte is
// consumed. [f] describes the expected shape.
func Unmarshal[T any](raw []byte, limit int, f func(*Packer) (T, error)) (T, error) {
	p := NewReader(raw, limit)
	if err := p.Err(); err != nil {
		return *new(T), err
	}
	v, err := f(p)
	if err != nil {
		return *new(T), err
	}
	if err := p.Err(); err != nil {
		return *new(T), err
	}
	if !p.Empty() {
		return *new(T), fmt.Errorf("%w: remaining=%d", ErrInvalidObject, p.Remaining())
	}
	return v, nil
}

// EncodeToText serializes [m] and returns the bytes as 0x-prefixed hex.
func EncodeToText(m Marshaler, limit int) (string, error) {
	b, err := Marshal(m, limit)
	if err != nil {
		return "", err
	}
	return ToHex(b), nil
}

// DecodeFromText reverses [EncodeToText]. Trailing or missing bytes are
// both errors.
func DecodeFromText[T any](text string, limit int, f func(*Packer) (T, error)) (T, error) {
	raw, err := LoadHex(text, -1)
	if err != nil {
		return *new(T), err
	}
	return Unmarshal(raw, limit, f)
}
