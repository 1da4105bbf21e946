// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"fmt"
	"unicode/utf8"

	"github.com/aptos-labs/aptos-go-sdk/bcs"

	"github.com/vaultkit/wallet-api/consts"
)

// maxUleb128Len is the longest ULEB128 encoding of a uint32.
const maxUleb128Len = 5

// Marshaler is implemented by every value that can write itself into a
// [Packer] in canonical field order.
type Marshaler interface {
	Marshal(p *Packer)
}

// Packer is a wrapper around the ledger's canonical serializer and
// deserializer (BCS). A Packer is either a writer or a reader, never both.
//
// The first error encountered is sticky: once set, later calls are no-ops
// and the error is reported by [Packer.Err].
type Packer struct {
	ser *bcs.Serializer
	des *bcs.Deserializer

	size  int
	limit int
	err   error
}

// NewWriter returns a Packer that serializes values. [limit] bounds the
// number of bytes that may be produced.
func NewWriter(limit int) *Packer {
	return &Packer{
		ser:   &bcs.Serializer{},
		limit: limit,
	}
}

// NewReader returns a Packer that deserializes [src]. If [src] is larger
// than [limit] the reader starts in an errored state.
func NewReader(src []byte, limit int) *Packer {
	p := &Packer{
		des:   bcs.NewDeserializer(src),
		size:  len(src),
		limit: limit,
	}
	if len(src) > limit {
		p.err = fmt.Errorf("%w: size=%d limit=%d", ErrTooLarge, len(src), limit)
	}
	return p
}

// Bytes returns the serialized bytes of a writer.
func (p *Packer) Bytes() []byte {
	if p.ser == nil {
		return nil
	}
	return p.ser.ToBytes()
}

// Offset returns the number of bytes a reader has consumed.
func (p *Packer) Offset() int {
	if p.des == nil {
		return len(p.Bytes())
	}
	return p.size - p.des.Remaining()
}

// Remaining returns the number of bytes a reader has not consumed yet.
func (p *Packer) Remaining() int {
	if p.des == nil {
		return 0
	}
	return p.des.Remaining()
}

// Empty reports whether a reader consumed all of its input.
func (p *Packer) Empty() bool {
	return p.Remaining() == 0
}

func (p *Packer) Err() error {
	if p.err != nil {
		return p.err
	}
	if p.ser != nil {
		if err := p.ser.Error(); err != nil {
			return err
		}
		if l := len(p.ser.ToBytes()); l > p.limit {
			return fmt.Errorf("%w: size=%d limit=%d", ErrTooLarge, l, p.limit)
		}
	}
	if p.des != nil {
		if err := p.des.Error(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidObject, err)
		}
	}
	return nil
}

// Errored reports whether an error has been recorded.
func (p *Packer) Errored() bool {
	return p.Err() != nil
}

// AddErr records [err] unless an error is already present.
func (p *Packer) AddErr(err error) {
	if err == nil || p.Errored() {
		return
	}
	p.err = err
}

// need checks that a reader has at least [n] bytes left.
func (p *Packer) need(n int) bool {
	if p.Errored() {
		return false
	}
	if r := p.des.Remaining(); r < n {
		p.err = fmt.Errorf("%w: need=%d remaining=%d", ErrInsufficientLength, n, r)
		return false
	}
	return true
}

func (p *Packer) PackByte(b uint8) {
	if p.Errored() {
		return
	}
	p.ser.U8(b)
}

func (p *Packer) UnpackByte() uint8 {
	if !p.need(consts.ByteLen) {
		return 0
	}
	return p.des.U8()
}

func (p *Packer) PackBool(b bool) {
	if b {
		p.PackByte(1)
		return
	}
	p.PackByte(0)
}

// UnpackBool reads a bool. Any byte other than 0 or 1 is rejected.
func (p *Packer) UnpackBool() bool {
	switch b := p.UnpackByte(); b {
	case 0:
		return false
	case 1:
		return true
	default:
		p.AddErr(fmt.Errorf("%w: %d", ErrInvalidBool, b))
		return false
	}
}

func (p *Packer) PackUint16(v uint16) {
	if p.Errored() {
		return
	}
	p.ser.U16(v)
}

func (p *Packer) UnpackUint16() uint16 {
	if !p.need(consts.Uint16Len) {
		return 0
	}
	return p.des.U16()
}

func (p *Packer) PackUint32(v uint32) {
	if p.Errored() {
		return
	}
	p.ser.U32(v)
}

func (p *Packer) UnpackUint32() uint32 {
	if !p.need(consts.Uint32Len) {
		return 0
	}
	return p.des.U32()
}

func (p *Packer) PackUint64(v uint64) {
	if p.Errored() {
		return
	}
	p.ser.U64(v)
}

func (p *Packer) UnpackUint64() uint64 {
	if !p.need(consts.Uint64Len) {
		return 0
	}
	return p.des.U64()
}

// PackUleb128 writes [v] as an unsigned LEB128 varint. Sequence lengths and
// enum variant indices use this form.
func (p *Packer) PackUleb128(v uint32) {
	if p.Errored() {
		return
	}
	p.ser.Uleb128(v)
}

// UnpackUleb128 reads an unsigned LEB128 varint. Only the minimal encoding
// of a uint32 is accepted, so every value has exactly one byte form.
func (p *Packer) UnpackUleb128() uint32 {
	var v uint64
	for i := 0; i < maxUleb128Len; i++ {
		if !p.need(consts.ByteLen) {
			return 0
		}
		b := p.des.U8()
		v |= uint64(b&0x7f) << (7 * i)
		if b&0x80 != 0 {
			continue
		}
		if i > 0 && b == 0 {
			p.AddErr(fmt.Errorf("%w: uleb128 has trailing zero byte", ErrNonCanonical))
			return 0
		}
		if v > uint64(consts.MaxUint32) {
			p.AddErr(fmt.Errorf("%w: uleb128 overflows uint32", ErrNonCanonical))
			return 0
		}
		return uint32(v)
	}
	p.AddErr(fmt.Errorf("%w: uleb128 longer than %d bytes", ErrNonCanonical, maxUleb128Len))
	return 0
}

// PackFixedBytes writes [b] without a length prefix.
func (p *Packer) PackFixedBytes(b []byte) {
	if p.Errored() {
		return
	}
	p.ser.FixedBytes(b)
}

// UnpackFixedBytes reads exactly [size] bytes into [dest].
func (p *Packer) UnpackFixedBytes(size int, dest *[]byte) {
	if !p.need(size) {
		*dest = nil
		return
	}
	b := p.des.ReadFixedBytes(size)
	if p.Errored() {
		*dest = nil
		return
	}
	*dest = b
}

// PackBytes writes [b] prefixed with its ULEB128 length.
func (p *Packer) PackBytes(b []byte) {
	p.PackLen(len(b))
	p.PackFixedBytes(b)
}

// UnpackBytes reads a length-prefixed byte string of at most [limit] bytes
// into [dest]. A negative [limit] only bounds by the remaining input.
func (p *Packer) UnpackBytes(limit int, dest *[]byte) {
	l := p.UnpackLen(limit)
	if p.Errored() {
		*dest = nil
		return
	}
	if l == 0 {
		*dest = []byte{}
		return
	}
	p.UnpackFixedBytes(l, dest)
}

func (p *Packer) PackString(s string) {
	p.PackBytes([]byte(s))
}

// UnpackString reads a length-prefixed utf8 string of at most [limit] bytes.
func (p *Packer) UnpackString(limit int) string {
	var b []byte
	p.UnpackBytes(limit, &b)
	if p.Errored() {
		return ""
	}
	if !utf8.Valid(b) {
		p.AddErr(ErrInvalidUTF8)
		return ""
	}
	return string(b)
}

// PackLimitedLen writes a sequence length and rejects lengths above [limit],
// mirroring [Packer.UnpackLen].
func (p *Packer) PackLimitedLen(n int, limit int) {
	if limit >= 0 && n > limit {
		p.AddErr(fmt.Errorf("%w: length=%d limit=%d", ErrTooManyItems, n, limit))
		return
	}
	p.PackLen(n)
}

// PackLen writes a sequence length.
func (p *Packer) PackLen(n int) {
	if n < 0 || uint64(n) > uint64(consts.MaxUint32) {
		p.AddErr(fmt.Errorf("%w: length=%d", ErrInvalidSize, n))
		return
	}
	p.PackUleb128(uint32(n))
}

// UnpackLen reads a sequence length and rejects lengths above [limit] or
// above the number of bytes left in the input.
func (p *Packer) UnpackLen(limit int) int {
	n := p.UnpackUleb128()
	if p.Errored() {
		return 0
	}
	if limit >= 0 && uint64(n) > uint64(limit) {
		p.AddErr(fmt.Errorf("%w: length=%d limit=%d", ErrTooManyItems, n, limit))
		return 0
	}
	if uint64(n) > uint64(p.Remaining()) {
		p.AddErr(fmt.Errorf("%w: length=%d remaining=%d", ErrInsufficientLength, n, p.Remaining()))
		return 0
	}
	return int(n)
}

// PackOption writes the tag of an optional value. The value itself, when
// present, must be packed right after.
func (p *Packer) PackOption(present bool) {
	p.PackBool(present)
}

// UnpackOption reads the tag of an optional value.
func (p *Packer) UnpackOption() bool {
	switch b := p.UnpackByte(); b {
	case 0:
		return false
	case 1:
		return true
	default:
		p.AddErr(fmt.Errorf("%w: %d", ErrInvalidOption, b))
		return false
	}
}

func (p *Packer) PackAddress(a Address) {
	p.PackFixedBytes(a[:])
}

func (p *Packer) UnpackAddress(dest *Address) {
	var b []byte
	p.UnpackFixedBytes(AddressLen, &b)
	if p.Errored() {
		*dest = EmptyAddress
		return
	}
	copy(dest[:], b)
}

// PackAddresses writes a length-prefixed sequence of at most [limit]
// addresses in order.
func (p *Packer) PackAddresses(addrs []Address, limit int) {
	p.PackLimitedLen(len(addrs), limit)
	for _, a := range addrs {
		p.PackAddress(a)
	}
}

// UnpackAddresses reads a length-prefixed sequence of at most [limit]
// addresses. An empty sequence yields a non-nil empty slice.
func (p *Packer) UnpackAddresses(limit int) []Address {
	n := p.UnpackLen(limit)
	if p.Errored() {
		return nil
	}
	if n*AddressLen > p.Remaining() {
		p.AddErr(fmt.Errorf("%w: addresses=%d remaining=%d", ErrInsufficientLength, n, p.Remaining()))
		return nil
	}
	addrs := make([]Address, n)
	for i := range addrs {
		p.UnpackAddress(&addrs[i])
	}
	if p.Errored() {
		return nil
	}
	return addrs
}
