// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vaultkit/wallet-api/codec"
)

// Type tag variant indices.
const (
	BoolTagID uint32 = iota
	U8TagID
	U64TagID
	U128TagID
	AddressTagID
	SignerTagID
	VectorTagID
	StructTagID
	U16TagID
	U32TagID
	U256TagID
)

// TypeTag is a Move type used as a generic type argument.
type TypeTag interface {
	codec.TypedMarshaler
	fmt.Stringer
}

var (
	_ TypeTag = (*BoolTag)(nil)
	_ TypeTag = (*U8Tag)(nil)
	_ TypeTag = (*U16Tag)(nil)
	_ TypeTag = (*U32Tag)(nil)
	_ TypeTag = (*U64Tag)(nil)
	_ TypeTag = (*U128Tag)(nil)
	_ TypeTag = (*U256Tag)(nil)
	_ TypeTag = (*AddressTag)(nil)
	_ TypeTag = (*SignerTag)(nil)
	_ TypeTag = (*VectorTag)(nil)
	_ TypeTag = (*StructTag)(nil)
)

type (
	BoolTag    struct{}
	U8Tag      struct{}
	U16Tag     struct{}
	U32Tag     struct{}
	U64Tag     struct{}
	U128Tag    struct{}
	U256Tag    struct{}
	AddressTag struct{}
	SignerTag  struct{}
)

func (*BoolTag) GetTypeID() uint32    { return BoolTagID }
func (*U8Tag) GetTypeID() uint32      { return U8TagID }
func (*U16Tag) GetTypeID() uint32     { return U16TagID }
func (*U32Tag) GetTypeID() uint32     { return U32TagID }
func (*U64Tag) GetTypeID() uint32     { return U64TagID }
func (*U128Tag) GetTypeID() uint32    { return U128TagID }
func (*U256Tag) GetTypeID() uint32    { return U256TagID }
func (*AddressTag) GetTypeID() uint32 { return AddressTagID }
func (*SignerTag) GetTypeID() uint32  { return SignerTagID }

func (*BoolTag) Marshal(*codec.Packer)    {}
func (*U8Tag) Marshal(*codec.Packer)      {}
func (*U16Tag) Marshal(*codec.Packer)     {}
func (*U32Tag) Marshal(*codec.Packer)     {}
func (*U64Tag) Marshal(*codec.Packer)     {}
func (*U128Tag) Marshal(*codec.Packer)    {}
func (*U256Tag) Marshal(*codec.Packer)    {}
func (*AddressTag) Marshal(*codec.Packer) {}
func (*SignerTag) Marshal(*codec.Packer)  {}

func (*BoolTag) String() string    { return "bool" }
func (*U8Tag) String() string      { return "u8" }
func (*U16Tag) String() string     { return "u16" }
func (*U32Tag) String() string     { return "u32" }
func (*U64Tag) String() string     { return "u64" }
func (*U128Tag) String() string    { return "u128" }
func (*U256Tag) String() string    { return "u256" }
func (*AddressTag) String() string { return "address" }
func (*SignerTag) String() string  { return "signer" }

// VectorTag is vector<Elem>.
type VectorTag struct {
	Elem TypeTag
}

func (*VectorTag) GetTypeID() uint32 { return VectorTagID }

func (v *VectorTag) Marshal(p *codec.Packer) {
	if v.Elem == nil {
		p.AddErr(fmt.Errorf("%w: vector without element type", ErrInvalidTypeTag))
		return
	}
	typeTagParser.Marshal(p, v.Elem)
}

func (v *VectorTag) String() string {
	return "vector<" + typeTagString(v.Elem) + ">"
}

// StructTag is a fully qualified struct type such as
// 0x1::coin::CoinStore<0x1::aptos_coin::AptosCoin>.
type StructTag struct {
	Address  codec.Address
	Module   string
	Name     string
	TypeArgs []TypeTag
}

func (*StructTag) GetTypeID() uint32 { return StructTagID }

func (s *StructTag) Marshal(p *codec.Packer) {
	p.PackAddress(s.Address)
	packIdentifier(p, s.Module)
	packIdentifier(p, s.Name)
	packTypeTags(p, s.TypeArgs)
}

func (s *StructTag) String() string {
	var sb strings.Builder
	sb.WriteString(s.Address.StringShort())
	sb.WriteString("::")
	sb.WriteString(s.Module)
	sb.WriteString("::")
	sb.WriteString(s.Name)
	if len(s.TypeArgs) > 0 {
		sb.WriteString("<")
		for i, arg := range s.TypeArgs {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(typeTagString(arg))
		}
		sb.WriteString(">")
	}
	return sb.String()
}

// typeTagString renders a missing tag as "?" so that String never panics on
// a value [MarshalTypeTag] would reject.
func typeTagString(t TypeTag) string {
	if t == nil {
		return "?"
	}
	return t.String()
}

// typeTagParser decodes type tags. The extra argument is the nesting depth
// of the tag being decoded.
var typeTagParser = codec.NewTypeParser[TypeTag, int]()

func init() {
	primitive := func(t TypeTag) func(*codec.Packer, int) (TypeTag, error) {
		return func(*codec.Packer, int) (TypeTag, error) { return t, nil }
	}
	for _, t := range []TypeTag{
		&BoolTag{}, &U8Tag{}, &U16Tag{}, &U32Tag{}, &U64Tag{},
		&U128Tag{}, &U256Tag{}, &AddressTag{}, &SignerTag{},
	} {
		if err := typeTagParser.Register(t, primitive(t)); err != nil {
			panic(err)
		}
	}
	if err := typeTagParser.Register(&VectorTag{}, unmarshalVectorTag); err != nil {
		panic(err)
	}
	if err := typeTagParser.Register(&StructTag{}, unmarshalStructTag); err != nil {
		panic(err)
	}
}

// MarshalTypeTag writes [t] with its variant index. Tags the decoder would
// reject are not written.
func MarshalTypeTag(p *codec.Packer, t TypeTag) {
	if err := checkTypeTag(t, 0); err != nil {
		p.AddErr(err)
		return
	}
	typeTagParser.Marshal(p, t)
}

// checkTypeTag applies the decoder's bounds to a tag found at [depth].
func checkTypeTag(t TypeTag, depth int) error {
	if depth > MaxTypeTagDepth {
		return fmt.Errorf("%w: depth=%d", ErrTypeTagTooDeep, depth)
	}
	switch t := t.(type) {
	case nil:
		return fmt.Errorf("%w: nil", ErrInvalidTypeTag)
	case *VectorTag:
		if t.Elem == nil {
			return fmt.Errorf("%w: vector without element type", ErrInvalidTypeTag)
		}
		return checkTypeTag(t.Elem, depth+1)
	case *StructTag:
		if err := checkTypeTags(t.TypeArgs); err != nil {
			return err
		}
		for _, arg := range t.TypeArgs {
			if err := checkTypeTag(arg, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkTypeTags(tags []TypeTag) error {
	if len(tags) > MaxTypeArgs {
		return fmt.Errorf("%w: %w: length=%d limit=%d", ErrInvalidTypeTag, codec.ErrTooManyItems, len(tags), MaxTypeArgs)
	}
	return nil
}

// UnmarshalTypeTag reads a type tag written by [MarshalTypeTag].
func UnmarshalTypeTag(p *codec.Packer) (TypeTag, error) {
	return unmarshalTypeTag(p, 0)
}

func unmarshalTypeTag(p *codec.Packer, depth int) (TypeTag, error) {
	if depth > MaxTypeTagDepth {
		err := fmt.Errorf("%w: depth=%d", ErrTypeTagTooDeep, depth)
		p.AddErr(err)
		return nil, err
	}
	return typeTagParser.Unmarshal(p, depth)
}

func unmarshalVectorTag(p *codec.Packer, depth int) (TypeTag, error) {
	elem, err := unmarshalTypeTag(p, depth+1)
	if err != nil {
		return nil, err
	}
	return &VectorTag{Elem: elem}, nil
}

func unmarshalStructTag(p *codec.Packer, depth int) (TypeTag, error) {
	var s StructTag
	p.UnpackAddress(&s.Address)
	s.Module = unpackIdentifier(p)
	s.Name = unpackIdentifier(p)
	typeArgs, err := unpackTypeTags(p, depth+1)
	if err != nil {
		return nil, err
	}
	s.TypeArgs = typeArgs
	return &s, p.Err()
}

func packTypeTags(p *codec.Packer, tags []TypeTag) {
	if err := checkTypeTags(tags); err != nil {
		p.AddErr(err)
		return
	}
	p.PackLen(len(tags))
	for _, t := range tags {
		MarshalTypeTag(p, t)
	}
}

func unpackTypeTags(p *codec.Packer, depth int) ([]TypeTag, error) {
	n := p.UnpackLen(MaxTypeArgs)
	if err := p.Err(); err != nil {
		return nil, err
	}
	tags := make([]TypeTag, n)
	for i := range tags {
		t, err := unmarshalTypeTag(p, depth)
		if errors.Is(err, codec.ErrUnknownVariant) {
			return nil, fmt.Errorf("%w: type argument %d: %v", ErrInvalidTypeTag, i, err) //nolint:errorlint
		}
		if err != nil {
			return nil, err
		}
		tags[i] = t
	}
	return tags, nil
}

func validIdentifier(s string) bool {
	if len(s) == 0 || len(s) > MaxIdentifierLen || s == "_" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}

func packIdentifier(p *codec.Packer, s string) {
	if !validIdentifier(s) {
		p.AddErr(fmt.Errorf("%w: %q", ErrInvalidIdentifier, s))
		return
	}
	p.PackString(s)
}

func unpackIdentifier(p *codec.Packer) string {
	s := p.UnpackString(MaxIdentifierLen)
	if p.Errored() {
		return ""
	}
	if !validIdentifier(s) {
		p.AddErr(fmt.Errorf("%w: %q", ErrInvalidIdentifier, s))
		return ""
	}
	return s
}

// ParseTypeTag parses the canonical string form of a type tag, for example
// "u64", "vector<u8>" or "0x1::coin::CoinStore<0x1::aptos_coin::AptosCoin>".
func ParseTypeTag(s string) (TypeTag, error) {
	tp := &typeTagLexer{src: s}
	t, err := tp.parse(0)
	if err != nil {
		return nil, err
	}
	tp.skipSpace()
	if tp.pos != len(tp.src) {
		return nil, fmt.Errorf("%w: unexpected %q at %d", ErrInvalidTypeTag, tp.src[tp.pos:], tp.pos)
	}
	return t, nil
}

type typeTagLexer struct {
	src string
	pos int
}

func (l *typeTagLexer) skipSpace() {
	for l.pos < len(l.src) && l.src[l.pos] == ' ' {
		l.pos++
	}
}

// word reads the next run of identifier or address characters.
func (l *typeTagLexer) word() string {
	l.skipSpace()
	start := l.pos
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			l.pos++
			continue
		}
		break
	}
	return l.src[start:l.pos]
}

func (l *typeTagLexer) consume(tok string) bool {
	l.skipSpace()
	if strings.HasPrefix(l.src[l.pos:], tok) {
		l.pos += len(tok)
		return true
	}
	return false
}

func (l *typeTagLexer) parse(depth int) (TypeTag, error) {
	if depth > MaxTypeTagDepth {
		return nil, fmt.Errorf("%w: depth=%d", ErrTypeTagTooDeep, depth)
	}
	w := l.word()
	switch w {
	case "bool":
		return &BoolTag{}, nil
	case "u8":
		return &U8Tag{}, nil
	case "u16":
		return &U16Tag{}, nil
	case "u32":
		return &U32Tag{}, nil
	case "u64":
		return &U64Tag{}, nil
	case "u128":
		return &U128Tag{}, nil
	case "u256":
		return &U256Tag{}, nil
	case "address":
		return &AddressTag{}, nil
	case "signer":
		return &SignerTag{}, nil
	case "vector":
		if !l.consume("<") {
			return nil, fmt.Errorf("%w: expected '<' after vector", ErrInvalidTypeTag)
		}
		elem, err := l.parse(depth + 1)
		if err != nil {
			return nil, err
		}
		if !l.consume(">") {
			return nil, fmt.Errorf("%w: unterminated vector", ErrInvalidTypeTag)
		}
		return &VectorTag{Elem: elem}, nil
	case "":
		return nil, fmt.Errorf("%w: empty type at %d", ErrInvalidTypeTag, l.pos)
	}

	addr, err := codec.ParseAddress(w)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is neither a primitive nor an address", ErrInvalidTypeTag, w)
	}
	s := &StructTag{Address: addr}
	if !l.consume("::") {
		return nil, fmt.Errorf("%w: expected '::' after address", ErrInvalidTypeTag)
	}
	s.Module = l.word()
	if !l.consume("::") {
		return nil, fmt.Errorf("%w: expected '::' after module", ErrInvalidTypeTag)
	}
	s.Name = l.word()
	if !validIdentifier(s.Module) || !validIdentifier(s.Name) {
		return nil, fmt.Errorf("%w: %s::%s", ErrInvalidIdentifier, s.Module, s.Name)
	}
	if l.consume("<") {
		for {
			arg, err := l.parse(depth + 1)
			if err != nil {
				return nil, err
			}
			s.TypeArgs = append(s.TypeArgs, arg)
			if len(s.TypeArgs) > MaxTypeArgs {
				return nil, fmt.Errorf("%w: too many type arguments", ErrInvalidTypeTag)
			}
			if l.consume(",") {
				continue
			}
			if l.consume(">") {
				break
			}
			return nil, fmt.Errorf("%w: expected ',' or '>' at %d", ErrInvalidTypeTag, l.pos)
		}
	}
	return s, nil
}
