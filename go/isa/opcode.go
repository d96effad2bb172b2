// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package isa

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// Kind distinguishes the variants of a decoded instruction.
type Kind byte

const (
	KindFixed        Kind = iota // < opcode without operand
	KindImmediate                // < opcode followed by a fixed-size operand
	KindUnrecognized             // < byte not covered by the instruction set
)

func (k Kind) String() string {
	switch k {
	case KindFixed:
		return "fixed"
	case KindImmediate:
		return "immediate"
	case KindUnrecognized:
		return "unrecognized"
	}
	return fmt.Sprintf("Kind(%d)", byte(k))
}

// UnknownKeyword is the mnemonic used in the text form for bytes that are
// not part of the instruction set.
const UnknownKeyword = "UNKNOWN"

// unknownStackEffect is reported as stack effect of unrecognized bytes.
const unknownStackEffect = 0xff

// OpCode is a single decoded instruction. It is a value type that can be
// copied and compared using ==. The zero value is not a valid instruction;
// instances are created by a Table, a Codec, or Unrecognized.
type OpCode struct {
	kind     Kind
	value    byte
	size     uint8
	removed  uint8
	added    uint8
	mnemonic string
	operand  [MaxImmediateSize]byte
}

// newOpCode creates an instruction for the given descriptor. The operand is
// copied into the leading bytes of the instruction's operand buffer, missing
// trailing bytes remain zero.
func newOpCode(d *Descriptor, operand []byte) OpCode {
	res := OpCode{
		kind:     KindFixed,
		value:    byte(d.Value),
		removed:  d.StackRemoved,
		added:    d.StackAdded,
		mnemonic: d.Mnemonic,
	}
	if d.HasImmediate() {
		res.kind = KindImmediate
		res.size = uint8(d.ImmediateSize)
		copy(res.operand[:res.size], operand)
	}
	return res
}

// Unrecognized creates an instruction representing a byte that is not part
// of any instruction set.
func Unrecognized(value byte) OpCode {
	return OpCode{
		kind:    KindUnrecognized,
		value:   value,
		removed: unknownStackEffect,
		added:   unknownStackEffect,
	}
}

func (o OpCode) Kind() Kind {
	return o.kind
}

// Value returns the byte value of the instruction in the binary encoding.
func (o OpCode) Value() byte {
	return o.value
}

// Mnemonic returns the name of the instruction, UnknownKeyword for
// unrecognized bytes.
func (o OpCode) Mnemonic() string {
	if o.kind == KindUnrecognized {
		return UnknownKeyword
	}
	return o.mnemonic
}

// ImmediateSize returns the number of operand bytes of the instruction.
func (o OpCode) ImmediateSize() int {
	return int(o.size)
}

// Immediate returns a copy of the operand of the instruction, nil if there
// is none.
func (o OpCode) Immediate() []byte {
	if o.kind != KindImmediate {
		return nil
	}
	return slices.Clone(o.operand[:o.size])
}

// immediate provides read-only access to the operand without copying it.
func (o *OpCode) immediate() []byte {
	return o.operand[:o.size]
}

// StackRemoved returns the number of stack items consumed by the
// instruction, 0xff for unrecognized bytes.
func (o OpCode) StackRemoved() uint8 {
	return o.removed
}

// StackAdded returns the number of stack items produced by the instruction,
// 0xff for unrecognized bytes.
func (o OpCode) StackAdded() uint8 {
	return o.added
}

// EncodedSize returns the number of bytes of the binary encoding of the
// instruction.
func (o OpCode) EncodedSize() int {
	return 1 + int(o.size)
}

// String returns the text form of the instruction.
func (o OpCode) String() string {
	switch o.kind {
	case KindFixed:
		return o.mnemonic
	case KindImmediate:
		return o.mnemonic + " 0x" + hex.EncodeToString(o.immediate())
	}
	return fmt.Sprintf("%s %#x", UnknownKeyword, o.value)
}

// Sequence is an ordered list of instructions, e.g. a decoded program.
type Sequence []OpCode

// Equal returns true if both sequences hold the same instructions.
func (s Sequence) Equal(other Sequence) bool {
	return slices.Equal(s, other)
}

// EncodedSize returns the number of bytes of the binary encoding of the
// sequence.
func (s Sequence) EncodedSize() int {
	res := 0
	for _, op := range s {
		res += op.EncodedSize()
	}
	return res
}

// String returns the text form of the sequence, one instruction per line.
func (s Sequence) String() string {
	var builder strings.Builder
	for _, op := range s {
		builder.WriteString(op.String())
		builder.WriteString("\n")
	}
	return builder.String()
}
