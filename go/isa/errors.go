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

import "fmt"

// ConstError is an error type that can be used to define error constants.
type ConstError string

func (e ConstError) Error() string {
	return string(e)
}

// Errors produced while building an instruction set table. They indicate a
// malformed static configuration and are never retried.
const (
	ErrDuplicateMnemonic       = ConstError("duplicate mnemonic")
	ErrDuplicateValue          = ConstError("duplicate opcode value")
	ErrValueOutOfRange         = ConstError("opcode value out of range")
	ErrInvalidMnemonic         = ConstError("invalid mnemonic")
	ErrImmediateSizeOutOfRange = ConstError("immediate size out of range")
	ErrUndefinedOpcode         = ConstError("undefined opcode")
	ErrOperandSize             = ConstError("operand size mismatch")
)

// Errors produced by the decoders.
const (
	ErrBadInstruction     = ConstError("bad instruction")
	ErrBadSize            = ConstError("bad hex string size")
	ErrBadHexAt           = ConstError("bad hex digit")
	ErrBadHexSizeFor      = ConstError("bad hex literal size")
	ErrBadHexFor          = ConstError("hex literal without 0x prefix")
	ErrUnknownInstruction = ConstError("unknown instruction")
)

// DuplicateMnemonicError is returned by NewTable if a mnemonic is declared
// more than once.
type DuplicateMnemonicError struct {
	Mnemonic string
}

func (e *DuplicateMnemonicError) Error() string {
	return fmt.Sprintf("%v: the opcode `%s` has been defined twice", ErrDuplicateMnemonic, e.Mnemonic)
}

func (e *DuplicateMnemonicError) Unwrap() error {
	return ErrDuplicateMnemonic
}

// DuplicateValueError is returned by NewTable if two descriptors share the
// same byte value.
type DuplicateValueError struct {
	Value    byte
	Previous string // < mnemonic first bound to the value
	Mnemonic string // < mnemonic trying to re-use the value
}

func (e *DuplicateValueError) Error() string {
	return fmt.Sprintf("%v: the value `0x%02x` has been used twice (%s and %s)",
		ErrDuplicateValue, e.Value, e.Previous, e.Mnemonic)
}

func (e *DuplicateValueError) Unwrap() error {
	return ErrDuplicateValue
}

// ValueOutOfRangeError is returned by NewTable for descriptor values outside
// of [0, 255].
type ValueOutOfRangeError struct {
	Mnemonic string
	Value    int
}

func (e *ValueOutOfRangeError) Error() string {
	return fmt.Sprintf("%v: the value (%d) of the opcode %s should be in [0, 255]",
		ErrValueOutOfRange, e.Value, e.Mnemonic)
}

func (e *ValueOutOfRangeError) Unwrap() error {
	return ErrValueOutOfRange
}

// InvalidMnemonicError is returned by NewTable for empty mnemonics or
// mnemonics containing white space.
type InvalidMnemonicError struct {
	Value    int
	Mnemonic string
}

func (e *InvalidMnemonicError) Error() string {
	return fmt.Sprintf("%v: %q for value 0x%02x", ErrInvalidMnemonic, e.Mnemonic, e.Value)
}

func (e *InvalidMnemonicError) Unwrap() error {
	return ErrInvalidMnemonic
}

// ImmediateSizeError is returned by NewTable if the immediate size of a
// descriptor exceeds MaxImmediateSize or is negative.
type ImmediateSizeError struct {
	Mnemonic string
	Size     int
}

func (e *ImmediateSizeError) Error() string {
	return fmt.Sprintf("%v: %s declares %d immediate bytes, allowed are [0, %d]",
		ErrImmediateSizeOutOfRange, e.Mnemonic, e.Size, MaxImmediateSize)
}

func (e *ImmediateSizeError) Unwrap() error {
	return ErrImmediateSizeOutOfRange
}

// UndefinedOpcodeError is returned when a mnemonic can not be resolved in a
// table, e.g. while building a dispatch table.
type UndefinedOpcodeError struct {
	Mnemonic string
}

func (e *UndefinedOpcodeError) Error() string {
	return fmt.Sprintf("%v: the opcode `%s` has not been defined", ErrUndefinedOpcode, e.Mnemonic)
}

func (e *UndefinedOpcodeError) Unwrap() error {
	return ErrUndefinedOpcode
}

// OperandSizeError is returned when an instruction is created with an
// operand not matching the immediate size declared for its opcode.
type OperandSizeError struct {
	Mnemonic  string
	Want, Got int
}

func (e *OperandSizeError) Error() string {
	return fmt.Sprintf("%v: %s requires %d immediate bytes, got %d", ErrOperandSize, e.Mnemonic, e.Want, e.Got)
}

func (e *OperandSizeError) Unwrap() error {
	return ErrOperandSize
}

// BadInstructionError is returned by the strict binary decoder when it
// encounters a byte which is not part of the instruction set.
type BadInstructionError struct {
	Offset int
	Value  byte
}

func (e *BadInstructionError) Error() string {
	return fmt.Sprintf("%v 0x%02x at offset %d", ErrBadInstruction, e.Value, e.Offset)
}

func (e *BadInstructionError) Unwrap() error {
	return ErrBadInstruction
}

// HexError is returned when converting a hex string into bytes fails.
// Offset is only meaningful for ErrBadHexAt.
type HexError struct {
	Kind   ConstError // < ErrBadSize or ErrBadHexAt
	Offset int
}

func (e *HexError) Error() string {
	if e.Kind == ErrBadHexAt {
		return fmt.Sprintf("%v at offset %d", e.Kind, e.Offset)
	}
	return e.Kind.Error()
}

func (e *HexError) Unwrap() error {
	return e.Kind
}

// TextError is returned by the assembly parser. Index is the position of
// the offending token among all white space separated tokens of the input.
type TextError struct {
	Kind        ConstError // < one of the ErrBadHex*/ErrUnknownInstruction errors
	Index       int
	Token       string
	DigitOffset int // < only set for ErrBadHexAt, offset within Token
}

func (e *TextError) Error() string {
	switch e.Kind {
	case ErrBadHexAt:
		return fmt.Sprintf("%v: token %d (%s), offset %d", e.Kind, e.Index, e.Token, e.DigitOffset)
	case ErrUnknownInstruction:
		return fmt.Sprintf("%v: token %d (%q)", e.Kind, e.Index, e.Token)
	}
	return fmt.Sprintf("%v: token %d", e.Kind, e.Index)
}

func (e *TextError) Unwrap() error {
	return e.Kind
}
