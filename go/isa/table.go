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
	"strings"
	"unicode"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// MaxImmediateSize is the largest number of immediate bytes an opcode may
// declare. It matches the width of a stack word.
const MaxImmediateSize = 32

// numValues is the number of distinct opcode byte values.
const numValues = 256

// Descriptor is a single row of an instruction set definition.
type Descriptor struct {
	// Value is the byte value of the opcode, it has to be in [0, 255].
	Value int
	// Mnemonic is the human readable name of the opcode. By convention,
	// mnemonics are upper case. Comparisons are case-sensitive.
	Mnemonic string
	// ImmediateSize is the number of raw bytes following the opcode in the
	// binary encoding. Zero if the opcode has no operand.
	ImmediateSize int
	// StackRemoved is the number of items removed from the stack.
	StackRemoved uint8
	// StackAdded is the number of items placed on the stack.
	StackAdded uint8
}

// HasImmediate returns true if the opcode is followed by an operand.
func (d Descriptor) HasImmediate() bool {
	return d.ImmediateSize > 0
}

// Table is an immutable, validated instruction set. It can be freely shared
// between go-routines since it is never modified after construction.
type Table struct {
	descriptors []Descriptor
	byValue     [numValues]*Descriptor
	byMnemonic  map[string]*Descriptor
}

// NewTable validates the given descriptors and builds a table from them.
// Construction stops at the first violation. The resulting table holds a
// copy of the descriptors.
func NewTable(descriptors []Descriptor) (*Table, error) {
	res := &Table{
		descriptors: slices.Clone(descriptors),
		byMnemonic:  make(map[string]*Descriptor, len(descriptors)),
	}
	for i := range res.descriptors {
		cur := &res.descriptors[i]
		if cur.Value < 0 || cur.Value >= numValues {
			return nil, &ValueOutOfRangeError{Mnemonic: cur.Mnemonic, Value: cur.Value}
		}
		if !isValidMnemonic(cur.Mnemonic) {
			return nil, &InvalidMnemonicError{Value: cur.Value, Mnemonic: cur.Mnemonic}
		}
		if cur.ImmediateSize < 0 || cur.ImmediateSize > MaxImmediateSize {
			return nil, &ImmediateSizeError{Mnemonic: cur.Mnemonic, Size: cur.ImmediateSize}
		}
		if _, found := res.byMnemonic[cur.Mnemonic]; found {
			return nil, &DuplicateMnemonicError{Mnemonic: cur.Mnemonic}
		}
		if previous := res.byValue[cur.Value]; previous != nil {
			return nil, &DuplicateValueError{
				Value:    byte(cur.Value),
				Previous: previous.Mnemonic,
				Mnemonic: cur.Mnemonic,
			}
		}
		res.byMnemonic[cur.Mnemonic] = cur
		res.byValue[cur.Value] = cur
	}
	return res, nil
}

func isValidMnemonic(mnemonic string) bool {
	return mnemonic != "" && strings.IndexFunc(mnemonic, unicode.IsSpace) < 0
}

// ByValue looks up the descriptor of the given opcode byte.
func (t *Table) ByValue(value byte) (Descriptor, bool) {
	if d := t.byValue[value]; d != nil {
		return *d, true
	}
	return Descriptor{}, false
}

// ByMnemonic looks up the descriptor with the given mnemonic.
func (t *Table) ByMnemonic(mnemonic string) (Descriptor, bool) {
	if d, found := t.byMnemonic[mnemonic]; found {
		return *d, true
	}
	return Descriptor{}, false
}

// Contains returns true if the given byte is part of the instruction set.
func (t *Table) Contains(value byte) bool {
	return t.byValue[value] != nil
}

// Len returns the number of opcodes in the table.
func (t *Table) Len() int {
	return len(t.descriptors)
}

// Descriptors returns a copy of all descriptors in declaration order.
func (t *Table) Descriptors() []Descriptor {
	return slices.Clone(t.descriptors)
}

// Mnemonics returns the sorted list of all mnemonics in the table.
func (t *Table) Mnemonics() []string {
	res := maps.Keys(t.byMnemonic)
	slices.Sort(res)
	return res
}

// Fixed creates the instruction for the given zero-operand mnemonic.
func (t *Table) Fixed(mnemonic string) (OpCode, error) {
	d, found := t.byMnemonic[mnemonic]
	if !found {
		return OpCode{}, &UndefinedOpcodeError{Mnemonic: mnemonic}
	}
	if d.HasImmediate() {
		return OpCode{}, &OperandSizeError{Mnemonic: mnemonic, Want: d.ImmediateSize, Got: 0}
	}
	return newOpCode(d, nil), nil
}

// WithImmediate creates the instruction for the given mnemonic using the
// provided operand. The operand has to match the declared immediate size.
func (t *Table) WithImmediate(mnemonic string, operand []byte) (OpCode, error) {
	d, found := t.byMnemonic[mnemonic]
	if !found {
		return OpCode{}, &UndefinedOpcodeError{Mnemonic: mnemonic}
	}
	if !d.HasImmediate() || len(operand) != d.ImmediateSize {
		return OpCode{}, &OperandSizeError{Mnemonic: mnemonic, Want: d.ImmediateSize, Got: len(operand)}
	}
	return newOpCode(d, operand), nil
}
