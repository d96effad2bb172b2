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

// Codec converts instructions of a given instruction set between the binary
// encoding, Sequence values, and the assembly text form. A Codec holds no
// mutable state and may be used concurrently.
type Codec struct {
	table *Table
}

// NewCodec creates a codec for the given instruction set.
func NewCodec(table *Table) *Codec {
	return &Codec{table: table}
}

// Table returns the instruction set the codec is bound to.
func (c *Codec) Table() *Table {
	return c.table
}

// Encode converts the given instructions into their binary form. Each
// instruction is encoded by its opcode byte followed by its operand bytes.
// Unrecognized instructions re-emit their original byte.
func (c *Codec) Encode(code Sequence) []byte {
	res := make([]byte, 0, code.EncodedSize())
	for i := range code {
		res = append(res, code[i].value)
		res = append(res, code[i].immediate()...)
	}
	return res
}

// DecodeStrict converts the given binary code into a sequence of
// instructions. Any byte not covered by the instruction set causes the
// decoding to fail with a BadInstructionError.
//
// If the operand of the last instruction is truncated, the available bytes
// are placed at the beginning of the operand and the remaining bytes are
// zero. This is not considered an error.
func (c *Codec) DecodeStrict(code []byte) (Sequence, error) {
	res := make(Sequence, 0, len(code))
	for pos := 0; pos < len(code); {
		d := c.table.byValue[code[pos]]
		if d == nil {
			return nil, &BadInstructionError{Offset: pos, Value: code[pos]}
		}
		var op OpCode
		op, pos = decodeOne(d, code, pos)
		res = append(res, op)
	}
	return res, nil
}

// DecodePermissive converts the given binary code into a sequence of
// instructions like DecodeStrict, yet bytes not covered by the instruction
// set are converted into Unrecognized instructions. It never fails.
func (c *Codec) DecodePermissive(code []byte) Sequence {
	res := make(Sequence, 0, len(code))
	for pos := 0; pos < len(code); {
		d := c.table.byValue[code[pos]]
		if d == nil {
			res = append(res, Unrecognized(code[pos]))
			pos++
			continue
		}
		var op OpCode
		op, pos = decodeOne(d, code, pos)
		res = append(res, op)
	}
	return res
}

// decodeOne decodes the instruction described by d located at pos and
// returns it together with the position of the next instruction. If the
// operand exceeds the code, the returned position is beyond the end of the
// code.
func decodeOne(d *Descriptor, code []byte, pos int) (OpCode, int) {
	start := pos + 1
	end := start + d.ImmediateSize
	if end > len(code) {
		return newOpCode(d, code[start:]), end
	}
	return newOpCode(d, code[start:end]), end
}
