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

import "strings"

// Legacy mnemonic aliases accepted by the parser. They are never produced
// when formatting instructions.
var aliases = map[string]string{
	"KECCAK256": "SHA3",
}

// Format converts the given instructions into the assembly text form, one
// instruction per line.
func (c *Codec) Format(code Sequence) string {
	return code.String()
}

// Parse converts assembly text into a sequence of instructions. The input is
// split into white space separated tokens. Each instruction is given by its
// mnemonic, followed by a 0x-prefixed hex literal if the instruction has an
// operand. Bytes not covered by the instruction set are given as 0x-prefixed
// literals of one or two hex digits, optionally preceded by UNKNOWN.
//
// Operand literals are interpreted as big-endian numbers right-aligned in
// the operand, and must not have more digits than the operand can hold.
func (c *Codec) Parse(text string) (Sequence, error) {
	tokens := strings.Fields(text)
	for i, token := range tokens {
		if canonical, found := aliases[token]; found {
			tokens[i] = canonical
		}
	}

	res := make(Sequence, 0, len(tokens))
	for idx := 0; idx < len(tokens); {
		var op OpCode
		var err error
		if d, found := c.table.byMnemonic[tokens[idx]]; found {
			op, idx, err = parseInstruction(d, tokens, idx)
		} else {
			op, idx, err = parseUnknown(tokens, idx)
		}
		if err != nil {
			return nil, err
		}
		res = append(res, op)
	}
	return res, nil
}

// parseInstruction parses the instruction described by d whose mnemonic is
// located at tokens[idx]. It returns the instruction and the index of the
// next token to be processed.
func parseInstruction(d *Descriptor, tokens []string, idx int) (OpCode, int, error) {
	idx++
	if !d.HasImmediate() {
		return newOpCode(d, nil), idx, nil
	}

	if idx >= len(tokens) {
		return OpCode{}, idx, &TextError{Kind: ErrBadHexSizeFor, Index: idx}
	}
	literal := tokens[idx]
	if len(literal) <= 2 || len(literal) > 2*d.ImmediateSize+2 {
		return OpCode{}, idx, &TextError{Kind: ErrBadHexSizeFor, Index: idx, Token: literal}
	}
	if literal[0:2] != "0x" {
		return OpCode{}, idx, &TextError{Kind: ErrBadHexFor, Index: idx, Token: literal}
	}

	// Digits are consumed from the least significant end, filling the
	// operand from its last byte towards its first.
	var operand [MaxImmediateSize]byte
	pos := d.ImmediateSize
	high := false
	for i := len(literal) - 1; i >= 2; i-- {
		v, ok := fromHexChar(literal[i])
		if !ok {
			return OpCode{}, idx, &TextError{Kind: ErrBadHexAt, Index: idx, Token: literal, DigitOffset: i}
		}
		if high {
			operand[pos] |= v << 4
		} else {
			pos--
			operand[pos] = v
		}
		high = !high
	}
	return newOpCode(d, operand[:d.ImmediateSize]), idx + 1, nil
}

// parseUnknown parses a byte literal of an instruction not covered by the
// instruction set, starting at tokens[idx]. The literal may be preceded by
// the UNKNOWN keyword.
func parseUnknown(tokens []string, idx int) (OpCode, int, error) {
	if tokens[idx] == UnknownKeyword {
		idx++
	}
	if idx >= len(tokens) {
		return OpCode{}, idx, &TextError{Kind: ErrUnknownInstruction, Index: idx}
	}
	literal := tokens[idx]
	fail := func() (OpCode, int, error) {
		return OpCode{}, idx, &TextError{Kind: ErrUnknownInstruction, Index: idx, Token: literal}
	}
	if len(literal) <= 2 || len(literal) > 4 || literal[0:2] != "0x" {
		return fail()
	}
	value := byte(0)
	for i := 2; i < len(literal); i++ {
		v, ok := fromHexChar(literal[i])
		if !ok {
			return fail()
		}
		value = value<<4 | v
	}
	return Unrecognized(value), idx + 1, nil
}
