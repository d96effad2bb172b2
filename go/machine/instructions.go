// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package machine

import (
	"fmt"

	"github.com/Fantom-foundation/evm-isa/go/dispatch"
	"github.com/Fantom-foundation/evm-isa/go/stack"
	"github.com/holiman/uint256"
)

// builtinActions lists the handlers installed by New, if the corresponding
// mnemonic is part of the machine's instruction set.
var builtinActions = buildActions()

func buildActions() []dispatch.Action[*Frame] {
	res := []dispatch.Action[*Frame]{
		{Mnemonic: "STOP", Handler: opStop},
		{Mnemonic: "JUMPDEST", Handler: opNoop},
		{Mnemonic: "POP", Handler: opPop},
		{Mnemonic: "PUSH0", Handler: opPush},

		{Mnemonic: "ADD", Handler: binaryOp(func(z, a, b *uint256.Int) { z.Add(a, b) })},
		{Mnemonic: "MUL", Handler: binaryOp(func(z, a, b *uint256.Int) { z.Mul(a, b) })},
		{Mnemonic: "SUB", Handler: binaryOp(func(z, a, b *uint256.Int) { z.Sub(a, b) })},
		{Mnemonic: "DIV", Handler: binaryOp(func(z, a, b *uint256.Int) { z.Div(a, b) })},
		{Mnemonic: "SDIV", Handler: binaryOp(func(z, a, b *uint256.Int) { z.SDiv(a, b) })},
		{Mnemonic: "MOD", Handler: binaryOp(func(z, a, b *uint256.Int) { z.Mod(a, b) })},
		{Mnemonic: "SMOD", Handler: binaryOp(func(z, a, b *uint256.Int) { z.SMod(a, b) })},
		{Mnemonic: "ADDMOD", Handler: ternaryOp(func(z, a, b, n *uint256.Int) { z.AddMod(a, b, n) })},
		{Mnemonic: "MULMOD", Handler: ternaryOp(func(z, a, b, n *uint256.Int) { z.MulMod(a, b, n) })},
		{Mnemonic: "EXP", Handler: binaryOp(func(z, a, b *uint256.Int) { z.Exp(a, b) })},
		{Mnemonic: "SIGNEXTEND", Handler: binaryOp(func(z, a, b *uint256.Int) { z.ExtendSign(b, a) })},

		{Mnemonic: "LT", Handler: binaryOp(func(z, a, b *uint256.Int) { setBool(z, a.Lt(b)) })},
		{Mnemonic: "GT", Handler: binaryOp(func(z, a, b *uint256.Int) { setBool(z, a.Gt(b)) })},
		{Mnemonic: "SLT", Handler: binaryOp(func(z, a, b *uint256.Int) { setBool(z, a.Slt(b)) })},
		{Mnemonic: "SGT", Handler: binaryOp(func(z, a, b *uint256.Int) { setBool(z, a.Sgt(b)) })},
		{Mnemonic: "EQ", Handler: binaryOp(func(z, a, b *uint256.Int) { setBool(z, a.Eq(b)) })},
		{Mnemonic: "ISZERO", Handler: unaryOp(func(z, a *uint256.Int) { setBool(z, a.IsZero()) })},
		{Mnemonic: "AND", Handler: binaryOp(func(z, a, b *uint256.Int) { z.And(a, b) })},
		{Mnemonic: "OR", Handler: binaryOp(func(z, a, b *uint256.Int) { z.Or(a, b) })},
		{Mnemonic: "XOR", Handler: binaryOp(func(z, a, b *uint256.Int) { z.Xor(a, b) })},
		{Mnemonic: "NOT", Handler: unaryOp(func(z, a *uint256.Int) { z.Not(a) })},
		{Mnemonic: "BYTE", Handler: binaryOp(opByte)},
		{Mnemonic: "SHL", Handler: binaryOp(opShl)},
		{Mnemonic: "SHR", Handler: binaryOp(opShr)},
		{Mnemonic: "SAR", Handler: binaryOp(opSar)},
	}
	for i := 1; i <= 32; i++ {
		res = append(res, dispatch.Action[*Frame]{Mnemonic: fmt.Sprintf("PUSH%d", i), Handler: opPush})
	}
	for i := 1; i <= 16; i++ {
		res = append(res, dispatch.Action[*Frame]{Mnemonic: fmt.Sprintf("DUP%d", i), Handler: opDup(i)})
		res = append(res, dispatch.Action[*Frame]{Mnemonic: fmt.Sprintf("SWAP%d", i), Handler: opSwap(i)})
	}
	return res
}

func opStop(f *Frame) error {
	f.Stop()
	return nil
}

func opNoop(*Frame) error {
	return nil
}

func opUnsupported(*Frame) error {
	return ErrUnsupportedInstruction
}

func opPop(f *Frame) error {
	_, err := f.Stack.Pop()
	return err
}

// opPush pushes the operand of the current instruction. Instructions without
// an operand push zero.
func opPush(f *Frame) error {
	op := f.Current()
	return f.Stack.Push(op.Immediate())
}

func opDup(n int) dispatch.Handler[*Frame] {
	return func(f *Frame) error {
		return f.Stack.Dup(n)
	}
}

func opSwap(n int) dispatch.Handler[*Frame] {
	return func(f *Frame) error {
		return f.Stack.Swap(n)
	}
}

// unaryOp, binaryOp and ternaryOp check the number of operands before
// modifying the stack, such that failing instructions leave the stack
// unchanged. Operands are passed top element first.

func unaryOp(compute func(z, a *uint256.Int)) dispatch.Handler[*Frame] {
	return func(f *Frame) error {
		if f.Stack.Len() < 1 {
			return stack.ErrUnderflow
		}
		a, _ := f.Stack.PopUint256()
		var z uint256.Int
		compute(&z, &a)
		return f.Stack.PushUint256(&z)
	}
}

func binaryOp(compute func(z, a, b *uint256.Int)) dispatch.Handler[*Frame] {
	return func(f *Frame) error {
		if f.Stack.Len() < 2 {
			return stack.ErrUnderflow
		}
		a, _ := f.Stack.PopUint256()
		b, _ := f.Stack.PopUint256()
		var z uint256.Int
		compute(&z, &a, &b)
		return f.Stack.PushUint256(&z)
	}
}

func ternaryOp(compute func(z, a, b, c *uint256.Int)) dispatch.Handler[*Frame] {
	return func(f *Frame) error {
		if f.Stack.Len() < 3 {
			return stack.ErrUnderflow
		}
		a, _ := f.Stack.PopUint256()
		b, _ := f.Stack.PopUint256()
		c, _ := f.Stack.PopUint256()
		var z uint256.Int
		compute(&z, &a, &b, &c)
		return f.Stack.PushUint256(&z)
	}
}

func setBool(z *uint256.Int, value bool) {
	if value {
		z.SetOne()
	} else {
		z.Clear()
	}
}

func opByte(z, index, value *uint256.Int) {
	z.Set(value)
	z.Byte(index)
}

func opShl(z, shift, value *uint256.Int) {
	if shift.LtUint64(256) {
		z.Lsh(value, uint(shift.Uint64()))
	} else {
		z.Clear()
	}
}

func opShr(z, shift, value *uint256.Int) {
	if shift.LtUint64(256) {
		z.Rsh(value, uint(shift.Uint64()))
	} else {
		z.Clear()
	}
}

func opSar(z, shift, value *uint256.Int) {
	if shift.GtUint64(255) {
		if value.Sign() >= 0 {
			z.Clear()
		} else {
			z.SetAllOne()
		}
		return
	}
	z.SRsh(value, uint(shift.Uint64()))
}
