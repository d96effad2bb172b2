// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package evm provides the instruction set of the Ethereum Virtual Machine
// as of the Cancun hard fork.
package evm

import (
	"fmt"

	"github.com/Fantom-foundation/evm-isa/go/isa"
)

// Byte values of opcodes referenced by other packages.
const (
	STOP     = 0x00
	SHA3     = 0x20
	POP      = 0x50
	JUMPDEST = 0x5B
	PUSH0    = 0x5F
	PUSH1    = 0x60
	PUSH32   = 0x7F
	DUP1     = 0x80
	DUP16    = 0x8F
	SWAP1    = 0x90
	SWAP16   = 0x9F
	LOG0     = 0xA0
	INVALID  = 0xFE
)

// op is a shorthand for a descriptor without immediate operand.
func op(value int, mnemonic string, removed, added uint8) isa.Descriptor {
	return isa.Descriptor{
		Value:        value,
		Mnemonic:     mnemonic,
		StackRemoved: removed,
		StackAdded:   added,
	}
}

var baseDescriptors = []isa.Descriptor{
	// Stop and arithmetic
	op(0x00, "STOP", 0, 0),
	op(0x01, "ADD", 2, 1),
	op(0x02, "MUL", 2, 1),
	op(0x03, "SUB", 2, 1),
	op(0x04, "DIV", 2, 1),
	op(0x05, "SDIV", 2, 1),
	op(0x06, "MOD", 2, 1),
	op(0x07, "SMOD", 2, 1),
	op(0x08, "ADDMOD", 3, 1),
	op(0x09, "MULMOD", 3, 1),
	op(0x0A, "EXP", 2, 1),
	op(0x0B, "SIGNEXTEND", 2, 1),

	// Comparison and bitwise logic
	op(0x10, "LT", 2, 1),
	op(0x11, "GT", 2, 1),
	op(0x12, "SLT", 2, 1),
	op(0x13, "SGT", 2, 1),
	op(0x14, "EQ", 2, 1),
	op(0x15, "ISZERO", 1, 1),
	op(0x16, "AND", 2, 1),
	op(0x17, "OR", 2, 1),
	op(0x18, "XOR", 2, 1),
	op(0x19, "NOT", 1, 1),
	op(0x1A, "BYTE", 2, 1),
	op(0x1B, "SHL", 2, 1),
	op(0x1C, "SHR", 2, 1),
	op(0x1D, "SAR", 2, 1),

	op(0x20, "SHA3", 2, 1),

	// Environmental information
	op(0x30, "ADDRESS", 0, 1),
	op(0x31, "BALANCE", 1, 1),
	op(0x32, "ORIGIN", 0, 1),
	op(0x33, "CALLER", 0, 1),
	op(0x34, "CALLVALUE", 0, 1),
	op(0x35, "CALLDATALOAD", 1, 1),
	op(0x36, "CALLDATASIZE", 0, 1),
	op(0x37, "CALLDATACOPY", 3, 0),
	op(0x38, "CODESIZE", 0, 1),
	op(0x39, "CODECOPY", 3, 0),
	op(0x3A, "GASPRICE", 0, 1),
	op(0x3B, "EXTCODESIZE", 1, 1),
	op(0x3C, "EXTCODECOPY", 4, 0),
	op(0x3D, "RETURNDATASIZE", 0, 1),
	op(0x3E, "RETURNDATACOPY", 3, 0),
	op(0x3F, "EXTCODEHASH", 1, 1),

	// Block information
	op(0x40, "BLOCKHASH", 1, 1),
	op(0x41, "COINBASE", 0, 1),
	op(0x42, "TIMESTAMP", 0, 1),
	op(0x43, "NUMBER", 0, 1),
	op(0x44, "PREVRANDAO", 0, 1),
	op(0x45, "GASLIMIT", 0, 1),
	op(0x46, "CHAINID", 0, 1),
	op(0x47, "SELFBALANCE", 0, 1),
	op(0x48, "BASEFEE", 0, 1),
	op(0x49, "BLOBHASH", 1, 1),
	op(0x4A, "BLOBBASEFEE", 0, 1),

	// Stack, memory, storage and flow operations
	op(0x50, "POP", 1, 0),
	op(0x51, "MLOAD", 1, 1),
	op(0x52, "MSTORE", 2, 0),
	op(0x53, "MSTORE8", 2, 0),
	op(0x54, "SLOAD", 1, 1),
	op(0x55, "SSTORE", 2, 0),
	op(0x56, "JUMP", 1, 0),
	op(0x57, "JUMPI", 2, 0),
	op(0x58, "PC", 0, 1),
	op(0x59, "MSIZE", 0, 1),
	op(0x5A, "GAS", 0, 1),
	op(0x5B, "JUMPDEST", 0, 0),
	op(0x5C, "TLOAD", 1, 1),
	op(0x5D, "TSTORE", 2, 0),
	op(0x5E, "MCOPY", 3, 0),
	op(0x5F, "PUSH0", 0, 1),
}

var systemDescriptors = []isa.Descriptor{
	op(0xF0, "CREATE", 3, 1),
	op(0xF1, "CALL", 7, 1),
	op(0xF2, "CALLCODE", 7, 1),
	op(0xF3, "RETURN", 2, 0),
	op(0xF4, "DELEGATECALL", 6, 1),
	op(0xF5, "CREATE2", 4, 1),
	op(0xFA, "STATICCALL", 6, 1),
	op(0xFD, "REVERT", 2, 0),
	op(0xFE, "INVALID", 0, 0),
	op(0xFF, "SELFDESTRUCT", 1, 0),
}

// Descriptors returns the list of all EVM opcodes in ascending order of
// their byte values. The result is a fresh copy on every call.
func Descriptors() []isa.Descriptor {
	res := make([]isa.Descriptor, 0, 150)
	res = append(res, baseDescriptors...)
	for i := 1; i <= 32; i++ {
		res = append(res, isa.Descriptor{
			Value:         PUSH1 + i - 1,
			Mnemonic:      fmt.Sprintf("PUSH%d", i),
			ImmediateSize: i,
			StackAdded:    1,
		})
	}
	for i := 1; i <= 16; i++ {
		res = append(res, op(DUP1+i-1, fmt.Sprintf("DUP%d", i), uint8(i), uint8(i+1)))
	}
	for i := 1; i <= 16; i++ {
		res = append(res, op(SWAP1+i-1, fmt.Sprintf("SWAP%d", i), uint8(i+1), uint8(i+1)))
	}
	for i := 0; i <= 4; i++ {
		res = append(res, op(LOG0+i, fmt.Sprintf("LOG%d", i), uint8(i+2), 0))
	}
	res = append(res, systemDescriptors...)
	return res
}

// NewTable builds the EVM instruction set table.
func NewTable() (*isa.Table, error) {
	return isa.NewTable(Descriptors())
}

// MustNewTable is like NewTable but panics if the table is invalid. Since
// the EVM instruction set is static, any failure is a programming error.
func MustNewTable() *isa.Table {
	table, err := NewTable()
	if err != nil {
		panic(fmt.Sprintf("invalid EVM instruction set: %v", err))
	}
	return table
}
