// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package dispatch builds dense opcode dispatch tables mapping every possible
// opcode byte to a handler.
package dispatch

import (
	"github.com/Fantom-foundation/evm-isa/go/isa"
)

const numOpCodes = 256

// ErrNilHandler is returned by Build if the fallback or one of the actions
// has no handler.
const ErrNilHandler = isa.ConstError("nil handler")

// Handler processes a single instruction in the execution context C of the
// host interpreter.
type Handler[C any] func(ctx C) error

// Action binds a handler to the opcode with the given mnemonic.
type Action[C any] struct {
	Mnemonic string
	Handler  Handler[C]
}

// Table is a dense lookup table providing a handler for every opcode byte.
// It is read-only after construction and may be shared between go-routines.
type Table[C any] struct {
	handlers [numOpCodes]Handler[C]
	assigned [numOpCodes]bool
}

// Build creates a dispatch table for the given instruction set. All slots
// are initialized with the fallback handler, which is then replaced for the
// opcodes named by the actions. If multiple actions name the same opcode,
// the last one is used. Actions naming an opcode that is not part of the
// table cause the build to fail with an isa.UndefinedOpcodeError.
func Build[C any](table *isa.Table, actions []Action[C], fallback Handler[C]) (*Table[C], error) {
	if fallback == nil {
		return nil, ErrNilHandler
	}
	res := &Table[C]{}
	for i := range res.handlers {
		res.handlers[i] = fallback
	}
	for _, action := range actions {
		d, found := table.ByMnemonic(action.Mnemonic)
		if !found {
			return nil, &isa.UndefinedOpcodeError{Mnemonic: action.Mnemonic}
		}
		if action.Handler == nil {
			return nil, ErrNilHandler
		}
		res.handlers[d.Value] = action.Handler
		res.assigned[d.Value] = true
	}
	return res, nil
}

// Get returns the handler for the given opcode byte. It never fails.
func (t *Table[C]) Get(op byte) Handler[C] {
	return t.handlers[op]
}

// Dispatch runs the handler of the given opcode byte on the given context.
func (t *Table[C]) Dispatch(op byte, ctx C) error {
	return t.handlers[op](ctx)
}

// IsDefault returns true if the given opcode byte is served by the fallback
// handler.
func (t *Table[C]) IsDefault(op byte) bool {
	return !t.assigned[op]
}
