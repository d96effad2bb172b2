// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package machine provides a minimal reference interpreter executing decoded
// instruction sequences on an operand stack. It covers the stack, arithmetic,
// comparison and bitwise instructions; there is no gas, memory, storage or
// control flow beyond sequential execution.
package machine

import (
	"errors"
	"fmt"

	"github.com/Fantom-foundation/evm-isa/go/dispatch"
	"github.com/Fantom-foundation/evm-isa/go/isa"
	"github.com/Fantom-foundation/evm-isa/go/stack"
)

// ErrUnsupportedInstruction is produced for every instruction the machine
// has no handler for.
const ErrUnsupportedInstruction = isa.ConstError("unsupported instruction")

// Status is the execution state of a machine run.
type Status byte

const (
	StatusRunning Status = iota // < all fine, ops are processed
	StatusStopped               // < execution stopped with a STOP or at the end of the code
	StatusFailed                // < execution stopped with a logic error
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusStopped:
		return "stopped"
	case StatusFailed:
		return "failed"
	}
	return fmt.Sprintf("Status(%d)", byte(s))
}

// Frame is the execution state of a single run. Handlers operate on the
// frame of the run they are invoked for.
type Frame struct {
	Code   isa.Sequence
	PC     int
	Stack  *stack.Stack
	status Status
}

// Current returns the instruction at the program counter.
func (f *Frame) Current() isa.OpCode {
	return f.Code[f.PC]
}

// Stop ends the execution successfully after the current instruction.
func (f *Frame) Stop() {
	f.status = StatusStopped
}

// Result summarizes the outcome of a run.
type Result struct {
	Status Status
	// Steps is the number of executed instructions, including a failing one.
	Steps int
	// Stack holds the content of the stack at the end of the run, bottom
	// element first.
	Stack []stack.Word
	// Err is the reason of a failed execution, nil otherwise.
	Err error
}

// Success returns true if the execution ended without a failure.
func (r Result) Success() bool {
	return r.Status == StatusStopped
}

// Option configures a Machine.
type Option func(*Machine)

// WithTracer registers a tracer observing every executed instruction.
// Multiple tracers are invoked in registration order.
func WithTracer(tracer Tracer) Option {
	return func(m *Machine) {
		m.tracers = append(m.tracers, tracer)
	}
}

// WithActions adds handlers to the machine, replacing built-in handlers of
// the same mnemonic.
func WithActions(actions ...dispatch.Action[*Frame]) Option {
	return func(m *Machine) {
		m.extra = append(m.extra, actions...)
	}
}

// Machine executes instruction sequences of a fixed instruction set. A
// Machine is immutable after construction and may run multiple sequences
// concurrently, as long as the registered tracers allow it.
type Machine struct {
	table    *isa.Table
	dispatch *dispatch.Table[*Frame]
	tracers  []Tracer
	extra    []dispatch.Action[*Frame]
}

// New creates a machine for the given instruction set. Built-in handlers are
// installed for all supported mnemonics present in the table; all other
// opcodes fail with ErrUnsupportedInstruction.
func New(table *isa.Table, opts ...Option) (*Machine, error) {
	res := &Machine{table: table}
	for _, opt := range opts {
		opt(res)
	}

	actions := make([]dispatch.Action[*Frame], 0, len(builtinActions)+len(res.extra))
	for _, action := range builtinActions {
		if _, found := table.ByMnemonic(action.Mnemonic); found {
			actions = append(actions, action)
		}
	}
	actions = append(actions, res.extra...)

	dispatchTable, err := dispatch.Build(table, actions, opUnsupported)
	if err != nil {
		return nil, fmt.Errorf("failed to build dispatch table: %w", err)
	}
	res.dispatch = dispatchTable
	return res, nil
}

// Table returns the instruction set of the machine.
func (m *Machine) Table() *isa.Table {
	return m.table
}

// Supports returns true if the machine has a handler for the given opcode.
func (m *Machine) Supports(op byte) bool {
	return !m.dispatch.IsDefault(op)
}

// Run executes the given code until a STOP is reached, the end of the code
// is reached, or an instruction fails. Failing instructions, e.g. due to a
// stack under- or overflow, produce a failed result. An error is only
// returned for handler errors that are not valid execution outcomes.
func (m *Machine) Run(code isa.Sequence) (Result, error) {
	frame := Frame{
		Code:   code,
		Stack:  stack.NewStack(),
		status: StatusRunning,
	}
	defer stack.ReturnStack(frame.Stack)
	defer m.endRun()

	res := Result{}
	for frame.status == StatusRunning {
		if frame.PC >= len(frame.Code) {
			frame.status = StatusStopped
			break
		}
		op := frame.Code[frame.PC]
		for _, tracer := range m.tracers {
			tracer.Step(frame.PC, op, frame.Stack)
		}
		res.Steps++
		if err := m.dispatch.Dispatch(op.Value(), &frame); err != nil {
			if !isExecutionFailure(err) {
				return Result{}, fmt.Errorf("instruction %v at %d: %w", op, frame.PC, err)
			}
			for _, tracer := range m.tracers {
				tracer.Fault(frame.PC, op, err)
			}
			frame.status = StatusFailed
			res.Err = err
			break
		}
		frame.PC++
	}

	res.Status = frame.status
	res.Stack = make([]stack.Word, frame.Stack.Len())
	for i := range res.Stack {
		w, _ := frame.Stack.Back(len(res.Stack) - i - 1)
		res.Stack[i] = *w
	}
	return res, nil
}

// runObserver may be implemented by tracers interested in run boundaries.
type runObserver interface {
	EndOfRun()
}

func (m *Machine) endRun() {
	for _, tracer := range m.tracers {
		if observer, ok := tracer.(runObserver); ok {
			observer.EndOfRun()
		}
	}
}

func isExecutionFailure(err error) bool {
	return errors.Is(err, stack.ErrUnderflow) ||
		errors.Is(err, stack.ErrOverflow) ||
		errors.Is(err, ErrUnsupportedInstruction)
}
