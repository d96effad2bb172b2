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
	"github.com/Fantom-foundation/evm-isa/go/isa"
	"github.com/Fantom-foundation/evm-isa/go/stack"
	"github.com/holiman/uint256"
	"github.com/tliron/commonlog"
)

//go:generate mockgen -source tracer.go -destination tracer_mock.go -package machine

// Tracer observes the execution of a machine.
type Tracer interface {
	// Step is called before the instruction at the given position is
	// executed. The stack must not be modified nor retained.
	Step(pc int, op isa.OpCode, s *stack.Stack)
	// Fault is called if the instruction at the given position failed.
	Fault(pc int, op isa.OpCode, err error)
}

// loggingTracer reports every executed instruction to a logger.
type loggingTracer struct {
	log commonlog.Logger
}

// NewLoggingTracer creates a tracer logging steps at debug level and faults
// at warning level. If log is nil, the "evmasm.machine" logger is used.
func NewLoggingTracer(log commonlog.Logger) Tracer {
	if log == nil {
		log = commonlog.GetLogger("evmasm.machine")
	}
	return loggingTracer{log: log}
}

func (l loggingTracer) Step(pc int, op isa.OpCode, s *stack.Stack) {
	// log format: <pc>, <op>, <stack size>, <top-of-stack>
	if !l.log.AllowLevel(commonlog.Debug) {
		return
	}
	top := "-empty-"
	if v, found := topOfStack(s); found {
		top = v.Hex()
	}
	l.log.Debugf("%d, %v, %d, %s", pc, op, s.Len(), top)
}

func (l loggingTracer) Fault(pc int, op isa.OpCode, err error) {
	l.log.Warningf("execution failed at %d (%v): %v", pc, op, err)
}

func topOfStack(s *stack.Stack) (uint256.Int, bool) {
	w, err := s.Peek()
	if err != nil {
		return uint256.Int{}, false
	}
	return w.Uint256(), true
}
