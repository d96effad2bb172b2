// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package stack implements the operand stack of the virtual machine.
package stack

import (
	"fmt"
	"strings"
	"sync"

	"github.com/holiman/uint256"
)

// MaxSize is the maximum number of elements on a stack.
const MaxSize = 1024

// WordSize is the width of a stack element in bytes.
const WordSize = 32

// maxDepth is the largest n accepted by Dup and Swap.
const maxDepth = 16

// ConstError is an error type that can be used to define error constants.
type ConstError string

func (e ConstError) Error() string {
	return string(e)
}

const (
	// ErrUnderflow is returned if an operation requires more elements than
	// present on the stack.
	ErrUnderflow = ConstError("stack underflow")
	// ErrOverflow is returned if an operation would exceed MaxSize.
	ErrOverflow = ConstError("stack overflow")
	// ErrInternal signals a violation of the calling contract, e.g. an
	// oversized push or an out-of-range Dup/Swap depth.
	ErrInternal = ConstError("internal stack error")
)

// Word is a single 256-bit stack element in big-endian byte order.
type Word [WordSize]byte

// Uint256 interprets the word as an unsigned big-endian integer.
func (w *Word) Uint256() uint256.Int {
	var res uint256.Int
	res.SetBytes32(w[:])
	return res
}

// WordFromUint256 converts the given integer into its big-endian word
// representation.
func WordFromUint256(v *uint256.Int) Word {
	return v.Bytes32()
}

// Stack is the 1024-element 256-bit word-wide stack used by the VM. All
// operations check their bounds before modifying the stack; a failing
// operation leaves the stack unchanged. Slots above the top of the stack are
// always zero.
//
// Each stack consumes 1024 * 32 bytes = 32KB of memory. To avoid the
// allocation overhead when creating many stacks, use NewStack() and
// ReturnStack(s) to obtain and recycle instances from a pool.
//
// Example usage:
//
//	s := NewStack()
//	defer ReturnStack(s)
//	<use the stack in your local scope>
//
// The stack is not thread-safe. NewStack() and ReturnStack() are thread-safe.
type Stack struct {
	data         [MaxSize]Word
	stackPointer int
}

// Push adds the given value to the top of the stack. Values shorter than a
// word are right-aligned and padded with zeros on the left.
func (s *Stack) Push(value []byte) error {
	if len(value) > WordSize {
		return ErrInternal
	}
	if s.stackPointer >= MaxSize {
		return ErrOverflow
	}
	copy(s.data[s.stackPointer][WordSize-len(value):], value)
	s.stackPointer++
	return nil
}

// Pop removes the top element from the stack and returns it. The slot it
// occupied is cleared.
func (s *Stack) Pop() (Word, error) {
	if s.stackPointer == 0 {
		return Word{}, ErrUnderflow
	}
	s.stackPointer--
	res := s.data[s.stackPointer]
	s.data[s.stackPointer] = Word{}
	return res, nil
}

// Peek returns a pointer to the top element of the stack without removing
// it. It is equivalent to Back(0).
func (s *Stack) Peek() (*Word, error) {
	return s.Back(0)
}

// Back returns a pointer to the n-th element from the top of the stack. The
// top element is at index 0. The pointer is only valid until the next
// operation modifying the stack.
func (s *Stack) Back(n int) (*Word, error) {
	if n < 0 || s.stackPointer < n+1 {
		return nil, ErrUnderflow
	}
	return &s.data[s.stackPointer-n-1], nil
}

// Dup duplicates the n-th element from the top and pushes it to the top of
// the stack, where n is in [1, 16]. Thus, Dup(1) duplicates the top element.
func (s *Stack) Dup(n int) error {
	if n < 1 || n > maxDepth {
		return ErrInternal
	}
	if s.stackPointer >= MaxSize {
		return ErrOverflow
	}
	if s.stackPointer < n {
		return ErrUnderflow
	}
	s.data[s.stackPointer] = s.data[s.stackPointer-n]
	s.stackPointer++
	return nil
}

// Swap exchanges the top element with the n-th element below it, where n is
// in [1, 16]. Thus, Swap(1) exchanges the two top-most elements.
func (s *Stack) Swap(n int) error {
	if n < 1 || n > maxDepth {
		return ErrInternal
	}
	if s.stackPointer < n+1 {
		return ErrUnderflow
	}
	top := s.stackPointer - 1
	s.data[top], s.data[top-n] = s.data[top-n], s.data[top]
	return nil
}

// PushUint256 adds the given integer to the top of the stack.
func (s *Stack) PushUint256(v *uint256.Int) error {
	if s.stackPointer >= MaxSize {
		return ErrOverflow
	}
	s.data[s.stackPointer] = v.Bytes32()
	s.stackPointer++
	return nil
}

// PopUint256 removes the top element from the stack and returns it as an
// integer.
func (s *Stack) PopUint256() (uint256.Int, error) {
	w, err := s.Pop()
	if err != nil {
		return uint256.Int{}, err
	}
	return w.Uint256(), nil
}

// Len returns the number of elements on the stack.
func (s *Stack) Len() int {
	return s.stackPointer
}

// Reset removes all elements from the stack.
func (s *Stack) Reset() {
	clear(s.data[:s.stackPointer])
	s.stackPointer = 0
}

func (s *Stack) String() string {
	toHex := func(w *Word) string {
		b := strings.Builder{}
		b.WriteString("0x")
		for i, cur := range w {
			b.WriteString(fmt.Sprintf("%02x", cur))
			if (i+1)%8 == 0 && i+1 < WordSize {
				b.WriteString(" ")
			}
		}
		return b.String()
	}

	b := strings.Builder{}
	for i := 0; i < s.Len(); i++ {
		b.WriteString(fmt.Sprintf("    [%4d] %v\n", s.Len()-i-1, toHex(&s.data[s.stackPointer-i-1])))
	}
	return b.String()
}

// ------------------ Stack Pool ------------------

var stackPool = sync.Pool{
	New: func() interface{} {
		return &Stack{}
	},
}

// NewStack returns an empty stack instance from a reuse pool. Heavy stack
// users should use this function to prevent memory reallocation overhead.
// This function is thread-safe.
func NewStack() *Stack {
	return stackPool.Get().(*Stack)
}

// ReturnStack returns the stack to the reuse pool. Any stack may only be
// returned once to avoid concurrent re-use. This is not checked internally.
// This function is thread-safe.
func ReturnStack(s *Stack) {
	s.Reset()
	stackPool.Put(s)
}
