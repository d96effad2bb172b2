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
	"sort"
	"strings"
	"sync"

	"github.com/Fantom-foundation/evm-isa/go/isa"
	"github.com/Fantom-foundation/evm-isa/go/stack"
)

// StatisticsTracer collects the frequency of executed instructions and
// instruction pairs and triples. Statistics are accumulated over all runs
// the tracer is attached to. It is safe for concurrent use.
type StatisticsTracer struct {
	mutex     sync.Mutex
	stats     *statistics
	collector statsCollector
}

// NewStatisticsTracer creates a tracer with empty statistics.
func NewStatisticsTracer() *StatisticsTracer {
	stats := newStatistics()
	return &StatisticsTracer{stats: stats, collector: statsCollector{stats: stats}}
}

func (s *StatisticsTracer) Step(_ int, op isa.OpCode, _ *stack.Stack) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.collector.nextOp(op)
}

func (s *StatisticsTracer) Fault(int, isa.OpCode, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.stats.faults++
}

// EndOfRun marks the end of a sequence, such that no pairs spanning two runs
// are recorded.
func (s *StatisticsTracer) EndOfRun() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.collector = statsCollector{stats: s.stats}
}

// Steps returns the total number of observed instructions.
func (s *StatisticsTracer) Steps() uint64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.stats.count
}

// Count returns how often the instruction with the given value was observed.
func (s *StatisticsTracer) Count(op byte) uint64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.stats.singleCount[uint64(op)]
}

// PairCount returns how often the instruction second directly followed the
// instruction first.
func (s *StatisticsTracer) PairCount(first, second byte) uint64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.stats.pairCount[uint64(first)<<8|uint64(second)]
}

// Summary prints the most frequent instructions, pairs and triples.
func (s *StatisticsTracer) Summary() string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.stats.print()
}

// Reset discards all collected statistics.
func (s *StatisticsTracer) Reset() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.stats = newStatistics()
	s.collector = statsCollector{stats: s.stats}
}

type statistics struct {
	count       uint64
	faults      uint64
	names       [256]string
	singleCount map[uint64]uint64
	pairCount   map[uint64]uint64
	tripleCount map[uint64]uint64
}

func newStatistics() *statistics {
	return &statistics{
		singleCount: map[uint64]uint64{},
		pairCount:   map[uint64]uint64{},
		tripleCount: map[uint64]uint64{},
	}
}

func (s *statistics) print() string {

	type entry struct {
		value uint64
		count uint64
	}

	getTopN := func(data map[uint64]uint64, n int) []entry {
		list := make([]entry, 0, len(data))
		for k, c := range data {
			list = append(list, entry{k, c})
		}
		sort.Slice(list, func(i, j int) bool {
			if list[i].count != list[j].count {
				return list[i].count > list[j].count
			}
			return list[i].value < list[j].value
		})
		if len(list) < n {
			return list
		}
		return list[0:n]
	}

	name := func(value uint64) string {
		return s.names[byte(value)]
	}

	percent := func(count uint64) float32 {
		return float32(count*100) / float32(s.count)
	}

	builder := strings.Builder{}
	write := func(format string, args ...interface{}) {
		builder.WriteString(fmt.Sprintf(format, args...))
	}

	write("\n----- Statistics ------\n")
	write("\nSteps: %d\n", s.count)
	write("Faults: %d\n", s.faults)
	write("\nSingles:\n")
	for _, e := range getTopN(s.singleCount, 5) {
		write("\t%-20v: %d (%.2f%%)\n", name(e.value), e.count, percent(e.count))
	}
	write("\nPairs:\n")
	for _, e := range getTopN(s.pairCount, 5) {
		write("\t%-20v%-20v: %d (%.2f%%)\n", name(e.value>>8), name(e.value), e.count, percent(e.count))
	}
	write("\nTriples:\n")
	for _, e := range getTopN(s.tripleCount, 5) {
		write("\t%-20v%-20v%-20v: %d (%.2f%%)\n", name(e.value>>16), name(e.value>>8), name(e.value), e.count, percent(e.count))
	}
	write("\n")

	return builder.String()
}

type statsCollector struct {
	stats *statistics
	seen  int

	last       uint64
	secondLast uint64
}

func (s *statsCollector) nextOp(op isa.OpCode) {
	cur := uint64(op.Value())
	s.stats.names[op.Value()] = op.Mnemonic()
	s.stats.count++
	s.stats.singleCount[cur]++
	s.seen++
	if s.seen >= 2 {
		s.stats.pairCount[s.last<<8|cur]++
	}
	if s.seen >= 3 {
		s.stats.tripleCount[s.secondLast<<16|s.last<<8|cur]++
	}
	s.last, s.secondLast = cur, s.last
}
