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
	"strings"
	"sync"
	"testing"

	"github.com/Fantom-foundation/evm-isa/go/isa/evm"
)

func TestStatisticsTracer_CountsInstructionsAndPairs(t *testing.T) {
	stats := NewStatisticsTracer()
	m := newMachine(t, WithTracer(stats))

	code := parse(t, "PUSH1 0x01 PUSH1 0x02 ADD PUSH1 0x03 ADD")
	if _, err := m.Run(code); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want, got := uint64(5), stats.Steps(); want != got {
		t.Errorf("unexpected number of steps, wanted %d, got %d", want, got)
	}
	if want, got := uint64(3), stats.Count(evm.PUSH1); want != got {
		t.Errorf("unexpected PUSH1 count, wanted %d, got %d", want, got)
	}
	if want, got := uint64(2), stats.PairCount(evm.PUSH1, 0x01); want != got {
		t.Errorf("unexpected PUSH1-ADD count, wanted %d, got %d", want, got)
	}
	if want, got := uint64(1), stats.PairCount(evm.PUSH1, evm.PUSH1); want != got {
		t.Errorf("unexpected PUSH1-PUSH1 count, wanted %d, got %d", want, got)
	}
}

func TestStatisticsTracer_PairsDoNotSpanRuns(t *testing.T) {
	stats := NewStatisticsTracer()
	m := newMachine(t, WithTracer(stats))

	for i := 0; i < 2; i++ {
		if _, err := m.Run(parse(t, "PUSH0 POP")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if want, got := uint64(2), stats.PairCount(evm.PUSH0, evm.POP); want != got {
		t.Errorf("unexpected PUSH0-POP count, wanted %d, got %d", want, got)
	}
	if want, got := uint64(0), stats.PairCount(evm.POP, evm.PUSH0); want != got {
		t.Errorf("pairs should not span runs, got %d", got)
	}
}

func TestStatisticsTracer_SummaryListsTopInstructions(t *testing.T) {
	stats := NewStatisticsTracer()
	m := newMachine(t, WithTracer(stats))
	if _, err := m.Run(parse(t, "PUSH0 PUSH0 ADD ADD")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	summary := stats.Summary()
	for _, want := range []string{"Steps: 4", "Faults: 1", "PUSH0", "ADD"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary should contain %q, got:\n%s", want, summary)
		}
	}

	stats.Reset()
	if want, got := uint64(0), stats.Steps(); want != got {
		t.Errorf("reset should discard statistics, got %d steps", got)
	}
}

func TestStatisticsTracer_IsThreadSafe(t *testing.T) {
	stats := NewStatisticsTracer()
	m := newMachine(t, WithTracer(stats))
	code := parse(t, "PUSH0 PUSH0 ADD")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				if _, err := m.Run(code); err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}
		}()
	}
	wg.Wait()
	if want, got := uint64(8*10*3), stats.Steps(); want != got {
		t.Errorf("unexpected number of steps, wanted %d, got %d", want, got)
	}
}
