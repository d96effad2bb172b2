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
	"testing"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

func TestLoggingTracer_CanBeUsedWithAllLevels(t *testing.T) {
	for _, verbosity := range []int{-4, 0, 2} {
		commonlog.Configure(verbosity, nil)
		tracer := NewLoggingTracer(nil)
		m := newMachine(t, WithTracer(tracer))
		res, err := m.Run(parse(t, "PUSH1 0x01 PUSH0 ADD POP POP"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Success() {
			t.Errorf("execution should fail")
		}
	}
}
