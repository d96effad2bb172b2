// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"fmt"
	"os"

	cliUtils "github.com/Fantom-foundation/evm-isa/go/cmd/evmasm/cli"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	// Commands are copied such that multiple apps do not share state.
	disasm, asm, table, run := DisasmCmd, AsmCmd, TableCmd, RunCmd
	return &cli.App{
		Name:      "evmasm",
		Usage:     "EVM assembler, disassembler and reference interpreter",
		Copyright: "(c) 2024 Fantom Foundation",
		Flags: []cli.Flag{
			cliUtils.ConfigFlag,
			cliUtils.VerboseFlag,
			cliUtils.CpuProfileFlag,
		},
		UseShortOptionHandling: true,
		Commands: []*cli.Command{
			&disasm,
			&asm,
			&table,
			&run,
		},
	}
}
