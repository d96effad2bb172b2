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

	cliUtils "github.com/Fantom-foundation/evm-isa/go/cmd/evmasm/cli"
	"github.com/Fantom-foundation/evm-isa/go/isa"
	"github.com/urfave/cli/v2"
)

var DisasmCmd = cliUtils.AddProfiling(cli.Command{
	Action:    doDisasm,
	Name:      "disasm",
	Usage:     "Convert hex encoded byte code into assembly text",
	ArgsUsage: "<hex>",
	Flags: []cli.Flag{
		cliUtils.PermissiveFlag,
	},
})

func doDisasm(context *cli.Context) error {
	if context.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one hex string, got %d arguments", context.Args().Len())
	}
	setup, err := newSetup(context)
	if err != nil {
		return err
	}

	input := trimHexPrefix(context.Args().First())
	var code isa.Sequence
	if cliUtils.PermissiveFlag.Fetch(context, setup.config.Permissive) {
		code, err = setup.codec.DecodeHexPermissive(input)
	} else {
		code, err = setup.codec.DecodeHex(input)
	}
	if err != nil {
		return fmt.Errorf("failed to decode code: %w", err)
	}
	log.Debugf("decoded %d instructions from %d bytes", len(code), len(input)/2)

	_, err = fmt.Fprint(context.App.Writer, setup.codec.Format(code))
	return err
}
