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
	"encoding/hex"
	"fmt"
	"io"
	"os"

	cliUtils "github.com/Fantom-foundation/evm-isa/go/cmd/evmasm/cli"
	"github.com/urfave/cli/v2"
)

var AsmCmd = cliUtils.AddProfiling(cli.Command{
	Action:    doAsm,
	Name:      "asm",
	Usage:     "Convert assembly text into hex encoded byte code",
	ArgsUsage: "<file|->",
})

func doAsm(context *cli.Context) error {
	if context.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one input file, got %d arguments", context.Args().Len())
	}
	setup, err := newSetup(context)
	if err != nil {
		return err
	}

	text, err := readInput(context, context.Args().First())
	if err != nil {
		return err
	}
	code, err := setup.codec.Parse(string(text))
	if err != nil {
		return fmt.Errorf("failed to parse assembly: %w", err)
	}
	log.Debugf("assembled %d instructions", len(code))

	_, err = fmt.Fprintln(context.App.Writer, hex.EncodeToString(setup.codec.Encode(code)))
	return err
}

// readInput reads the content of the given file, or of the standard input
// if the name is "-".
func readInput(context *cli.Context, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(context.App.Reader)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return data, nil
}
