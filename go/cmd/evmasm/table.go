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
	"io"

	"github.com/BurntSushi/toml"
	cliUtils "github.com/Fantom-foundation/evm-isa/go/cmd/evmasm/cli"
	"github.com/Fantom-foundation/evm-isa/go/isa"
	"github.com/fxamacker/cbor/v2"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"
)

var TableCmd = cliUtils.AddProfiling(cli.Command{
	Action: doTable,
	Name:   "table",
	Usage:  "Print the instruction set, including configured extensions",
	Flags: []cli.Flag{
		cliUtils.FormatFlag,
	},
})

// tableExport is the document written by the toml and cbor formats. Its
// toml form can be used as opcode section of a configuration file.
type tableExport struct {
	Opcodes []cliUtils.OpcodeEntry `toml:"opcode" cbor:"opcode"`
}

func doTable(context *cli.Context) error {
	format, err := cliUtils.FormatFlag.Fetch(context)
	if err != nil {
		return err
	}
	setup, err := newSetup(context)
	if err != nil {
		return err
	}

	writer := context.App.Writer
	switch format {
	case cliUtils.FormatToml:
		return toml.NewEncoder(writer).Encode(exportTable(setup.table))
	case cliUtils.FormatCbor:
		data, err := cbor.Marshal(exportTable(setup.table))
		if err != nil {
			return fmt.Errorf("failed to encode table: %w", err)
		}
		_, err = writer.Write(data)
		return err
	}
	printTable(writer, setup.table)
	return nil
}

func exportTable(table *isa.Table) tableExport {
	descriptors := table.Descriptors()
	res := tableExport{Opcodes: make([]cliUtils.OpcodeEntry, 0, len(descriptors))}
	for _, d := range descriptors {
		res.Opcodes = append(res.Opcodes, cliUtils.ToEntry(d))
	}
	return res
}

func printTable(writer io.Writer, table *isa.Table) {
	out := tablewriter.NewWriter(writer)
	out.SetHeader([]string{"Value", "Mnemonic", "Immediate", "Removed", "Added"})
	out.SetAutoFormatHeaders(false)
	for _, d := range table.Descriptors() {
		out.Append([]string{
			fmt.Sprintf("0x%02x", d.Value),
			d.Mnemonic,
			fmt.Sprintf("%d", d.ImmediateSize),
			fmt.Sprintf("%d", d.StackRemoved),
			fmt.Sprintf("%d", d.StackAdded),
		})
	}
	out.SetFooter([]string{"", fmt.Sprintf("%d opcodes", table.Len()), "", "", ""})
	out.Render()
}
