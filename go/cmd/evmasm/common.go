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
	"strings"

	cliUtils "github.com/Fantom-foundation/evm-isa/go/cmd/evmasm/cli"
	"github.com/Fantom-foundation/evm-isa/go/isa"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	"github.com/urfave/cli/v2"
)

var log = commonlog.GetLogger("evmasm.cli")

// setup is the environment shared by all commands.
type setup struct {
	config cliUtils.Config
	table  *isa.Table
	codec  *isa.Codec
}

// newSetup loads the configuration, configures logging and builds the
// instruction set.
func newSetup(context *cli.Context) (*setup, error) {
	config, err := cliUtils.ConfigFlag.Fetch(context)
	if err != nil {
		return nil, err
	}

	verbosity := config.Verbosity
	if count := cliUtils.VerboseFlag.Fetch(context); count > 0 {
		verbosity = count
	}
	commonlog.Configure(verbosity, nil)

	if path := context.String(cliUtils.ConfigFlag.Name); path != "" {
		log.Infof("loaded config from %s with %d opcode extensions", path, len(config.Opcodes))
	}

	table, err := config.Table()
	if err != nil {
		return nil, err
	}
	return &setup{
		config: config,
		table:  table,
		codec:  isa.NewCodec(table),
	}, nil
}

// trimHexPrefix removes an optional 0x prefix and surrounding white space
// from a hex string given on the command line.
func trimHexPrefix(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return s[2:]
	}
	return s
}
