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
	"time"

	cliUtils "github.com/Fantom-foundation/evm-isa/go/cmd/evmasm/cli"
	"github.com/Fantom-foundation/evm-isa/go/isa"
	"github.com/Fantom-foundation/evm-isa/go/machine"
	"github.com/dsnet/golib/unitconv"
	"github.com/tliron/commonlog"
	"github.com/urfave/cli/v2"
)

var RunCmd = cliUtils.AddProfiling(cli.Command{
	Action:    doRun,
	Name:      "run",
	Usage:     "Execute hex encoded byte code on the reference interpreter",
	ArgsUsage: "<hex>...",
	Flags: []cli.Flag{
		cliUtils.PermissiveFlag,
		cliUtils.TraceFlag,
		cliUtils.StatsFlag,
		cliUtils.RepeatFlag,
	},
})

func doRun(context *cli.Context) error {
	if context.Args().Len() == 0 {
		return fmt.Errorf("expected at least one hex string")
	}
	repeat, err := cliUtils.RepeatFlag.Fetch(context)
	if err != nil {
		return err
	}
	setup, err := newSetup(context)
	if err != nil {
		return err
	}

	cache, err := isa.NewCodeCache(setup.codec, isa.CodeCacheConfig{
		CacheSize:  setup.config.CacheSize,
		Permissive: cliUtils.PermissiveFlag.Fetch(context, setup.config.Permissive),
	})
	if err != nil {
		return fmt.Errorf("failed to create code cache: %w", err)
	}

	var options []machine.Option
	if cliUtils.TraceFlag.Fetch(context) {
		// Steps are logged at debug level.
		commonlog.Configure(2, nil)
		options = append(options, machine.WithTracer(machine.NewLoggingTracer(nil)))
	}
	var stats *machine.StatisticsTracer
	if cliUtils.StatsFlag.Fetch(context) {
		stats = machine.NewStatisticsTracer()
		options = append(options, machine.WithTracer(stats))
	}
	vm, err := machine.New(setup.table, options...)
	if err != nil {
		return err
	}

	writer := context.App.Writer
	start := time.Now()
	failed := 0
	for i, arg := range context.Args().Slice() {
		binary, err := isa.ParseHex(trimHexPrefix(arg))
		if err != nil {
			return fmt.Errorf("invalid code #%d: %w", i, err)
		}

		if code, err := cache.Decode(binary); err == nil {
			reportUnsupported(vm, i, code)
		}

		var result machine.Result
		for r := 0; r < repeat; r++ {
			code, err := cache.Decode(binary)
			if err != nil {
				return fmt.Errorf("failed to decode code #%d: %w", i, err)
			}
			result, err = vm.Run(code)
			if err != nil {
				return fmt.Errorf("failed to execute code #%d: %w", i, err)
			}
		}
		if !result.Success() {
			failed++
		}
		printResult(writer, i, result)
	}
	duration := time.Since(start)
	log.Debugf("code cache holds %d entries", cache.Len())

	if stats != nil {
		fmt.Fprint(writer, stats.Summary())
		rate := float64(stats.Steps()) / duration.Seconds()
		fmt.Fprintf(writer, "Executed %d instructions in %v (~%s instructions per second)\n",
			stats.Steps(), duration.Round(time.Microsecond), unitconv.FormatPrefix(rate, unitconv.SI, 0))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d executions failed", failed, context.Args().Len())
	}
	return nil
}

// reportUnsupported logs instructions of the given code the interpreter has
// no handler for. Execution fails when reaching any of them.
func reportUnsupported(vm *machine.Machine, index int, code isa.Sequence) {
	seen := map[byte]bool{}
	for _, op := range code {
		if !vm.Supports(op.Value()) && !seen[op.Value()] {
			seen[op.Value()] = true
			log.Infof("code #%d uses unsupported instruction %s (0x%02x)", index, op.Mnemonic(), op.Value())
		}
	}
}

func printResult(writer io.Writer, index int, result machine.Result) {
	fmt.Fprintf(writer, "#%d: %v after %d steps", index, result.Status, result.Steps)
	if result.Err != nil {
		fmt.Fprintf(writer, " (%v)", result.Err)
	}
	fmt.Fprintln(writer)
	for i := len(result.Stack) - 1; i >= 0; i-- {
		fmt.Fprintf(writer, "    [%4d] 0x%x\n", i, result.Stack[i][:])
	}
}
