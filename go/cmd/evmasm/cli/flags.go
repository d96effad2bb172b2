// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package cliUtils

import (
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/urfave/cli/v2"
	"golang.org/x/exp/slices"
)

type configFlagType struct {
	cli.StringFlag
}

var ConfigFlag = &configFlagType{
	cli.StringFlag{
		Name:      "config",
		Aliases:   []string{"c"},
		Usage:     "load settings and opcode extensions from the given TOML file",
		TakesFile: true,
	},
}

// Fetch loads the configuration file named by the flag. If no file is given,
// the default configuration is returned.
func (f *configFlagType) Fetch(context *cli.Context) (Config, error) {
	path := context.String(f.Name)
	if path == "" {
		return Config{}, nil
	}
	return LoadConfig(path)
}

type verboseFlagType struct {
	cli.BoolFlag
}

var VerboseFlag = &verboseFlagType{
	cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "increase the log verbosity, may be repeated",
	},
}

func (f *verboseFlagType) Fetch(context *cli.Context) int {
	return context.Count(f.Name)
}

type permissiveFlagType struct {
	cli.BoolFlag
}

var PermissiveFlag = &permissiveFlagType{
	cli.BoolFlag{
		Name:    "permissive",
		Aliases: []string{"p"},
		Usage:   "accept bytes not covered by the instruction set",
	},
}

// Fetch returns the flag value if it is set, the given default otherwise.
func (f *permissiveFlagType) Fetch(context *cli.Context, fallback bool) bool {
	if context.IsSet(f.Name) {
		return context.Bool(f.Name)
	}
	return fallback
}

// Formats supported by the table command.
const (
	FormatText = "text"
	FormatToml = "toml"
	FormatCbor = "cbor"
)

var formats = []string{FormatText, FormatToml, FormatCbor}

type formatFlagType struct {
	cli.StringFlag
}

var FormatFlag = &formatFlagType{
	cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   fmt.Sprintf("output format, one of %v", formats),
		Value:   FormatText,
	},
}

func (f *formatFlagType) Fetch(context *cli.Context) (string, error) {
	format := context.String(f.Name)
	if !slices.Contains(formats, format) {
		return "", fmt.Errorf("unsupported format %q, use one of %v", format, formats)
	}
	return format, nil
}

type traceFlagType struct {
	cli.BoolFlag
}

var TraceFlag = &traceFlagType{
	cli.BoolFlag{
		Name:  "trace",
		Usage: "log every executed instruction",
	},
}

func (f *traceFlagType) Fetch(context *cli.Context) bool {
	return context.Bool(f.Name)
}

type statsFlagType struct {
	cli.BoolFlag
}

var StatsFlag = &statsFlagType{
	cli.BoolFlag{
		Name:  "stats",
		Usage: "print instruction statistics and throughput after the execution",
	},
}

func (f *statsFlagType) Fetch(context *cli.Context) bool {
	return context.Bool(f.Name)
}

type repeatFlagType struct {
	cli.IntFlag
}

var RepeatFlag = &repeatFlagType{
	cli.IntFlag{
		Name:  "repeat",
		Usage: "number of times each code is executed",
		Value: 1,
	},
}

func (f *repeatFlagType) Fetch(context *cli.Context) (int, error) {
	repeat := context.Int(f.Name)
	if repeat < 1 {
		return 0, fmt.Errorf("invalid repeat count %d, must be positive", repeat)
	}
	return repeat, nil
}

type cpuProfileType struct {
	cli.StringFlag
}

var CpuProfileFlag = &cpuProfileType{
	cli.StringFlag{
		Name:      "cpuprofile",
		Usage:     "store CPU profile in the provided filename",
		TakesFile: true,
	},
}

func (f *cpuProfileType) Fetch(context *cli.Context) string {
	return context.String(f.Name)
}

// AddProfiling wraps the action of the given command such that a CPU profile
// is recorded if requested by the CpuProfileFlag.
func AddProfiling(command cli.Command) cli.Command {
	action := command.Action
	command.Action = func(ctx *cli.Context) (err error) {

		if cpuprofileFilename := CpuProfileFlag.Fetch(ctx); cpuprofileFilename != "" {
			f, err := os.Create(cpuprofileFilename)
			if err != nil {
				return fmt.Errorf("could not create CPU profile: %w", err)
			}
			if err := pprof.StartCPUProfile(f); err != nil {
				return fmt.Errorf("could not start CPU profile: %w", err)
			}
			defer pprof.StopCPUProfile()
		}

		return action(ctx)
	}
	return command
}
