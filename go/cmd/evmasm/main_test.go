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
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/Fantom-foundation/evm-isa/go/isa"
	"github.com/fxamacker/cbor/v2"
)

// runApp executes the command line tool with the given arguments and
// returns its standard output.
func runApp(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	app := newApp()
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &out
	app.Reader = strings.NewReader(stdin)
	err := app.Run(append([]string{"evmasm"}, args...))
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestDisasm_PrintsAssemblyText(t *testing.T) {
	for _, input := range []string{"600150", "0x600150"} {
		out, err := runApp(t, "", "disasm", input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := "PUSH1 0x01\nPOP\n"; want != out {
			t.Errorf("unexpected output, wanted %q, got %q", want, out)
		}
	}
}

func TestDisasm_StrictModeRejectsUnknownBytes(t *testing.T) {
	_, err := runApp(t, "", "disasm", "ef")
	if !errors.Is(err, isa.ErrBadInstruction) {
		t.Errorf("unexpected error %v", err)
	}
	_, err = runApp(t, "", "disasm", "6")
	if !errors.Is(err, isa.ErrBadSize) {
		t.Errorf("unexpected error %v", err)
	}
}

func TestDisasm_PermissiveModeKeepsUnknownBytes(t *testing.T) {
	out, err := runApp(t, "", "disasm", "--permissive", "ef00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "UNKNOWN 0xef\nSTOP\n"; want != out {
		t.Errorf("unexpected output, wanted %q, got %q", want, out)
	}
}

func TestDisasm_PermissiveModeCanBeConfigured(t *testing.T) {
	config := writeFile(t, "config.toml", "permissive = true\n")
	if _, err := runApp(t, "", "--config", config, "disasm", "ef"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := runApp(t, "", "--config", config, "disasm", "--permissive=false", "ef"); !errors.Is(err, isa.ErrBadInstruction) {
		t.Errorf("flag should override config, got %v", err)
	}
}

func TestDisasm_RequiresSingleArgument(t *testing.T) {
	if _, err := runApp(t, "", "disasm"); err == nil {
		t.Errorf("missing argument should be reported")
	}
}

func TestAsm_ReadsFile(t *testing.T) {
	path := writeFile(t, "code.asm", "PUSH1 0x01\nKECCAK256\nUNKNOWN 0xef\n")
	out, err := runApp(t, "", "asm", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "600120ef\n"; want != out {
		t.Errorf("unexpected output, wanted %q, got %q", want, out)
	}
}

func TestAsm_ReadsStandardInput(t *testing.T) {
	out, err := runApp(t, "PUSH2 0x1 ADD", "asm", "-")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "61000101\n"; want != out {
		t.Errorf("unexpected output, wanted %q, got %q", want, out)
	}
}

func TestAsm_ReportsParseErrors(t *testing.T) {
	_, err := runApp(t, "PUSH2 1234", "asm", "-")
	var target *isa.TextError
	if !errors.As(err, &target) || target.Kind != isa.ErrBadHexFor {
		t.Errorf("unexpected error %v", err)
	}
	if _, err := runApp(t, "", "asm", filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Errorf("missing file should be reported")
	}
}

func TestTable_TextFormatListsOpcodes(t *testing.T) {
	out, err := runApp(t, "", "table")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"Mnemonic", "SHA3", "PUSH32", "0x7f", "SELFDESTRUCT"} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q", want)
		}
	}
}

func TestTable_TomlExportCanBeDecoded(t *testing.T) {
	out, err := runApp(t, "", "table", "--format", "toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var export tableExport
	if _, err := toml.Decode(out, &export); err != nil {
		t.Fatalf("failed to decode export: %v", err)
	}
	if want, got := 149, len(export.Opcodes); want != got {
		t.Errorf("unexpected number of opcodes, wanted %d, got %d", want, got)
	}
}

func TestTable_CborExportCanBeDecoded(t *testing.T) {
	out, err := runApp(t, "", "table", "--format", "cbor")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var export tableExport
	if err := cbor.Unmarshal([]byte(out), &export); err != nil {
		t.Fatalf("failed to decode export: %v", err)
	}
	if want, got := 149, len(export.Opcodes); want != got {
		t.Errorf("unexpected number of opcodes, wanted %d, got %d", want, got)
	}
	if got := export.Opcodes[0]; got.Mnemonic != "STOP" || got.Value != 0 {
		t.Errorf("unexpected first entry %+v", got)
	}
}

func TestTable_UnknownFormatIsRejected(t *testing.T) {
	if _, err := runApp(t, "", "table", "--format", "xml"); err == nil {
		t.Errorf("unknown format should be rejected")
	}
}

func TestConfig_OpcodeExtensionsAreUsed(t *testing.T) {
	config := writeFile(t, "config.toml", `
[[opcode]]
value = 0xef
mnemonic = "MAGIC"
immediate = 2
added = 1
`)
	out, err := runApp(t, "", "--config", config, "disasm", "ef0102")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "MAGIC 0x0102\n"; want != out {
		t.Errorf("unexpected output, wanted %q, got %q", want, out)
	}

	out, err = runApp(t, "", "--config", config, "table")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "MAGIC") {
		t.Errorf("extension should be listed")
	}
}

func TestConfig_InvalidExtensionsAreRejected(t *testing.T) {
	config := writeFile(t, "config.toml", `
[[opcode]]
value = 0xef
mnemonic = "ADD"
`)
	_, err := runApp(t, "", "--config", config, "disasm", "00")
	if !errors.Is(err, isa.ErrDuplicateMnemonic) {
		t.Errorf("unexpected error %v", err)
	}
}

func TestRun_PrintsFinalStack(t *testing.T) {
	out, err := runApp(t, "", "run", "6001600201")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "#0: stopped after 3 steps") {
		t.Errorf("unexpected output %q", out)
	}
	if !strings.Contains(out, strings.Repeat("0", 62)+"03") {
		t.Errorf("result should be printed, got %q", out)
	}
}

func TestRun_ReportsFailedExecutions(t *testing.T) {
	out, err := runApp(t, "", "run", "5f", "01")
	if err == nil {
		t.Fatalf("failed execution should be reported")
	}
	if !strings.Contains(out, "#0: stopped") || !strings.Contains(out, "#1: failed after 1 steps") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestRun_PrintsStatistics(t *testing.T) {
	out, err := runApp(t, "", "run", "--stats", "--repeat", "3", "5f5f01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"Steps: 9", "PUSH0", "Executed 9 instructions"} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q, got %q", want, out)
		}
	}
}

func TestRun_TracingAndVerbosityFlags(t *testing.T) {
	if _, err := runApp(t, "", "-vv", "run", "--trace", "5f5f01"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRun_InvalidArgumentsAreRejected(t *testing.T) {
	tests := map[string][]string{
		"no code":      {"run"},
		"bad repeat":   {"run", "--repeat", "0", "00"},
		"bad hex":      {"run", "0g"},
		"unknown byte": {"run", "ef"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := runApp(t, "", args...); err == nil {
				t.Errorf("invalid arguments should be rejected")
			}
		})
	}
}

func TestCpuProfile_IsWritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cpu.prof")
	if _, err := runApp(t, "", "--cpuprofile", path, "disasm", "00"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("profile should be written: %v", err)
	}
}
