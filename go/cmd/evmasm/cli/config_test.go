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
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Fantom-foundation/evm-isa/go/isa"
)

func TestConfig_ReadConfig(t *testing.T) {
	config, err := ReadConfig(strings.NewReader(`
permissive = true
cache_size = 16
verbosity = 1

[[opcode]]
value = 0xef
mnemonic = "MAGIC"
immediate = 4
removed = 1
added = 2
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !config.Permissive || config.CacheSize != 16 || config.Verbosity != 1 {
		t.Errorf("unexpected settings %+v", config)
	}
	want := OpcodeEntry{Value: 0xef, Mnemonic: "MAGIC", Immediate: 4, Removed: 1, Added: 2}
	if len(config.Opcodes) != 1 || config.Opcodes[0] != want {
		t.Errorf("unexpected opcodes %+v", config.Opcodes)
	}
}

func TestConfig_UnknownKeysAreRejected(t *testing.T) {
	_, err := ReadConfig(strings.NewReader("permisive = true\n"))
	if err == nil || !strings.Contains(err.Error(), "permisive") {
		t.Errorf("unknown key should be reported, got %v", err)
	}
}

func TestConfig_MalformedFilesAreRejected(t *testing.T) {
	if _, err := ReadConfig(strings.NewReader("permissive = \n")); err == nil {
		t.Errorf("malformed config should be rejected")
	}
}

func TestConfig_LoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("cache_size = -1\n"), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := -1, config.CacheSize; want != got {
		t.Errorf("unexpected cache size, wanted %d, got %d", want, got)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Errorf("missing file should be reported")
	}
}

func TestConfig_TableIncludesExtensions(t *testing.T) {
	config := Config{Opcodes: []OpcodeEntry{{Value: 0xef, Mnemonic: "MAGIC"}}}
	table, err := config.Table()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d, found := table.ByValue(0xef); !found || d.Mnemonic != "MAGIC" {
		t.Errorf("extension missing in table")
	}
	if _, found := table.ByMnemonic("SHA3"); !found {
		t.Errorf("built-in opcodes missing in table")
	}
}

func TestConfig_ConflictingExtensionsAreRejected(t *testing.T) {
	config := Config{Opcodes: []OpcodeEntry{{Value: 0x01, Mnemonic: "MAGIC"}}}
	if _, err := config.Table(); !errors.Is(err, isa.ErrDuplicateValue) {
		t.Errorf("unexpected error %v", err)
	}
}

func TestOpcodeEntry_DescriptorConversion(t *testing.T) {
	d := isa.Descriptor{Value: 0x61, Mnemonic: "PUSH2", ImmediateSize: 2, StackAdded: 1}
	if got := ToEntry(d).Descriptor(); d != got {
		t.Errorf("conversion changed descriptor, wanted %+v, got %+v", d, got)
	}
}
