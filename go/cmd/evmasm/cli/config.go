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
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Fantom-foundation/evm-isa/go/isa"
	"github.com/Fantom-foundation/evm-isa/go/isa/evm"
)

// Config is the content of a configuration file.
//
// Example:
//
//	permissive = true
//	cache_size = 128
//	verbosity = 1
//
//	[[opcode]]
//	value = 0xef
//	mnemonic = "MAGIC"
//	immediate = 2
//	added = 1
type Config struct {
	Permissive bool          `toml:"permissive"`
	CacheSize  int           `toml:"cache_size"`
	Verbosity  int           `toml:"verbosity"`
	Opcodes    []OpcodeEntry `toml:"opcode"`
}

// OpcodeEntry describes an opcode in configuration files and table exports.
type OpcodeEntry struct {
	Value     int    `toml:"value" cbor:"value"`
	Mnemonic  string `toml:"mnemonic" cbor:"mnemonic"`
	Immediate int    `toml:"immediate,omitempty" cbor:"immediate,omitempty"`
	Removed   uint8  `toml:"removed" cbor:"removed"`
	Added     uint8  `toml:"added" cbor:"added"`
}

// ToEntry converts a descriptor into its configuration form.
func ToEntry(d isa.Descriptor) OpcodeEntry {
	return OpcodeEntry{
		Value:     d.Value,
		Mnemonic:  d.Mnemonic,
		Immediate: d.ImmediateSize,
		Removed:   d.StackRemoved,
		Added:     d.StackAdded,
	}
}

// Descriptor converts the entry into an instruction set descriptor.
func (e OpcodeEntry) Descriptor() isa.Descriptor {
	return isa.Descriptor{
		Value:         e.Value,
		Mnemonic:      e.Mnemonic,
		ImmediateSize: e.Immediate,
		StackRemoved:  e.Removed,
		StackAdded:    e.Added,
	}
}

// LoadConfig reads the configuration file at the given path.
func LoadConfig(path string) (Config, error) {
	var config Config
	meta, err := toml.DecodeFile(path, &config)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return config, checkUndecoded(path, meta)
}

// ReadConfig parses a configuration from the given reader.
func ReadConfig(reader io.Reader) (Config, error) {
	var config Config
	meta, err := toml.NewDecoder(reader).Decode(&config)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return config, checkUndecoded("<input>", meta)
}

func checkUndecoded(source string, meta toml.MetaData) error {
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return fmt.Errorf("unknown keys in config %s: %s", source, strings.Join(keys, ", "))
	}
	return nil
}

// Table builds the EVM instruction set extended by the opcodes listed in the
// configuration.
func (c *Config) Table() (*isa.Table, error) {
	descriptors := evm.Descriptors()
	for _, entry := range c.Opcodes {
		descriptors = append(descriptors, entry.Descriptor())
	}
	table, err := isa.NewTable(descriptors)
	if err != nil {
		return nil, fmt.Errorf("invalid instruction set: %w", err)
	}
	return table, nil
}
