package main

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/danielkucera/goflexit/flexit"
)

type registerEntry struct {
	Name    string `yaml:"name"`
	Bank    string `yaml:"bank"`
	Address uint16 `yaml:"address"`
	Type    string `yaml:"type"`
	Words   int    `yaml:"words"`
	Scaled  bool   `yaml:"scaled,omitempty"`
}

type registerTable struct {
	Model     string          `yaml:"model"`
	Unit      uint8           `yaml:"unit"`
	Registers []registerEntry `yaml:"registers"`
}

// dumpRegisters writes the register table of agg as YAML.
func dumpRegisters(w io.Writer, agg flexit.CommonDeviceAPI) error {
	table := registerTable{Model: string(agg.Model()), Unit: agg.Unit()}
	for _, name := range agg.Registers() {
		reg, err := agg.Register(name)
		if err != nil {
			return err
		}
		table.Registers = append(table.Registers, registerEntry{
			Name:    name,
			Bank:    reg.Bank.String(),
			Address: reg.Address,
			Type:    reg.Type.String(),
			Words:   reg.WordCount(),
			Scaled:  reg.PostRead != nil,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(table); err != nil {
		return fmt.Errorf("encode register table: %w", err)
	}
	return enc.Close()
}
