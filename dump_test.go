package main

import (
	"bytes"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/danielkucera/goflexit/flexit"
)

func TestDumpRegisters(t *testing.T) {
	var buf bytes.Buffer
	agg, err := flexit.NewAggregate(nil, 5, flexit.ModelCI66)
	if err != nil {
		t.Fatal(err)
	}
	if err := dumpRegisters(&buf, agg); err != nil {
		t.Fatalf("dumpRegisters() err=%v", err)
	}

	var table registerTable
	if err := yaml.Unmarshal(buf.Bytes(), &table); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, buf.String())
	}
	if table.Model != "CI66" || table.Unit != 5 {
		t.Fatalf("model/unit = %q/%d", table.Model, table.Unit)
	}
	if len(table.Registers) != len(agg.Registers()) {
		t.Fatalf("%d registers, want %d", len(table.Registers), len(agg.Registers()))
	}

	var found bool
	for _, r := range table.Registers {
		if r.Name != flexit.RegOutsideAirTemp {
			continue
		}
		found = true
		want := registerEntry{Name: "OutsideAirTemp", Bank: "input", Address: 12, Type: "int16", Words: 1, Scaled: true}
		if r != want {
			t.Fatalf("entry = %+v, want %+v", r, want)
		}
	}
	if !found {
		t.Fatalf("OutsideAirTemp missing from dump")
	}
}

func TestDumpRegistersNordic(t *testing.T) {
	var buf bytes.Buffer
	agg, err := flexit.NewAggregate(nil, 1, flexit.ModelEcoNordic)
	if err != nil {
		t.Fatal(err)
	}
	if err := dumpRegisters(&buf, agg); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("model: EcoNordic")) {
		t.Fatalf("dump:\n%s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("type: float32")) {
		t.Fatalf("dump:\n%s", buf.String())
	}
}
