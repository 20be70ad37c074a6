package main

import (
	"errors"
	"testing"

	"github.com/danielkucera/goflexit/flexit"
)

var errNoResponse = errors.New("modbus: request timed out")

type regKey struct {
	bank flexit.Bank
	addr uint16
}

// fakeTransport answers from a register map; anything not stored times
// out.
type fakeTransport struct {
	regs     map[regKey][]uint16
	writes   int
	writeErr error
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{regs: map[regKey][]uint16{}}
}

func (f *fakeTransport) read(bank flexit.Bank, address, count uint16) ([]uint16, error) {
	words, ok := f.regs[regKey{bank, address}]
	if !ok || len(words) != int(count) {
		return nil, errNoResponse
	}
	return append([]uint16(nil), words...), nil
}

func (f *fakeTransport) ReadInputRegisters(unit uint8, address, count uint16) ([]uint16, error) {
	return f.read(flexit.InputBank, address, count)
}

func (f *fakeTransport) ReadHoldingRegisters(unit uint8, address, count uint16) ([]uint16, error) {
	return f.read(flexit.HoldingBank, address, count)
}

func (f *fakeTransport) WriteRegisters(unit uint8, address uint16, values []uint16) error {
	f.writes++
	if f.writeErr != nil {
		return f.writeErr
	}
	f.regs[regKey{flexit.HoldingBank, address}] = append([]uint16(nil), values...)
	return nil
}

// set stores v in the named register as the unit would hold it.
func (f *fakeTransport) set(t *testing.T, agg flexit.CommonDeviceAPI, name string, v any) {
	t.Helper()
	reg, err := agg.Register(name)
	if err != nil {
		t.Fatal(err)
	}
	if reg.PreWrite != nil {
		v = reg.PreWrite(v)
	}
	words, err := flexit.Encode(v, reg.Type)
	if err != nil {
		t.Fatalf("encode %s: %v", name, err)
	}
	f.regs[regKey{reg.Bank, reg.Address}] = words
}

func (f *fakeTransport) word(bank flexit.Bank, addr uint16) (uint16, bool) {
	w, ok := f.regs[regKey{bank, addr}]
	if !ok || len(w) == 0 {
		return 0, false
	}
	return w[0], true
}
