package flexit

import (
	"errors"
	"math"
	"testing"
)

var errIllegalAddress = errors.New("modbus: illegal data address")

type regKey struct {
	bank Bank
	addr uint16
}

type fakeWrite struct {
	addr   uint16
	values []uint16
}

// fakeTransport stores register words by bank and address. Reads of
// missing addresses, and input reads at address 0, fail.
type fakeTransport struct {
	regs     map[regKey][]uint16
	writes   []fakeWrite
	reads    int
	writeErr error
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{regs: map[regKey][]uint16{}}
}

func (f *fakeTransport) calls() int { return f.reads + len(f.writes) }

func (f *fakeTransport) read(bank Bank, address, count uint16) ([]uint16, error) {
	f.reads++
	if bank == InputBank && address == 0 {
		return nil, errIllegalAddress
	}
	words, ok := f.regs[regKey{bank, address}]
	if !ok || len(words) != int(count) {
		return nil, errIllegalAddress
	}
	return append([]uint16(nil), words...), nil
}

func (f *fakeTransport) ReadInputRegisters(unit uint8, address, count uint16) ([]uint16, error) {
	return f.read(InputBank, address, count)
}

func (f *fakeTransport) ReadHoldingRegisters(unit uint8, address, count uint16) ([]uint16, error) {
	return f.read(HoldingBank, address, count)
}

func (f *fakeTransport) WriteRegisters(unit uint8, address uint16, values []uint16) error {
	f.writes = append(f.writes, fakeWrite{addr: address, values: append([]uint16(nil), values...)})
	if f.writeErr != nil {
		return f.writeErr
	}
	f.regs[regKey{HoldingBank, address}] = append([]uint16(nil), values...)
	return nil
}

// inject stores v in the register the way the device would hold it.
func (f *fakeTransport) inject(t *testing.T, r Register, v any) {
	t.Helper()
	words, err := Encode(r.preWrite(v), r.Type)
	if err != nil {
		t.Fatalf("inject %v: %v", v, err)
	}
	f.regs[regKey{r.Bank, r.Address}] = words
}

type registerLookup interface {
	Register(name string) (Register, error)
}

func (f *fakeTransport) injectNamed(t *testing.T, d registerLookup, name string, v any) {
	t.Helper()
	r, err := d.Register(name)
	if err != nil {
		t.Fatalf("inject %s: %v", name, err)
	}
	f.inject(t, r, v)
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-5
}

func wantReading(t *testing.T, what string, got Reading, err error, want float64) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: err=%v", what, err)
	}
	if !got.Valid {
		t.Fatalf("%s: no data, want %v", what, want)
	}
	if !approx(got.Value, want) {
		t.Fatalf("%s = %v, want %v", what, got.Value, want)
	}
}
