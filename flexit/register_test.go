package flexit

import (
	"errors"
	"reflect"
	"testing"
)

func TestRegisterWordCount(t *testing.T) {
	if n := (Register{Bank: InputBank, Address: 1, Type: Float32}).WordCount(); n != 2 {
		t.Fatalf("float32 WordCount = %d, want 2", n)
	}
	if n := (Register{Bank: InputBank, Address: 1, Type: Int16}).WordCount(); n != 1 {
		t.Fatalf("int16 WordCount = %d, want 1", n)
	}
	if n := (Register{Bank: InputBank, Address: 1, Type: Bool16}).WordCount(); n != 1 {
		t.Fatalf("bool16 WordCount = %d, want 1", n)
	}
}

func TestScaled(t *testing.T) {
	r := Scaled(Register{Bank: HoldingBank, Address: 9, Type: Int16}, 10)

	if got := r.postRead(int16(212)); got != 21.2 {
		t.Fatalf("postRead(212) = %v, want 21.2", got)
	}
	if got := r.preWrite(21.5); got != int64(215) {
		t.Fatalf("preWrite(21.5) = %#v, want 215", got)
	}
	// truncates toward zero
	if got := r.preWrite(-5.25); got != int64(-52) {
		t.Fatalf("preWrite(-5.25) = %#v, want -52", got)
	}
}

func TestIdentityTransforms(t *testing.T) {
	r := Register{Bank: InputBank, Address: 15, Type: Int16}
	if got := r.postRead(int16(7)); got != int16(7) {
		t.Fatalf("postRead = %#v", got)
	}
	if got := r.preWrite(7); got != 7 {
		t.Fatalf("preWrite = %#v", got)
	}
}

func TestRegisterMapLookup(t *testing.T) {
	m := NewRegisterMap(map[string]Register{
		"B": {Bank: InputBank, Address: 2, Type: Int16},
		"A": {Bank: HoldingBank, Address: 1, Type: Float32},
	})

	r, err := m.Lookup("A")
	if err != nil {
		t.Fatalf("Lookup(A) err=%v", err)
	}
	if r.Address != 1 || r.Bank != HoldingBank {
		t.Fatalf("Lookup(A) = %+v", r)
	}

	_, err = m.Lookup("NotARegister")
	var ue *UnknownRegisterError
	if !errors.As(err, &ue) || ue.Name != "NotARegister" {
		t.Fatalf("Lookup err=%v, want *UnknownRegisterError", err)
	}

	if got := m.Names(); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Fatalf("Names() = %v", got)
	}
}

func TestRegisterMapIsolated(t *testing.T) {
	src := map[string]Register{"A": {Bank: InputBank, Address: 1, Type: Int16}}
	m := NewRegisterMap(src)
	src["B"] = Register{Bank: InputBank, Address: 2, Type: Int16}
	if m.Len() != 1 {
		t.Fatalf("map changed with its source: %v", m.Names())
	}

	a, b := ci66Registers(), ci66Registers()
	a.regs["Extra"] = Register{}
	if _, err := b.Lookup("Extra"); err == nil {
		t.Fatalf("register tables are shared between instances")
	}
}
