package flexit

import (
	"fmt"
	"sort"
)

// WireType is the binary layout of a register value on the wire.
type WireType int

const (
	Int16 WireType = iota
	Uint16
	Bool16
	Float32
)

func (t WireType) String() string {
	switch t {
	case Int16:
		return "int16"
	case Uint16:
		return "uint16"
	case Bool16:
		return "bool16"
	case Float32:
		return "float32"
	}
	return fmt.Sprintf("WireType(%d)", int(t))
}

// WordCount returns the number of 16-bit registers a value of this type
// occupies, or 0 for an unknown type.
func (t WireType) WordCount() int {
	switch t {
	case Int16, Uint16, Bool16:
		return 1
	case Float32:
		return 2
	}
	return 0
}

// Bank selects the Modbus register table a register lives in.
type Bank int

const (
	InputBank Bank = iota
	HoldingBank
)

func (b Bank) String() string {
	switch b {
	case InputBank:
		return "input"
	case HoldingBank:
		return "holding"
	}
	return fmt.Sprintf("Bank(%d)", int(b))
}

// Transform converts a value on its way from or to the codec.
type Transform func(v any) any

// Register describes where a logical quantity lives and how it is encoded.
type Register struct {
	Bank    Bank
	Address uint16
	Type    WireType

	// PostRead is applied to decoded values, PreWrite to values before
	// encoding. Nil means identity.
	PostRead Transform
	PreWrite Transform
}

func (r Register) WordCount() int { return r.Type.WordCount() }

func (r Register) postRead(v any) any {
	if r.PostRead == nil {
		return v
	}
	return r.PostRead(v)
}

func (r Register) preWrite(v any) any {
	if r.PreWrite == nil {
		return v
	}
	return r.PreWrite(v)
}

// Scaled returns r with fixed-point transforms: reads are divided by
// factor, writes are multiplied by factor and truncated to an integer.
func Scaled(r Register, factor float64) Register {
	r.PostRead = func(v any) any {
		f, ok := toFloat64(v)
		if !ok {
			return v
		}
		return f / factor
	}
	r.PreWrite = func(v any) any {
		f, ok := toFloat64(v)
		if !ok {
			return v
		}
		return int64(f * factor)
	}
	return r
}

// RegisterMap is an immutable name to register table.
type RegisterMap struct {
	regs map[string]Register
}

// NewRegisterMap copies regs into a new map.
func NewRegisterMap(regs map[string]Register) RegisterMap {
	m := make(map[string]Register, len(regs))
	for name, r := range regs {
		m[name] = r
	}
	return RegisterMap{regs: m}
}

func (m RegisterMap) Lookup(name string) (Register, error) {
	r, ok := m.regs[name]
	if !ok {
		return Register{}, &UnknownRegisterError{Name: name}
	}
	return r, nil
}

// Names returns the register names in sorted order.
func (m RegisterMap) Names() []string {
	names := make([]string, 0, len(m.regs))
	for name := range m.regs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m RegisterMap) Len() int { return len(m.regs) }
