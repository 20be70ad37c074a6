package flexit

import (
	"fmt"

	"go.uber.org/zap"
)

// Option configures a Device.
type Option func(*Device)

// WithLogger sets the logger used for read failure warnings.
func WithLogger(l *zap.Logger) Option {
	return func(d *Device) {
		if l != nil {
			d.log = l
		}
	}
}

// Device reads and writes named registers of one Modbus unit. It keeps no
// value cache: every Get is a transport round trip. A Device is not safe
// for concurrent use.
type Device struct {
	transport Transport
	unit      uint8
	regs      RegisterMap
	log       *zap.Logger
}

func NewDevice(t Transport, unit uint8, regs RegisterMap, opts ...Option) *Device {
	d := &Device{
		transport: t,
		unit:      unit,
		regs:      regs,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Device) Unit() uint8 { return d.unit }

// Registers returns the names accepted by Get and Set.
func (d *Device) Registers() []string { return d.regs.Names() }

// Register returns the descriptor for name.
func (d *Device) Register(name string) (Register, error) { return d.regs.Lookup(name) }

// Get reads the named register. When the device answers with an error the
// failure is logged and Get returns a nil value and a nil error.
func (d *Device) Get(name string) (any, error) {
	r, err := d.regs.Lookup(name)
	if err != nil {
		return nil, err
	}

	count := uint16(r.WordCount())
	var words []uint16
	switch r.Bank {
	case InputBank:
		words, err = d.transport.ReadInputRegisters(d.unit, r.Address, count)
	default:
		words, err = d.transport.ReadHoldingRegisters(d.unit, r.Address, count)
	}
	if err != nil {
		d.log.Warn("register read failed",
			zap.String("register", name),
			zap.Stringer("bank", r.Bank),
			zap.Uint16("address", r.Address),
			zap.Uint8("unit", d.unit),
			zap.Error(err))
		return nil, nil
	}

	v, err := Decode(words, r.Type)
	if err != nil {
		return nil, err
	}
	return r.postRead(v), nil
}

// Set encodes v and writes it to the named holding register. Transport
// errors are returned unchanged.
func (d *Device) Set(name string, v any) error {
	r, err := d.regs.Lookup(name)
	if err != nil {
		return err
	}
	if r.Bank != HoldingBank {
		return &ReadOnlyRegisterError{Name: name}
	}

	words, err := Encode(r.preWrite(v), r.Type)
	if err != nil {
		return err
	}
	d.log.Debug("writing register",
		zap.String("register", name),
		zap.Uint16("address", r.Address),
		zap.Uint16s("words", words))
	return d.transport.WriteRegisters(d.unit, r.Address, words)
}

// Update exists for callers that expect a bulk refresh. There is nothing
// to refresh, so it always reports success.
func (d *Device) Update() bool { return true }

func (d *Device) reading(name string) (Reading, error) {
	v, err := d.Get(name)
	if err != nil || v == nil {
		return Reading{}, err
	}
	f, ok := toFloat64(v)
	if !ok {
		return Reading{}, fmt.Errorf("flexit: register %s holds %T, not a number", name, v)
	}
	return Reading{Value: f, Valid: true}, nil
}

func (d *Device) flag(name string) (Flag, error) {
	v, err := d.Get(name)
	if err != nil || v == nil {
		return Flag{}, err
	}
	if b, ok := v.(bool); ok {
		return Flag{Value: b, Valid: true}, nil
	}
	f, _ := toFloat64(v)
	return Flag{Value: f != 0, Valid: true}, nil
}

// mode reads a ventilation mode register and resolves it against modes.
func (d *Device) mode(name string, modes Modes) (string, error) {
	v, err := d.Get(name)
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", ErrNoData
	}
	code, ok := toInt64(v)
	if !ok {
		return "", &UnknownModeCodeError{}
	}
	s, ok := modes.Name(code)
	if !ok {
		return "", &UnknownModeCodeError{Code: code}
	}
	return s, nil
}

func (d *Device) setMode(name string, modes Modes, mode string) error {
	code, ok := modes.Code(mode)
	if !ok {
		return &InvalidModeNameError{Name: mode, Valid: modes.Names()}
	}
	return d.Set(name, code)
}
