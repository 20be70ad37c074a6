package flexit

import "strconv"

// Reading is a numeric quantity read from the device. Valid is false when
// the device did not answer the read.
type Reading struct {
	Value float64
	Valid bool
}

func (r Reading) String() string {
	if !r.Valid {
		return "no data"
	}
	return strconv.FormatFloat(r.Value, 'f', -1, 64)
}

// Flag is a boolean quantity read from the device.
type Flag struct {
	Value bool
	Valid bool
}

func (f Flag) String() string {
	if !f.Valid {
		return "no data"
	}
	return strconv.FormatBool(f.Value)
}

// Mode is a named ventilation mode code.
type Mode struct {
	Name string
	Code int64
}

// Modes is an ordered ventilation mode enumeration.
type Modes []Mode

func (m Modes) Names() []string {
	names := make([]string, len(m))
	for i, mode := range m {
		names[i] = mode.Name
	}
	return names
}

func (m Modes) Code(name string) (int64, bool) {
	for _, mode := range m {
		if mode.Name == name {
			return mode.Code, true
		}
	}
	return 0, false
}

func (m Modes) Name(code int64) (string, bool) {
	for _, mode := range m {
		if mode.Code == code {
			return mode.Name, true
		}
	}
	return "", false
}

// CommonDeviceAPI is implemented by every Flexit model.
type CommonDeviceAPI interface {
	Model() Model
	Unit() uint8

	OutsideAirTemp() (Reading, error)
	SupplyAirTemp() (Reading, error)
	ExtractAirTemp() (Reading, error)

	AirTempSetpoint() (Reading, error)
	SetAirTempSetpoint(celsius float64) error

	HeatExchangerSpeed() (Reading, error)
	ElectricHeaterPower() (Reading, error)
	FilterRuntime() (Reading, error)

	VentModes() []string
	VentMode() (string, error)
	SetVentMode(name string) error

	// Climate entity surface used by home automation hosts.
	CurrentTemperature() (Reading, error)
	SetTemperature(celsius float64) error
	FanModes() []string
	FanMode() (string, error)
	SetFanMode(name string) error

	// Raw access by register name.
	Get(name string) (any, error)
	Set(name string, v any) error
	Register(name string) (Register, error)
	Registers() []string

	Update() bool
}
