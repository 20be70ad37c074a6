package flexit

import "fmt"

// Nordic only.
const (
	RegExhaustAirTemp            = "ExhaustAirTemp"
	RegSetpointAwaySupplyAirTemp = "SetpointAwaySupplyAirTemp"
	RegSetpointHomeSupplyAirTemp = "SetpointHomeSupplyAirTemp"
	RegVentMode                  = "VentMode"
	RegExhaustFanSpeed           = "ExhaustFanSpeed"
	RegSupplyFanSpeed            = "SupplyFanSpeed"
	RegFilterRemainingTime       = "FilterRemainingTime"
	RegRoomHumidity1             = "RoomHumidity1"
	RegRoomHumidity2             = "RoomHumidity2"
	RegRoomHumidity3             = "RoomHumidity3"
	RegRoomAirQuality            = "RoomAirQuality"
)

// Nordic ventilation modes.
var NordicModes = Modes{
	{Name: "Off", Code: 1},
	{Name: "Away", Code: 2},
	{Name: "Home", Code: 3},
	{Name: "High", Code: 4},
}

func nordicRegisters() RegisterMap {
	f := func(bank Bank, addr uint16) Register {
		return Register{Bank: bank, Address: addr, Type: Float32}
	}
	return NewRegisterMap(map[string]Register{
		RegOutsideAirTemp:            f(InputBank, 1),
		RegSupplyAirTemp:             f(InputBank, 5),
		RegExtractAirTemp:            f(InputBank, 9),
		RegExhaustAirTemp:            f(InputBank, 13),
		RegSetpointAwaySupplyAirTemp: f(HoldingBank, 1163),
		RegSetpointHomeSupplyAirTemp: f(HoldingBank, 1155),
		RegHeatExchangerSpeed:        f(HoldingBank, 1),
		RegElectricAirHeaterPower:    f(HoldingBank, 13),
		RegVentMode:                  {Bank: InputBank, Address: 3034, Type: Uint16},
		RegSetVentMode:               {Bank: HoldingBank, Address: 2013, Type: Uint16},
		RegExhaustFanSpeed:           f(HoldingBank, 9),
		RegSupplyFanSpeed:            f(HoldingBank, 5),
		RegFilterRunTime:             f(HoldingBank, 1271),
		RegFilterRemainingTime:       f(HoldingBank, 1269),
		RegRoomHumidity1:             f(InputBank, 1001),
		RegRoomHumidity2:             f(InputBank, 1003),
		RegRoomHumidity3:             f(InputBank, 1005),
		RegRoomAirQuality:            f(InputBank, 1007),
	})
}

// Nordic covers the Nordic and EcoNordic series (S2, S3, S4, CL2, CL3,
// CL4, KS3, KS4) with the CS2000 controller.
type Nordic struct {
	*Device
	model Model
}

var _ CommonDeviceAPI = (*Nordic)(nil)

func NewNordic(t Transport, unit uint8, opts ...Option) *Nordic {
	return &Nordic{Device: NewDevice(t, unit, nordicRegisters(), opts...), model: ModelNordic}
}

func (n *Nordic) Model() Model { return n.model }

func (n *Nordic) OutsideAirTemp() (Reading, error) { return n.reading(RegOutsideAirTemp) }
func (n *Nordic) SupplyAirTemp() (Reading, error) { return n.reading(RegSupplyAirTemp) }
func (n *Nordic) ExtractAirTemp() (Reading, error) { return n.reading(RegExtractAirTemp) }
func (n *Nordic) ExhaustAirTemp() (Reading, error) { return n.reading(RegExhaustAirTemp) }

// AirTempSetpoint returns the away setpoint while the unit is in Away mode
// and the home setpoint otherwise. The mode and the setpoint are two
// separate reads; a mode change in between is not detected.
func (n *Nordic) AirTempSetpoint() (Reading, error) {
	reg, err := n.setpointRegister()
	if err != nil {
		return Reading{}, err
	}
	return n.reading(reg)
}

// SetAirTempSetpoint writes the setpoint belonging to the current mode,
// with the same two-step caveat as AirTempSetpoint.
func (n *Nordic) SetAirTempSetpoint(celsius float64) error {
	reg, err := n.setpointRegister()
	if err != nil {
		return err
	}
	return n.Set(reg, celsius)
}

func (n *Nordic) setpointRegister() (string, error) {
	mode, err := n.VentMode()
	if err != nil {
		return "", err
	}
	if mode == "Away" {
		return RegSetpointAwaySupplyAirTemp, nil
	}
	return RegSetpointHomeSupplyAirTemp, nil
}

func (n *Nordic) HomeTempSetpoint() (Reading, error) { return n.reading(RegSetpointHomeSupplyAirTemp) }

func (n *Nordic) SetHomeTempSetpoint(celsius float64) error {
	return n.Set(RegSetpointHomeSupplyAirTemp, celsius)
}

func (n *Nordic) AwayTempSetpoint() (Reading, error) { return n.reading(RegSetpointAwaySupplyAirTemp) }

func (n *Nordic) SetAwayTempSetpoint(celsius float64) error {
	return n.Set(RegSetpointAwaySupplyAirTemp, celsius)
}

// HeatExchangerSpeed is the heat recovery rate in percent.
func (n *Nordic) HeatExchangerSpeed() (Reading, error) { return n.reading(RegHeatExchangerSpeed) }

// ElectricHeaterPower is the heater output in percent. The controller
// leaves the register unanswered when no heater is fitted, which reads
// as 0.
func (n *Nordic) ElectricHeaterPower() (Reading, error) {
	r, err := n.reading(RegElectricAirHeaterPower)
	if err != nil {
		return Reading{}, err
	}
	if !r.Valid {
		return Reading{Value: 0, Valid: true}, nil
	}
	return r, nil
}

func (n *Nordic) ExhaustFanSpeed() (Reading, error) { return n.reading(RegExhaustFanSpeed) }
func (n *Nordic) SupplyFanSpeed() (Reading, error) { return n.reading(RegSupplyFanSpeed) }

// FilterRuntime is the number of hours since the last filter reset.
func (n *Nordic) FilterRuntime() (Reading, error) { return n.reading(RegFilterRunTime) }

// FilterRemainingTime is the number of hours until the filter is due.
func (n *Nordic) FilterRemainingTime() (Reading, error) { return n.reading(RegFilterRemainingTime) }

// RoomHumidity returns relative humidity in percent from room sensor 1, 2
// or 3.
func (n *Nordic) RoomHumidity(sensor int) (Reading, error) {
	switch sensor {
	case 1:
		return n.reading(RegRoomHumidity1)
	case 2:
		return n.reading(RegRoomHumidity2)
	case 3:
		return n.reading(RegRoomHumidity3)
	}
	return Reading{}, &UnknownRegisterError{Name: fmt.Sprintf("RoomHumidity%d", sensor)}
}

// RoomAirQuality is the room CO2 or VOC level in ppm.
func (n *Nordic) RoomAirQuality() (Reading, error) { return n.reading(RegRoomAirQuality) }

// Efficiency is the heat exchanger temperature efficiency,
// (extract - exhaust) / (extract - outside). It is not guarded against
// extract and outside being equal.
func (n *Nordic) Efficiency() (Reading, error) {
	extract, err := n.ExtractAirTemp()
	if err != nil {
		return Reading{}, err
	}
	exhaust, err := n.ExhaustAirTemp()
	if err != nil {
		return Reading{}, err
	}
	outside, err := n.OutsideAirTemp()
	if err != nil {
		return Reading{}, err
	}
	if !extract.Valid || !exhaust.Valid || !outside.Valid {
		return Reading{}, nil
	}
	return Reading{
		Value: (extract.Value - exhaust.Value) / (extract.Value - outside.Value),
		Valid: true,
	}, nil
}

func (n *Nordic) VentModes() []string { return NordicModes.Names() }

func (n *Nordic) VentMode() (string, error) { return n.mode(RegSetVentMode, NordicModes) }

func (n *Nordic) SetVentMode(name string) error {
	return n.setMode(RegSetVentMode, NordicModes, name)
}

func (n *Nordic) CurrentTemperature() (Reading, error) { return n.SupplyAirTemp() }
func (n *Nordic) SetTemperature(celsius float64) error { return n.SetAirTempSetpoint(celsius) }
func (n *Nordic) FanModes() []string { return n.VentModes() }
func (n *Nordic) FanMode() (string, error) { return n.VentMode() }
func (n *Nordic) SetFanMode(name string) error { return n.SetVentMode(name) }
