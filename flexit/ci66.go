package flexit

import "errors"

// Register names shared by both models.
const (
	RegOutsideAirTemp         = "OutsideAirTemp"
	RegSupplyAirTemp          = "SupplyAirTemp"
	RegExtractAirTemp         = "ExtractAirTemp"
	RegHeatExchangerSpeed     = "HeatExchangerSpeed"
	RegElectricAirHeaterPower = "ElectricAirHeaterPower"
	RegSetVentMode            = "SetVentMode"
	RegFilterRunTime          = "FilterRunTime"
)

// CI66 only.
const (
	RegSetpointSupplyAirTemp = "SetpointSupplyAirTemp"
	RegHeatingEnabled        = "HeatingEnabled"
	RegReplaceFilterAlarm    = "ReplaceFilterAlarm"
)

// CI66 ventilation modes.
var CI66Modes = Modes{
	{Name: "Off", Code: 0},
	{Name: "Min", Code: 1},
	{Name: "Normal", Code: 2},
	{Name: "Max", Code: 3},
}

// Temperatures on the CI66 are tenths of a degree.
func ci66Registers() RegisterMap {
	return NewRegisterMap(map[string]Register{
		RegOutsideAirTemp:         Scaled(Register{Bank: InputBank, Address: 12, Type: Int16}, 10),
		RegSupplyAirTemp:          Scaled(Register{Bank: InputBank, Address: 10, Type: Int16}, 10),
		RegExtractAirTemp:         Scaled(Register{Bank: InputBank, Address: 11, Type: Int16}, 10),
		RegSetpointSupplyAirTemp:  Scaled(Register{Bank: HoldingBank, Address: 9, Type: Int16}, 10),
		RegHeatExchangerSpeed:     {Bank: InputBank, Address: 15, Type: Int16},
		RegElectricAirHeaterPower: {Bank: InputBank, Address: 16, Type: Int16},
		RegSetVentMode:            {Bank: HoldingBank, Address: 18, Type: Int16},
		RegFilterRunTime:          {Bank: InputBank, Address: 9, Type: Uint16},
		RegHeatingEnabled:         {Bank: InputBank, Address: 29, Type: Bool16},
		RegReplaceFilterAlarm:     {Bank: InputBank, Address: 28, Type: Bool16},
	})
}

// CI66 is the Flexit CI66 Modbus adapter found on older units.
type CI66 struct {
	*Device
}

var _ CommonDeviceAPI = (*CI66)(nil)

func NewCI66(t Transport, unit uint8, opts ...Option) *CI66 {
	return &CI66{Device: NewDevice(t, unit, ci66Registers(), opts...)}
}

func (c *CI66) Model() Model { return ModelCI66 }

func (c *CI66) OutsideAirTemp() (Reading, error) { return c.reading(RegOutsideAirTemp) }
func (c *CI66) SupplyAirTemp() (Reading, error) { return c.reading(RegSupplyAirTemp) }
func (c *CI66) ExtractAirTemp() (Reading, error) { return c.reading(RegExtractAirTemp) }

func (c *CI66) AirTempSetpoint() (Reading, error) { return c.reading(RegSetpointSupplyAirTemp) }

func (c *CI66) SetAirTempSetpoint(celsius float64) error {
	return c.Set(RegSetpointSupplyAirTemp, celsius)
}

// HeatExchangerSpeed is the heat recovery rate in percent.
func (c *CI66) HeatExchangerSpeed() (Reading, error) { return c.reading(RegHeatExchangerSpeed) }

// ElectricHeaterPower is the heater output in percent.
func (c *CI66) ElectricHeaterPower() (Reading, error) { return c.reading(RegElectricAirHeaterPower) }

// FilterRuntime is the number of hours since the last filter reset.
func (c *CI66) FilterRuntime() (Reading, error) { return c.reading(RegFilterRunTime) }

func (c *CI66) HeatingEnabled() (Flag, error) { return c.flag(RegHeatingEnabled) }
func (c *CI66) ReplaceFilterAlarm() (Flag, error) { return c.flag(RegReplaceFilterAlarm) }

func (c *CI66) VentModes() []string { return CI66Modes.Names() }

func (c *CI66) VentMode() (string, error) { return c.mode(RegSetVentMode, CI66Modes) }

func (c *CI66) SetVentMode(name string) error {
	return c.setMode(RegSetVentMode, CI66Modes, name)
}

// Operation summarizes what the unit is doing: "Heating", "Recovering",
// "Fan Only" or "Off". Unreadable registers count as idle.
func (c *CI66) Operation() (string, error) {
	heater, err := c.ElectricHeaterPower()
	if err != nil {
		return "", err
	}
	if heater.Valid && heater.Value > 0 {
		return "Heating", nil
	}
	recovery, err := c.HeatExchangerSpeed()
	if err != nil {
		return "", err
	}
	if recovery.Valid && recovery.Value > 0 {
		return "Recovering", nil
	}
	mode, err := c.VentMode()
	switch {
	case errors.Is(err, ErrNoData):
		return "Off", nil
	case err != nil:
		return "", err
	case mode != "Off":
		return "Fan Only", nil
	}
	return "Off", nil
}

func (c *CI66) CurrentTemperature() (Reading, error) { return c.SupplyAirTemp() }
func (c *CI66) SetTemperature(celsius float64) error { return c.SetAirTempSetpoint(celsius) }
func (c *CI66) FanModes() []string { return c.VentModes() }
func (c *CI66) FanMode() (string, error) { return c.VentMode() }
func (c *CI66) SetFanMode(name string) error { return c.SetVentMode(name) }
