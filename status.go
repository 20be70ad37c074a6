package main

import (
	"errors"
	"fmt"
	"math"

	"github.com/danielkucera/goflexit/flexit"
)

// Status is one snapshot of the aggregate. A nil value means the unit did
// not answer for that quantity.
type Status struct {
	Model string `json:"model"`
	Unit  uint8  `json:"unit"`

	OutsideAirTemp      *float64 `json:"outside_air_temp"`
	SupplyAirTemp       *float64 `json:"supply_air_temp"`
	ExtractAirTemp      *float64 `json:"extract_air_temp"`
	AirTempSetpoint     *float64 `json:"air_temp_setpoint"`
	HeatExchangerSpeed  *float64 `json:"heat_exchanger_speed"`
	ElectricHeaterPower *float64 `json:"electric_heater_power"`
	FilterRuntime       *float64 `json:"filter_runtime"`
	VentMode            string   `json:"vent_mode,omitempty"`

	// CI66
	HeatingEnabled     *bool  `json:"heating_enabled,omitempty"`
	ReplaceFilterAlarm *bool  `json:"replace_filter_alarm,omitempty"`
	Operation          string `json:"operation,omitempty"`

	// Nordic
	ExhaustAirTemp      *float64   `json:"exhaust_air_temp,omitempty"`
	HomeTempSetpoint    *float64   `json:"home_temp_setpoint,omitempty"`
	AwayTempSetpoint    *float64   `json:"away_temp_setpoint,omitempty"`
	ExhaustFanSpeed     *float64   `json:"exhaust_fan_speed,omitempty"`
	SupplyFanSpeed      *float64   `json:"supply_fan_speed,omitempty"`
	FilterRemainingTime *float64   `json:"filter_remaining_time,omitempty"`
	RoomHumidity        []*float64 `json:"room_humidity,omitempty"`
	RoomAirQuality      *float64   `json:"room_air_quality,omitempty"`
	Efficiency          *float64   `json:"efficiency,omitempty"`

	// Missing lists quantities without data, NonFinite those whose value is
	// NaN or infinite (reported as null), Errors the reads that failed
	// outright.
	Missing   []string `json:"missing,omitempty"`
	NonFinite []string `json:"non_finite,omitempty"`
	Errors    []string `json:"errors,omitempty"`
}

type statusCollector struct {
	s *Status
}

func (c statusCollector) reading(name string, fn func() (flexit.Reading, error)) *float64 {
	r, err := fn()
	if err != nil {
		c.fail(name, err)
		return nil
	}
	if !r.Valid {
		c.s.Missing = append(c.s.Missing, name)
		return nil
	}
	// JSON has no representation for these
	if math.IsInf(r.Value, 0) || math.IsNaN(r.Value) {
		c.s.NonFinite = append(c.s.NonFinite, name)
		return nil
	}
	v := r.Value
	return &v
}

func (c statusCollector) flag(name string, fn func() (flexit.Flag, error)) *bool {
	f, err := fn()
	if err != nil {
		c.fail(name, err)
		return nil
	}
	if !f.Valid {
		c.s.Missing = append(c.s.Missing, name)
		return nil
	}
	v := f.Value
	return &v
}

func (c statusCollector) text(name string, fn func() (string, error)) string {
	s, err := fn()
	if err != nil {
		c.fail(name, err)
	}
	return s
}

func (c statusCollector) fail(name string, err error) {
	if errors.Is(err, flexit.ErrNoData) {
		c.s.Missing = append(c.s.Missing, name)
		return
	}
	c.s.Errors = append(c.s.Errors, name+": "+err.Error())
}

// collectStatus reads every named quantity of agg. Failures are recorded
// in the snapshot and do not stop the collection.
func collectStatus(agg flexit.CommonDeviceAPI) Status {
	s := Status{Model: string(agg.Model()), Unit: agg.Unit()}
	c := statusCollector{s: &s}

	s.OutsideAirTemp = c.reading("outside_air_temp", agg.OutsideAirTemp)
	s.SupplyAirTemp = c.reading("supply_air_temp", agg.SupplyAirTemp)
	s.ExtractAirTemp = c.reading("extract_air_temp", agg.ExtractAirTemp)
	s.AirTempSetpoint = c.reading("air_temp_setpoint", agg.AirTempSetpoint)
	s.HeatExchangerSpeed = c.reading("heat_exchanger_speed", agg.HeatExchangerSpeed)
	s.ElectricHeaterPower = c.reading("electric_heater_power", agg.ElectricHeaterPower)
	s.FilterRuntime = c.reading("filter_runtime", agg.FilterRuntime)
	s.VentMode = c.text("vent_mode", agg.VentMode)

	switch u := agg.(type) {
	case *flexit.CI66:
		s.HeatingEnabled = c.flag("heating_enabled", u.HeatingEnabled)
		s.ReplaceFilterAlarm = c.flag("replace_filter_alarm", u.ReplaceFilterAlarm)
		s.Operation = c.text("operation", u.Operation)
	case *flexit.Nordic:
		s.ExhaustAirTemp = c.reading("exhaust_air_temp", u.ExhaustAirTemp)
		s.HomeTempSetpoint = c.reading("home_temp_setpoint", u.HomeTempSetpoint)
		s.AwayTempSetpoint = c.reading("away_temp_setpoint", u.AwayTempSetpoint)
		s.ExhaustFanSpeed = c.reading("exhaust_fan_speed", u.ExhaustFanSpeed)
		s.SupplyFanSpeed = c.reading("supply_fan_speed", u.SupplyFanSpeed)
		s.FilterRemainingTime = c.reading("filter_remaining_time", u.FilterRemainingTime)
		for i := 1; i <= 3; i++ {
			sensor := i
			s.RoomHumidity = append(s.RoomHumidity, c.reading(fmt.Sprintf("room_humidity_%d", sensor), func() (flexit.Reading, error) {
				return u.RoomHumidity(sensor)
			}))
		}
		s.RoomAirQuality = c.reading("room_air_quality", u.RoomAirQuality)
		s.Efficiency = c.reading("efficiency", u.Efficiency)
	}
	return s
}
