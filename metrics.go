package main

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Metrics holds the exporter's Prometheus collectors.
type Metrics struct {
	gauges    map[string]prometheus.Gauge
	gaugeVecs map[string]*prometheus.GaugeVec

	missing   prometheus.Counter
	nonFinite prometheus.Counter
	failures  prometheus.Counter
	log       *zap.Logger
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer, log *zap.Logger) *Metrics {
	m := &Metrics{
		gauges:    map[string]prometheus.Gauge{},
		gaugeVecs: map[string]*prometheus.GaugeVec{},
		log:       log,
	}

	m.addGauge("flexit_outside_air_temp_celsius", "Outside air temperature (°C)")
	m.addGauge("flexit_supply_air_temp_celsius", "Supply air temperature (°C)")
	m.addGauge("flexit_extract_air_temp_celsius", "Extract air temperature (°C)")
	m.addGauge("flexit_exhaust_air_temp_celsius", "Exhaust air temperature (°C)")
	m.addGauge("flexit_air_temp_setpoint_celsius", "Active supply air setpoint (°C)")
	m.addGauge("flexit_home_temp_setpoint_celsius", "Home mode supply air setpoint (°C)")
	m.addGauge("flexit_away_temp_setpoint_celsius", "Away mode supply air setpoint (°C)")

	m.addGauge("flexit_heat_exchanger_speed_percent", "Heat exchanger speed (%)")
	m.addGauge("flexit_electric_heater_power_percent", "Electric heater power (%)")
	m.addGauge("flexit_exhaust_fan_speed_percent", "Exhaust fan speed (%)")
	m.addGauge("flexit_supply_fan_speed_percent", "Supply fan speed (%)")
	m.addGauge("flexit_heat_exchanger_efficiency_ratio", "Heat exchanger temperature efficiency")

	m.addGauge("flexit_filter_runtime_hours", "Hours since the last filter change")
	m.addGauge("flexit_filter_remaining_hours", "Hours until the next filter change")
	m.addGauge("flexit_room_air_quality_ppm", "Room air quality (ppm)")

	m.addGauge("flexit_heating_enabled", "Electric heater enabled (1) or not (0)")
	m.addGauge("flexit_replace_filter_alarm", "Filter replacement alarm active (1) or not (0)")

	m.addGaugeVec("flexit_room_humidity_percent", "Room relative humidity (%)", "idx")
	m.addGaugeVec("flexit_vent_mode", "Current ventilation mode (1 for the active mode)", "mode")
	m.addGaugeVec("flexit_info", "Detected aggregate model", "model")

	m.missing = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "flexit_read_missing_total",
		Help: "Quantities the unit did not answer for",
	})
	m.nonFinite = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "flexit_read_non_finite_total",
		Help: "Quantities that read as NaN or infinity",
	})
	m.failures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "flexit_read_errors_total",
		Help: "Quantities whose read failed with an error",
	})

	for _, g := range m.gauges {
		reg.MustRegister(g)
	}
	for _, gv := range m.gaugeVecs {
		reg.MustRegister(gv)
	}
	reg.MustRegister(m.missing, m.nonFinite, m.failures)
	return m
}

func (m *Metrics) addGauge(name, help string) {
	m.gauges[name] = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: name,
		Help: help,
	})
}

func (m *Metrics) addGaugeVec(name, help, label string) {
	m.gaugeVecs[name] = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: name,
		Help: help,
	}, []string{label})
}

// Update sets the gauges from a snapshot. Quantities without data keep
// their previous value.
func (m *Metrics) Update(s Status, modes []string) {
	m.setGauge("flexit_outside_air_temp_celsius", s.OutsideAirTemp)
	m.setGauge("flexit_supply_air_temp_celsius", s.SupplyAirTemp)
	m.setGauge("flexit_extract_air_temp_celsius", s.ExtractAirTemp)
	m.setGauge("flexit_exhaust_air_temp_celsius", s.ExhaustAirTemp)
	m.setGauge("flexit_air_temp_setpoint_celsius", s.AirTempSetpoint)
	m.setGauge("flexit_home_temp_setpoint_celsius", s.HomeTempSetpoint)
	m.setGauge("flexit_away_temp_setpoint_celsius", s.AwayTempSetpoint)

	m.setGauge("flexit_heat_exchanger_speed_percent", s.HeatExchangerSpeed)
	m.setGauge("flexit_electric_heater_power_percent", s.ElectricHeaterPower)
	m.setGauge("flexit_exhaust_fan_speed_percent", s.ExhaustFanSpeed)
	m.setGauge("flexit_supply_fan_speed_percent", s.SupplyFanSpeed)
	m.setGauge("flexit_heat_exchanger_efficiency_ratio", s.Efficiency)

	m.setGauge("flexit_filter_runtime_hours", s.FilterRuntime)
	m.setGauge("flexit_filter_remaining_hours", s.FilterRemainingTime)
	m.setGauge("flexit_room_air_quality_ppm", s.RoomAirQuality)

	m.setFlag("flexit_heating_enabled", s.HeatingEnabled)
	m.setFlag("flexit_replace_filter_alarm", s.ReplaceFilterAlarm)

	for i, v := range s.RoomHumidity {
		if v != nil {
			m.gaugeVecs["flexit_room_humidity_percent"].WithLabelValues(strconv.Itoa(i + 1)).Set(*v)
		}
	}
	if s.VentMode != "" {
		for _, mode := range modes {
			active := 0.0
			if mode == s.VentMode {
				active = 1
			}
			m.gaugeVecs["flexit_vent_mode"].WithLabelValues(mode).Set(active)
		}
	}
	m.gaugeVecs["flexit_info"].WithLabelValues(s.Model).Set(1)

	m.missing.Add(float64(len(s.Missing)))
	m.nonFinite.Add(float64(len(s.NonFinite)))
	m.failures.Add(float64(len(s.Errors)))
}

func (m *Metrics) setGauge(name string, v *float64) {
	if v == nil {
		return
	}
	if g, ok := m.gauges[name]; ok {
		g.Set(*v)
	} else {
		m.log.Warn("metric not found", zap.String("metric", name))
	}
}

func (m *Metrics) setFlag(name string, v *bool) {
	if v == nil {
		return
	}
	f := 0.0
	if *v {
		f = 1
	}
	m.setGauge(name, &f)
}
