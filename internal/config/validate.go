package config

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/danielkucera/goflexit/flexit/mbtransport"
)

// Validate checks configuration correctness. It does not mutate the
// configuration.
func (c *Config) Validate() error {
	m := c.Modbus
	switch m.Driver {
	case mbtransport.DriverSimonvetter, mbtransport.DriverGoburrow:
	default:
		return fmt.Errorf("modbus.driver %q must be %q or %q", m.Driver, mbtransport.DriverSimonvetter, mbtransport.DriverGoburrow)
	}
	if !strings.HasPrefix(m.URL, "rtu://") && !strings.HasPrefix(m.URL, "tcp://") {
		return fmt.Errorf("modbus.url %q must start with rtu:// or tcp://", m.URL)
	}
	if strings.HasPrefix(m.URL, "rtu://") {
		if m.Speed == 0 {
			return fmt.Errorf("modbus.speed must be greater than 0")
		}
		if m.DataBits != 7 && m.DataBits != 8 {
			return fmt.Errorf("modbus.data_bits %d must be 7 or 8", m.DataBits)
		}
		if m.StopBits != 1 && m.StopBits != 2 {
			return fmt.Errorf("modbus.stop_bits %d must be 1 or 2", m.StopBits)
		}
		switch strings.ToLower(m.Parity) {
		case "n", "none", "e", "even", "o", "odd":
		default:
			return fmt.Errorf("modbus.parity %q must be none, even or odd", m.Parity)
		}
	}
	if m.Timeout <= 0 {
		return fmt.Errorf("modbus.timeout must be positive")
	}

	f := c.Flexit
	if f.UnitID < 1 || f.UnitID > 247 {
		return fmt.Errorf("flexit.unit_id %d must be between 1 and 247", f.UnitID)
	}
	if _, err := f.ParsedModel(); err != nil {
		return fmt.Errorf("flexit.model: %w", err)
	}
	if f.PollInterval < time.Second {
		return fmt.Errorf("flexit.poll_interval %v must be at least 1s", f.PollInterval)
	}

	if c.HTTP.Listen == "" {
		return fmt.Errorf("http.listen is required")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}
