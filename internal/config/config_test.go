package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danielkucera/goflexit/flexit"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() err=%v", err)
	}
	if cfg.Modbus.Driver != "simonvetter" || cfg.Modbus.URL != "rtu:///dev/ttyUSB0" {
		t.Fatalf("modbus = %+v", cfg.Modbus)
	}
	if cfg.Modbus.Timeout != 2*time.Second {
		t.Fatalf("timeout = %v", cfg.Modbus.Timeout)
	}
	if cfg.Flexit.UnitID != 1 || cfg.Flexit.Model != "auto" || cfg.Flexit.PollInterval != 30*time.Second {
		t.Fatalf("flexit = %+v", cfg.Flexit)
	}
	if cfg.HTTP.Listen != ":9090" {
		t.Fatalf("listen = %q", cfg.HTTP.Listen)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goflexit.yaml")
	yaml := `
modbus:
  driver: goburrow
  url: rtu:///dev/ttyAMA0
  speed: 56000
  parity: E
flexit:
  unit_id: 21
  model: CI66
  poll_interval: 10s
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() err=%v", err)
	}
	if cfg.Modbus.Driver != "goburrow" || cfg.Modbus.Speed != 56000 || cfg.Modbus.Parity != "E" {
		t.Fatalf("modbus = %+v", cfg.Modbus)
	}
	// unset keys keep their defaults
	if cfg.Modbus.DataBits != 8 || cfg.Modbus.StopBits != 1 {
		t.Fatalf("modbus = %+v", cfg.Modbus)
	}
	if cfg.Flexit.UnitID != 21 || cfg.Flexit.Model != "CI66" || cfg.Flexit.PollInterval != 10*time.Second {
		t.Fatalf("flexit = %+v", cfg.Flexit)
	}

	tc := cfg.Modbus.Transport()
	if tc.URL != "rtu:///dev/ttyAMA0" || tc.Speed != 56000 || tc.Timeout != 2*time.Second {
		t.Fatalf("Transport() = %+v", tc)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("GOFLEXIT_MODBUS_URL", "tcp://10.0.0.5:502")
	t.Setenv("GOFLEXIT_FLEXIT_UNIT_ID", "3")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() err=%v", err)
	}
	if cfg.Modbus.URL != "tcp://10.0.0.5:502" || cfg.Flexit.UnitID != 3 {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("Load() of a missing file succeeded")
	}
}

func validConfig() Config {
	return Config{
		Modbus: ModbusConfig{
			Driver:   "simonvetter",
			URL:      "rtu:///dev/ttyUSB0",
			Speed:    9600,
			DataBits: 8,
			Parity:   "even",
			StopBits: 1,
			Timeout:  time.Second,
		},
		Flexit: FlexitConfig{UnitID: 1, Model: "auto", PollInterval: 30 * time.Second},
		HTTP:   HTTPConfig{Listen: ":9090"},
		Log:    LogConfig{Level: "info"},
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"tcp ignores serial settings", func(c *Config) { c.Modbus.URL = "tcp://flexit:502"; c.Modbus.Speed = 0 }, ""},
		{"driver", func(c *Config) { c.Modbus.Driver = "pymodbus" }, "modbus.driver"},
		{"url scheme", func(c *Config) { c.Modbus.URL = "/dev/ttyUSB0" }, "modbus.url"},
		{"speed", func(c *Config) { c.Modbus.Speed = 0 }, "modbus.speed"},
		{"data bits", func(c *Config) { c.Modbus.DataBits = 9 }, "modbus.data_bits"},
		{"stop bits", func(c *Config) { c.Modbus.StopBits = 3 }, "modbus.stop_bits"},
		{"parity", func(c *Config) { c.Modbus.Parity = "mark" }, "modbus.parity"},
		{"timeout", func(c *Config) { c.Modbus.Timeout = 0 }, "modbus.timeout"},
		{"unit id zero", func(c *Config) { c.Flexit.UnitID = 0 }, "flexit.unit_id"},
		{"unit id too large", func(c *Config) { c.Flexit.UnitID = 300 }, "flexit.unit_id"},
		{"model", func(c *Config) { c.Flexit.Model = "S4" }, "flexit.model"},
		{"poll interval", func(c *Config) { c.Flexit.PollInterval = 100 * time.Millisecond }, "flexit.poll_interval"},
		{"listen", func(c *Config) { c.HTTP.Listen = "" }, "http.listen"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() err=%v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("Validate() err=%v, want mention of %s", err, tc.wantErr)
			}
		})
	}
}

func TestParsedModel(t *testing.T) {
	cases := []struct {
		in      string
		want    flexit.Model
		wantErr bool
	}{
		{"auto", flexit.ModelAuto, false},
		{"", flexit.ModelAuto, false},
		{"ci66", flexit.ModelCI66, false},
		{"EcoNordic", flexit.ModelEcoNordic, false},
		{"S4", "", true},
	}
	for _, tc := range cases {
		got, err := FlexitConfig{Model: tc.in}.ParsedModel()
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Errorf("ParsedModel(%q) = %q, %v", tc.in, got, err)
		}
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if m, err := cfg.Flexit.ParsedModel(); err != nil || m != flexit.ModelAuto {
		t.Fatalf("default model = %q, %v", m, err)
	}
}
