package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/danielkucera/goflexit/flexit"
	"github.com/danielkucera/goflexit/flexit/mbtransport"
)

// EnvPrefix prefixes environment overrides, e.g. GOFLEXIT_MODBUS_URL.
const EnvPrefix = "GOFLEXIT"

type Config struct {
	Modbus ModbusConfig `mapstructure:"modbus"`
	Flexit FlexitConfig `mapstructure:"flexit"`
	HTTP   HTTPConfig   `mapstructure:"http"`
	Log    LogConfig    `mapstructure:"log"`
}

type ModbusConfig struct {
	Driver   string        `mapstructure:"driver"`
	URL      string        `mapstructure:"url"`
	Speed    uint          `mapstructure:"speed"`
	DataBits uint          `mapstructure:"data_bits"`
	Parity   string        `mapstructure:"parity"`
	StopBits uint          `mapstructure:"stop_bits"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type FlexitConfig struct {
	UnitID       uint          `mapstructure:"unit_id"`
	Model        string        `mapstructure:"model"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

type HTTPConfig struct {
	Listen string `mapstructure:"listen"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("modbus.driver", mbtransport.DriverSimonvetter)
	v.SetDefault("modbus.url", "rtu:///dev/ttyUSB0")
	v.SetDefault("modbus.speed", 9600)
	v.SetDefault("modbus.data_bits", 8)
	v.SetDefault("modbus.parity", "even")
	v.SetDefault("modbus.stop_bits", 1)
	v.SetDefault("modbus.timeout", "2s")

	v.SetDefault("flexit.unit_id", 1)
	v.SetDefault("flexit.model", "auto")
	v.SetDefault("flexit.poll_interval", "30s")

	v.SetDefault("http.listen", ":9090")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// Load reads the YAML file at path, if any, applies environment overrides
// and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Transport returns the link settings for mbtransport.Dial.
func (m ModbusConfig) Transport() mbtransport.Config {
	return mbtransport.Config{
		Driver:   m.Driver,
		URL:      m.URL,
		Speed:    m.Speed,
		DataBits: m.DataBits,
		Parity:   m.Parity,
		StopBits: m.StopBits,
		Timeout:  m.Timeout,
	}
}

// ParsedModel returns the configured model; flexit.ModelAuto selects
// detection.
func (f FlexitConfig) ParsedModel() (flexit.Model, error) {
	return flexit.ParseModel(f.Model)
}
