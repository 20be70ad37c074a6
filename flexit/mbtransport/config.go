// Package mbtransport connects flexit to real Modbus RTU and TCP clients.
package mbtransport

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/danielkucera/goflexit/flexit"
)

const (
	DriverSimonvetter = "simonvetter"
	DriverGoburrow    = "goburrow"
)

// Config describes the Modbus link. URL is either "rtu:///dev/ttyUSB0" or
// "tcp://host:502"; the serial settings are ignored for TCP.
type Config struct {
	Driver   string
	URL      string
	Speed    uint
	DataBits uint
	Parity   string
	StopBits uint
	Timeout  time.Duration
}

// Transport is a flexit.Transport that owns a connection.
type Transport interface {
	flexit.Transport
	Close() error
}

// Dial opens a connection with the configured driver.
func Dial(cfg Config, log *zap.Logger) (Transport, error) {
	if log == nil {
		log = zap.NewNop()
	}
	switch cfg.Driver {
	case "", DriverSimonvetter:
		return Open(cfg, log)
	case DriverGoburrow:
		return OpenGoburrow(cfg, log)
	}
	return nil, fmt.Errorf("unknown modbus driver: %s", cfg.Driver)
}

// parity normalizes "none", "even", "odd" and their one-letter forms to
// "N", "E" or "O".
func parity(s string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "N", "NONE":
		return "N", nil
	case "E", "EVEN":
		return "E", nil
	case "O", "ODD":
		return "O", nil
	}
	return "", fmt.Errorf("invalid parity: %q", s)
}

type endpoint struct {
	scheme string
	// device path for rtu, host:port for tcp
	address string
}

func parseEndpoint(raw string) (endpoint, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return endpoint{}, fmt.Errorf("parse modbus url: %w", err)
	}
	switch u.Scheme {
	case "rtu":
		if u.Path == "" {
			return endpoint{}, fmt.Errorf("modbus url %q has no device path", raw)
		}
		return endpoint{scheme: "rtu", address: u.Path}, nil
	case "tcp":
		if u.Host == "" {
			return endpoint{}, fmt.Errorf("modbus url %q has no host", raw)
		}
		host := u.Host
		if u.Port() == "" {
			host += ":502"
		}
		return endpoint{scheme: "tcp", address: host}, nil
	}
	return endpoint{}, fmt.Errorf("unsupported modbus url scheme %q", u.Scheme)
}
