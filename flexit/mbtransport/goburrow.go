package mbtransport

import (
	"fmt"
	"sync"

	"github.com/goburrow/modbus"
	"go.uber.org/zap"
)

// GoburrowClient is a flexit.Transport over github.com/goburrow/modbus.
type GoburrowClient struct {
	mu       sync.Mutex
	client   modbus.Client
	setSlave func(id byte)
	close    func() error
}

// OpenGoburrow connects an RTU or TCP handler for cfg.URL.
func OpenGoburrow(cfg Config, log *zap.Logger) (*GoburrowClient, error) {
	ep, err := parseEndpoint(cfg.URL)
	if err != nil {
		return nil, err
	}

	var c *GoburrowClient
	switch ep.scheme {
	case "rtu":
		p, err := parity(cfg.Parity)
		if err != nil {
			return nil, err
		}
		h := modbus.NewRTUClientHandler(ep.address)
		h.BaudRate = int(cfg.Speed)
		h.DataBits = int(cfg.DataBits)
		h.StopBits = int(cfg.StopBits)
		h.Parity = p
		if cfg.Timeout > 0 {
			h.Timeout = cfg.Timeout
		}
		if err := h.Connect(); err != nil {
			return nil, fmt.Errorf("open %s: %w", cfg.URL, err)
		}
		c = &GoburrowClient{
			client:   modbus.NewClient(h),
			setSlave: func(id byte) { h.SlaveId = id },
			close:    h.Close,
		}
	default:
		h := modbus.NewTCPClientHandler(ep.address)
		if cfg.Timeout > 0 {
			h.Timeout = cfg.Timeout
		}
		if err := h.Connect(); err != nil {
			return nil, fmt.Errorf("open %s: %w", cfg.URL, err)
		}
		c = &GoburrowClient{
			client:   modbus.NewClient(h),
			setSlave: func(id byte) { h.SlaveId = id },
			close:    h.Close,
		}
	}
	log.Info("modbus connection open", zap.String("url", cfg.URL), zap.String("driver", DriverGoburrow))
	return c, nil
}

func (c *GoburrowClient) ReadInputRegisters(unit uint8, address, count uint16) ([]uint16, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.setSlave(unit)
	b, err := c.client.ReadInputRegisters(address, count)
	if err != nil {
		return nil, err
	}
	return unpackRegisters(b, count)
}

func (c *GoburrowClient) ReadHoldingRegisters(unit uint8, address, count uint16) ([]uint16, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.setSlave(unit)
	b, err := c.client.ReadHoldingRegisters(address, count)
	if err != nil {
		return nil, err
	}
	return unpackRegisters(b, count)
}

func (c *GoburrowClient) WriteRegisters(unit uint8, address uint16, values []uint16) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.setSlave(unit)
	_, err := c.client.WriteMultipleRegisters(address, uint16(len(values)), packRegisters(values))
	return err
}

func (c *GoburrowClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.close()
}

func packRegisters(regs []uint16) []byte {
	b := make([]byte, 2*len(regs))
	for i, r := range regs {
		b[2*i] = byte(r >> 8)
		b[2*i+1] = byte(r)
	}
	return b
}

func unpackRegisters(b []byte, count uint16) ([]uint16, error) {
	if len(b) != 2*int(count) {
		return nil, fmt.Errorf("short response: %d bytes for %d registers", len(b), count)
	}
	regs := make([]uint16, count)
	for i := range regs {
		regs[i] = uint16(b[2*i])<<8 | uint16(b[2*i+1])
	}
	return regs, nil
}
