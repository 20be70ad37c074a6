package mbtransport

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/simonvetter/modbus"
	"go.uber.org/zap"
)

// modbusClient is the subset of *modbus.ModbusClient used here.
type modbusClient interface {
	Open() error
	Close() error
	SetUnitId(id uint8) error
	ReadRegisters(addr, quantity uint16, regType modbus.RegType) ([]uint16, error)
	WriteRegisters(addr uint16, values []uint16) error
}

// Client is a flexit.Transport over github.com/simonvetter/modbus. A read
// that fails without a Modbus exception response is retried once after
// reopening the connection. Writes are never retried.
type Client struct {
	mu         sync.Mutex
	mb         modbusClient
	log        *zap.Logger
	retryDelay time.Duration
}

// Open creates the client and opens the connection.
func Open(cfg Config, log *zap.Logger) (*Client, error) {
	p, err := parity(cfg.Parity)
	if err != nil {
		return nil, err
	}
	mb, err := modbus.NewClient(&modbus.ClientConfiguration{
		URL:      cfg.URL,
		Speed:    cfg.Speed,
		DataBits: cfg.DataBits,
		Parity:   simonvetterParity(p),
		StopBits: cfg.StopBits,
		Timeout:  cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create modbus client: %w", err)
	}
	if err := mb.Open(); err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.URL, err)
	}
	log.Info("modbus connection open", zap.String("url", cfg.URL), zap.String("driver", DriverSimonvetter))
	return newClient(mb, log), nil
}

func newClient(mb modbusClient, log *zap.Logger) *Client {
	return &Client{mb: mb, log: log, retryDelay: 500 * time.Millisecond}
}

func simonvetterParity(p string) uint {
	switch p {
	case "E":
		return modbus.PARITY_EVEN
	case "O":
		return modbus.PARITY_ODD
	}
	return modbus.PARITY_NONE
}

func (c *Client) ReadInputRegisters(unit uint8, address, count uint16) ([]uint16, error) {
	return c.read(unit, address, count, modbus.INPUT_REGISTER)
}

func (c *Client) ReadHoldingRegisters(unit uint8, address, count uint16) ([]uint16, error) {
	return c.read(unit, address, count, modbus.HOLDING_REGISTER)
}

func (c *Client) read(unit uint8, address, count uint16, regType modbus.RegType) ([]uint16, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.mb.SetUnitId(unit); err != nil {
		return nil, err
	}
	regs, err := c.mb.ReadRegisters(address, count, regType)
	if err == nil || isException(err) {
		return regs, err
	}

	c.log.Warn("modbus read failed, reopening connection",
		zap.Uint16("address", address),
		zap.Uint16("count", count),
		zap.Error(err))
	_ = c.mb.Close()
	time.Sleep(c.retryDelay)
	if err2 := c.mb.Open(); err2 != nil {
		return nil, fmt.Errorf("reopen after %v: %w", err, err2)
	}
	return c.mb.ReadRegisters(address, count, regType)
}

func (c *Client) WriteRegisters(unit uint8, address uint16, values []uint16) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.mb.SetUnitId(unit); err != nil {
		return err
	}
	return c.mb.WriteRegisters(address, values)
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mb.Close()
}

// isException reports whether the device answered with a Modbus exception.
func isException(err error) bool {
	for _, e := range []error{
		modbus.ErrIllegalFunction,
		modbus.ErrIllegalDataAddress,
		modbus.ErrIllegalDataValue,
		modbus.ErrServerDeviceFailure,
		modbus.ErrAcknowledge,
		modbus.ErrServerDeviceBusy,
		modbus.ErrMemoryParityError,
		modbus.ErrGWPathUnavailable,
		modbus.ErrGWTargetFailedToRespond,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
