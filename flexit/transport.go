package flexit

// Transport is a connected Modbus client. Addresses are zero-based word
// offsets within the respective bank. Implementations own timeouts and
// retries; a returned error on read means the device gave no usable answer.
type Transport interface {
	ReadInputRegisters(unit uint8, address, count uint16) ([]uint16, error)
	ReadHoldingRegisters(unit uint8, address, count uint16) ([]uint16, error)
	WriteRegisters(unit uint8, address uint16, values []uint16) error
}
