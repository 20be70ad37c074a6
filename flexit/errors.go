package flexit

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoData is returned by derived quantities whose input register could
// not be read.
var ErrNoData = errors.New("flexit: no data")

type UnknownRegisterError struct {
	Name string
}

func (e *UnknownRegisterError) Error() string {
	return fmt.Sprintf("flexit: unknown register: %s", e.Name)
}

// ReadOnlyRegisterError is returned when writing a register that lives in
// the input bank.
type ReadOnlyRegisterError struct {
	Name string
}

func (e *ReadOnlyRegisterError) Error() string {
	return fmt.Sprintf("flexit: register %s is read-only", e.Name)
}

type DecodeError struct {
	Type  WireType
	Words int
}

func (e *DecodeError) Error() string {
	if e.Type.WordCount() == 0 {
		return fmt.Sprintf("flexit: cannot decode unknown wire type %v", e.Type)
	}
	return fmt.Sprintf("flexit: %v needs %d words, got %d", e.Type, e.Type.WordCount(), e.Words)
}

type EncodeError struct {
	Type  WireType
	Value any
}

func (e *EncodeError) Error() string {
	if e.Type.WordCount() == 0 {
		return fmt.Sprintf("flexit: cannot encode unknown wire type %v", e.Type)
	}
	return fmt.Sprintf("flexit: cannot encode %T as %v", e.Value, e.Type)
}

type InvalidModeNameError struct {
	Name  string
	Valid []string
}

func (e *InvalidModeNameError) Error() string {
	return fmt.Sprintf("flexit: invalid ventilation mode %q (valid: %s)", e.Name, strings.Join(e.Valid, ", "))
}

// UnknownModeCodeError is returned when the device reports a ventilation
// mode code outside the model's enumeration.
type UnknownModeCodeError struct {
	Code int64
}

func (e *UnknownModeCodeError) Error() string {
	return fmt.Sprintf("flexit: unknown ventilation mode code %d", e.Code)
}

type UnknownModelStringError struct {
	Ident string
}

func (e *UnknownModelStringError) Error() string {
	return fmt.Sprintf("flexit: unknown model string: %q", e.Ident)
}

type UnknownModelError struct {
	Model string
}

func (e *UnknownModelError) Error() string {
	return fmt.Sprintf("flexit: unknown model: %s", e.Model)
}
