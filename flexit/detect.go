package flexit

import (
	"strings"
)

// Model identifies a Flexit product family.
type Model string

const (
	ModelAuto      Model = ""
	ModelCI66      Model = "CI66"
	ModelNordic    Model = "Nordic"
	ModelEcoNordic Model = "EcoNordic"
)

// Identification block of the CS2000 controller. The text looks like
// "MDL:ASN= POS3.6715/414;HW=48.46.50;"; the digit after the slash is 4
// on Nordic and 5 on EcoNordic units.
const (
	identAddress = 9070
	identWords   = 20
	identOffset  = 19
)

// ParseModel maps a configuration value to a Model. "auto" and the empty
// string select autodetection.
func ParseModel(s string) (Model, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ModelAuto, nil
	case "ci66":
		return ModelCI66, nil
	case "nordic":
		return ModelNordic, nil
	case "econordic":
		return ModelEcoNordic, nil
	}
	return "", &UnknownModelError{Model: s}
}

// DetectModel reads the identification block of the unit. CI66 adapters
// do not have one, so a failed read means CI66.
func DetectModel(t Transport, unit uint8) (Model, error) {
	words, err := t.ReadHoldingRegisters(unit, identAddress, identWords)
	if err != nil {
		return ModelCI66, nil
	}
	ident := wordsToBytes(words)
	if len(ident) <= identOffset {
		return "", &UnknownModelStringError{Ident: string(ident)}
	}
	switch ident[identOffset] {
	case '4':
		return ModelNordic, nil
	case '5':
		return ModelEcoNordic, nil
	}
	return "", &UnknownModelStringError{Ident: strings.TrimRight(string(ident), "\x00 ")}
}

// NewAggregate returns the accessor for the given model, detecting it
// first when model is ModelAuto.
func NewAggregate(t Transport, unit uint8, model Model, opts ...Option) (CommonDeviceAPI, error) {
	if model == ModelAuto {
		var err error
		model, err = DetectModel(t, unit)
		if err != nil {
			return nil, err
		}
	}

	switch model {
	case ModelCI66:
		return NewCI66(t, unit, opts...), nil
	case ModelNordic, ModelEcoNordic:
		n := NewNordic(t, unit, opts...)
		n.model = model
		return n, nil
	}
	return nil, &UnknownModelError{Model: string(model)}
}
