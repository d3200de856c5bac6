// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sensor

import "errors"

var (
	// ErrAddressNotFound is returned when no candidate address acknowledged
	// during discovery.
	ErrAddressNotFound = errors.New("sensor: address not found")
	// ErrUnknownID is returned when a device answered with an identification
	// the driver doesn't support, or when the driver was never identified.
	ErrUnknownID = errors.New("sensor: unknown device id")
	// ErrOutOfRange is returned for a channel index past ChannelCount.
	ErrOutOfRange = errors.New("sensor: channel index out of range")
	// ErrBusRead is wrapped by every failed or short bus transfer.
	ErrBusRead = errors.New("sensor: bus read failure")
)

// Code is the numeric form of an error returned by a driver.
type Code int

const (
	Ok Code = iota
	AddressNotFound
	UnknownID
	OutOfRange
	BusRead
	// Other is any error outside the taxonomy above.
	Other
)

// CodeOf maps err to its Code. A nil error is Ok.
func CodeOf(err error) Code {
	switch {
	case err == nil:
		return Ok
	case errors.Is(err, ErrAddressNotFound):
		return AddressNotFound
	case errors.Is(err, ErrUnknownID):
		return UnknownID
	case errors.Is(err, ErrOutOfRange):
		return OutOfRange
	case errors.Is(err, ErrBusRead):
		return BusRead
	default:
		return Other
	}
}

func (c Code) String() string {
	switch c {
	case Ok:
		return "ok"
	case AddressNotFound:
		return "address not found"
	case UnknownID:
		return "unknown id"
	case OutOfRange:
		return "out of range"
	case BusRead:
		return "bus read"
	default:
		return "other"
	}
}
