// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sensor

// Magnitude is the physical quantity measured by a channel.
type Magnitude int

const (
	// None is returned for an invalid channel index.
	None Magnitude = iota
	// Temperature in degrees Celsius.
	Temperature
	// Humidity is relative humidity in percent.
	Humidity
)

func (m Magnitude) String() string {
	switch m {
	case Temperature:
		return "temperature"
	case Humidity:
		return "humidity"
	default:
		return "none"
	}
}

// Unit returns the fixed unit values of this magnitude are reported in.
func (m Magnitude) Unit() string {
	switch m {
	case Temperature:
		return "°C"
	case Humidity:
		return "%"
	default:
		return ""
	}
}
