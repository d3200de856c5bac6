// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sensor

import "time"

// Sensor is a driver exposing a fixed number of measurement channels.
//
// Setup and Acquire perform unguarded bus transactions and must be called
// serially. The accessors never touch the bus.
type Sensor interface {
	// Setup discovers and identifies the device. It must tolerate repeated
	// calls and only does work until the device is identified.
	Setup() error
	// Acquire refreshes the cached channel values. On failure the previous
	// values are kept.
	Acquire() error
	// ChannelCount is the number of valid channel indexes. It is 0 until the
	// device is identified.
	ChannelCount() int
	ChannelType(index int) (Magnitude, error)
	ChannelValue(index int) (float64, error)
	ChannelLabel(index int) string
	Description() string
	// Err returns the outcome of the last call, nil meaning success.
	Err() error
}

// Clock provides the conversion wait used between a measurement command and
// reading back its result.
type Clock interface {
	// Sleep blocks the calling goroutine for at least d.
	Sleep(d time.Duration)
}

// SystemClock is the Clock backed by the runtime timer.
type SystemClock struct{}

// Sleep implements Clock. It keeps sleeping until d has elapsed even if the
// runtime wakes it early.
func (SystemClock) Sleep(d time.Duration) {
	end := time.Now().Add(d)
	for {
		left := time.Until(end)
		if left <= 0 {
			return
		}
		time.Sleep(left)
	}
}
