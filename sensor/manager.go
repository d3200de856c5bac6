// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sensor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Reading is one channel value produced by a poll.
type Reading struct {
	// Sensor is the Description of the driver that produced the value.
	Sensor    string
	Index     int
	Magnitude Magnitude
	Value     float64
	// Err is the outcome of the Acquire call. When it is not nil Value holds
	// the last good reading.
	Err error
}

// Manager polls a set of sensors serially.
type Manager struct {
	log *slog.Logger

	mu      sync.Mutex
	sensors []Sensor
}

// NewManager returns a Manager polling sensors. A nil logger uses
// slog.Default().
func NewManager(logger *slog.Logger, sensors ...Sensor) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{log: logger, sensors: sensors}
}

// Add registers another sensor.
func (m *Manager) Add(s Sensor) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sensors = append(m.sensors, s)
}

// Poll runs one polling cycle. Setup is called on every sensor, which is a
// no-op once it is identified, then Acquire on every sensor that exposes
// channels. Sensors without channels produce no readings.
func (m *Manager) Poll() []Reading {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Reading
	for _, s := range m.sensors {
		if err := s.Setup(); err != nil {
			m.log.Debug("setup failed", "code", CodeOf(err).String(), "error", err)
		}
		n := s.ChannelCount()
		if n == 0 {
			continue
		}
		acqErr := s.Acquire()
		if acqErr != nil {
			m.log.Warn("acquire failed", "sensor", s.Description(), "code", CodeOf(acqErr).String(), "error", acqErr)
		}
		for i := 0; i < n; i++ {
			r := Reading{Sensor: s.ChannelLabel(i), Index: i, Err: acqErr}
			var err error
			if r.Magnitude, err = s.ChannelType(i); err != nil {
				m.log.Error("channel type", "sensor", r.Sensor, "index", i, "error", err)
				continue
			}
			if r.Value, err = s.ChannelValue(i); err != nil {
				m.log.Error("channel value", "sensor", r.Sensor, "index", i, "error", err)
				continue
			}
			out = append(out, r)
		}
	}
	return out
}

// Run polls every interval, passing each cycle's readings to fn, until ctx is
// done. The first poll happens right away.
func (m *Manager) Run(ctx context.Context, interval time.Duration, fn func([]Reading)) error {
	if interval <= 0 {
		return errors.New("sensor: invalid poll interval")
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fn(m.Poll())
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}
