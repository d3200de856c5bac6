// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package si7021

import (
	"errors"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
)

// Sense implements physic.SenseEnv. It runs Setup when needed, then
// Acquire, and returns the temperature and humidity. The pressure is always
// 0. A measurement takes at least twice ConversionDelay.
func (d *Dev) Sense(e *physic.Env) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	e.Pressure = 0
	if err := d.setup(); err != nil {
		return err
	}
	if err := d.acquire(); err != nil {
		return err
	}
	e.Temperature = physic.ZeroCelsius + physic.Temperature(d.temperature*float64(physic.Celsius))
	e.Humidity = physic.RelativeHumidity(d.humidity * float64(physic.PercentRH))
	return nil
}

// SenseContinuous implements physic.SenseEnv. It returns a channel receiving
// a measurement every interval. Failed measurements are skipped. Call Halt()
// to stop it and close the channel.
func (d *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.shutdown != nil {
		return nil, errors.New("si7021: SenseContinuous already running")
	}
	if interval < 2*d.opts.ConversionDelay {
		return nil, errors.New("si7021: sample interval is < measurement time")
	}
	d.shutdown = make(chan struct{})
	ch := make(chan physic.Env, 16)
	d.wg.Add(1)
	go func(stop <-chan struct{}) {
		defer d.wg.Done()
		defer close(ch)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				e := physic.Env{}
				if err := d.Sense(&e); err != nil {
					continue
				}
				select {
				case ch <- e:
				case <-stop:
					return
				}
			}
		}
	}(d.shutdown)
	return ch, nil
}

// Halt stops a SenseContinuous loop. The bus is owned by the caller and is
// left untouched. Implements conn.Resource.
func (d *Dev) Halt() error {
	d.mu.Lock()
	if d.shutdown == nil {
		d.mu.Unlock()
		return nil
	}
	close(d.shutdown)
	d.shutdown = nil
	d.mu.Unlock()
	d.wg.Wait()
	return nil
}

// Precision implements physic.SenseEnv. It reports the resolution at the
// power-on default of 14 bit temperature and 12 bit humidity.
func (d *Dev) Precision(e *physic.Env) {
	e.Temperature = 10 * physic.MilliKelvin
	e.Humidity = 3 * physic.PercentRH / 100
	e.Pressure = 0
}

var _ conn.Resource = &Dev{}
var _ physic.SenseEnv = &Dev{}
