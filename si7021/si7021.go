// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package si7021

import (
	"fmt"
	"sync"
	"time"

	"github.com/GermanBionicSystems/htsense/bus"
	"github.com/GermanBionicSystems/htsense/common"
	"github.com/GermanBionicSystems/htsense/sensor"
	"periph.io/x/conn/v3/i2c"
)

// Chip is the identification byte of a supported part.
type Chip byte

const (
	ChipUnknown Chip = 0x00
	ChipSI7021  Chip = 0x15
	ChipHTU21D  Chip = 0x32
)

func (c Chip) String() string {
	switch c {
	case ChipSI7021:
		return "SI7021"
	case ChipHTU21D:
		return "HTU21D"
	default:
		return "unknown"
	}
}

// DefaultAddress is the fixed I²C address of both parts.
const DefaultAddress uint16 = 0x40

const (
	// The hold master variants stretch the clock until the conversion is
	// done. They're listed for reference only.
	cmdMeasureTemperatureHold byte = 0xe3
	cmdMeasureHumidityHold    byte = 0xe5

	cmdMeasureTemperature byte = 0xf3
	cmdMeasureHumidity    byte = 0xf5

	// The two low bits of a measurement are status bits.
	statusMask byte = 0xfc
	crcSeed    byte = 0x00

	countDivisor = float64(65536)

	minRH = 0.0
	maxRH = 100.0

	// Worst case conversion is about 22ms for both measurements.
	defaultConversionDelay = 50 * time.Millisecond
)

// Electronic ID, second access. The first byte of the answer is the chip
// identification.
var cmdReadID = []byte{0xfc, 0xc9}

var errInvalidCRC = fmt.Errorf("si7021: %w: invalid crc", sensor.ErrBusRead)

// Opts holds the configuration options for the device.
type Opts struct {
	// Addresses are the candidate bus addresses probed during Setup, in
	// order. Default is DefaultAddress only.
	Addresses []uint16
	// ConversionDelay is the time waited between issuing a measurement and
	// reading it back. Default is 50ms. It must cover the datasheet's maximum
	// conversion time.
	ConversionDelay time.Duration
	// ValidateData reads the checksum byte following each measurement and
	// fails the acquisition when it doesn't match. Default is false.
	ValidateData bool
	// Clock implements the conversion wait. Default is sensor.SystemClock.
	Clock sensor.Clock
}

// DefaultOpts holds the default configuration options for the device.
var DefaultOpts = Opts{
	Addresses:       []uint16{DefaultAddress},
	ConversionDelay: defaultConversionDelay,
}

// Dev is a handle to an SI7021 or HTU21D sensor.
type Dev struct {
	t    bus.Transport
	opts Opts

	mu          sync.Mutex
	addr        uint16
	chip        Chip
	count       int
	initialized bool
	temperature float64
	humidity    float64
	err         error

	shutdown chan struct{}
	wg       sync.WaitGroup
}

// New returns a Dev talking through t. Nothing is sent on the bus until
// Setup is called. The Opts can be nil.
func New(t bus.Transport, opts *Opts) *Dev {
	if opts == nil {
		opts = &DefaultOpts
	}
	o := *opts
	if len(o.Addresses) == 0 {
		o.Addresses = DefaultOpts.Addresses
	}
	o.Addresses = append([]uint16(nil), o.Addresses...)
	if o.ConversionDelay <= 0 {
		o.ConversionDelay = defaultConversionDelay
	}
	if o.Clock == nil {
		o.Clock = sensor.SystemClock{}
	}
	return &Dev{t: t, opts: o}
}

// NewI2C returns a Dev on b using a Simple transport and runs Setup. The
// Opts can be nil.
func NewI2C(b i2c.Bus, opts *Opts) (*Dev, error) {
	d := New(bus.NewSimple(b, nil), opts)
	if err := d.Setup(); err != nil {
		return nil, err
	}
	return d, nil
}

// Setup discovers and identifies the device.
//
// Once the device answered to the identification command, further calls do
// nothing and return nil, or sensor.ErrUnknownID when the part was not
// recognized. When no candidate address acknowledges, the error is
// sensor.ErrAddressNotFound and the next call probes again.
func (d *Dev) Setup() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.setup()
}

func (d *Dev) setup() error {
	if d.initialized {
		if d.count == 0 {
			return sensor.ErrUnknownID
		}
		return nil
	}
	addr, ok := d.discover()
	if !ok {
		d.count = 0
		d.err = sensor.ErrAddressNotFound
		return d.err
	}
	var id [1]byte
	if err := d.transfer(addr, cmdReadID, id[:]); err != nil {
		d.t.Release(addr)
		d.err = err
		return err
	}
	d.addr = addr
	d.initialized = true
	switch c := Chip(id[0]); c {
	case ChipSI7021, ChipHTU21D:
		d.chip = c
		d.count = 2
		d.err = nil
	default:
		d.t.Release(addr)
		d.chip = ChipUnknown
		d.count = 0
		d.err = fmt.Errorf("si7021: id 0x%02x: %w", id[0], sensor.ErrUnknownID)
	}
	return d.err
}

// discover claims and returns the first candidate address that acknowledges.
func (d *Dev) discover() (uint16, bool) {
	for _, addr := range d.opts.Addresses {
		if !d.t.Claim(addr) {
			continue
		}
		if d.t.Probe(addr) {
			return addr, true
		}
		d.t.Release(addr)
	}
	return 0, false
}

// Acquire measures temperature then humidity and caches both.
//
// When the temperature read fails neither value changes. When the humidity
// read fails the new temperature is kept.
func (d *Dev) Acquire() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.acquire()
}

func (d *Dev) acquire() error {
	if d.chip == ChipUnknown {
		d.err = sensor.ErrUnknownID
		return d.err
	}
	v, err := d.readRaw(cmdMeasureTemperature)
	if err != nil {
		d.err = err
		return err
	}
	d.temperature = countToTemperature(v)
	if v, err = d.readRaw(cmdMeasureHumidity); err != nil {
		d.err = err
		return err
	}
	d.humidity = countToHumidity(v)
	d.err = nil
	return nil
}

// readRaw issues cmd, waits for the conversion and returns the masked count.
func (d *Dev) readRaw(cmd byte) (uint16, error) {
	if err := d.transfer(d.addr, []byte{cmd}, nil); err != nil {
		return 0, err
	}
	d.opts.Clock.Sleep(d.opts.ConversionDelay)
	var buf [3]byte
	r := buf[:2]
	if d.opts.ValidateData {
		r = buf[:3]
	}
	if err := d.transfer(d.addr, nil, r); err != nil {
		return 0, err
	}
	if d.opts.ValidateData && !common.CheckCRC8(r, crcSeed) {
		return 0, errInvalidCRC
	}
	return readCount(r[0], r[1]), nil
}

// transfer runs one Begin/End framed exchange with the device at addr.
func (d *Dev) transfer(addr uint16, w, r []byte) error {
	if err := d.t.Begin(addr); err != nil {
		return fmt.Errorf("si7021: %w: %w", sensor.ErrBusRead, err)
	}
	var err error
	if len(w) != 0 {
		err = d.t.Write(w)
	}
	if err == nil && len(r) != 0 {
		err = d.t.Read(r)
	}
	if endErr := d.t.End(); err == nil {
		err = endErr
	}
	if err != nil {
		return fmt.Errorf("si7021: %w: %w", sensor.ErrBusRead, err)
	}
	return nil
}

// ChannelCount implements sensor.Sensor. It is 2 once a supported part is
// identified and 0 otherwise.
func (d *Dev) ChannelCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.count
}

// ChannelType implements sensor.Sensor.
func (d *Dev) ChannelType(index int) (sensor.Magnitude, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.err = nil
	switch index {
	case 0:
		return sensor.Temperature, nil
	case 1:
		return sensor.Humidity, nil
	}
	d.err = sensor.ErrOutOfRange
	return sensor.None, d.err
}

// ChannelValue implements sensor.Sensor. It returns the last values cached
// by Acquire, in °C for channel 0 and % for channel 1.
func (d *Dev) ChannelValue(index int) (float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.err = nil
	switch index {
	case 0:
		return d.temperature, nil
	case 1:
		return d.humidity, nil
	}
	d.err = sensor.ErrOutOfRange
	return 0, d.err
}

// ChannelLabel implements sensor.Sensor. Both channels belong to the same
// device and share its description.
func (d *Dev) ChannelLabel(index int) string {
	return d.Description()
}

// Description returns the part name and bus address, like
// "SI7021 @ I2C (0x40)".
func (d *Dev) Description() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return fmt.Sprintf("%s @ I2C (0x%02X)", d.chip, d.addr)
}

// Err implements sensor.Sensor.
func (d *Dev) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

// Address returns the resolved bus address, 0 before Setup found the device.
func (d *Dev) Address() uint16 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.addr
}

// Chip returns the identified part.
func (d *Dev) Chip() Chip {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.chip
}

func (d *Dev) String() string {
	return d.Description()
}

func readCount(msb, lsb byte) uint16 {
	return uint16(msb)<<8 | uint16(lsb&statusMask)
}

func countToTemperature(count uint16) float64 {
	// T=-46.85+175.72*(count/countDivisor)
	return 175.72*float64(count)/countDivisor - 46.85
}

func countToHumidity(count uint16) float64 {
	// RH=-6+125*(count/countDivisor)
	rh := 125.0*float64(count)/countDivisor - 6
	if rh < minRH {
		rh = minRH
	} else if rh > maxRH {
		rh = maxRH
	}
	return rh
}

var _ sensor.Sensor = &Dev{}
