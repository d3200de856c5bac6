// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package gauge draws a channel value as a horizontal bar on a terminal
// using ANSI 256 color codes.
//
// The bar is a 1 pixel high display.Drawer, so any image can be drawn on it,
// but Show is what the command line tool uses: the bar is filled in
// proportion to the value within [Min, Max] with a cold to hot gradient.
package gauge

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/display"
)

// Opts represents the options available for a gauge.
type Opts struct {
	// Width is the bar length in characters.
	Width int
	// Min and Max are the values mapped to an empty and a full bar.
	Min, Max float64
	// Label is printed after the bar, with the value and Unit.
	Label string
	Unit  string
	// Palette defaults to ansi256.Default.
	Palette *ansi256.Palette
	// W defaults to a colorable stdout.
	W io.Writer

	_ struct{}
}

// Dev is a terminal bar gauge.
type Dev struct {
	w       io.Writer
	opts    Opts
	palette ansi256.Palette

	pixels []byte
	buf    bytes.Buffer
}

var (
	cold  = color.NRGBA{R: 0x20, G: 0x60, B: 0xff, A: 255}
	hot   = color.NRGBA{R: 0xff, G: 0x30, B: 0x10, A: 255}
	empty = color.NRGBA{R: 0x30, G: 0x30, B: 0x30, A: 255}
)

// New returns a gauge.
func New(opts *Opts) (*Dev, error) {
	if opts.Width <= 0 {
		return nil, errors.New("gauge: invalid width")
	}
	if opts.Max <= opts.Min {
		return nil, errors.New("gauge: Max must be greater than Min")
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	return &Dev{
		w:       w,
		opts:    *opts,
		palette: *p,
		pixels:  make([]byte, 3*opts.Width),
	}, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("Gauge{%s}", d.opts.Label)
}

// Halt implements conn.Resource.
//
// It resets the terminal attributes and ends the line.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\033[0m\n"))
	return err
}

// Show fills the bar in proportion to v and prints it. Values outside
// [Min, Max] show an empty or a full bar.
func (d *Dev) Show(v float64) error {
	n := d.filled(v)
	for i := 0; i < d.opts.Width; i++ {
		c := empty
		if i < n {
			c = gradient(float64(i) / float64(max(d.opts.Width-1, 1)))
		}
		d.pixels[3*i] = c.R
		d.pixels[3*i+1] = c.G
		d.pixels[3*i+2] = c.B
	}
	_, err := d.refresh(fmt.Sprintf(" %s %.2f%s", d.opts.Label, v, d.opts.Unit))
	return err
}

// Write accepts a stream of raw RGB pixels and writes it to the terminal.
func (d *Dev) Write(pixels []byte) (int, error) {
	if len(pixels)%3 != 0 {
		return 0, errors.New("gauge: invalid RGB stream length")
	}
	copy(d.pixels, pixels)
	return d.refresh("")
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rectangle{Max: image.Point{X: d.opts.Width, Y: 1}}
}

// Draw implements display.Drawer.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	r = r.Intersect(d.Bounds())
	srcR := src.Bounds()
	srcR.Min = srcR.Min.Add(sp)
	if dX := r.Dx(); dX < srcR.Dx() {
		srcR.Max.X = srcR.Min.X + dX
	}
	deltaX3 := 3 * (r.Min.X - srcR.Min.X)
	for sX := srcR.Min.X; sX < srcR.Max.X; sX++ {
		r16, g16, b16, _ := src.At(sX, srcR.Min.Y).RGBA()
		dX3 := 3*sX + deltaX3
		d.pixels[dX3] = byte(r16 >> 8)
		d.pixels[dX3+1] = byte(g16 >> 8)
		d.pixels[dX3+2] = byte(b16 >> 8)
	}
	_, err := d.refresh("")
	return err
}

// filled returns the number of characters to light for v.
func (d *Dev) filled(v float64) int {
	f := (v - d.opts.Min) / (d.opts.Max - d.opts.Min)
	switch {
	case f <= 0 || math.IsNaN(f):
		return 0
	case f >= 1:
		return d.opts.Width
	}
	return int(f*float64(d.opts.Width) + 0.5)
}

func (d *Dev) refresh(suffix string) (int, error) {
	// Reuses the buffer so a refresh doesn't allocate.
	d.buf.Reset()
	_, _ = d.buf.WriteString("\r\033[0m")
	for i := 0; i < len(d.pixels)/3; i++ {
		c := color.NRGBA{d.pixels[3*i], d.pixels[3*i+1], d.pixels[3*i+2], 255}
		_, _ = io.WriteString(&d.buf, d.palette.Block(c))
	}
	_, _ = d.buf.WriteString("\033[0m")
	_, _ = d.buf.WriteString(suffix)
	_, err := d.buf.WriteTo(d.w)
	return len(d.pixels), err
}

// gradient interpolates between cold and hot, f in [0, 1].
func gradient(f float64) color.NRGBA {
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a) + (float64(b)-float64(a))*f + 0.5)
	}
	return color.NRGBA{R: mix(cold.R, hot.R), G: mix(cold.G, hot.G), B: mix(cold.B, hot.B), A: 255}
}

var _ display.Drawer = &Dev{}
var _ fmt.Stringer = &Dev{}
