// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package snapshot renders a polling cycle's readings to an image, one line
// per channel, using the Go regular font.
package snapshot

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/GermanBionicSystems/htsense/sensor"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
)

// Opts holds the rendering options.
type Opts struct {
	// Width of the image in pixels.
	Width int
	// Height of the image in pixels. 0 fits the readings.
	Height int
	// FontSize in points.
	FontSize float64
	// Title is drawn above the readings when not empty.
	Title string
}

// DefaultOpts holds the default rendering options.
var DefaultOpts = Opts{
	Width:    480,
	FontSize: 18,
}

const margin = 10

var loadFont = sync.OnceValues(func() (*truetype.Font, error) {
	return truetype.Parse(goregular.TTF)
})

// Render draws readings on a white background. Readings carrying an error
// are stale and drawn in red. The Opts can be nil.
func Render(readings []sensor.Reading, opts *Opts) (image.Image, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	o := *opts
	if o.Width <= 0 {
		return nil, errors.New("snapshot: invalid width")
	}
	if o.FontSize <= 0 {
		o.FontSize = DefaultOpts.FontSize
	}
	f, err := loadFont()
	if err != nil {
		return nil, fmt.Errorf("snapshot: font: %w", err)
	}
	lineHeight := o.FontSize * 1.5
	lines := len(readings)
	if o.Title != "" {
		lines++
	}
	h := o.Height
	if h <= 0 {
		h = int(lineHeight*float64(lines)) + 2*margin
	}

	dc := gg.NewContext(o.Width, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetFontFace(truetype.NewFace(f, &truetype.Options{Size: o.FontSize}))
	y := margin + lineHeight*0.8
	if o.Title != "" {
		dc.SetRGB(0, 0, 0)
		dc.DrawString(o.Title, margin, y)
		y += lineHeight
	}
	for _, r := range readings {
		line := fmt.Sprintf("%s %s: %.2f%s", r.Sensor, r.Magnitude, r.Value, r.Magnitude.Unit())
		if r.Err != nil {
			dc.SetRGB(0.8, 0, 0)
			line += " (stale)"
		} else {
			dc.SetRGB(0, 0, 0)
		}
		dc.DrawString(line, margin, y)
		y += lineHeight
	}
	return dc.Image(), nil
}

// SavePNG renders readings and writes them to path as a PNG file.
func SavePNG(path string, readings []sensor.Reading, opts *Opts) error {
	img, err := Render(readings, opts)
	if err != nil {
		return err
	}
	if err := gg.SavePNG(path, img); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	return nil
}
