// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// si7021 polls an SI7021 or HTU21D sensor and logs its readings.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/GermanBionicSystems/htsense/bus"
	"github.com/GermanBionicSystems/htsense/gauge"
	"github.com/GermanBionicSystems/htsense/sensor"
	"github.com/GermanBionicSystems/htsense/si7021"
	"github.com/GermanBionicSystems/htsense/snapshot"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

func main() {
	busName := flag.String("bus", "", "Name of the I²C bus")
	batched := flag.Bool("batched", false, "Use the batched transport (combined write/read transfers)")
	interval := flag.Duration("interval", 2*time.Second, "Polling interval")
	count := flag.Int("count", 0, "Number of polling cycles, 0 runs until interrupted")
	delay := flag.Duration("delay", si7021.DefaultOpts.ConversionDelay, "Conversion wait after each measurement command")
	crc := flag.Bool("crc", false, "Validate the checksum of each measurement")
	showGauge := flag.Bool("gauge", false, "Draw the humidity as a bar on the terminal")
	pngPath := flag.String("png", "", "Write the last readings to this PNG file")
	level := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	lvl, err := parseLogLevel(*level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	// The gauge owns stdout when enabled.
	var out io.Writer = os.Stdout
	if *showGauge {
		out = os.Stderr
	}
	logger := newLogger(out, lvl)
	slog.SetDefault(logger)

	if _, err := host.Init(); err != nil {
		fatal("host init failed", err, 2)
	}
	b, err := i2creg.Open(*busName)
	if err != nil {
		fatal("failed to open I²C", err, 2)
	}
	defer b.Close()

	var t bus.Transport = bus.NewSimple(b, nil)
	if *batched {
		t = bus.NewBatched(b, nil)
	}
	dev := si7021.New(t, &si7021.Opts{ConversionDelay: *delay, ValidateData: *crc})

	var g *gauge.Dev
	if *showGauge {
		if g, err = gauge.New(&gauge.Opts{Width: 40, Min: 0, Max: 100, Label: "humidity", Unit: "%"}); err != nil {
			fatal("gauge", err, 1)
		}
		defer g.Halt()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := sensor.NewManager(logger, dev)
	cycles := 0
	var last []sensor.Reading
	err = m.Run(ctx, *interval, func(readings []sensor.Reading) {
		cycles++
		last = readings
		report(logger, g, readings, dev.Err())
		if *count > 0 && cycles >= *count {
			stop()
		}
	})
	if err != nil && ctx.Err() == nil {
		fatal("polling stopped", err, 1)
	}
	if *pngPath != "" {
		title := fmt.Sprintf("%s, %s", dev.Description(), time.Now().Format(time.DateTime))
		if err := snapshot.SavePNG(*pngPath, last, &snapshot.Opts{Width: 480, FontSize: 18, Title: title}); err != nil {
			fatal("snapshot", err, 1)
		}
		logger.Info("snapshot written", "path", *pngPath)
	}
}

func report(logger *slog.Logger, g *gauge.Dev, readings []sensor.Reading, lastErr error) {
	if len(readings) == 0 {
		logger.Warn("no readings", "code", sensor.CodeOf(lastErr).String(), "error", lastErr)
		return
	}
	for _, r := range readings {
		logger.Info("reading",
			"sensor", r.Sensor,
			"magnitude", r.Magnitude.String(),
			"value", r.Value,
			"unit", r.Magnitude.Unit(),
			"stale", r.Err != nil)
		if g != nil && r.Magnitude == sensor.Humidity {
			if err := g.Show(r.Value); err != nil {
				logger.Error("gauge", "error", err)
			}
		}
	}
}

func fatal(msg string, err error, code int) {
	slog.Error(msg, "error", err)
	os.Exit(code)
}
