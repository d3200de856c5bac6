// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/GermanBionicSystems/htsense/gauge"
	"github.com/GermanBionicSystems/htsense/sensor"
)

func TestParseLogLevel(t *testing.T) {
	var tests = []struct {
		in    string
		level slog.Level
		err   bool
	}{
		{"debug", slog.LevelDebug, false},
		{" INFO ", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, test := range tests {
		level, err := parseLogLevel(test.in)
		if (err != nil) != test.err {
			t.Errorf("parseLogLevel(%q) error %v", test.in, err)
		}
		if level != test.level {
			t.Errorf("parseLogLevel(%q)=%s expected %s", test.in, level, test.level)
		}
	}
}

func TestReport(t *testing.T) {
	var logs, screen bytes.Buffer
	logger := newLogger(&logs, slog.LevelInfo)
	g, err := gauge.New(&gauge.Opts{Width: 8, Min: 0, Max: 100, Label: "humidity", Unit: "%", W: &screen})
	if err != nil {
		t.Fatal(err)
	}
	report(logger, g, []sensor.Reading{
		{Sensor: "SI7021 @ I2C (0x40)", Index: 0, Magnitude: sensor.Temperature, Value: 19.04},
		{Sensor: "SI7021 @ I2C (0x40)", Index: 1, Magnitude: sensor.Humidity, Value: 53.65},
	}, nil)
	lines := strings.Split(strings.TrimSpace(logs.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %q", logs.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &rec); err != nil {
		t.Fatal(err)
	}
	if rec["magnitude"] != "humidity" || rec["value"] != 53.65 || rec["stale"] != false {
		t.Errorf("unexpected record %v", rec)
	}
	if !strings.Contains(screen.String(), "humidity 53.65%") {
		t.Errorf("gauge not drawn: %q", screen.String())
	}

	logs.Reset()
	report(logger, nil, nil, sensor.ErrAddressNotFound)
	if !strings.Contains(logs.String(), "address not found") {
		t.Errorf("unexpected log %q", logs.String())
	}
}
