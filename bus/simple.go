// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bus

import (
	"fmt"

	"tinygo.org/x/drivers"
)

// Simple is a Transport where each Write and Read is a separate I²C
// transaction terminated by a stop condition.
type Simple struct {
	*Locks
	b    drivers.I2C
	addr uint16
	open bool
}

// NewSimple returns a Simple transport on b. A nil locks gets a private
// registry.
func NewSimple(b drivers.I2C, locks *Locks) *Simple {
	if locks == nil {
		locks = &Locks{}
	}
	return &Simple{Locks: locks, b: b}
}

// Probe sends an empty write to addr and reports whether it was acknowledged.
func (s *Simple) Probe(addr uint16) bool {
	return probe(s.b, addr)
}

func (s *Simple) Begin(addr uint16) error {
	if s.open {
		return ErrInTransaction
	}
	s.addr = addr
	s.open = true
	return nil
}

func (s *Simple) Write(w []byte) error {
	if !s.open {
		return ErrNoTransaction
	}
	if err := s.b.Tx(s.addr, w, nil); err != nil {
		return fmt.Errorf("bus: write 0x%02x: %w", s.addr, err)
	}
	return nil
}

func (s *Simple) Read(r []byte) error {
	if !s.open {
		return ErrNoTransaction
	}
	if err := s.b.Tx(s.addr, nil, r); err != nil {
		return fmt.Errorf("bus: read 0x%02x: %w", s.addr, err)
	}
	return nil
}

func (s *Simple) End() error {
	if !s.open {
		return ErrNoTransaction
	}
	s.open = false
	return nil
}

func (s *Simple) String() string {
	return fmt.Sprintf("simple(%v)", s.b)
}

func probe(b drivers.I2C, addr uint16) bool {
	return b.Tx(addr, nil, nil) == nil
}

var _ Transport = &Simple{}
