// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bus provides the I²C transport used by the sensor drivers.
//
// A driver talks to its device through the Transport interface only. Two
// variants are provided: Simple issues every write and read as its own
// transaction, and Batched frames a whole Begin/End sequence, merging a
// write with the read that follows it into one combined transfer.
//
// Both run on top of any tinygo.org/x/drivers.I2C, which periph's i2c.Bus
// and TinyGo's machine.I2C both satisfy.
package bus

import (
	"errors"
	"sync"
)

var (
	// ErrNoTransaction is returned by Write, Read and End outside Begin/End.
	ErrNoTransaction = errors.New("bus: no transaction in progress")
	// ErrInTransaction is returned by Simple.Begin when a transaction is open.
	ErrInTransaction = errors.New("bus: transaction already in progress")
)

// Transport is the capability a driver needs from the bus.
type Transport interface {
	// Claim takes the exclusive lock on addr. It returns false when another
	// driver holds it.
	Claim(addr uint16) bool
	// Release drops the lock on addr.
	Release(addr uint16)
	// Probe reports whether a device acknowledges addr.
	Probe(addr uint16) bool
	// Begin opens a transaction with the device at addr.
	Begin(addr uint16) error
	Write(w []byte) error
	// Read fills r. A transfer that doesn't yield len(r) bytes is an error.
	Read(r []byte) error
	// End closes the transaction.
	End() error
}

// Locks is the registry of claimed addresses on one physical bus. Transports
// sharing a bus must share a Locks.
type Locks struct {
	mu   sync.Mutex
	held map[uint16]struct{}
}

// Claim takes addr. It returns false when it is already held.
func (l *Locks) Claim(addr uint16) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held == nil {
		l.held = map[uint16]struct{}{}
	}
	if _, ok := l.held[addr]; ok {
		return false
	}
	l.held[addr] = struct{}{}
	return true
}

// Release frees addr. Releasing an address that isn't held is a no-op.
func (l *Locks) Release(addr uint16) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, addr)
}

// Held reports whether addr is currently claimed.
func (l *Locks) Held(addr uint16) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.held[addr]
	return ok
}
