// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bus

import (
	"fmt"
	"sync"

	"tinygo.org/x/drivers"
)

// Batched is a Transport that holds the bus from Begin to End.
//
// Writes are buffered. The next Read sends them together with the read as
// one transfer with a repeated start; End flushes whatever is left. A caller
// needing a delay between a command and its result must End after the write
// and Begin again before the read.
type Batched struct {
	*Locks
	b drivers.I2C

	tx      sync.Mutex
	mu      sync.Mutex
	addr    uint16
	open    bool
	pending []byte
}

// NewBatched returns a Batched transport on b. A nil locks gets a private
// registry.
func NewBatched(b drivers.I2C, locks *Locks) *Batched {
	if locks == nil {
		locks = &Locks{}
	}
	return &Batched{Locks: locks, b: b}
}

// Probe sends an empty write to addr and reports whether it was acknowledged.
// It waits for any open transaction to end.
func (t *Batched) Probe(addr uint16) bool {
	t.tx.Lock()
	defer t.tx.Unlock()
	return probe(t.b, addr)
}

// Begin blocks until no other transaction is open on t.
func (t *Batched) Begin(addr uint16) error {
	t.tx.Lock()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.addr = addr
	t.open = true
	t.pending = t.pending[:0]
	return nil
}

func (t *Batched) Write(w []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.open {
		return ErrNoTransaction
	}
	t.pending = append(t.pending, w...)
	return nil
}

func (t *Batched) Read(r []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.open {
		return ErrNoTransaction
	}
	var w []byte
	if len(t.pending) != 0 {
		w = t.pending
	}
	err := t.b.Tx(t.addr, w, r)
	t.pending = t.pending[:0]
	if err != nil {
		return fmt.Errorf("bus: read 0x%02x: %w", t.addr, err)
	}
	return nil
}

// End flushes buffered writes and releases the bus.
func (t *Batched) End() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.open {
		return ErrNoTransaction
	}
	var err error
	if len(t.pending) != 0 {
		if err = t.b.Tx(t.addr, t.pending, nil); err != nil {
			err = fmt.Errorf("bus: write 0x%02x: %w", t.addr, err)
		}
		t.pending = t.pending[:0]
	}
	t.open = false
	t.tx.Unlock()
	return err
}

func (t *Batched) String() string {
	return fmt.Sprintf("batched(%v)", t.b)
}

var _ Transport = &Batched{}
