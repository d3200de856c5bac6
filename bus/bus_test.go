// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bus

import (
	"errors"
	"testing"

	"periph.io/x/conn/v3/i2c/i2ctest"
	"tinygo.org/x/drivers"
)

const testAddr uint16 = 0x40

var (
	_ drivers.I2C = &i2ctest.Playback{}
	_ drivers.I2C = (*nackBus)(nil)
)

// nackBus fails every transfer.
type nackBus struct {
	calls int
}

func (n *nackBus) Tx(addr uint16, w, r []byte) error {
	n.calls++
	return errors.New("nack")
}

func TestLocks(t *testing.T) {
	var l Locks
	if l.Held(testAddr) {
		t.Error("zero value Locks reports an address as held")
	}
	if !l.Claim(testAddr) {
		t.Fatal("first claim failed")
	}
	if l.Claim(testAddr) {
		t.Error("second claim succeeded")
	}
	if !l.Held(testAddr) {
		t.Error("claimed address not held")
	}
	l.Release(testAddr)
	l.Release(testAddr)
	if !l.Claim(testAddr) {
		t.Error("claim after release failed")
	}
}

func TestSharedLocks(t *testing.T) {
	locks := &Locks{}
	a := NewSimple(&i2ctest.Playback{}, locks)
	b := NewBatched(&i2ctest.Playback{}, locks)
	if !a.Claim(testAddr) {
		t.Fatal("claim failed")
	}
	if b.Claim(testAddr) {
		t.Error("transport sharing the registry could claim a held address")
	}
}

func TestSimple(t *testing.T) {
	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: testAddr},
			{Addr: testAddr, W: []byte{0xfc, 0xc9}},
			{Addr: testAddr, R: []byte{0x15}},
		},
		DontPanic: true,
	}
	s := NewSimple(bus, nil)
	if !s.Probe(testAddr) {
		t.Fatal("probe failed")
	}
	if err := s.Write([]byte{0x00}); !errors.Is(err, ErrNoTransaction) {
		t.Errorf("expected ErrNoTransaction, got %v", err)
	}
	if err := s.Begin(testAddr); err != nil {
		t.Fatal(err)
	}
	if err := s.Begin(testAddr); !errors.Is(err, ErrInTransaction) {
		t.Errorf("expected ErrInTransaction, got %v", err)
	}
	if err := s.Write([]byte{0xfc, 0xc9}); err != nil {
		t.Fatal(err)
	}
	r := make([]byte, 1)
	if err := s.Read(r); err != nil {
		t.Fatal(err)
	}
	if r[0] != 0x15 {
		t.Errorf("read 0x%02x expected 0x15", r[0])
	}
	if err := s.End(); err != nil {
		t.Fatal(err)
	}
	if err := s.End(); !errors.Is(err, ErrNoTransaction) {
		t.Errorf("expected ErrNoTransaction, got %v", err)
	}
	if err := bus.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestBatchedCombinesWriteAndRead(t *testing.T) {
	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: testAddr, W: []byte{0xfc, 0xc9}, R: []byte{0x32}},
			{Addr: testAddr, W: []byte{0xf3}},
			{Addr: testAddr, R: []byte{0x60, 0x00}},
		},
		DontPanic: true,
	}
	b := NewBatched(bus, nil)
	if err := b.Begin(testAddr); err != nil {
		t.Fatal(err)
	}
	if err := b.Write([]byte{0xfc}); err != nil {
		t.Fatal(err)
	}
	if err := b.Write([]byte{0xc9}); err != nil {
		t.Fatal(err)
	}
	id := make([]byte, 1)
	if err := b.Read(id); err != nil {
		t.Fatal(err)
	}
	if err := b.End(); err != nil {
		t.Fatal(err)
	}
	if id[0] != 0x32 {
		t.Errorf("read 0x%02x expected 0x32", id[0])
	}

	// A write followed by End is flushed on its own.
	if err := b.Begin(testAddr); err != nil {
		t.Fatal(err)
	}
	if err := b.Write([]byte{0xf3}); err != nil {
		t.Fatal(err)
	}
	if err := b.End(); err != nil {
		t.Fatal(err)
	}
	if err := b.Begin(testAddr); err != nil {
		t.Fatal(err)
	}
	data := make([]byte, 2)
	if err := b.Read(data); err != nil {
		t.Fatal(err)
	}
	if err := b.End(); err != nil {
		t.Fatal(err)
	}
	if data[0] != 0x60 || data[1] != 0x00 {
		t.Errorf("unexpected data %#v", data)
	}
	if err := bus.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestBatchedOutsideTransaction(t *testing.T) {
	b := NewBatched(&i2ctest.Playback{DontPanic: true}, nil)
	if err := b.Write([]byte{0x01}); !errors.Is(err, ErrNoTransaction) {
		t.Errorf("expected ErrNoTransaction, got %v", err)
	}
	if err := b.Read(make([]byte, 1)); !errors.Is(err, ErrNoTransaction) {
		t.Errorf("expected ErrNoTransaction, got %v", err)
	}
	if err := b.End(); !errors.Is(err, ErrNoTransaction) {
		t.Errorf("expected ErrNoTransaction, got %v", err)
	}
}

func TestFailures(t *testing.T) {
	for _, tr := range []Transport{NewSimple(&nackBus{}, nil), NewBatched(&nackBus{}, nil)} {
		if tr.Probe(testAddr) {
			t.Errorf("%v: probe acknowledged on a failing bus", tr)
		}
		if err := tr.Begin(testAddr); err != nil {
			t.Fatal(err)
		}
		if err := tr.Read(make([]byte, 2)); err == nil {
			t.Errorf("%v: read on a failing bus succeeded", tr)
		}
		if err := tr.End(); err != nil {
			t.Errorf("%v: unexpected End error %v", tr, err)
		}
	}

	// Batched reports the flush failure on End and still releases the bus.
	b := NewBatched(&nackBus{}, nil)
	_ = b.Begin(testAddr)
	_ = b.Write([]byte{0xf3})
	if err := b.End(); err == nil {
		t.Error("expected flush error")
	}
	if err := b.Begin(testAddr); err != nil {
		t.Fatal(err)
	}
	_ = b.End()
}
