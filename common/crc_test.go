// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package common

import "testing"

func TestCRC8(t *testing.T) {
	var tests = []struct {
		bytes  []byte
		result byte
	}{
		{bytes: []byte{0xbe, 0xef}, result: 0x92},
		{bytes: []byte{0x01, 0xa4}, result: 0x4d},
		{bytes: []byte{0xab, 0xcd}, result: 0x6f},
	}
	for _, test := range tests {
		res := CRC8(test.bytes)
		if res != test.result {
			t.Errorf("CRC8(%#v)!=0x%x received 0x%x", test.bytes, test.result, res)
		}
	}
}

// Vectors from the HTU21D datasheet CRC section.
func TestCRC8WithSeed(t *testing.T) {
	var tests = []struct {
		bytes  []byte
		result byte
	}{
		{bytes: []byte{0xdc}, result: 0x79},
		{bytes: []byte{0x68, 0x3a}, result: 0x7c},
		{bytes: []byte{0x4e, 0x85}, result: 0x6b},
	}
	for _, test := range tests {
		res := CRC8WithSeed(test.bytes, 0)
		if res != test.result {
			t.Errorf("CRC8WithSeed(%#v, 0)!=0x%x received 0x%x", test.bytes, test.result, res)
		}
	}
}

func TestCheckCRC8(t *testing.T) {
	if !CheckCRC8([]byte{0x68, 0x3a, 0x7c}, 0) {
		t.Error("valid frame rejected")
	}
	if CheckCRC8([]byte{0x68, 0x3b, 0x7c}, 0) {
		t.Error("corrupt frame accepted")
	}
	if CheckCRC8([]byte{0x7c}, 0) {
		t.Error("short frame accepted")
	}
	if !CheckCRC8([]byte{0xbe, 0xef, 0x92}, 0xff) {
		t.Error("sensirion frame rejected")
	}
}
