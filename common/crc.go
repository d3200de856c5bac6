// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package common contains the checksum helpers shared by the drivers in this
// module.
//
// Silicon Labs and Measurement Specialties parts use the same x^8+x^5+x^4+1
// polynomial as Sensirion but start the register at zero, so the seed is a
// parameter.
package common

const crc8Polynomial byte = 0x31

// CRC8 calculates the 8-bit CRC of bytes with the 0xff seed used by Sensirion
// sensors.
func CRC8(bytes []byte) byte {
	return CRC8WithSeed(bytes, 0xff)
}

// CRC8WithSeed calculates the 8-bit CRC of bytes starting from seed.
func CRC8WithSeed(bytes []byte, seed byte) byte {
	crc := seed
	for _, val := range bytes {
		crc ^= val
		for i := 0; i < 8; i++ {
			if (crc & 0x80) == 0 {
				crc <<= 1
			} else {
				crc = (crc << 1) ^ crc8Polynomial
			}
		}
	}
	return crc
}

// CheckCRC8 reports whether the last byte of frame is the CRC of the bytes
// before it. Frames shorter than two bytes never match.
func CheckCRC8(frame []byte, seed byte) bool {
	if len(frame) < 2 {
		return false
	}
	n := len(frame) - 1
	return CRC8WithSeed(frame[:n], seed) == frame[n]
}
