// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package htsense is a container for the SI7021/HTU21D temperature and
// humidity driver and the pieces it is polled through.
//
// The driver itself lives in package si7021. Package bus provides the I²C
// transport variants it talks through and package sensor the multi-channel
// contract shared with the code that schedules it.
package htsense
