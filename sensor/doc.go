// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sensor defines the contract between multi-channel sensor drivers
// and the code that polls them.
//
// A driver exposes a small fixed number of channels. Each channel has a
// Magnitude and a cached value refreshed by Acquire. Drivers never panic or
// retry: the outcome of the last call is kept and returned, and the poller
// decides what to do about it.
package sensor
