// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package si7021 controls a Silicon Labs SI7021 or a Measurement
// Specialties HTU21D temperature and humidity sensor over I²C.
//
// Both parts share the command set and the conversion formulas and only
// differ in the identification byte returned by the electronic ID command.
// The variant is read once during Setup.
//
// Dev implements sensor.Sensor, exposing two channels: temperature in °C and
// relative humidity in %. It also implements physic.SenseEnv so it can be
// used like any other periph environmental sensor.
//
// Measurements use the "no hold master" commands, so the host waits out the
// conversion time itself instead of relying on clock stretching.
//
// # Datasheets
//
// https://www.silabs.com/documents/public/data-sheets/Si7021-A20.pdf
//
// https://www.te.com/commerce/DocumentDelivery/DDEController?Action=showdoc&DocId=Data+Sheet%7FHPC199_6%7FA6%7Fpdf%7FEnglish%7FENG_DS_HPC199_6_A6.pdf
package si7021
