// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht

import (
	"fmt"

	"github.com/GermanBionicSystems/dhtseries/common"
	"periph.io/x/conn/v3/physic"
)

const (
	// The first two falling edges acknowledge the start sequence.
	firstDataEdge = 2
	// A bit longer than this, in µs, is a 1. A 0 lasts ~78µs, a 1 ~120µs.
	bitThreshold = 100
)

// Frame is the raw response of the sensor.
type Frame [5]byte

// Layout of a Frame.
const (
	humidityInt = iota
	humidityFrac
	temperatureInt
	temperatureFrac
	checksum
)

// Valid returns true when the checksum byte matches the data bytes.
func (f Frame) Valid() bool {
	return common.Sum8(f[:checksum]) == f[checksum]
}

// Reading is one calibrated measurement.
type Reading struct {
	Humidity    physic.RelativeHumidity
	Temperature physic.Temperature
}

func (r Reading) String() string {
	return fmt.Sprintf("%s %s", r.Temperature, r.Humidity)
}

// frame converts the edge timestamps into the 5 response bytes, MSB first.
// The byte boundary falls when i%8 == 1 since data starts at edge 2.
func (t *Timeline) frame() Frame {
	var f Frame
	b := 0
	for i := firstDataEdge; i < edgeCapacity; i++ {
		f[b] <<= 1
		if t.gap(i) > bitThreshold {
			f[b] |= 1
		}
		if i%8 == 1 {
			b++
		}
	}
	return f
}

// decode validates and calibrates the response captured in t. It returns the
// raw frame whenever bits were extracted, even if the checksum is wrong.
func decode(t *Timeline, kind SensorKind) (Reading, Frame, error) {
	if n := t.Len(); n != edgeCapacity-1 {
		return Reading{}, Frame{}, &TransferIncompleteError{Edges: n}
	}
	f := t.frame()
	if !f.Valid() {
		return Reading{}, f, &ChecksumMismatchError{Sum: common.Sum8(f[:checksum]), Checksum: f[checksum]}
	}
	return kind.calibrate(f), f, nil
}

// calibrate converts a valid frame into physical units.
func (k SensorKind) calibrate(f Frame) Reading {
	if k == DHT11 {
		// Whole units only, the fractional bytes are not used.
		return Reading{
			Humidity:    physic.RelativeHumidity(f[humidityInt]) * physic.PercentRH,
			Temperature: physic.ZeroCelsius + physic.Temperature(f[temperatureInt])*physic.Kelvin,
		}
	}
	// Tenths of unit, big endian. The temperature is sign-magnitude.
	h := uint16(f[humidityInt])<<8 | uint16(f[humidityFrac])
	t := int64(f[temperatureInt]&0x7f)<<8 | int64(f[temperatureFrac])
	if f[temperatureInt]&0x80 != 0 {
		t = -t
	}
	return Reading{
		Humidity:    physic.RelativeHumidity(h) * physic.MilliRH,
		Temperature: physic.ZeroCelsius + physic.Temperature(t)*(physic.Celsius/10),
	}
}
