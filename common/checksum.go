// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package common contains functions used across multiple packages. For
// example, the 8-bit additive checksum used by single-wire sensors.
package common

// Sum8 returns the sum of the byte slice parameter modulo 256. AOSONG
// single-wire sensors (DHT11, DHT22, AM2302) append it to every frame.
func Sum8(bytes []byte) byte {
	var sum byte
	for _, val := range bytes {
		sum += val
	}
	return sum
}
