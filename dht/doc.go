// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package dht controls the AOSONG DHT11, DHT21, DHT22 and AM2302
// temperature/humidity sensors over their proprietary single-wire bus.
//
// The host pulls the data line low to wake the sensor, releases it, and the
// sensor answers with 40 bits of data. Each bit is a ~50µs low pulse followed
// by a high pulse whose width carries the value (~27µs for 0, ~70µs for 1).
// The driver timestamps every falling edge with a microsecond counter and
// recovers the bits from the distance between consecutive edges, so the only
// work done per edge is storing one counter value.
//
// The dht.Dev type implements the physic.SenseEnv interface. The pressure is
// never set.
//
// # Timing
//
// The sensor needs about a second after power up before it answers, and must
// not be polled more often than once every 2 seconds. Dev enforces the latter
// with Opts.MinInterval.
//
// # Linux
//
// The default PinInterrupt timestamps an edge when WaitForEdge returns in a
// goroutine. On a stock Linux kernel edge delivery is subject to scheduling
// latency and events may be coalesced, so the 41 edges of a response, 80 to
// 120µs apart, are often not all seen and Measure mostly reports a
// TransferIncompleteError. Reliable capture needs edges timestamped closer to
// the hardware: provide such a binding through Opts.Interrupt and
// Opts.Counter. Polling the line level with the garbage collector disabled is
// the other known approach on Linux; this package does not do that.
//
// # Datasheet
//
// https://cdn-shop.adafruit.com/datasheets/Digital+humidity+and+temperature+sensor+AM2302.pdf
//
// https://www.mouser.com/datasheet/2/758/DHT11-Technical-Data-Sheet-Translated-Version-1143054.pdf
package dht
