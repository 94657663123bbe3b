// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Counter is a free running microsecond counter. It times the start sequence
// and timestamps the falling edges.
//
// Micros is called from the edge handler and must be cheap: no allocation,
// no blocking.
type Counter interface {
	// Reset sets the counter back to zero.
	Reset()
	// Micros returns the number of microseconds elapsed since the last Reset.
	// It may wrap around.
	Micros() uint32
}

// ClockCounter is a Counter derived from a clockwork.Clock. With the real
// clock it reads the monotonic clock of the host.
type ClockCounter struct {
	clock  clockwork.Clock
	origin time.Time
}

// NewClockCounter returns a Counter reading c. A nil c uses the real clock.
func NewClockCounter(c clockwork.Clock) *ClockCounter {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	return &ClockCounter{clock: c, origin: c.Now()}
}

// Reset implements Counter.
func (c *ClockCounter) Reset() {
	c.origin = c.clock.Now()
}

// Micros implements Counter.
func (c *ClockCounter) Micros() uint32 {
	return uint32(c.clock.Since(c.origin) / time.Microsecond)
}

var _ Counter = &ClockCounter{}
