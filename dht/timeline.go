// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht

import "sync/atomic"

// edgeCapacity is the number of falling edges in a complete response: the
// acknowledgment, the start of the first bit, and the end of each of the 40
// data bits.
const edgeCapacity = 42

// Timeline holds the counter value captured at each falling edge of one
// response.
//
// Record is the only writer and is meant to run from the edge handler. It
// never allocates, locks or blocks. When the buffer is full the last slot is
// overwritten and the count stays at edgeCapacity-1, so line noise can never
// write out of bounds.
type Timeline struct {
	slots [edgeCapacity]uint32
	n     atomic.Uint32
}

// Reset empties the timeline. Slots keep their previous values.
func (t *Timeline) Reset() {
	t.n.Store(0)
}

// Record stores the counter value of one falling edge.
func (t *Timeline) Record(ts uint32) {
	n := t.n.Load()
	t.slots[n] = ts
	if n < edgeCapacity-1 {
		t.n.Store(n + 1)
	}
}

// Len returns the number of edges counted since the last Reset, clamped to
// edgeCapacity-1.
func (t *Timeline) Len() int {
	return int(t.n.Load())
}

// gap returns the time in µs between edge i-1 and edge i. The subtraction is
// unsigned so a counter wrapping between the two edges is harmless.
func (t *Timeline) gap(i int) uint32 {
	return t.slots[i] - t.slots[i-1]
}
