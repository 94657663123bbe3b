// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht

import (
	"sync/atomic"
	"testing"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

func TestPinInterrupt(t *testing.T) {
	pin := &gpiotest.Pin{N: "GPIO4", Num: 4, EdgesChan: make(chan gpio.Level)}
	irq := &PinInterrupt{Pin: pin}
	var count atomic.Int32
	if err := irq.Arm(func() { count.Add(1) }); err != nil {
		t.Fatal(err)
	}
	if err := irq.Arm(func() {}); err == nil {
		t.Error("Arm() accepted to arm twice")
	}
	for range 3 {
		pin.EdgesChan <- gpio.Low
	}
	if err := irq.Disarm(); err != nil {
		t.Fatal(err)
	}
	if n := count.Load(); n != 3 {
		t.Errorf("handler called %d times, expected 3", n)
	}

	// Nobody listens anymore.
	select {
	case pin.EdgesChan <- gpio.Low:
		t.Error("edge delivered after Disarm()")
	case <-time.After(4 * edgePoll):
	}
	if err := irq.Disarm(); err != nil {
		t.Error(err)
	}

	// It can be armed again for the next response.
	if err := irq.Arm(func() { count.Add(1) }); err != nil {
		t.Fatal(err)
	}
	pin.EdgesChan <- gpio.Low
	if err := irq.Disarm(); err != nil {
		t.Fatal(err)
	}
	if n := count.Load(); n != 4 {
		t.Errorf("handler called %d times, expected 4", n)
	}
}

func TestPinInterruptTimeline(t *testing.T) {
	pin := &gpiotest.Pin{N: "GPIO4", Num: 4, EdgesChan: make(chan gpio.Level)}
	irq := &PinInterrupt{Pin: pin}
	counter := &stepCounter{}
	tl := &Timeline{}
	if err := irq.Arm(func() { tl.Record(counter.Micros()) }); err != nil {
		t.Fatal(err)
	}
	for range 50 {
		pin.EdgesChan <- gpio.Low
	}
	if err := irq.Disarm(); err != nil {
		t.Fatal(err)
	}
	if n := tl.Len(); n != edgeCapacity-1 {
		t.Errorf("Len()=%d expected %d", n, edgeCapacity-1)
	}
	if v := tl.slots[edgeCapacity-1]; v != 49 {
		t.Errorf("last slot=%d expected 49", v)
	}
}
