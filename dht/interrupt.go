// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht

import (
	"errors"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// Interrupt delivers the falling edges of the data line to a handler.
//
// The handler passed to Arm is bound once when the Dev is created; Arm and
// Disarm only start and stop delivery for one response.
type Interrupt interface {
	// Arm starts calling h for every falling edge.
	Arm(h func()) error
	// Disarm stops the delivery. h is not called anymore once it returns.
	Disarm() error
}

// edgePoll bounds how long the watcher blocks in WaitForEdge, and so how long
// Disarm can take.
const edgePoll = 5 * time.Millisecond

// PinInterrupt implements Interrupt on top of gpio.PinIn.WaitForEdge. The
// edge detection itself is enabled by the In(gpio.PullUp, gpio.FallingEdge)
// call done by the Dev right after Arm.
type PinInterrupt struct {
	Pin gpio.PinIn

	mu   sync.Mutex
	stop chan struct{}
	wg   sync.WaitGroup
}

// Arm implements Interrupt.
func (p *PinInterrupt) Arm(h func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stop != nil {
		return errors.New("dht: interrupt already armed")
	}
	stop := make(chan struct{})
	p.stop = stop
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			if p.Pin.WaitForEdge(edgePoll) {
				h()
			}
		}
	}()
	return nil
}

// Disarm implements Interrupt.
func (p *PinInterrupt) Disarm() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stop == nil {
		return nil
	}
	close(p.stop)
	p.wg.Wait()
	p.stop = nil
	return nil
}

var _ Interrupt = &PinInterrupt{}
