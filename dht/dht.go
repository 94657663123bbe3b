// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// SensorKind selects the data format of the sensor.
type SensorKind int

const (
	// DHT22 and its siblings report tenths of %RH and tenths of °C.
	DHT22 SensorKind = iota
	// DHT11 reports whole %RH and whole °C.
	DHT11

	// DHT21 and AM2302 use the DHT22 format.
	DHT21  = DHT22
	AM2302 = DHT22
)

func (k SensorKind) String() string {
	switch k {
	case DHT11:
		return "DHT11"
	case DHT22:
		return "DHT22"
	default:
		return fmt.Sprintf("SensorKind(%d)", int(k))
	}
}

// ParseSensorKind returns DHT11 for "dht11" in any case and DHT22 for
// anything else, since DHT21, DHT22 and AM2302 share the same format.
func ParseSensorKind(s string) SensorKind {
	if strings.EqualFold(strings.TrimSpace(s), "dht11") {
		return DHT11
	}
	return DHT22
}

// Opts holds the configuration options for the device.
type Opts struct {
	// Kind is the sensor variant. Default is DHT22.
	Kind SensorKind
	// StartLow is how long the host holds the line low to wake the sensor.
	// DHT11 needs at least 18ms. Default is 20ms.
	StartLow time.Duration
	// StartHigh is how long the host drives the line high before releasing
	// it. Default is 30µs.
	StartHigh time.Duration
	// Settle is the time given to the sensor to send its whole response.
	// Default is 5ms.
	Settle time.Duration
	// MinInterval is the minimum time between two measurements. A measurement
	// requested earlier waits. Default is 2s.
	MinInterval time.Duration

	// Counter times the start sequence and timestamps the edges. Default is a
	// ClockCounter on Clock.
	Counter Counter
	// Interrupt delivers falling edges. Default is a PinInterrupt on the data
	// line.
	Interrupt Interrupt
	// Clock provides the millisecond delays. Default is the real clock.
	Clock clockwork.Clock
}

// DefaultOpts holds the default configuration options for the device.
var DefaultOpts = Opts{
	Kind:        DHT22,
	StartLow:    20 * time.Millisecond,
	StartHigh:   30 * time.Microsecond,
	Settle:      5 * time.Millisecond,
	MinInterval: 2 * time.Second,
}

// powerUpDelay lets the sensor reach its idle state after the line is first
// driven high.
const powerUpDelay = 250 * time.Millisecond

// Dev is a handle to a DHT sensor on a single data line.
type Dev struct {
	line    gpio.PinIO
	opts    Opts
	counter Counter
	irq     Interrupt
	clock   clockwork.Clock

	// Start sequence thresholds in counter ticks.
	lowTicks  uint32
	highTicks uint32

	// handler is bound once so arming the interrupt never allocates.
	handler func()
	edges   Timeline

	mu   sync.Mutex
	last time.Time
	stop chan struct{}
	wg   sync.WaitGroup
}

// New returns a Dev driving the sensor connected to line. The Opts can be nil.
//
// The line is driven high and New waits 250ms for the sensor to settle before
// returning. The sensor still needs about a second after power up before its
// first measurement.
func New(line gpio.PinIO, opts *Opts) (*Dev, error) {
	if line == nil {
		return nil, errors.New("dht: data line is nil")
	}
	if opts == nil {
		opts = &DefaultOpts
	}
	o := *opts
	if o.StartLow <= 0 {
		o.StartLow = DefaultOpts.StartLow
	}
	if o.StartHigh <= 0 {
		o.StartHigh = DefaultOpts.StartHigh
	}
	if o.Settle <= 0 {
		o.Settle = DefaultOpts.Settle
	}
	if o.MinInterval <= 0 {
		o.MinInterval = DefaultOpts.MinInterval
	}
	if o.Clock == nil {
		o.Clock = clockwork.NewRealClock()
	}
	if o.Counter == nil {
		o.Counter = NewClockCounter(o.Clock)
	}
	if o.Interrupt == nil {
		o.Interrupt = &PinInterrupt{Pin: line}
	}

	d := &Dev{
		line:      line,
		opts:      o,
		counter:   o.Counter,
		irq:       o.Interrupt,
		clock:     o.Clock,
		lowTicks:  uint32(o.StartLow / time.Microsecond),
		highTicks: uint32(o.StartHigh / time.Microsecond),
	}
	d.handler = d.edge

	if err := line.Out(gpio.High); err != nil {
		return nil, fmt.Errorf("dht: error driving %s high: %w", line, err)
	}
	d.clock.Sleep(powerUpDelay)
	return d, nil
}

// edge runs for every falling edge while the interrupt is armed.
func (d *Dev) edge() {
	d.edges.Record(d.counter.Micros())
}

// request sends the start sequence and captures the response edges. It
// returns once the settle delay is over and the interrupt is disarmed.
func (d *Dev) request() error {
	if err := d.line.Out(gpio.Low); err != nil {
		return fmt.Errorf("dht: error sending start signal: %w", err)
	}
	d.counter.Reset()
	for d.counter.Micros() < d.lowTicks {
	}
	if err := d.line.Out(gpio.High); err != nil {
		return fmt.Errorf("dht: error sending start signal: %w", err)
	}
	d.counter.Reset()
	for d.counter.Micros() < d.highTicks {
	}

	// The handler must be armed before the line is released, the sensor
	// answers within 20-40µs.
	d.edges.Reset()
	if err := d.irq.Arm(d.handler); err != nil {
		return fmt.Errorf("dht: error arming interrupt: %w", err)
	}
	if err := d.line.In(gpio.PullUp, gpio.FallingEdge); err != nil {
		_ = d.irq.Disarm()
		return fmt.Errorf("dht: error releasing line: %w", err)
	}
	d.clock.Sleep(d.opts.Settle)
	if err := d.irq.Disarm(); err != nil {
		return fmt.Errorf("dht: error disarming interrupt: %w", err)
	}
	if err := d.line.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return fmt.Errorf("dht: error idling line: %w", err)
	}
	return nil
}

// measure runs one full measurement cycle. d.mu must be held.
func (d *Dev) measure() (Reading, error) {
	if !d.last.IsZero() {
		if wait := d.opts.MinInterval - d.clock.Since(d.last); wait > 0 {
			d.clock.Sleep(wait)
		}
	}
	d.last = d.clock.Now()
	if err := d.request(); err != nil {
		return Reading{}, err
	}
	r, _, err := decode(&d.edges, d.opts.Kind)
	return r, err
}

// Measure queries the sensor once. It returns a *TransferIncompleteError when
// the response was cut short and a *ChecksumMismatchError when it was
// corrupted; no partial reading is ever returned. The caller may retry.
func (d *Dev) Measure() (Reading, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.measure()
}

// Sense implements physic.SenseEnv. The pressure is always 0.
func (d *Dev) Sense(e *physic.Env) error {
	e.Pressure = 0
	r, err := d.Measure()
	if err != nil {
		return err
	}
	e.Temperature = r.Temperature
	e.Humidity = r.Humidity
	return nil
}

// SenseContinuous implements physic.SenseEnv. The interval must be at least
// Opts.MinInterval. Failed measurements are skipped. Call Halt() to stop it.
func (d *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	if interval < d.opts.MinInterval {
		return nil, fmt.Errorf("dht: invalid duration. minimum %s", d.opts.MinInterval)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stop != nil {
		return nil, errors.New("dht: sense continuous already running")
	}
	stop := make(chan struct{})
	d.stop = stop
	ch := make(chan physic.Env, 16)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer close(ch)
		ticker := d.clock.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.Chan():
				e := physic.Env{}
				if err := d.Sense(&e); err != nil {
					continue
				}
				select {
				case ch <- e:
				case <-stop:
					return
				}
			}
		}
	}()
	return ch, nil
}

// Halt stops a running SenseContinuous(). It waits for the measurement in
// progress, if any.
func (d *Dev) Halt() error {
	d.mu.Lock()
	stop := d.stop
	d.stop = nil
	d.mu.Unlock()
	if stop != nil {
		close(stop)
		d.wg.Wait()
	}
	return nil
}

// Precision implements physic.SenseEnv.
func (d *Dev) Precision(e *physic.Env) {
	e.Pressure = 0
	if d.opts.Kind == DHT11 {
		e.Temperature = physic.Kelvin
		e.Humidity = physic.PercentRH
		return
	}
	e.Temperature = physic.Kelvin / 10
	e.Humidity = physic.MilliRH
}

func (d *Dev) String() string {
	return fmt.Sprintf("%s{%s}", d.opts.Kind, d.line)
}

var _ conn.Resource = &Dev{}
var _ physic.SenseEnv = &Dev{}
