// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht_test

import (
	"fmt"
	"log"
	"time"

	"github.com/GermanBionicSystems/dhtseries/dht"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	// The data line of the sensor, with its 10kΩ pull-up.
	p := gpioreg.ByName("GPIO4")
	if p == nil {
		log.Fatal("failed to find GPIO4")
	}

	opts := dht.DefaultOpts
	opts.Kind = dht.AM2302
	d, err := dht.New(p, &opts)
	if err != nil {
		log.Fatalf("failed to initialize AM2302: %v", err)
	}
	// Time for the sensor to stabilize after power up.
	time.Sleep(3 * time.Second)

	// Read temperature and humidity from the sensor. A failed measurement
	// can be retried, Dev spaces the requests by 2 seconds.
	e := physic.Env{}
	for range 3 {
		if err = d.Sense(&e); err == nil {
			break
		}
		log.Println(err)
	}
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%8s %9s\n", e.Temperature, e.Humidity)
}
