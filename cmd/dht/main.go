// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// dht reads a DHT11, DHT21, DHT22 or AM2302 sensor periodically and logs
// the readings, optionally publishing them to an MQTT broker.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GermanBionicSystems/dhtseries/dht"
	"github.com/charmbracelet/log"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// The sensor needs time after power up before its first answer.
const warmUp = 3 * time.Second

func mainImpl() error {
	pin := flag.String("pin", "GPIO4", "GPIO connected to the sensor data line")
	kind := flag.String("kind", "DHT22", "sensor: DHT11, DHT21, DHT22 or AM2302")
	interval := flag.Duration("interval", 2*time.Second, "time between measurements")
	count := flag.Int("n", 0, "number of measurements, 0 to run until interrupted")
	level := flag.String("level", "info", "log level")
	broker := flag.String("broker", "", "MQTT broker to publish to, e.g. tcp://localhost:1883")
	topic := flag.String("topic", "sensors/dht", "MQTT topic")
	clientID := flag.String("client", "dht", "MQTT client ID")
	flag.Parse()
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}

	logger := log.NewWithOptions(colorable.NewColorableStderr(), log.Options{
		ReportTimestamp: true,
		Prefix:          "dht",
	})
	lvl, err := log.ParseLevel(*level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", *level, err)
	}
	logger.SetLevel(lvl)

	if _, err := host.Init(); err != nil {
		return err
	}
	p := gpioreg.ByName(*pin)
	if p == nil {
		return fmt.Errorf("failed to find pin %q", *pin)
	}

	opts := dht.DefaultOpts
	opts.Kind = dht.ParseSensorKind(*kind)
	if *interval < opts.MinInterval {
		return fmt.Errorf("interval must be at least %s", opts.MinInterval)
	}
	d, err := dht.New(p, &opts)
	if err != nil {
		return err
	}
	logger.Info("sensor ready", "dev", d)

	var pub *publisher
	if *broker != "" {
		client := mqtt.NewClient(clientOptions(*broker, *clientID))
		if pub, err = newPublisher(client, *broker, *topic, logger); err != nil {
			return err
		}
		defer pub.close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
		return nil
	case <-time.After(warmUp):
	}

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	for i := 0; *count == 0 || i < *count; i++ {
		r, err := d.Measure()
		if err != nil {
			logger.Warn("measurement failed", "err", err)
		} else {
			logger.Info("reading", "temperature", r.Temperature, "humidity", r.Humidity)
			if pub != nil {
				pub.publish(opts.Kind, p.Name(), r)
			}
		}
		select {
		case <-ctx.Done():
			logger.Debug("interrupted")
			return nil
		case <-ticker.C:
		}
	}
	return nil
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "dht: %s.\n", err)
		os.Exit(1)
	}
}
