// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"time"

	"github.com/GermanBionicSystems/dhtseries/dht"
	"github.com/charmbracelet/log"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"periph.io/x/conn/v3/physic"
)

const (
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
)

// publisher sends readings to an MQTT broker in InfluxDB line protocol, so
// Telegraf can ingest them unchanged.
type publisher struct {
	client mqtt.Client
	topic  string
	logger *log.Logger
}

func clientOptions(broker, clientID string) *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(connectTimeout)
	return opts
}

// newPublisher connects client and returns a publisher on topic.
func newPublisher(client mqtt.Client, broker, topic string, logger *log.Logger) (*publisher, error) {
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", broker, token.Error())
	}
	logger.Info("connected to MQTT broker", "broker", broker, "topic", topic)
	return &publisher{client: client, topic: topic, logger: logger}, nil
}

// line formats r in °C and %rH with one decimal.
func line(kind dht.SensorKind, pin string, r dht.Reading, ts time.Time) string {
	return fmt.Sprintf("dht,kind=%s,pin=%s temperature=%.1f,humidity=%.1f %d",
		kind, pin, r.Temperature.Celsius(), float64(r.Humidity)/float64(physic.PercentRH), ts.UnixNano())
}

func (p *publisher) publish(kind dht.SensorKind, pin string, r dht.Reading) {
	token := p.client.Publish(p.topic, 0, false, line(kind, pin, r, time.Now()))
	if !token.WaitTimeout(publishTimeout) {
		p.logger.Warn("publish timed out", "topic", p.topic)
		return
	}
	if err := token.Error(); err != nil {
		p.logger.Warn("publish failed", "topic", p.topic, "err", err)
		return
	}
	p.logger.Debug("published", "topic", p.topic)
}

func (p *publisher) close() {
	p.client.Disconnect(250)
}
