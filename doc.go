// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package dhtseries is a container for the DHT single-wire sensor driver.
//
// The driver lives in package dht, the command line tool in cmd/dht.
package dhtseries
