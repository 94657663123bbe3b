// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht

import (
	"errors"
	"fmt"
)

var (
	// ErrTransferIncomplete matches every *TransferIncompleteError.
	ErrTransferIncomplete = errors.New("dht: data transfer failed")
	// ErrChecksumMismatch matches every *ChecksumMismatchError.
	ErrChecksumMismatch = errors.New("dht: checksum does not match")
)

// TransferIncompleteError is returned when the sensor did not produce all the
// falling edges of a response within the settle window. The sensor is likely
// absent or disconnected.
type TransferIncompleteError struct {
	// Edges is the number of falling edges captured.
	Edges int
}

func (e *TransferIncompleteError) Error() string {
	return fmt.Sprintf("%s: %d falling edges only", ErrTransferIncomplete, e.Edges)
}

func (e *TransferIncompleteError) Is(target error) bool {
	return target == ErrTransferIncomplete
}

// ChecksumMismatchError is returned when the transmitted checksum disagrees
// with the data bytes, usually because of noise on the line.
type ChecksumMismatchError struct {
	// Sum is the sum of the four data bytes modulo 256.
	Sum byte
	// Checksum is the checksum byte sent by the sensor.
	Checksum byte
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("%s: computed 0x%02x, received 0x%02x", ErrChecksumMismatch, e.Sum, e.Checksum)
}

func (e *ChecksumMismatchError) Is(target error) bool {
	return target == ErrChecksumMismatch
}
