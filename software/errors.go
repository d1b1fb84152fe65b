// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import "errors"

// Sentinel errors for the software backend.
var (
	// ErrInvalidSize is returned when a buffer or window dimension is
	// not positive.
	ErrInvalidSize = errors.New("software: invalid size")

	// ErrBufferReleased is returned when an operation targets a buffer
	// whose pixel data has already been released.
	ErrBufferReleased = errors.New("software: buffer released")

	// ErrForeignBuffer is returned when a buffer was not created by
	// this package's updater.
	ErrForeignBuffer = errors.New("software: buffer from another backend")

	// ErrOutOfBounds is returned when a window does not fit inside the
	// buffer it addresses.
	ErrOutOfBounds = errors.New("software: window outside buffer bounds")
)
