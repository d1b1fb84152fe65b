// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texture

import "errors"

// Sentinel errors for the texture backend.
var (
	// ErrNilProvider is returned when a nil DeviceProvider is passed.
	ErrNilProvider = errors.New("texture: nil DeviceProvider")

	// ErrNilRender is returned when a nil render callback is passed.
	ErrNilRender = errors.New("texture: nil render func")

	// ErrNoDevice is returned when the provider has no live device.
	ErrNoDevice = errors.New("texture: provider has no device")

	// ErrNoCreator is returned when a flush needs to create a texture
	// and no TextureCreator is available.
	ErrNoCreator = errors.New("texture: no texture creator")

	// ErrInvalidSize is returned when a buffer or window dimension is
	// not positive.
	ErrInvalidSize = errors.New("texture: invalid size")

	// ErrBufferReleased is returned when an operation targets a buffer
	// whose staging data has already been released.
	ErrBufferReleased = errors.New("texture: buffer released")

	// ErrForeignBuffer is returned when a buffer was not created by
	// this package's updater.
	ErrForeignBuffer = errors.New("texture: buffer from another backend")

	// ErrOutOfBounds is returned when a window does not fit inside the
	// buffer it addresses.
	ErrOutOfBounds = errors.New("texture: window outside buffer bounds")
)
