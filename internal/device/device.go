// Package device abstracts the device runtime the generator state lives on:
// device ordinals, device memory allocations, and ordered execution streams.
//
// Two runtimes exist behind build tags. Builds with the cuda tag bind the
// CUDA runtime directly. Default builds run against a host runtime that
// emulates a small pool of virtual devices, so every code path (including
// cross-device checks) stays exercisable without hardware.
package device

import "errors"

// ID is a device ordinal.
type ID int

// ErrBadDevice is returned when a device ordinal is out of range.
var ErrBadDevice = errors.New("device ordinal out of range")
