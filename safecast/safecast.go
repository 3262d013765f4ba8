// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package safecast

// Based on https://github.com/fortio/safecast
// We are dependency-free, so cannot reference module directly

type Integer interface {
	~uintptr |
		~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

func Cast[Result Integer, Arg Integer](arg Arg) Result {
	argPositive := arg > 0
	converted := Result(arg)
	if argPositive != (converted > 0) {
		panic("integer overflow - loss of sign")
	}
	if Arg(converted) != arg {
		panic("integer overflow")
	}
	return converted
}
