// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package cbev

import "math"

// itemKind discriminates the tagged union described in spec §3.1 ("item
// descriptor"): the currently assembling scalar is exactly one of these at
// any time, selected by the present event that will fire once it completes.
type itemKind byte

const (
	itemNone itemKind = iota
	itemUint
	itemInt
	itemTagNum
	itemFloat16
	itemFloat32
	itemFloat64
)

// item is the parser's pending-item descriptor (spec §3.1). Integer heads
// (unsigned, negative, tag number) and floats of all three widths share one
// accumulator, disambiguated by kind; this mirrors the C source's untagged
// union, with one uint64 slot standing in for it since Go has no union type.
type item struct {
	opcode  byte
	kind    itemKind
	u64     uint64
	present Event
}

func (it *item) reset(opcode byte, kind itemKind, present Event) {
	it.opcode = opcode
	it.kind = kind
	it.u64 = 0
	it.present = present
}

// asInt reinterprets the collected unsigned magnitude as a negative CBOR
// integer: -1 - n, per RFC 8949 §3.1.
func (it *item) asInt() int64 { return -1 - int64(it.u64) }

func (it *item) asFloat32() float32 { return math.Float32frombits(uint32(it.u64)) }

func (it *item) asFloat64() float64 { return math.Float64frombits(it.u64) }
