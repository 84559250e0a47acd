// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package cbev

// Major types (high 3 bits of the head byte), RFC 8949 §3.
const (
	unsignedIntMajorType byte = 0x00
	negativeIntMajorType byte = 0x01
	byteStringMajorType  byte = 0x02
	textStringMajorType  byte = 0x03
	arrayMajorType       byte = 0x04
	mapMajorType         byte = 0x05
	tagMajorType         byte = 0x06
	simpleMajorType      byte = 0x07
)

// Additional-info values (low 5 bits of the head byte).
const (
	additionalUint8   byte = 24 // 0x18: one more byte follows
	additionalUint16  byte = 25 // 0x19: two more bytes follow
	additionalUint32  byte = 26 // 0x1a: four more bytes follow
	additionalUint64  byte = 27 // 0x1b: eight more bytes follow
	additionalReservedLo byte = 28
	additionalReservedHi byte = 30
	additionalIndefinite byte = 31 // 0x1f: indefinite length, or break (major type 7)
)

// Additional-info values specific to major type 7 (simple/float), RFC 8949
// §3.3. additionalUint8/16/32 are reused here as the one/two/four-byte
// forms, but mean "extended simple value" / "float16" / "float32"
// respectively rather than an unsigned integer head -- unlike the teacher's
// reflective codec, these are distinguished explicitly below rather than
// aliased to the same mislabeled names.
const (
	additionalSimpleExt byte = 24 // one-byte simple-value extension
	additionalFloat16   byte = 25
	additionalFloat32   byte = 26
	additionalFloat64   byte = 27
)

// Well-known simple values (major type 7, additional info 0-23).
const (
	simpleFalse     byte = 20
	simpleTrue      byte = 21
	simpleNull      byte = 22
	simpleUndefined byte = 23
)

const (
	majorTypeMask byte = 0xe0
	subMaskMask   byte = 0x1f
	breakByte     byte = 0xff // major type 7, additional info 31
)

func majorType(head byte) byte { return head >> 5 }
func subMask(head byte) byte   { return head & subMaskMask }
