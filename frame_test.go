// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package cbev_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDeeplyNestedPopRestoresAncestorPath exercises the pop() ordering fix
// directly: closing the innermost array must restore the path and fire the
// event belonging to the frame that dispatched it -- the one that becomes
// current again once depth is decremented -- not the frame two levels up.
// An array-of-maps-of-arrays tree is the smallest shape that can tell the
// two apart, since every level reuses the same underlying frame slot as the
// stack unwinds.
//
// Encodes: [{x: [1, 2]}, {y: [3]}]
func deeplyNestedInput() []byte {
	return []byte{
		0x82,
		0xA1, 0x61, 'x', 0x82, 0x01, 0x02,
		0xA1, 0x61, 'y', 0x81, 0x03,
	}
}

func TestDeeplyNestedPopRestoresAncestorPath(t *testing.T) {
	got := parseWhole(t, deeplyNestedInput())

	var uints []recorded
	for _, r := range got {
		if r.Event == "num_uint" {
			uints = append(uints, r)
		}
	}
	require.Len(t, uints, 3)
	assert.Equal(t, "[].x[]", uints[0].Path)
	assert.Equal(t, uint64(1), uints[0].Uint)
	assert.Equal(t, "[].x[]", uints[1].Path)
	assert.Equal(t, uint64(2), uints[1].Uint)
	assert.Equal(t, "[].y[]", uints[2].Path)
	assert.Equal(t, uint64(3), uints[2].Uint)

	// Every array_start/object_start must be answered by an end of the same
	// kind, and the path must be back at "" once the whole document closes.
	var starts, ends int
	for _, r := range got {
		switch r.Event {
		case "array_start", "object_start":
			starts++
		case "array_end", "object_end":
			ends++
		}
	}
	assert.Equal(t, starts, ends)
	assert.Equal(t, "", got[len(got)-1].Path)
}

// TestArrayIndexVectorAcrossSiblingContainers checks that the array index
// vector pop (tied to the same frame the path length and pop event live on)
// stays aligned across several sibling containers closing and reopening at
// the same depth.
func TestArrayIndexVectorAcrossSiblingContainers(t *testing.T) {
	data := []byte{
		0x83,
		0x80,
		0x81, 0x01,
		0x82, 0x02, 0x03,
	}
	got := parseWhole(t, data)

	var starts, ends int
	for _, r := range got {
		switch r.Event {
		case "array_start":
			starts++
		case "array_end":
			ends++
		}
	}
	assert.Equal(t, 4, starts)
	assert.Equal(t, 4, ends)
}

func TestMapWithinArrayWithinMapPathRestoration(t *testing.T) {
	// {a: [{b: 1}]}
	data := []byte{
		0xA1, 0x61, 'a',
		0x81,
		0xA1, 0x61, 'b', 0x01,
	}
	got := parseWhole(t, data)

	var uintPath string
	for _, r := range got {
		if r.Event == "num_uint" {
			uintPath = r.Path
		}
	}
	assert.Equal(t, "a[].b", uintPath)
	assert.Equal(t, "", got[len(got)-1].Path)
	assert.Equal(t, "object_end", got[len(got)-1].Event)
}
