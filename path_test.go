// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package cbev_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbor-stream/cbev"
)

// nestedArrayMapInput encodes {items: [{id: 1}, {id: 2}]}.
func nestedArrayMapInput() []byte {
	return []byte{
		0xA1,
		0x65, 'i', 't', 'e', 'm', 's',
		0x82,
		0xA1, 0x62, 'i', 'd', 0x01,
		0xA1, 0x62, 'i', 'd', 0x02,
	}
}

func TestWildcardPatternMatchesArrayElements(t *testing.T) {
	var matches []int
	var paths []string
	cb := func(p *cbev.Parser, ev cbev.Event) error {
		if ev == cbev.EvNumUint {
			matches = append(matches, p.PathMatch())
			paths = append(paths, p.Path())
		}
		return nil
	}
	p := cbev.New(cb, cbev.WithPatterns("items[].id"))
	require.NoError(t, p.Parse(nestedArrayMapInput()))

	assert.Equal(t, []string{"items[].id", "items[].id"}, paths)
	assert.Equal(t, []int{1, 1}, matches)
}

func TestTrailingWildcardMatchesRemainder(t *testing.T) {
	var matched bool
	cb := func(p *cbev.Parser, ev cbev.Event) error {
		if ev == cbev.EvNumUint && p.PathMatch() != 0 {
			matched = true
		}
		return nil
	}
	p := cbev.New(cb, cbev.WithPatterns("items[].*"))
	require.NoError(t, p.Parse(nestedArrayMapInput()))
	assert.True(t, matched)
}

func TestFirstPatternWins(t *testing.T) {
	var matchesSeen []int
	cb := func(p *cbev.Parser, ev cbev.Event) error {
		if ev == cbev.EvNumUint {
			matchesSeen = append(matchesSeen, p.PathMatch())
		}
		return nil
	}
	p := cbev.New(cb, cbev.WithPatterns("a.b", "a.*"))
	require.NoError(t, p.Parse(mapWithPathMatchInput()))
	require.Len(t, matchesSeen, 2)
	assert.Equal(t, 1, matchesSeen[0]) // "a.b" (more specific) wins over "a.*"
}

func TestPathBufferOverflowIsStackOverflow(t *testing.T) {
	cb := func(p *cbev.Parser, ev cbev.Event) error { return nil }
	p := cbev.New(cb, cbev.WithPathCapacity(2))

	// A single map key longer than the path buffer's capacity.
	err := p.Parse([]byte{0xA1, 0x63, 'a', 'b', 'c', 0x01})
	require.Error(t, err)
	var perr *cbev.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, cbev.ErrCodeStackOverflow, perr.Code)
}
