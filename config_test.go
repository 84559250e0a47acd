// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package cbev_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbor-stream/cbev"
)

func TestLoadPatternsDecodesOrderedList(t *testing.T) {
	doc := strings.NewReader(`
patterns:
  - a.b
  - a.*
  - items[].id
`)
	got, err := cbev.LoadPatterns(doc)
	require.NoError(t, err)
	assert.Equal(t, []cbev.Pattern{"a.b", "a.*", "items[].id"}, got)
}

func TestLoadPatternsEmptyDocument(t *testing.T) {
	got, err := cbev.LoadPatterns(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadPatternsMalformedYAML(t *testing.T) {
	_, err := cbev.LoadPatterns(strings.NewReader("patterns: [a, b\n"))
	require.Error(t, err)
}

func TestLoadPatternsFeedIntoParser(t *testing.T) {
	patterns, err := cbev.LoadPatterns(strings.NewReader("patterns:\n  - a.b\n"))
	require.NoError(t, err)

	var matched bool
	cb := func(p *cbev.Parser, ev cbev.Event) error {
		if ev == cbev.EvNumUint && p.PathMatch() != 0 {
			matched = true
		}
		return nil
	}
	p := cbev.New(cb, cbev.WithPatterns(patterns...))
	require.NoError(t, p.Parse([]byte{0xA1, 0x61, 'a', 0xA1, 0x61, 'b', 0x01}))
	assert.True(t, matched)
}
