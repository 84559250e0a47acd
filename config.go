// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package cbev

import (
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
)

// patternsDoc is the on-disk shape LoadPatterns expects:
//
//	patterns:
//	  - name.first
//	  - items[].*
type patternsDoc struct {
	Patterns []Pattern `yaml:"patterns"`
}

// LoadPatterns decodes a registered pattern list (spec §3.1) from a YAML
// document, for callers that prefer an external, user-editable pattern file
// over passing [WithPatterns] literals at construction time. Pattern order
// is preserved: it is significant, since only the first matching pattern
// wins (spec §4.3).
func LoadPatterns(r io.Reader) ([]Pattern, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("cbev: reading pattern document: %w", err)
	}
	var doc patternsDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("cbev: decoding pattern document: %w", err)
	}
	return doc.Patterns, nil
}
