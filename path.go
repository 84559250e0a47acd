// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package cbev

// Pattern is one entry in a registered pattern list (spec §3.1, §4.3). A
// single '*' matches one path segment: everything up to the next '.', or
// the remainder of the path if the '*' is the pattern's last character.
//
// Only the first matching pattern wins, so more specific patterns must be
// listed before less specific ones, e.g. "a.b" before "a.*".
type Pattern = string

// maxWildcards bounds how many '*' starting offsets a single match records.
// Overflow is silent truncation (spec §9, Open Question (a)): offsets past
// this count are simply not recorded.
const maxWildcards = 8

// checkPathMatch re-evaluates the registered patterns against the current
// path, exactly as lecp_check_path_match does: skipped entirely while a
// match is already active (matchIndex != 0), and only the first pattern
// that matches end-to-end wins.
func (p *Parser) checkPathMatch() {
	if p.matchIndex != 0 {
		return
	}
	path := p.path
	for n, pat := range p.patterns {
		nwild := 0
		wild := p.wildcards[:0]
		i, j := 0, 0
		for i < len(path) && j < len(pat) {
			if pat[j] != '*' {
				if path[i] != pat[j] {
					break
				}
				i++
				j++
				continue
			}
			if nwild < maxWildcards {
				wild = append(wild, i)
			}
			nwild++
			j++
			// A '*' with something after it matches up to the next '.'; a
			// trailing '*' eats everything remaining.
			for i < len(path) && (path[i] != '.' || j >= len(pat)) {
				i++
			}
		}
		if i != len(path) || j != len(pat) {
			continue
		}
		p.matchIndex = n + 1
		p.matchPathLen = len(path)
		p.wildcards = wild
		if p.metrics != nil {
			p.metrics.PathMatches.WithLabelValues(pat).Inc()
		}
		return
	}
	p.wildcards = p.wildcards[:0]
}

// Path returns the current dotted path, e.g. "a.b" or "items[]".
func (p *Parser) Path() string { return string(p.path) }

// PathMatch reports the 1-based index into the registered pattern list of
// the pattern currently matching the path, or 0 if none matches.
func (p *Parser) PathMatch() int { return p.matchIndex }

// PathMatchLen returns the path length at the moment the active match was
// recorded.
func (p *Parser) PathMatchLen() int { return p.matchPathLen }

// Wildcards returns the byte offsets within [Parser.Path] at which each '*'
// in the matching pattern began consuming, for the currently active match.
// The returned slice is only valid until the path next changes (a pop, a new
// container, or a new map key).
func (p *Parser) Wildcards() []int { return p.wildcards }

// appendPathByte grows the path buffer by one byte, failing with
// [ErrCodeStackOverflow] if that would exceed its fixed capacity.
func (p *Parser) appendPathByte(b byte) error {
	if len(p.path) >= cap(p.path) {
		return p.fail(p.newError(ErrCodeStackOverflow, p.offset, nil))
	}
	p.path = append(p.path, b)
	return nil
}

// appendPathBytes is appendPathByte for a whole slice at once, used when
// splicing a completed map key into the path.
func (p *Parser) appendPathBytes(b []byte) error {
	if len(p.path)+len(b) > cap(p.path) {
		return p.fail(p.newError(ErrCodeStackOverflow, p.offset, nil))
	}
	p.path = append(p.path, b...)
	return nil
}

// truncatePath resets the path to length n, as on frame pop.
func (p *Parser) truncatePath(n int) { p.path = p.path[:n] }
