// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package cbev

// PushCallback installs a new callback and pattern list, saving the previous
// parsing-stack entry so it can be restored later (spec §4.6). This lets a
// tag body or a nested structure be handled by a different callback without
// disturbing the frame stack, path, or scratch buffer underneath it.
//
// PushCallback fires [EvDestructed] on the outgoing callback and
// [EvConstructed] on the incoming one, mirroring a fresh [New]/[Parser.Destruct]
// pair at the swap point. Path matching resets: matchIndex is cleared and the
// current path is matched again at once against the new pattern list.
func (p *Parser) PushCallback(cb Callback, patterns ...Pattern) error {
	if err := p.emit(EvDestructed); err != nil {
		return err
	}
	p.pstSp++
	if p.pstSp >= len(p.pstack) {
		p.pstack = append(p.pstack, parsingStack{})
	}
	p.pstack[p.pstSp] = parsingStack{cb: cb, patterns: patterns}
	p.patterns = patterns
	p.matchIndex = 0
	p.checkPathMatch()

	p.log.V(2).Info("cbev: callback pushed", "depth", p.pstSp)
	return p.emit(EvConstructed)
}

// PopCallback restores the parsing-stack entry installed before the matching
// [Parser.PushCallback]. It fires [EvDestructed] on the outgoing callback and
// [EvConstructed] on the restored one, then re-evaluates path matching
// against the restored pattern list.
func (p *Parser) PopCallback() error {
	if p.pstSp == 0 {
		panic("cbev: PopCallback without a matching PushCallback")
	}
	if err := p.emit(EvDestructed); err != nil {
		return err
	}
	p.pstSp--
	p.patterns = p.pstack[p.pstSp].patterns
	p.matchIndex = 0
	p.checkPathMatch()

	p.log.V(2).Info("cbev: callback popped", "depth", p.pstSp)
	return p.emit(EvConstructed)
}
