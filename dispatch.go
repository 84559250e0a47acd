// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package cbev

// Parse feeds data through the byte dispatcher (spec §4.1). It may be called
// any number of times with arbitrarily-sized slices; the parser's state fully
// captures where it left off, so splitting input differently never changes
// the sequence of callback invocations (spec §7, property 1).
//
// Parse returns nil once every pushed item has closed and the parser is idle
// at depth 0. It returns [ErrContinue] when data ended mid-item: call Parse
// again with more bytes. Any other error is a [*ParseError]; the parser must
// not be reused afterward.
func (p *Parser) Parse(data []byte) error {
	p.offset = 0
	for _, c := range data {
		if err := p.step(c); err != nil {
			return err
		}
		p.offset++
		if p.metrics != nil {
			p.metrics.BytesConsumed.Inc()
		}
	}
	if p.sp == 0 && p.top().state == subOpcode {
		return nil
	}
	return ErrContinue
}

// step dispatches a single byte according to the current frame's sub-state.
func (p *Parser) step(c byte) error {
	switch p.top().state {
	case subOpcode:
		return p.opc(c)
	case subCollect:
		return p.collect(c)
	case subSimpleX8:
		return p.simpleX8(c)
	case subCollate:
		return p.collate(c)
	case subOnlySame:
		return p.onlySame(c)
	default:
		panic("cbev: unreachable sub-state")
	}
}

// opc handles a byte while awaiting an opcode: the high 3 bits select the
// major type, the low 5 the sub-mask (spec §4.1).
func (p *Parser) opc(c byte) error {
	f := p.top()
	mt := majorType(c)
	sm := subMask(c)
	f.opcode = mt

	switch mt {
	case unsignedIntMajorType:
		p.it.kind = itemUint
		p.it.present = EvNumUint
		if sm < additionalUint8 {
			p.it.u64 = uint64(sm)
			return p.issueScalar()
		}
		return p.i2(sm)

	case negativeIntMajorType:
		p.it.kind = itemInt
		p.it.present = EvNumInt
		if sm < additionalUint8 {
			p.it.u64 = uint64(sm)
			return p.issueScalar()
		}
		return p.i2(sm)

	case byteStringMajorType:
		return p.beginString(sm, true)

	case textStringMajorType:
		return p.beginString(sm, false)

	case arrayMajorType:
		return p.opcArray(sm)

	case mapMajorType:
		return p.opcMap(sm)

	case tagMajorType:
		if sm < additionalUint8 {
			f.tag = uint64(sm)
			return p.startTagEnclosure()
		}
		return p.i2(sm)

	case simpleMajorType:
		return p.opcSimple(sm)
	}

	panic("cbev: unreachable major type")
}

// i2 is the common "collect N big-endian bytes" path shared by every major
// type once its sub-mask says the value doesn't fit in the head byte (spec
// §4.1, §4.5).
func (p *Parser) i2(sm byte) error {
	if sm == additionalIndefinite {
		return p.fail(p.newError(ErrCodeBadCoding, p.offset, ErrIndefiniteNotAllowed))
	}
	if sm >= additionalReservedLo {
		return p.fail(p.newError(ErrCodeBadCoding, p.offset, ErrReservedSubMask))
	}
	n := 1 << (sm - additionalUint8)
	p.it.u64 = 0
	f := p.top()
	f.state = subCollect
	f.remaining = uint64(n)
	return nil
}

// collect accumulates one big-endian byte of a multi-byte head into the
// pending item's 64-bit slot (spec §4.5), shift-accumulating rather than
// walking a raw pointer by host endianness: the result is identical, and the
// byte order of the wire format is big-endian regardless of host.
func (p *Parser) collect(c byte) error {
	f := p.top()
	p.it.u64 = p.it.u64<<8 | uint64(c)
	f.remaining--
	if f.remaining > 0 {
		return nil
	}
	p.scratch = p.scratch[:0]
	return p.afterCollect()
}

// afterCollect dispatches on the opcode of the frame whose head bytes just
// finished collecting: it completes a container's count, a tag's number, or
// a scalar literal.
func (p *Parser) afterCollect() error {
	f := p.top()
	switch f.opcode {
	case byteStringMajorType, textStringMajorType:
		f.indefinite = false
		f.remaining = p.it.u64
		f.state = subCollate
		return nil
	case arrayMajorType:
		f.remaining = p.it.u64
		f.indefinite = false
		return p.push(EvNone, EvArrayEnd, subOpcode)
	case mapMajorType:
		f.remaining = p.it.u64 * 2
		f.indefinite = false
		return p.push(EvNone, EvObjectEnd, subOpcode)
	case tagMajorType:
		f.tag = p.it.u64
		return p.startTagEnclosure()
	default: // unsignedIntMajorType, negativeIntMajorType, simpleMajorType (floats)
		return p.issueScalar()
	}
}

// simpleX8 handles the one-byte simple-value extension (major type 7, sub
// 24): RFC 8949 §3.3 forbids it from re-encoding a value already expressible
// implicitly, so only values above 31 are accepted.
func (p *Parser) simpleX8(c byte) error {
	if c <= additionalIndefinite {
		return p.fail(p.newError(ErrCodeBadCoding, p.offset, ErrReservedSimpleExt))
	}
	p.it.u64 = uint64(c)
	p.it.kind = itemUint
	p.it.present = EvSimple
	return p.issueScalar()
}

// opcSimple handles major type 7: well-known simples, floats, the
// one-byte simple extension, break, and anonymous simple values.
func (p *Parser) opcSimple(sm byte) error {
	switch sm {
	case simpleFalse:
		p.it.present = EvFalse
		return p.issueScalar()
	case simpleTrue:
		p.it.present = EvTrue
		return p.issueScalar()
	case simpleNull:
		p.it.present = EvNull
		return p.issueScalar()
	case simpleUndefined:
		p.it.present = EvUndefined
		return p.issueScalar()
	case additionalSimpleExt:
		p.top().state = subSimpleX8
		return nil
	case additionalFloat16:
		p.it.kind = itemFloat16
		p.it.present = EvFloat16
		return p.beginCollect(2)
	case additionalFloat32:
		p.it.kind = itemFloat32
		p.it.present = EvFloat32
		return p.beginCollect(4)
	case additionalFloat64:
		p.it.kind = itemFloat64
		p.it.present = EvFloat64
		return p.beginCollect(8)
	case additionalIndefinite: // break
		if p.sp == 0 || !p.parent().indefinite {
			return p.fail(p.newError(ErrCodeBadCoding, p.offset, ErrBreakWithoutIndefiniteParent))
		}
		return p.bubble(true)
	default:
		p.it.u64 = uint64(sm)
		p.it.kind = itemUint
		p.it.present = EvSimple
		return p.issueScalar()
	}
}

func (p *Parser) beginCollect(n int) error {
	p.it.u64 = 0
	f := p.top()
	f.state = subCollect
	f.remaining = uint64(n)
	return nil
}

// issueScalar fires the pending item's event and bubbles completion up the
// frame stack (spec §4.1 "emit immediately").
func (p *Parser) issueScalar() error {
	if p.metrics != nil {
		p.metrics.ItemsCompleted.WithLabelValues(p.it.present.String()).Inc()
	}
	if err := p.emit(p.it.present); err != nil {
		return err
	}
	return p.bubble(false)
}

// beginString handles a byte/text string head (spec §4.1, §4.2): empty,
// definite short, definite long (deferred length via i2), or indefinite
// (pushes a same-major-type child frame).
func (p *Parser) beginString(sm byte, isBlob bool) error {
	f := p.top()
	p.scratch = p.scratch[:0]

	var evStart, evEnd Event
	if isBlob {
		evStart, evEnd = EvBlobStart, EvBlobEnd
	} else {
		evStart, evEnd = EvStrStart, EvStrEnd
	}

	notContinuation := p.sp == 0 || !p.parent().intermediate
	if notContinuation {
		if err := p.emit(evStart); err != nil {
			return err
		}
	}

	if sm == 0 {
		if err := p.emit(evEnd); err != nil {
			return err
		}
		return p.bubble(false)
	}
	if sm < additionalUint8 {
		f.indefinite = false
		f.remaining = uint64(sm)
		f.state = subCollate
		return nil
	}
	if sm < additionalReservedLo {
		return p.i2(sm)
	}
	if sm == additionalIndefinite {
		f.indefinite = true
		f.pathLen = len(p.path)
		return p.push(EvNone, evEnd, subOnlySame)
	}
	return p.fail(p.newError(ErrCodeBadCoding, p.offset, ErrReservedSubMask))
}

// onlySame handles a fragment head byte inside an indefinite-length string
// (spec §3.1 "indefinite-string child"): only definite-length fragments of
// the same major type are allowed, until a break closes the string.
func (p *Parser) onlySame(c byte) error {
	if p.sp == 0 {
		panic("cbev: only-same state at depth 0")
	}
	if c == breakByte {
		if !p.parent().indefinite {
			return p.fail(p.newError(ErrCodeBadCoding, p.offset, ErrBreakWithoutIndefiniteParent))
		}
		return p.bubble(true)
	}

	f := p.top()
	mt := majorType(c)
	if mt != p.parent().opcode {
		return p.fail(p.newError(ErrCodeBadCoding, p.offset, ErrMixedMajorTypeFragment))
	}
	f.opcode = mt
	sm := subMask(c)
	if sm == additionalIndefinite {
		return p.fail(p.newError(ErrCodeBadCoding, p.offset, ErrNestedIndefiniteFragment))
	}
	if sm < additionalUint8 {
		f.indefinite = false
		f.remaining = uint64(sm)
		f.state = subCollate
		return nil
	}
	if sm < additionalReservedLo {
		return p.i2(sm)
	}
	return p.fail(p.newError(ErrCodeBadCoding, p.offset, ErrReservedSubMask))
}

// collate accumulates one string byte into the scratch buffer, spilling at
// scratch_capacity-1 bytes or at the fragment's byte budget, whichever comes
// first (spec §4.4).
func (p *Parser) collate(c byte) error {
	f := p.top()
	p.scratch = append(p.scratch, c)
	if f.remaining > 0 {
		f.remaining--
	}
	if len(p.scratch) != cap(p.scratch)-1 && f.remaining > 0 {
		return nil
	}
	return p.spillCollate()
}

// spillCollate delivers the accumulated scratch bytes as a body or end
// chunk, splicing a completed map key into the path first (spec §4.3, §4.4).
func (p *Parser) spillCollate() error {
	f := p.top()

	if p.sp > 0 {
		par := p.parent()
		if par.opcode == mapMajorType && par.ordinal%2 == 0 {
			// par.pathLen is the path length saved when the map's '.' was
			// appended; it is 0 only for a root-level map, which omits the
			// leading separator entirely (see opcMap), so the key base sits
			// one byte further in for every map except the outermost one.
			base := par.pathLen
			if base > 0 {
				base++
			}
			if !f.keyOpen {
				p.truncatePath(base)
				f.keyOpen = true
			}
			if err := p.appendPathBytes(p.scratch); err != nil {
				return err
			}
			p.matchIndex = 0
			p.checkPathMatch()
		}
	}

	isBlob := f.opcode == byteStringMajorType
	var chunkEv, endEv Event
	if isBlob {
		chunkEv, endEv = EvBlobChunk, EvBlobEnd
	} else {
		chunkEv, endEv = EvStrChunk, EvStrEnd
	}

	bodyLeft := f.remaining > 0
	indefCtx := p.isIndefiniteStringContext()
	moreComing := bodyLeft || indefCtx

	if p.sp > 0 {
		p.parent().intermediate = moreComing
	}

	ev := endEv
	if moreComing {
		ev = chunkEv
	}
	if err := p.emit(ev); err != nil {
		return err
	}
	p.scratch = p.scratch[:0]

	switch {
	case bodyLeft:
		f.state = subCollate
		return nil
	case indefCtx:
		f.state = subOnlySame
		return nil
	default:
		f.keyOpen = false
		return p.bubble(false)
	}
}

// opcArray handles an array head byte (spec §4.1, §4.2).
func (p *Parser) opcArray(sm byte) error {
	f := p.top()
	p.scratch = p.scratch[:0]
	savedLen := len(p.path)

	if err := p.appendPathBytes([]byte{'[', ']'}); err != nil {
		return err
	}
	p.matchIndex = 0
	p.checkPathMatch()

	if len(p.index) >= cap(p.index) {
		return p.fail(p.newError(ErrCodeStackOverflow, p.offset, nil))
	}
	p.index = append(p.index, 0)

	if err := p.emit(EvArrayStart); err != nil {
		return err
	}

	if sm == 0 {
		if err := p.emit(EvArrayEnd); err != nil {
			return err
		}
		p.truncatePath(savedLen)
		p.index = p.index[:len(p.index)-1]
		p.matchIndex = 0
		p.checkPathMatch()
		return p.bubble(false)
	}

	f.pathLen = savedLen
	if sm < additionalUint8 {
		f.remaining = uint64(sm)
		f.indefinite = false
		return p.push(EvNone, EvArrayEnd, subOpcode)
	}
	if sm < additionalReservedLo {
		return p.i2(sm)
	}
	if sm == additionalIndefinite {
		f.indefinite = true
		return p.push(EvNone, EvArrayEnd, subOpcode)
	}
	return p.fail(p.newError(ErrCodeBadCoding, p.offset, ErrReservedSubMask))
}

// opcMap handles a map head byte (spec §4.1, §4.2); the item budget is
// doubled since each entry contributes a key and a value.
func (p *Parser) opcMap(sm byte) error {
	f := p.top()
	p.scratch = p.scratch[:0]
	savedLen := len(p.path)

	// A root-level map omits the leading '.': there is no prior path
	// segment for it to separate from, and registered patterns are written
	// without one (spec.md §8 scenario 5: path "a.b", not ".a.b").
	if savedLen > 0 {
		if err := p.appendPathByte('.'); err != nil {
			return err
		}
	}
	p.matchIndex = 0
	p.checkPathMatch()

	if err := p.emit(EvObjectStart); err != nil {
		return err
	}

	if sm == 0 {
		if err := p.emit(EvObjectEnd); err != nil {
			return err
		}
		p.truncatePath(savedLen)
		p.matchIndex = 0
		p.checkPathMatch()
		return p.bubble(false)
	}

	f.pathLen = savedLen
	f.ordinal = 0
	if sm < additionalUint8 {
		f.remaining = uint64(sm) * 2
		f.indefinite = false
		return p.push(EvNone, EvObjectEnd, subOpcode)
	}
	if sm < additionalReservedLo {
		return p.i2(sm)
	}
	if sm == additionalIndefinite {
		f.indefinite = true
		return p.push(EvNone, EvObjectEnd, subOpcode)
	}
	return p.fail(p.newError(ErrCodeBadCoding, p.offset, ErrReservedSubMask))
}

// startTagEnclosure pushes a frame for the single item enclosed by a tag
// (spec §4.1 "Tag"); tags never touch the path themselves.
func (p *Parser) startTagEnclosure() error {
	f := p.top()
	f.pathLen = len(p.path)
	f.indefinite = false
	p.it.kind = itemTagNum
	p.it.u64 = f.tag
	p.it.present = EvTagStart
	return p.push(EvTagStart, EvTagEnd, subOpcode)
}
