// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package cbev

import (
	"github.com/go-logr/logr"

	"github.com/cbor-stream/cbev/internal/metrics"
)

const (
	defaultMaxDepth     = 24
	defaultPathCapacity = 256
	defaultScratchCap   = 256
	defaultPstackDepth  = 4
)

// parsingStack is one entry of the parser-swap stack (spec §4.6): a
// callback and its registered patterns, installed with [Parser.PushCallback]
// and restored with [Parser.PopCallback].
type parsingStack struct {
	cb       Callback
	patterns []Pattern
}

// Parser is the root value described in spec §3.1: it owns a frame stack, a
// parsing-stack, a path buffer, an array-index vector, a scratch buffer for
// string chunks, the pending-item descriptor, and a user pointer. It is
// single-owner: concurrent use, or re-entrant calls to [Parser.Parse] from
// within a callback, are not supported.
type Parser struct {
	pstack []parsingStack
	pstSp  int

	frames []frame
	sp     int

	path    []byte
	index   []int
	scratch []byte

	it item

	matchIndex   int
	matchPathLen int
	wildcards    []int
	patterns     []Pattern

	offset int // byte offset of the current byte within the active Parse call

	log     logr.Logger
	metrics *metrics.Set

	// User is an arbitrary pointer the caller may use to stash state
	// reachable from inside a [Callback], mirroring the C source's ctx->user.
	User any
}

// Option configures a [Parser] at construction time. All buffer-sizing
// options are only effective when passed to [New]; the buffers are
// allocated once and never resized, so [Parser.Parse] never allocates.
type Option func(*parserConfig)

type parserConfig struct {
	maxDepth   int
	pathCap    int
	scratchCap int
	patterns   []Pattern
	log        logr.Logger
	metrics    *metrics.Set
}

// WithMaxDepth bounds the frame stack (spec §3.2: "never exceeds its fixed
// capacity; overflow is a hard error").
func WithMaxDepth(n int) Option {
	return func(c *parserConfig) { c.maxDepth = n }
}

// WithPathCapacity bounds the path buffer.
func WithPathCapacity(n int) Option {
	return func(c *parserConfig) { c.pathCap = n }
}

// WithScratchCapacity bounds the chunk buffer used to collate string bytes
// (spec §4.4): body chunks are delivered at scratchCap-1 bytes.
func WithScratchCapacity(n int) Option {
	return func(c *parserConfig) { c.scratchCap = n }
}

// WithPatterns installs the registered pattern list (spec §3.1). Order
// matters: the first pattern that matches wins.
func WithPatterns(patterns ...Pattern) Option {
	return func(c *parserConfig) { c.patterns = patterns }
}

// WithLogger attaches a [logr.Logger] used for lifecycle and failure events
// only (constructed, destructed, failed); it is never called from the
// per-byte hot path. The zero value logs nothing.
func WithLogger(log logr.Logger) Option {
	return func(c *parserConfig) { c.log = log }
}

// WithMetrics attaches a [metrics.Set] that counts items, bytes, matches,
// and failures. See package internal/metrics.
func WithMetrics(m *metrics.Set) Option {
	return func(c *parserConfig) { c.metrics = m }
}

// New constructs a Parser bound to cb. It allocates every fixed-capacity
// buffer up front and performs no further allocation from [Parser.Parse]
// (spec §5). New fires [EvConstructed] before returning.
func New(cb Callback, opts ...Option) *Parser {
	cfg := parserConfig{
		maxDepth:   defaultMaxDepth,
		pathCap:    defaultPathCapacity,
		scratchCap: defaultScratchCap,
		log:        logr.Discard(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &Parser{
		pstack:    make([]parsingStack, 1, defaultPstackDepth),
		frames:    make([]frame, cfg.maxDepth),
		path:      make([]byte, 0, cfg.pathCap),
		index:     make([]int, 0, cfg.maxDepth),
		scratch:   make([]byte, 0, cfg.scratchCap),
		wildcards: make([]int, 0, maxWildcards),
		patterns:  cfg.patterns,
		log:       cfg.log,
		metrics:   cfg.metrics,
	}
	p.pstack[0] = parsingStack{cb: cb, patterns: cfg.patterns}
	p.frames[0] = frame{state: subOpcode}

	p.log.V(2).Info("cbev: constructed", "max_depth", cfg.maxDepth, "path_capacity", cfg.pathCap)
	_ = p.emit(EvConstructed)
	return p
}

// Destruct fires [EvDestructed]. Callers that wish to observe the lifecycle
// event should call it explicitly; a Parser otherwise needs no teardown.
func (p *Parser) Destruct() {
	p.log.V(2).Info("cbev: destructed")
	_ = p.emit(EvDestructed)
}

// Depth returns the current frame stack depth. Depth 0 means the parser is
// idle, ready for the next top-level item.
func (p *Parser) Depth() int { return p.sp }

// Tag returns the tag number of the innermost enclosing tag frame, valid
// while handling events nested inside a tag body. The tag number is also
// available at the moment [EvTagStart] itself fires, via [Parser.Uint].
func (p *Parser) Tag() uint64 {
	for i := p.sp; i > 0; i-- {
		if p.frames[i-1].popEvent == EvTagEnd {
			return p.frames[i-1].tag
		}
	}
	return 0
}

// Uint returns the value of an [EvNumUint] event.
func (p *Parser) Uint() uint64 { return p.it.u64 }

// Int returns the value of an [EvNumInt] event.
func (p *Parser) Int() int64 { return p.it.asInt() }

// Float16Bits returns the raw 16-bit pattern of an [EvFloat16] event; IEEE
// 754 half-to-wider-float conversion is left to the caller (spec §4.5).
func (p *Parser) Float16Bits() uint16 { return uint16(p.it.u64) }

// Float32 returns the value of an [EvFloat32] event.
func (p *Parser) Float32() float32 { return p.it.asFloat32() }

// Float64 returns the value of an [EvFloat64] event.
func (p *Parser) Float64() float64 { return p.it.asFloat64() }

// Simple returns the raw value of an [EvSimple] event (an unrecognized
// simple value, or the extended one-byte form).
func (p *Parser) Simple() uint64 { return p.it.u64 }

// Chunk returns the bytes most recently collated for an
// [EvStrChunk]/[EvStrEnd]/[EvBlobChunk]/[EvBlobEnd] event. The slice is only
// valid until the callback returns, since the next chunk reuses the same
// buffer; copy it if it must outlive that call.
func (p *Parser) Chunk() []byte { return p.scratch }

// emit invokes the active callback with ev. A non-nil return is treated as
// the universal abort signal (spec §6): it is wrapped as a
// [*ParseError] with [ErrCodeCallbackRejected] and turned into a terminal
// failure.
func (p *Parser) emit(ev Event) error {
	cb := p.pstack[p.pstSp].cb
	if cb == nil {
		return nil
	}
	if err := cb(p, ev); err != nil {
		return p.fail(p.newError(ErrCodeCallbackRejected, p.offset, err))
	}
	return nil
}

// fail reports a terminal error: it fires [EvFailed] (ignoring that call's
// own return value, so a rejecting FAILED handler cannot recurse) and
// returns err unchanged so callers can simply `return p.fail(err)`.
func (p *Parser) fail(err *ParseError) error {
	p.log.Error(err, "cbev: parse failed", "code", int(err.Code))
	if p.metrics != nil {
		p.metrics.Failures.WithLabelValues(err.Code.String()).Inc()
	}
	if cb := p.pstack[p.pstSp].cb; cb != nil {
		_ = cb(p, EvFailed)
	}
	return err
}
