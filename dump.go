// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package cbev

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
)

// Dumper wraps a [Callback] and writes one human-readable trace line per
// event to w, in a notation borrowed from the teacher's CBOR Diagnostic
// Notation encoder (cbor/cdn): byte strings as h'..', text strings
// JSON-quoted, everything else printed plain. Unlike cdn.FromCBOR, which
// renders one whole decoded value, Dumper renders the event stream directly
// as it arrives -- one line per scalar, chunk, or container boundary, with
// the current path and, when active, the matching pattern index.
type Dumper struct {
	w    io.Writer
	next Callback
}

// NewDumper wraps next so that every event is traced to w before next is
// invoked. A nil next still produces a trace with no delegated handling.
func NewDumper(w io.Writer, next Callback) *Dumper {
	return &Dumper{w: w, next: next}
}

// Callback returns the wrapped [Callback] suitable for [New].
func (d *Dumper) Callback() Callback {
	return func(p *Parser, ev Event) error {
		d.trace(p, ev)
		if d.next == nil {
			return nil
		}
		return d.next(p, ev)
	}
}

func (d *Dumper) trace(p *Parser, ev Event) {
	line := fmt.Sprintf("%s path=%q", ev, p.Path())
	if m := p.PathMatch(); m != 0 {
		line += fmt.Sprintf(" match=%d", m)
	}
	if v := dumpValue(p, ev); v != "" {
		line += " value=" + v
	}
	fmt.Fprintln(d.w, line)
}

func dumpValue(p *Parser, ev Event) string {
	switch ev {
	case EvNumUint:
		return fmt.Sprintf("%d", p.Uint())
	case EvNumInt:
		return fmt.Sprintf("%d", p.Int())
	case EvFloat16:
		return fmt.Sprintf("0x%04x", p.Float16Bits())
	case EvFloat32:
		return fmt.Sprintf("%v", p.Float32())
	case EvFloat64:
		return fmt.Sprintf("%v", p.Float64())
	case EvSimple:
		return fmt.Sprintf("simple(%d)", p.Simple())
	case EvTagStart:
		return fmt.Sprintf("%d(", p.Uint())
	case EvStrChunk, EvStrEnd:
		d, err := json.Marshal(string(p.Chunk()))
		if err != nil {
			return ""
		}
		return string(d)
	case EvBlobChunk, EvBlobEnd:
		return "h'" + hex.EncodeToString(p.Chunk()) + "'"
	default:
		return ""
	}
}
