// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

/*
Package cbev implements a streaming, push-style parser for RFC 8949 Concise
Binary Object Representation (CBOR).

Unlike a whole-buffer decoder, cbev never holds a complete item in memory.
Bytes are fed to [Parser.Parse] in arbitrarily sized chunks; as soon as the
state machine recognizes a complete scalar, string chunk, or container
boundary it invokes the user's [Callback] with an [Event] describing what
was recognized. The parser also maintains a dotted textual path describing
the current position inside nested maps and arrays, and matches that path
against a caller-supplied list of wildcard patterns so the callback can
react only to items of interest (see [Pattern]).

# Streaming

	p := cbev.New(func(p *cbev.Parser, ev cbev.Event) error {
		if ev == cbev.EvNumUint {
			fmt.Println(p.Path(), p.Uint())
		}
		return nil
	})
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if perr := p.Parse(buf[:n]); perr != nil && !errors.Is(perr, cbev.ErrContinue) {
				return perr
			}
		}
		if err == io.EOF {
			break
		}
	}

Any split of the input into chunks produces the exact same sequence of
callback invocations as feeding it whole; [Parser.Parse] is fully resumable
and returns [ErrContinue] whenever more bytes are needed to finish the item
in progress.

# Path matching

Registering patterns such as "a.b" or "a.*" with [WithPatterns] lets a
callback ask "am I inside something interesting" without maintaining its own
stack of map keys and array indices; [Parser.Path] and [Parser.PathMatch]
report the answer as each scalar event fires.

# Non-goals

cbev does not buffer whole items, does not allocate after construction
(aside from the explicit fixed-capacity buffers sized by [Option]s), does
not encode CBOR, does not validate against a schema, and does not
interpret tag numbers — tags are surfaced to the callback unchanged.
*/
package cbev
