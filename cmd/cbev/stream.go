// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/zapr"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/cbor-stream/cbev"
)

type streamOptions struct {
	chunkSize   int
	bytesPerSec int
	patterns    string
	trace       bool
	withUUID    bool
}

func newStreamCmd() *cobra.Command {
	opts := &streamOptions{chunkSize: 4096}

	cmd := &cobra.Command{
		Use:   "stream [file]",
		Short: "Feed a CBOR document through the parser, one chunk at a time",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = os.Stdin
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("cbev: opening input: %w", err)
				}
				defer f.Close()
				in = f
			}
			return runStream(cmd.Context(), in, cmd.OutOrStdout(), opts)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.chunkSize, "chunk-size", opts.chunkSize, "bytes fed to Parse per call")
	flags.IntVar(&opts.bytesPerSec, "bytes-per-sec", 0, "throttle input to this many bytes/sec (0 = unthrottled)")
	flags.StringVar(&opts.patterns, "patterns", "", "YAML file of registered path patterns")
	flags.BoolVar(&opts.trace, "trace", false, "print a human-readable event trace")
	flags.BoolVar(&opts.withUUID, "uuid", false, "attach a per-run correlation id to log lines")

	return cmd
}

func runStream(ctx context.Context, in io.Reader, out io.Writer, opts *streamOptions) error {
	var patterns []cbev.Pattern
	if opts.patterns != "" {
		f, err := os.Open(opts.patterns)
		if err != nil {
			return fmt.Errorf("cbev: opening pattern file: %w", err)
		}
		defer f.Close()
		patterns, err = cbev.LoadPatterns(f)
		if err != nil {
			return err
		}
	}

	zlog := mustProductionLogger()
	defer zlog.Sync() //nolint:errcheck
	log := zapr.NewLogger(zlog)
	if opts.withUUID {
		log = log.WithValues("run_id", uuid.NewString())
	}

	cb := func(p *cbev.Parser, ev cbev.Event) error {
		if m := p.PathMatch(); m != 0 {
			fmt.Fprintf(out, "match=%d path=%q event=%s\n", m, p.Path(), ev)
		}
		return nil
	}
	if opts.trace {
		cb = cbev.NewDumper(out, cb).Callback()
	}

	p := cbev.New(cb,
		cbev.WithLogger(log),
		cbev.WithMetrics(buildMetrics),
		cbev.WithPatterns(patterns...),
	)
	defer p.Destruct()

	var limiter *rate.Limiter
	if opts.bytesPerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.bytesPerSec), opts.bytesPerSec)
	}

	buf := make([]byte, opts.chunkSize)
	var pending bool
	for {
		n, err := in.Read(buf)
		if n > 0 {
			if limiter != nil {
				if werr := limiter.WaitN(ctx, n); werr != nil {
					return fmt.Errorf("cbev: rate limiter: %w", werr)
				}
			}
			// ErrContinue just means the chunk boundary landed mid-item;
			// the parser is resumable and more data is expected next call.
			switch perr := p.Parse(buf[:n]); {
			case perr == nil:
				pending = false
			case errors.Is(perr, cbev.ErrContinue):
				pending = true
			default:
				return fmt.Errorf("cbev: parsing input: %w", perr)
			}
		}
		if err == io.EOF {
			if pending {
				return fmt.Errorf("cbev: input ended mid-item")
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("cbev: reading input: %w", err)
		}
	}
}
