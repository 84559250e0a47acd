// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

// Command cbev streams CBOR input through a [cbev.Parser] and reports what
// it sees, replacing the teacher's flag-based cmd/fdo with a cobra/pflag
// command tree.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cbor-stream/cbev/internal/metrics"
)

var buildMetrics = metrics.NewSet()

func main() {
	root := &cobra.Command{
		Use:           "cbev",
		Short:         "Stream CBOR input through an event-driven decoder",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newStreamCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func mustProductionLogger() *zap.Logger {
	log, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("cbev: constructing logger: %v", err))
	}
	return log
}
