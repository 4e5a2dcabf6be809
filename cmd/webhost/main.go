// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Command webhost serves the task planner and probes running hosts.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := rootCommand().ExecuteContext(ctx)
	if err != nil {
		cancel()
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "webhost",
		Short:         "Embeddable HTTP application host",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.AddCommand(
		serveCommand(),
		probeCommand(),
	)
	return cmd
}
