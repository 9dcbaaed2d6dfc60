// Package main implements rendezvous-agent, a command-line client for the
// rendezvous coordinator.
//
// Every flag can also be set from the environment with the RENDEZVOUS_ prefix,
// dashes becoming underscores (--user-id → RENDEZVOUS_USER_ID).
//
// Example usage:
//
//	# Tell the coordinator alice is in the lobby, once
//	rendezvous-agent presence --user-id 1 --username alice --context lobby
//
//	# Keep alice online every 10s until interrupted
//	rendezvous-agent heartbeat --user-id 1 --username alice --interval 10s
//
//	# Relay a command and follow the log
//	rendezvous-agent send --username alice move forward
//	rendezvous-agent poll --follow --interval 2s
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
