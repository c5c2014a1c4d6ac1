// Command tgctl calls the Telegram Bot API from the command line.
//
//	tgctl get-me
//	tgctl send-message 42,@channel "hello"
//	tgctl send-location 42 30.5 114.25
//
// The token comes from --token, TGCTL_TELEGRAM_TOKEN or tgctl.yaml.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
