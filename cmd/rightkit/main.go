package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	rootcmd "github.com/mchmarny/rightkit/cmd/rightkit/root"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return rootcmd.New().ExecuteContext(ctx)
}
