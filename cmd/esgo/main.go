package main

import (
	"context"
	"os"
	"os/signal"
)

var version = "dev"

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	// trap Ctrl+C and cancel the running program
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	defer func() {
		signal.Stop(c)
		cancel()
	}()
	go func() {
		select {
		case <-c:
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := Execute(ctx, os.Stdin, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		cancel()
		os.Exit(1)
	}
}
