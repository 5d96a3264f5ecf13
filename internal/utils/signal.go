package utils

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// SetupSignalHandling runs onShutdown and exits when the process receives
// SIGINT or SIGTERM. An in-flight batch is abandoned; its partial state
// stays in the job database.
func SetupSignalHandling(onShutdown func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Printf("\n⚠️ Received signal %v, shutting down...\n", sig)

		if onShutdown != nil {
			onShutdown()
		}

		os.Exit(0)
	}()
}
