//go:build unix

package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"syscall"
)

// setupSignalHandlers cancels the run on SIGTERM and SIGINT, dumps all
// goroutine stacks on SIGUSR1 and forces a garbage collection on SIGUSR2.
func setupSignalHandlers(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		<-sigChan
		cancel()
	}()

	dumpChan := make(chan os.Signal, 1)
	signal.Notify(dumpChan, syscall.SIGUSR1)
	go func() {
		for range dumpChan {
			buf := make([]byte, stackTraceBufMax)
			stacklen := runtime.Stack(buf, true)
			os.Stderr.Write(buf[:stacklen]) //nolint:errcheck
		}
	}()

	gcChan := make(chan os.Signal, 1)
	signal.Notify(gcChan, syscall.SIGUSR2)
	go func() {
		for range gcChan {
			runtime.GC()
		}
	}()
}
