package main

import (
	"fmt"
	"io"
	"time"
)

// runHello is a minimal walkthrough of cooperative sequencing: the caller
// starts a goroutine that prints, pauses without blocking other goroutines,
// prints again, and signals completion over a channel the caller waits on.
func runHello(out io.Writer, pause time.Duration) {
	fmt.Fprintln(out, "demo start")

	done := make(chan struct{})

	go func() {
		defer close(done)

		fmt.Fprintln(out, "Hello")
		time.Sleep(pause)
		fmt.Fprintln(out, "World")
	}()

	<-done

	fmt.Fprintln(out, "demo end")
}
