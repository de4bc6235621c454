package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/xkilldash9x/svgscope-cli/cmd"
	"github.com/xkilldash9x/svgscope-cli/internal/observability"
)

const panicLogFile = "svgscope-panic.log"

// Function variables so tests can intercept process-level effects.
var (
	osWriteFile = os.WriteFile
	osExit      = os.Exit
)

func main() {
	defer handlePanic()

	// Interrupt signals cancel the context so in-flight browser work can
	// shut down before the process exits.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := cmd.Execute(ctx)
	observability.Sync()
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// An interrupt during a run is a clean shutdown, not a failure.
			osExit(0)
			return
		}
		osExit(1)
	}
}

// handlePanic writes a crash report with the stack trace before exiting. The
// report goes to a file first; stderr is the fallback when that write fails.
func handlePanic() {
	r := recover()
	if r == nil {
		return
	}
	observability.Sync()

	report := fmt.Sprintf("panic: %v\n\n%s", r, debug.Stack())
	if err := osWriteFile(panicLogFile, []byte(report), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: failed to write crash report: %v\n%s\n", err, report)
		osExit(1)
		return
	}
	fmt.Fprintf(os.Stderr, "svgscope crashed; details written to %s\n", panicLogFile)
	osExit(1)
}
