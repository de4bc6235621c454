package main

import (
	"context"
	"os"

	"github.com/xkilldash9x/svgscope-cli/cmd"
)

// main is a thin entry point. The canonical binary, with signal handling and
// crash reporting, lives in cmd/svgscope.
func main() {
	if err := cmd.Execute(context.Background()); err != nil {
		os.Exit(1)
	}
}
