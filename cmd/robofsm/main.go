package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/robofsm/internal/console"
)

func main() {
	ctx, stop := console.NotifyContext(context.Background())
	err := rootCmd.ExecuteContext(ctx)
	sig := console.InterruptSignal(ctx)
	stop()

	if err != nil {
		if sig != nil {
			fmt.Fprintf(os.Stderr, "\n>>> Interrupted (%v).\n", sig)
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
