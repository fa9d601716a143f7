// Command gophforum-admin administers a forum store directly.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"github.com/dmitrijs2005/gophforum/internal/admin"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := admin.NewRootCommand().ExecuteContext(ctx); err != nil {
		color.Red("Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
