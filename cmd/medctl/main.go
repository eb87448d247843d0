// medctl es la herramienta de operación: migraciones, materialización de
// dosis y consultas rápidas sobre el mismo storage que usa la API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"daily-medicine-reminder/internal/app"
)

// Version se setea con -ldflags al compilar.
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCLIApp(app.New, os.Stdout).RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
