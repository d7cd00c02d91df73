package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"dfuse/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New()
	if err != nil {
		log.Fatalf("canvasd init: %v", err)
	}
	if err := a.Run(ctx); err != nil {
		log.Fatalf("canvasd: %v", err)
	}
	log.Println("canvasd stopped")
}
