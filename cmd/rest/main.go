package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"miniapp-gateway/internal/bootstrap"
	"miniapp-gateway/internal/config"
	"miniapp-gateway/internal/server"
	"miniapp-gateway/internal/tracer"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Tracing
	shutdownTracer := tracer.InitTracer(string(cfg.App.Environment), cfg.App.Environment.TraceSampleRate())
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracer(sctx)
	}()

	// 3. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Unable to start gateway: %v", err)
	}
	defer container.Close()

	// 4. Start Background Services
	if err := container.ConsumerService.Consume(ctx); err != nil {
		log.Printf("Background Consumer Error: %v", err)
	}

	// 5. Run Server
	srv := server.New(cfg, container)
	if err := srv.Run(ctx); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
