package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/foodiesthlm/foodie-backend/config"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.LoadConfig()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	nc, err := NewNats(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer nc.Close()

	pg, err := NewPg(cfg.Postgres.ConnStr())
	if err != nil {
		log.Fatal(err)
	}

	handler, err := NewHandler(pg)
	if err != nil {
		log.Fatal(err)
	}

	workers := cfg.Notifier.Workers
	if workers < 1 {
		workers = 2
	}
	queueSize := cfg.Notifier.QueueSize
	if queueSize < 1 {
		queueSize = 100
	}
	slog.Info("Starting notifier", "workers", workers, "queueSize", queueSize)

	pool := NewWorkerPool(ctx, workers, queueSize, handler.HandleOrderEvent)

	group := errgroup.Group{}
	errChan := make(chan error)

	group.Go(func() error {
		return nc.Subscribe(ctx, cfg.Nats.OrdersSubject, pool)
	})

	go func() {
		errChan <- group.Wait()
	}()

	select {
	case <-shutdown:
		slog.Info("Shutting down")
		cancel()
	case err := <-errChan:
		slog.Info("Shutting down due to error", "error", err)
		cancel()
	}

	pool.Stop()
	pool.Wait()
}
