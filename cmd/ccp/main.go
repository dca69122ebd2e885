package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ccp/internal/config"
	"ccp/internal/http/handlers"
	applog "ccp/internal/log"
	"ccp/internal/repos"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[config] %v", err)
	}

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			defer f.Close()
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := handlers.NewDeps(db, cfg)
	go deps.Inventory.Run(ctx)
	go deps.Orders.Run(ctx)
	go sweepSessions(ctx, deps, cfg.SessionIdle)

	app := handlers.NewApp(cfg, deps)
	go func() {
		<-ctx.Done()
		_ = app.ShutdownWithTimeout(5 * time.Second)
	}()

	log.Printf("[ccp] listening on :%s (test mode: %v)", cfg.Port, cfg.TestMode())
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

func sweepSessions(ctx context.Context, d *handlers.Deps, idle time.Duration) {
	t := time.NewTicker(time.Minute)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := d.Sessions.Sweep(idle); n > 0 {
				applog.Job("session.sweep", nil, map[string]any{"removed": n, "left": d.Sessions.Len()})
			}
		}
	}
}
