package main

import (
	"context"
	"log"
	"os"

	"github.com/launchmentor/launchmentor-backend/config"
	"github.com/launchmentor/launchmentor-backend/internal/bootstrap"
	"github.com/launchmentor/launchmentor-backend/internal/stats"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	pool, err := bootstrap.OpenDB(context.Background(), cfg.Database)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer pool.Close()

	scheduler := stats.NewScheduler(stats.NewRepo(pool))

	if len(os.Args) > 1 && os.Args[1] == "once" {
		scheduler.RunOnce()
		return
	}

	scheduler.Start()
	select {} // cron runs until the process is stopped
}
