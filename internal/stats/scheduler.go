package stats

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	repo *Repo
}

func NewScheduler(repo *Repo) *Scheduler {
	return &Scheduler{repo: repo}
}

// Start schedules the nightly aggregation (12:00 AM) for the previous day.
func (s *Scheduler) Start() {
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc("0 0 0 * * *", func() {
		s.RunOnce()
	})
	if err != nil {
		log.Printf("Failed to create cron job: %v", err)
		return
	}

	log.Println("Cron scheduler started (aggregating mentor usage nightly at 12:00AM)")
	c.Start()
}

// RunOnce aggregates yesterday's usage. Exposed for the worker's manual mode.
func (s *Scheduler) RunOnce() {
	log.Println("Nightly mentor usage aggregation started...")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	if err := s.repo.AggregateDay(ctx, yesterday); err != nil {
		log.Printf("Mentor usage aggregation failed: %v", err)
		return
	}

	log.Println("Mentor usage aggregation completed successfully at:", time.Now().Format(time.RFC1123))
}
