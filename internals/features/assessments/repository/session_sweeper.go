package repository

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

type expiredSweeper interface {
	SweepExpired(ctx context.Context) (int64, error)
}

// StartSessionSweeper menjadwalkan pembersihan attempt_sessions yang expired.
// Caller wajib memanggil Stop() pada cron yang dikembalikan saat shutdown.
func StartSessionSweeper(schedule string, store expiredSweeper) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))

	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		RunSessionSweep(ctx, store)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[SESSION-SWEEPER] started schedule=%q", schedule)
	c.Start()
	return c, nil
}

func RunSessionSweep(ctx context.Context, store expiredSweeper) {
	n, err := store.SweepExpired(ctx)
	if err != nil {
		log.Printf("[SESSION-SWEEPER] error: %v", err)
		return
	}
	if n > 0 {
		log.Printf("[SESSION-SWEEPER] removed %d expired markers", n)
	}
}
