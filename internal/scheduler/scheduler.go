package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/tasteboard/recipebox/internal/metrics"
	"github.com/tasteboard/recipebox/internal/repo"
)

// Run starts a background sweeper that removes expired sessions every
// sweepMinutes. Expired sessions are already rejected on lookup; the sweep
// keeps the table from accumulating dead rows. Returns the cron handle so the
// caller can Stop it on shutdown.
func Run(sessions *repo.SessionRepo, sweepMinutes int) (*cron.Cron, error) {
	if sweepMinutes <= 0 {
		sweepMinutes = 60
	}

	c := cron.New()
	_, err := c.AddFunc(fmt.Sprintf("@every %dm", sweepMinutes), func() {
		n, err := sessions.DeleteExpired(context.Background())
		if err != nil {
			slog.Error("session sweep failed", "error", err)
			return
		}
		metrics.AddSessionsSwept(n)
		if n > 0 {
			slog.Info("session sweep", "removed", n)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule session sweep: %w", err)
	}

	c.Start()
	return c, nil
}
