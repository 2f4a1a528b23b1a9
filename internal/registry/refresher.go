package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

const refreshTimeout = 30 * time.Second

// StartRefresher schedules Refresh on the given cron spec (e.g. "@every 5m")
// and starts the scheduler. Stop the returned cron on shutdown.
func (r *Registry) StartRefresher(spec string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		_ = r.Refresh(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("schedule model refresh %q: %w", spec, err)
	}
	c.Start()
	return c, nil
}
