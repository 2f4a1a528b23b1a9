package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CountersRepo struct{ pool *pgxpool.Pool }

// IncAndCheck bumps the counter of subject for the window starting at
// windowStart and reports whether the new count is still within limit.
func (r *CountersRepo) IncAndCheck(ctx context.Context, subject, window string, windowStart time.Time, limit int) (bool, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
INSERT INTO usage_counters(subject, window_type, window_start, count)
VALUES($1,$2,$3,1)
ON CONFLICT (subject, window_type, window_start)
DO UPDATE SET count = usage_counters.count + 1
RETURNING count
`, subject, window, windowStart).Scan(&count)
	if err != nil {
		return false, err
	}
	return count <= limit, nil
}
