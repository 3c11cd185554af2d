package session

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// databaseDriver persists records in the sessions table. Records have
// no native expiry, so Sweep deletes by last activity.
type databaseDriver struct {
	pool *pgxpool.Pool
}

func newDatabaseDriver(pool *pgxpool.Pool) *databaseDriver {
	return &databaseDriver{pool: pool}
}

func (d *databaseDriver) Load(ctx context.Context, id string) (*Record, error) {
	var (
		payload      []byte
		lastActivity time.Time
	)
	err := d.pool.QueryRow(ctx,
		`SELECT payload, last_activity FROM sessions WHERE id = $1`, id,
	).Scan(&payload, &lastActivity)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rec, err := decodeRecord(payload)
	if err != nil {
		return nil, err
	}
	rec.LastActivity = lastActivity
	return rec, nil
}

func (d *databaseDriver) Save(ctx context.Context, rec *Record, _ time.Duration) error {
	payload, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	_, err = d.pool.Exec(ctx,
		`INSERT INTO sessions (id, payload, last_activity)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE
		 SET payload = EXCLUDED.payload, last_activity = EXCLUDED.last_activity`,
		rec.ID, payload, rec.LastActivity,
	)
	return err
}

func (d *databaseDriver) Destroy(ctx context.Context, id string) error {
	_, err := d.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}

func (d *databaseDriver) Sweep(ctx context.Context, before time.Time) error {
	_, err := d.pool.Exec(ctx, `DELETE FROM sessions WHERE last_activity < $1`, before)
	return err
}

var _ Driver = (*databaseDriver)(nil)
