package syncx

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
)

type Event struct {
	Offset    int64
	SiteID    string
	Type      string
	Key       string
	DataJSON  string
	CreatedAt int64
}

type EventRepo struct{ db *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

func (r *EventRepo) Append(ctx context.Context, e Event) error {
	if e.SiteID == "" {
		e.SiteID = "local"
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_log (site_id, typ, key, data, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		e.SiteID, e.Type, e.Key, e.DataJSON, time.Now().Unix())
	return errors.Wrapf(err, "append %s event", e.Type)
}

// ListByType returns events of typ with offset > after, oldest first.
func (r *EventRepo) ListByType(ctx context.Context, typ string, after int64, limit int) ([]Event, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT "offset", site_id, typ, key, data, created_at
		   FROM event_log
		  WHERE typ=$1 AND "offset">$2
		  ORDER BY "offset" ASC
		  LIMIT $3`, typ, after, limit)
	if err != nil {
		return nil, errors.Wrapf(err, "list %s events", typ)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Offset, &e.SiteID, &e.Type, &e.Key, &e.DataJSON, &e.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan event")
		}
		out = append(out, e)
	}
	return out, errors.Wrap(rows.Err(), "iterate events")
}
