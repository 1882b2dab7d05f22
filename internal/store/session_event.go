package store

import (
	"context"
	"fmt"
	"time"
)

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO session_events
		(sequence, timestamp, session_id, action, mode, detail, score, total)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, time.Now().UnixNano(), data.SessionID, data.Action, data.Mode,
		data.Detail, data.Score, data.Total,
	)
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) QuerySessionEvents(ctx context.Context, sessionID string, opts QueryOpts) ([]SessionEventRecord, error) {
	var (
		extra []string
		args  []any
	)
	if sessionID != "" {
		extra = append(extra, "session_id = ?")
		args = append(args, sessionID)
	}
	where, args := opts.whereClause(extra, args)

	rows, err := r.db.QueryContext(ctx, `SELECT id, sequence, timestamp, session_id, action,
		mode, detail, score, total FROM session_events`+where+" ORDER BY sequence DESC"+opts.limitClause(),
		args...)
	if err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	defer rows.Close()

	var out []SessionEventRecord
	for rows.Next() {
		var (
			rec SessionEventRecord
			ts  int64
		)
		if err := rows.Scan(&rec.ID, &rec.Sequence, &ts, &rec.SessionID, &rec.Action,
			&rec.Mode, &rec.Detail, &rec.Score, &rec.Total); err != nil {
			return nil, fmt.Errorf("scan session event: %w", err)
		}
		rec.Timestamp = time.Unix(0, ts)
		out = append(out, rec)
	}
	return out, rows.Err()
}
