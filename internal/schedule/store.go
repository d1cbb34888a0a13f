package schedule

import (
	"context"
	"database/sql"

	"smart-planner-backend/internal/planner"
)

// ReplaceDaySchedule swaps the stored schedule for one calendar day
// with items, atomically. The previous day's rows are replaced, never
// merged. Called exactly once per scheduling run.
func ReplaceDaySchedule(ctx context.Context, dbx *sql.DB, uid int, date string, items []planner.ScheduleItem) error {
	tx, err := dbx.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM schedule WHERE user_id=$1 AND date=$2`, uid, date); err != nil {
		return err
	}

	for _, item := range items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO schedule (user_id, task_title, start_time, end_time, date)
			VALUES ($1, $2, $3, $4, $5)
		`, uid, item.Task, item.Start, item.End, date); err != nil {
			return err
		}
	}

	return tx.Commit()
}
