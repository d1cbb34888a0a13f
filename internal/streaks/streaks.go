package streaks

import (
	"context"
	"database/sql"
	"time"
)

// Streak is the per-user activity chain.
type Streak struct {
	CurrentStreak   int    `json:"current_streak"`
	LongestStreak   int    `json:"longest_streak"`
	TotalActiveDays int    `json:"total_active_days"`
	LastActiveDate  string `json:"last_active_date,omitempty"`
	Status          string `json:"streak_status"`
}

func statusFor(lastActive sql.NullTime, today time.Time) string {
	if !lastActive.Valid {
		return "broken"
	}
	days := daysBetween(lastActive.Time, today)
	switch days {
	case 0:
		return "active"
	case 1:
		return "at_risk"
	default:
		return "broken"
	}
}

func daysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// Get loads (creating if missing) the user's streak row.
func Get(ctx context.Context, dbx *sql.DB, uid int) (Streak, error) {
	_, _ = dbx.ExecContext(ctx,
		`INSERT INTO streaks (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, uid)

	var s Streak
	var last sql.NullTime
	err := dbx.QueryRowContext(ctx, `
		SELECT current_streak, longest_streak, total_active_days, last_active_date
		FROM streaks WHERE user_id=$1
	`, uid).Scan(&s.CurrentStreak, &s.LongestStreak, &s.TotalActiveDays, &last)
	if err != nil {
		return Streak{}, err
	}

	today := time.Now().UTC()
	s.Status = statusFor(last, today)
	if last.Valid {
		s.LastActiveDate = last.Time.Format("2006-01-02")
	}
	return s, nil
}

// CheckIn marks today as active: same day is a no-op, the next
// consecutive day extends the chain, a longer gap resets it to 1.
// Called on task completion and explicit check-in.
func CheckIn(ctx context.Context, dbx *sql.DB, uid int) (Streak, error) {
	_, _ = dbx.ExecContext(ctx,
		`INSERT INTO streaks (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, uid)

	var (
		current, longest, total int
		last                    sql.NullTime
	)
	err := dbx.QueryRowContext(ctx, `
		SELECT current_streak, longest_streak, total_active_days, last_active_date
		FROM streaks WHERE user_id=$1
	`, uid).Scan(&current, &longest, &total, &last)
	if err != nil {
		return Streak{}, err
	}

	today := time.Now().UTC()
	if last.Valid {
		switch daysBetween(last.Time, today) {
		case 0:
			// already checked in today
			return Streak{
				CurrentStreak:   current,
				LongestStreak:   longest,
				TotalActiveDays: total,
				LastActiveDate:  last.Time.Format("2006-01-02"),
				Status:          "active",
			}, nil
		case 1:
			current++
			total++
			if current > longest {
				longest = current
			}
		default:
			current = 1
			total++
		}
	} else {
		current = 1
		longest = 1
		total = 1
	}

	_, err = dbx.ExecContext(ctx, `
		UPDATE streaks
		SET current_streak=$1, longest_streak=$2, total_active_days=$3,
		    last_active_date=$4, updated_at=now()
		WHERE user_id=$5
	`, current, longest, total, today.Format("2006-01-02"), uid)
	if err != nil {
		return Streak{}, err
	}

	return Streak{
		CurrentStreak:   current,
		LongestStreak:   longest,
		TotalActiveDays: total,
		LastActiveDate:  today.Format("2006-01-02"),
		Status:          "active",
	}, nil
}
