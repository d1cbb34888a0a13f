package tasks

import "time"

type Task struct {
	ID            int       `json:"id"`
	UserID        int       `json:"user_id"`
	Title         string    `json:"title"`
	Duration      float64   `json:"duration"`
	Priority      string    `json:"priority"`
	Deadline      string    `json:"deadline"`
	PreferredTime string    `json:"preferred_time,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}
