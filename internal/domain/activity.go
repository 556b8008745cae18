package domain

import "time"

const (
	ActionAddRate    = "add_rate"
	ActionDeleteRate = "delete_rate"
)

// WorkerActivity is one append-only audit row describing a worker action.
type WorkerActivity struct {
	ID          int64
	WorkerID    int64
	Action      string
	Description string
	RateID      *int64
	CreatedAt   time.Time
}
