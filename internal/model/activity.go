package model

import "time"

// Activity is one audit-log entry describing a mutation.
type Activity struct {
	ID        int64     `json:"id"`
	Action    string    `json:"action"`
	Actor     string    `json:"user"`
	Timestamp time.Time `json:"timestamp"`
}

// Stats is the admin dashboard aggregate.
type Stats struct {
	Employees   int   `json:"employees"`
	Documents   int   `json:"documents"`
	Investments int   `json:"investments"`
	Population  int64 `json:"population"`
}
