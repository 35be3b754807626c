package domain

import "time"

// Department represents a top-level organizational unit. Names are unique
// across all departments.
type Department struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
