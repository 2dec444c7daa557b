package domain

import "time"

// Department represents a high-level organizational unit.
type Department struct {
	ID          string
	Name        string
	Code        string
	Description string
	ManagerID   *string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
