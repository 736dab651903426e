package domain

import "time"

// Department is a municipal unit that complaints and admins are tagged with by Code.
type Department struct {
	ID          string
	Name        string
	Code        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
}
