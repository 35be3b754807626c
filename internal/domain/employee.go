package domain

import "time"

// BirthDateLayout is the wire format for birth dates (day.month.year).
const BirthDateLayout = "02.01.2006"

// Employee models a person belonging to exactly one department.
type Employee struct {
	ID           int64
	DepartmentID int64
	FullName     string
	BirthDate    time.Time
	// ExternalID is the optional messenger identity; unique when present.
	ExternalID *int64
	IsHead     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ParseBirthDate parses a DD.MM.YYYY date string.
func ParseBirthDate(s string) (time.Time, error) {
	return time.Parse(BirthDateLayout, s)
}

// FormatBirthDate renders a birth date in the DD.MM.YYYY wire format.
func FormatBirthDate(t time.Time) string {
	return t.Format(BirthDateLayout)
}
