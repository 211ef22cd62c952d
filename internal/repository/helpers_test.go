package repository

import "time"

// someTime is a fixed timestamp for row fixtures.
func someTime() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}
