package branch

import (
	"time"
)

type Branch struct {
	ID           string
	Name         string
	PasswordHash string
	Timezone     string
	CreatedAt    time.Time
}

// Location resolves the branch timezone, falling back to fallback when the
// stored name is empty or unknown.
func (b Branch) Location(fallback *time.Location) *time.Location {
	if b.Timezone == "" {
		return fallback
	}
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return fallback
	}
	return loc
}
