// Package biztime holds the business timezone. Storage and transport use UTC;
// the business zone is only used for cron schedules and calendar boundaries.
package biztime

import (
	"fmt"
	"sync"
	"time"
)

// DefaultTimezone is where the sales teams operate.
const DefaultTimezone = "America/Sao_Paulo"

var (
	mu       sync.RWMutex
	location *time.Location
)

// Init loads tz (DefaultTimezone when empty) as the business location.
func Init(tz string) error {
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("failed to load timezone %q: %w", tz, err)
	}
	mu.Lock()
	location = loc
	mu.Unlock()
	return nil
}

// Location returns the business location, falling back to UTC when the zone
// database is unavailable.
func Location() *time.Location {
	mu.RLock()
	loc := location
	mu.RUnlock()
	if loc != nil {
		return loc
	}
	if err := Init(""); err != nil {
		return time.UTC
	}
	return Location()
}

func NowUTC() time.Time {
	return time.Now().UTC()
}

// EndOfDayUTC returns the last instant of t's business day, in UTC.
func EndOfDayUTC(t time.Time) time.Time {
	local := t.In(Location())
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, Location())
	return start.AddDate(0, 0, 1).Add(-time.Nanosecond).UTC()
}
