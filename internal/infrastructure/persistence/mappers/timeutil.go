package mappers

import "time"

// utcPtr normalises a nullable timestamp read back from drivers that attach
// the session location.
func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
