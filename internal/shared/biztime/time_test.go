package biztime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndOfDayUTC(t *testing.T) {
	require.NoError(t, Init("America/Sao_Paulo"))

	// 2024-03-10 23:30 UTC is 20:30 in Sao Paulo (UTC-3).
	in := time.Date(2024, 3, 10, 23, 30, 0, 0, time.UTC)
	got := EndOfDayUTC(in)

	assert.Equal(t, time.Date(2024, 3, 11, 2, 59, 59, 999999999, time.UTC), got)
}

func TestInit_UnknownZone(t *testing.T) {
	assert.Error(t, Init("Mars/Olympus_Mons"))
}
