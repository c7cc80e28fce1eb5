package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSweepReportFinishRecordsSeconds(t *testing.T) {
	started := time.Now().Add(-1500 * time.Millisecond)
	report := &SweepReport{RanAt: started}

	report.Finish(started)

	// duration is plain seconds, not a time.Duration in nanoseconds
	assert.InDelta(t, 1.5, report.Duration, 0.25)
	assert.Less(t, report.Duration, 10.0)
}
