package jobstats

import (
	"testing"
	"time"
)

func TestRecordDurationTracksCount(t *testing.T) {
	r := New()
	r.RecordDuration(time.Second)
	r.RecordDuration(2 * time.Second)
	r.RecordDuration(3 * time.Second)

	if got := r.JobCount(); got != 3 {
		t.Errorf("JobCount() = %d, want 3", got)
	}

	p50, _, p99 := r.DurationPercentiles()
	if p50 <= 0 || p99 <= 0 {
		t.Errorf("expected positive percentiles, got p50=%v p99=%v", p50, p99)
	}
	if p99 < p50 {
		t.Errorf("p99 (%v) should be >= p50 (%v)", p99, p50)
	}
}

func TestRecordSpeedIgnoresNonPositive(t *testing.T) {
	r := New()
	r.RecordSpeed(0)
	r.RecordSpeed(-1)
	r.RecordSpeed(1.5)

	p50, _, _ := r.SpeedPercentiles()
	if p50 != 1.5 {
		t.Errorf("SpeedPercentiles() p50 = %v, want 1.5", p50)
	}
}
