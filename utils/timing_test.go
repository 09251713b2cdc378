package utils

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDurationUS(t *testing.T) {
	d := 1234*time.Microsecond + 567*time.Nanosecond
	got := DurationUS(d)
	if math.Abs(got-1234.567) > 0.001 {
		t.Fatalf("want 1234.567µs, got %.3f", got)
	}
}

func TestPrintTimingStats(t *testing.T) {
	var buf bytes.Buffer
	stats := &TimingStats{
		Total:    time.Second,
		Backward: 600 * time.Millisecond,
		Update:   100 * time.Millisecond,
		Evaluate: 200 * time.Millisecond,
	}
	PrintTimingStats(&buf, stats, 10)

	out := buf.String()
	assert.Contains(t, out, "Steps completed: 10")
	assert.Contains(t, out, "Average time per step: 100ms")
	assert.Contains(t, out, "Backward pass: 600ms (60.0%)")
	assert.Contains(t, out, "Evaluation: 200ms (20.0%)")

	buf.Reset()
	PrintTimingStats(&buf, &TimingStats{}, 0)
	assert.NotContains(t, buf.String(), "NaN")
}
