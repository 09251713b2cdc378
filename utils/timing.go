package utils

import (
	"fmt"
	"io"
	"time"
)

// TimingStats holds timing information for the phases of a training run
type TimingStats struct {
	Total    time.Duration
	Backward time.Duration
	Update   time.Duration
	Evaluate time.Duration
}

// PrintTimingStats prints detailed timing statistics for a run of steps gradient
// steps to w.
func PrintTimingStats(w io.Writer, stats *TimingStats, steps int) {
	if stats == nil {
		return
	}
	fmt.Fprintln(w, "\n=== TIMING STATISTICS ===")
	fmt.Fprintf(w, "Total training time: %v\n", stats.Total)
	fmt.Fprintf(w, "Steps completed: %d\n", steps)
	if steps > 0 {
		fmt.Fprintf(w, "Average time per step: %v\n", stats.Total/time.Duration(steps))
	}
	fmt.Fprintln(w, "\nBreakdown by operation:")
	fmt.Fprintf(w, "  Backward pass: %v (%.1f%%)\n", stats.Backward, percent(stats.Backward, stats.Total))
	fmt.Fprintf(w, "  Weight updates: %v (%.1f%%)\n", stats.Update, percent(stats.Update, stats.Total))
	fmt.Fprintf(w, "  Evaluation: %v (%.1f%%)\n", stats.Evaluate, percent(stats.Evaluate, stats.Total))
	if steps > 0 {
		fmt.Fprintln(w, "\nPerformance metrics:")
		fmt.Fprintf(w, "  Average backward time per step: %.1fµs\n", DurationUS(stats.Backward)/float64(steps))
		fmt.Fprintf(w, "  Average update time per step: %.1fµs\n", DurationUS(stats.Update)/float64(steps))
	}
}

func percent(part, total time.Duration) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// DurationUS converts any time.Duration to micro-seconds as float64
func DurationUS(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1_000.0
}
