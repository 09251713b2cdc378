package nn

import (
	"fmt"
	"strings"
)

// Sample is one training or test case: an input vector and the output the network
// is expected to produce for it. Samples are never modified by the engine.
type Sample struct {
	Input    []float64
	Expected []float64
}

// Fits reports whether the Sample's dimensions match the input and output layers of
// net.
func (s Sample) Fits(net *Network) bool {
	return len(s.Input) == net.InputSize() && len(s.Expected) == net.OutputSize()
}

func (s Sample) String() string {
	return "in:" + FormatVector(s.Input) + " expected:" + FormatVector(s.Expected)
}

// FormatVector formats vs with 4 decimals, padding non-negative values so columns
// line up in logs.
func FormatVector(vs []float64) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range vs {
		if i > 0 {
			sb.WriteByte(',')
		}
		if v >= 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%6.4f", v)
	}
	sb.WriteByte(']')
	return sb.String()
}
