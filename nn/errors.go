package nn

import (
	"math"

	"github.com/pkg/errors"
)

// These are the errors returned by the engine. Callers can recover them from a wrapped
// error with errors.Cause.
var (
	// ErrInvalidConfig is returned when a Config describes no usable architecture.
	ErrInvalidConfig = errors.New("invalid network config")

	// ErrShapeMismatch is returned when a vector or parameter block does not match the
	// width of the layer it is meant for.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrNonFinite is returned when a NaN or an infinity shows up in a gradient or in an
	// updated parameter. Training cannot continue from that state, but Apply leaves the
	// parameters as they were before the failing step.
	ErrNonFinite = errors.New("non-finite value")
)

func checkLen(what string, got, want int) error {
	if got != want {
		return errors.Wrapf(ErrShapeMismatch, "%s has length %d, expected %d", what, got, want)
	}
	return nil
}

// checkFinite returns ErrNonFinite if any of vs is NaN or infinite.
func checkFinite(what string, layer int, vs []float64) error {
	for i, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Wrapf(ErrNonFinite, "%s[%d][%d] = %v", what, layer, i, v)
		}
	}
	return nil
}
