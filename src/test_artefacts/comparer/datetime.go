package comparer

import (
	"time"

	"github.com/google/go-cmp/cmp"
)

// TimeWithinTolerance compara time.Time com folga, para timestamps
// que passaram pelo banco (timestamptz perde a location original).
func TimeWithinTolerance(tolerance time.Duration) cmp.Option {
	return cmp.Comparer(func(x, y time.Time) bool {
		diff := x.Sub(y)
		if diff < 0 {
			diff = -diff
		}
		return diff <= tolerance
	})
}
