package utils

import "time"

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) share any
// instant. Touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
