package utils

import (
	"time"
)

// Now returns the current UTC time truncated to milliseconds, the precision
// kept by every timestamp column.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
