package cache

import (
	"fmt"
	"math"
	"time"
)

// MaxTTLSeconds is the largest ttl, in seconds, representable as a time.Duration.
const MaxTTLSeconds = int64(math.MaxInt64 / int64(time.Second))

var ErrTTLOutOfRange = fmt.Errorf("ttl must be within ±%d seconds", MaxTTLSeconds)

// TTLFromSeconds converts a ttl given in seconds, rejecting values that would overflow.
func TTLFromSeconds(seconds int64) (time.Duration, error) {
	if seconds > MaxTTLSeconds || seconds < -MaxTTLSeconds {
		return 0, fmt.Errorf("%w: got %d", ErrTTLOutOfRange, seconds)
	}

	return time.Duration(seconds) * time.Second, nil
}
