// Package timewindow parses compact duration tokens such as "24h", "7d" or
// "5m" into bounded durations. Parsing is total: malformed tokens fall back
// to a caller-supplied default instead of failing.
package timewindow

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// MinDuration is the smallest window or interval accepted.
	MinDuration = 5 * time.Minute
	// MaxDuration is the largest window or interval accepted.
	MaxDuration = 90 * 24 * time.Hour

	// DefaultWindow is used when a window token is absent or malformed.
	DefaultWindow = 24 * time.Hour
	// DefaultSummaryWindow is the fallback for ad and auth summaries.
	DefaultSummaryWindow = 7 * day
	// DefaultInterval is used when a bucket interval token is absent or malformed.
	DefaultInterval = time.Hour

	day = 24 * time.Hour
)

var tokenRegex = regexp.MustCompile(`^(\d+)([mhd])$`)

// ParseDuration converts token into a duration clamped to [MinDuration, MaxDuration].
// Tokens not matching ^(\d+)([mhd])$ (case-insensitive) return fallback unchanged.
func ParseDuration(token string, fallback time.Duration) time.Duration {
	match := tokenRegex.FindStringSubmatch(strings.ToLower(token))
	if match == nil {
		return fallback
	}

	var unit time.Duration
	switch match[2] {
	case "m":
		unit = time.Minute
	case "h":
		unit = time.Hour
	default:
		unit = day
	}

	amount, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil || amount > int64(math.MaxInt64/unit) {
		// digits overflow int64; any such amount is beyond the upper bound
		return MaxDuration
	}

	return Clamp(time.Duration(amount)*unit, MinDuration, MaxDuration)
}

// WindowStart returns now minus the parsed window duration.
func WindowStart(now time.Time, token string, fallback time.Duration) time.Time {
	return now.Add(-ParseDuration(token, fallback))
}

// Clamp bounds d to [lo, hi].
func Clamp(d, lo, hi time.Duration) time.Duration {
	if d < lo {
		return lo
	}
	if d > hi {
		return hi
	}
	return d
}
