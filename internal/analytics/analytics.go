// Package analytics computes read-only metrics from entity snapshots handed
// in by the service layer. Every function is pure and recomputes from scratch;
// nothing here talks to storage or keeps state between calls.
package analytics

import "math"

// round rounds v to the given number of decimal places, half away from zero.
func round(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}

// CTR is clicks/impressions rounded to 4 decimal places and bounded to [0, 1].
// It is 0 whenever impressions is 0, whatever clicks holds.
func CTR(clicks, impressions int64) float64 {
	if impressions <= 0 || clicks <= 0 {
		return 0
	}
	ctr := round(float64(clicks)/float64(impressions), 4)
	if ctr > 1 {
		return 1
	}
	return ctr
}
