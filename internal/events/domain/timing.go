package domain

import "time"

// MinutesBetween returns the whole minutes elapsed from start to end, truncated
// toward zero. It returns nil when either bound is missing. End before start yields
// a negative count.
func MinutesBetween(start, end *time.Time) *int {
	if start == nil || end == nil {
		return nil
	}
	minutes := int(end.Sub(*start) / time.Minute)
	return &minutes
}

// IsOnTime reports whether leadTime fits inside eta, equality included.
// It returns nil when either value is missing.
func IsOnTime(leadTime, eta *int) *bool {
	if leadTime == nil || eta == nil {
		return nil
	}
	onTime := *leadTime <= *eta
	return &onTime
}
