package domain

import "time"

// ScheduleDates is the triple the rollup works on. A nil field means the
// date is undefined; for End that means "still open".
type ScheduleDates struct {
	Available *time.Time
	Start     *time.Time
	End       *time.Time
}

// Equal compares the three dates by instant.
func (d ScheduleDates) Equal(o ScheduleDates) bool {
	return SameInstant(d.Available, o.Available) &&
		SameInstant(d.Start, o.Start) &&
		SameInstant(d.End, o.End)
}

// IsOpen reports whether the completion date is still undefined.
func (d ScheduleDates) IsOpen() bool {
	return d.End == nil
}

// SameInstant treats two nil pointers as equal and otherwise compares with
// time.Equal so that location differences do not matter.
func SameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
