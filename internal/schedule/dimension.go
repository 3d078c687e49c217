package schedule

import (
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

// Dimensions is a set of schedule date dimensions.
type Dimensions uint8

const (
	Available Dimensions = 1 << iota
	Start
	End

	AllDimensions = Available | Start | End
)

var orderedDimensions = [...]Dimensions{Available, Start, End}

func (d Dimensions) Has(x Dimensions) bool {
	return d&x == x
}

// Each calls fn once per single dimension in d, in a fixed order.
func (d Dimensions) Each(fn func(Dimensions)) {
	for _, dim := range orderedDimensions {
		if d.Has(dim) {
			fn(dim)
		}
	}
}

func (d Dimensions) String() string {
	if d == 0 {
		return "none"
	}
	var parts []string
	d.Each(func(dim Dimensions) {
		switch dim {
		case Available:
			parts = append(parts, "available")
		case Start:
			parts = append(parts, "start")
		case End:
			parts = append(parts, "end")
		}
	})
	return strings.Join(parts, "|")
}

// Get returns the value of a single dimension.
func Get(dates domain.ScheduleDates, dim Dimensions) *time.Time {
	switch dim {
	case Available:
		return dates.Available
	case Start:
		return dates.Start
	case End:
		return dates.End
	}
	return nil
}

// With returns a copy of dates with one dimension replaced.
func With(dates domain.ScheduleDates, dim Dimensions, v *time.Time) domain.ScheduleDates {
	switch dim {
	case Available:
		dates.Available = v
	case Start:
		dates.Start = v
	case End:
		dates.End = v
	}
	return dates
}

// Diff returns the dimensions whose values differ between a and b.
func Diff(a, b domain.ScheduleDates) Dimensions {
	var changed Dimensions
	AllDimensions.Each(func(dim Dimensions) {
		if !domain.SameInstant(Get(a, dim), Get(b, dim)) {
			changed |= dim
		}
	})
	return changed
}
