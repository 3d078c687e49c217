package schedule

import (
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

// Aggregate derives a node's dates from the dates of its direct children.
// With no children every dimension is undefined.
func Aggregate(children []domain.ScheduleDates) domain.ScheduleDates {
	return domain.ScheduleDates{
		Available: AggregateDimension(children, Available),
		Start:     AggregateDimension(children, Start),
		End:       AggregateDimension(children, End),
	}
}

// AggregateDimension derives a single dimension.
func AggregateDimension(children []domain.ScheduleDates, dim Dimensions) *time.Time {
	if dim == End {
		return latestIfAllClosed(children)
	}
	var earliest *time.Time
	for _, c := range children {
		v := Get(c, dim)
		if v == nil {
			continue
		}
		if earliest == nil || v.Before(*earliest) {
			earliest = v
		}
	}
	return clone(earliest)
}

func latestIfAllClosed(children []domain.ScheduleDates) *time.Time {
	var latest *time.Time
	for _, c := range children {
		if c.End == nil {
			return nil
		}
		if latest == nil || c.End.After(*latest) {
			latest = c.End
		}
	}
	return clone(latest)
}

func clone(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
