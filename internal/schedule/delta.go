package schedule

import (
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

// Mode says how the child described by a Delta relates to the node being
// re-evaluated.
type Mode int

const (
	// ModeUpdated: the child stays under the node and some dates moved.
	ModeUpdated Mode = iota
	// ModeRemoved: the child left the node (deleted or moved away).
	ModeRemoved
	// ModeAdded: the child joined the node (created or moved in).
	ModeAdded
)

func (m Mode) String() string {
	switch m {
	case ModeRemoved:
		return "removed"
	case ModeAdded:
		return "added"
	default:
		return "updated"
	}
}

// Change is a child's value for one dimension before and after a mutation.
type Change struct {
	Old *time.Time
	New *time.Time
}

// Delta describes what happened to one child of the node being
// re-evaluated. A nil Change means that dimension did not move.
type Delta struct {
	Available *Change
	Start     *Change
	End       *Change
	Mode      Mode
}

func (d Delta) change(dim Dimensions) *Change {
	switch dim {
	case Available:
		return d.Available
	case Start:
		return d.Start
	case End:
		return d.End
	}
	return nil
}

func (d *Delta) setChange(dim Dimensions, c *Change) {
	switch dim {
	case Available:
		d.Available = c
	case Start:
		d.Start = c
	case End:
		d.End = c
	}
}

// Dimensions returns the dimensions that carry a Change.
func (d Delta) Dimensions() Dimensions {
	var dims Dimensions
	AllDimensions.Each(func(dim Dimensions) {
		if d.change(dim) != nil {
			dims |= dim
		}
	})
	return dims
}

// IsEmpty reports whether the delta cannot affect any parent.
func (d Delta) IsEmpty() bool {
	return d.Mode == ModeUpdated && d.Dimensions() == 0
}

// DeltaBetween builds an update delta holding only the dimensions that
// differ between the two snapshots.
func DeltaBetween(before, after domain.ScheduleDates) Delta {
	var d Delta
	Diff(before, after).Each(func(dim Dimensions) {
		d.setChange(dim, &Change{Old: Get(before, dim), New: Get(after, dim)})
	})
	return d
}

// Removed builds the delta for a child that left its parent with the given
// last known dates.
func Removed(before domain.ScheduleDates) Delta {
	d := Delta{Mode: ModeRemoved}
	AllDimensions.Each(func(dim Dimensions) {
		d.setChange(dim, &Change{Old: Get(before, dim)})
	})
	return d
}

// Added builds the delta for a child that joined a parent with the given
// dates.
func Added(after domain.ScheduleDates) Delta {
	d := Delta{Mode: ModeAdded}
	AllDimensions.Each(func(dim Dimensions) {
		v := Get(after, dim)
		d.setChange(dim, &Change{Old: v, New: v})
	})
	return d
}
