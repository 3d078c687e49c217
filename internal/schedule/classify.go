package schedule

import (
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

// Action is what a parent has to do about one dimension after a child changed.
type Action int

const (
	// Unaffected: the parent's value is provably still correct.
	Unaffected Action = iota
	// Shortcut: the parent's value becomes Verdict.Value, no sibling read.
	Shortcut
	// Rescan: the previous extremum may be gone; re-aggregate all children.
	Rescan
)

func (a Action) String() string {
	switch a {
	case Shortcut:
		return "shortcut"
	case Rescan:
		return "rescan"
	default:
		return "unaffected"
	}
}

// Verdict is the classification of one dimension.
type Verdict struct {
	Action Action
	Value  *time.Time
}

var (
	unaffected = Verdict{Action: Unaffected}
	rescan     = Verdict{Action: Rescan}
)

func shortcut(v *time.Time) Verdict {
	return Verdict{Action: Shortcut, Value: clone(v)}
}

// Classify decides, for one dimension, whether a parent whose current value
// is parent can stay as is, can take a new value directly, or must rescan
// its children after the change c in mode m.
//
// Available and Start are minimums: an earlier value always wins outright,
// while a later value only matters if the child held the minimum. End is a
// maximum that stays undefined while any child is open.
func Classify(dim Dimensions, c Change, parent *time.Time, m Mode) Verdict {
	switch m {
	case ModeAdded:
		return rescan
	case ModeRemoved:
		if dim != End {
			return rescan
		}
		return classifyRemovedEnd(c.Old, parent)
	}

	if domain.SameInstant(c.Old, c.New) {
		return unaffected
	}
	if dim == End {
		return classifyEnd(c.Old, c.New, parent)
	}
	return classifyMin(c.Old, c.New, parent)
}

// NeedsRecalculate reports whether the parent must be touched at all for dim.
func NeedsRecalculate(dim Dimensions, c Change, parent *time.Time, m Mode) bool {
	return Classify(dim, c, parent, m).Action != Unaffected
}

func classifyMin(before, after, parent *time.Time) Verdict {
	if after != nil && (parent == nil || after.Before(*parent)) {
		return shortcut(after)
	}
	if before != nil && domain.SameInstant(before, parent) {
		return rescan
	}
	return unaffected
}

func classifyEnd(before, after, parent *time.Time) Verdict {
	if after == nil {
		// Child reopened: the whole chain above it is open again.
		if parent == nil {
			return unaffected
		}
		return shortcut(nil)
	}
	if before == nil {
		// Child closed: the parent closes only if no other child is open.
		return rescan
	}
	if parent == nil {
		return unaffected
	}
	if after.After(*parent) {
		return shortcut(after)
	}
	if domain.SameInstant(before, parent) {
		return rescan
	}
	return unaffected
}

// classifyRemovedEnd never reopens a closed parent: losing a child can only
// close the parent or lower its maximum.
func classifyRemovedEnd(before, parent *time.Time) Verdict {
	if before == nil {
		return rescan
	}
	if parent != nil && domain.SameInstant(before, parent) {
		return rescan
	}
	return unaffected
}
