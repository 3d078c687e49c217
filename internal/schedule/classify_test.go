package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassify_MinDimensions(t *testing.T) {
	cases := []struct {
		name   string
		before *time.Time
		after  *time.Time
		parent *time.Time
		want   Action
		value  *time.Time
	}{
		{"earlier than parent", day(1, 10), day(1, 1), day(1, 5), Shortcut, day(1, 1)},
		{"parent undefined gets first value", nil, day(1, 3), nil, Shortcut, day(1, 3)},
		{"extremum moved later", day(1, 5), day(1, 20), day(1, 5), Rescan, nil},
		{"extremum cleared", day(1, 5), nil, day(1, 5), Rescan, nil},
		{"extremum moved earlier", day(1, 5), day(1, 2), day(1, 5), Shortcut, day(1, 2)},
		{"non-extremum moved later", day(1, 10), day(1, 20), day(1, 5), Unaffected, nil},
		{"non-extremum cleared", day(1, 10), nil, day(1, 5), Unaffected, nil},
		{"moved onto the extremum", day(1, 10), day(1, 5), day(1, 5), Unaffected, nil},
		{"no change", day(1, 5), day(1, 5), day(1, 5), Unaffected, nil},
	}
	for _, dim := range []Dimensions{Available, Start} {
		for _, tc := range cases {
			t.Run(dim.String()+"/"+tc.name, func(t *testing.T) {
				v := Classify(dim, Change{Old: tc.before, New: tc.after}, tc.parent, ModeUpdated)
				assert.Equal(t, tc.want, v.Action)
				if tc.want == Shortcut {
					assertSameTime(t, tc.value, v.Value)
				}
			})
		}
	}
}

func TestClassify_End(t *testing.T) {
	cases := []struct {
		name   string
		before *time.Time
		after  *time.Time
		parent *time.Time
		want   Action
		value  *time.Time
	}{
		{"child reopened opens parent", day(2, 1), nil, day(3, 1), Shortcut, nil},
		{"child reopened under open parent", day(2, 1), nil, nil, Unaffected, nil},
		{"child closed may close parent", nil, day(2, 1), nil, Rescan, nil},
		{"child end moved under open parent", day(2, 1), day(2, 5), nil, Unaffected, nil},
		{"later than parent max", day(2, 1), day(4, 1), day(3, 1), Shortcut, day(4, 1)},
		{"max moved earlier", day(3, 1), day(2, 1), day(3, 1), Rescan, nil},
		{"non-max moved earlier", day(2, 1), day(1, 15), day(3, 1), Unaffected, nil},
		{"non-max moved later but below max", day(2, 1), day(2, 20), day(3, 1), Unaffected, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := Classify(End, Change{Old: tc.before, New: tc.after}, tc.parent, ModeUpdated)
			assert.Equal(t, tc.want, v.Action)
			if tc.want == Shortcut {
				assertSameTime(t, tc.value, v.Value)
			}
		})
	}
}

func TestClassify_Removed(t *testing.T) {
	// Minimums always rescan on removal.
	assert.Equal(t, Rescan, Classify(Available, Change{Old: day(1, 20)}, day(1, 5), ModeRemoved).Action)
	assert.Equal(t, Rescan, Classify(Start, Change{}, nil, ModeRemoved).Action)

	// End: an open child leaving may close the parent.
	assert.Equal(t, Rescan, Classify(End, Change{Old: nil}, nil, ModeRemoved).Action)
	// End: the maximum leaving lowers the parent.
	assert.Equal(t, Rescan, Classify(End, Change{Old: day(3, 1)}, day(3, 1), ModeRemoved).Action)
	// End: a closed child leaving an open parent cannot reopen or close it.
	assert.Equal(t, Unaffected, Classify(End, Change{Old: day(3, 1)}, nil, ModeRemoved).Action)
	// End: a closed non-maximum child leaving changes nothing.
	assert.Equal(t, Unaffected, Classify(End, Change{Old: day(2, 1)}, day(3, 1), ModeRemoved).Action)
}

func TestClassify_AddedAlwaysRescans(t *testing.T) {
	AllDimensions.Each(func(dim Dimensions) {
		c := Change{Old: day(1, 1), New: day(1, 1)}
		assert.Equal(t, Rescan, Classify(dim, c, day(1, 1), ModeAdded).Action, dim.String())
		assert.True(t, NeedsRecalculate(dim, c, day(1, 1), ModeAdded))
	})
}

func TestNeedsRecalculate_UnaffectedIsFalse(t *testing.T) {
	assert.False(t, NeedsRecalculate(Start, Change{Old: day(1, 10), New: day(1, 12)}, day(1, 5), ModeUpdated))
	assert.True(t, NeedsRecalculate(Start, Change{Old: day(1, 10), New: day(1, 1)}, day(1, 5), ModeUpdated))
}

func TestDimensions_String(t *testing.T) {
	assert.Equal(t, "none", Dimensions(0).String())
	assert.Equal(t, "available|end", (Available | End).String())
	assert.Equal(t, "available|start|end", AllDimensions.String())
}

func assertSameTime(t *testing.T, want, got *time.Time) {
	t.Helper()
	if want == nil {
		assert.Nil(t, got)
		return
	}
	if assert.NotNil(t, got) {
		assert.True(t, want.Equal(*got), "want %s, got %s", want, got)
	}
}
