package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateShortID_Valid(t *testing.T) {
	cases := []string{"ACME01", "WEB02", "ABC1234", "ABCDEF01", "XYZ99"}
	for _, id := range cases {
		p := &Project{ShortID: id}
		assert.NoError(t, p.ValidateShortID(), "should accept %q", id)
	}
}

func TestValidateShortID_Empty(t *testing.T) {
	p := &Project{ShortID: ""}
	err := p.ValidateShortID()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")
}

func TestValidateShortID_Lowercase(t *testing.T) {
	p := &Project{ShortID: "acme01"}
	err := p.ValidateShortID()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "uppercase")
}

func TestDisplayID_WithShortID(t *testing.T) {
	p := &Project{ID: "550e8400-e29b-41d4-a716-446655440000", ShortID: "ACME01"}
	assert.Equal(t, "ACME01", p.DisplayID())
}

func TestDisplayID_WithoutShortID(t *testing.T) {
	p := &Project{ID: "550e8400-e29b-41d4-a716-446655440000", ShortID: ""}
	assert.Equal(t, "550e8400", p.DisplayID())
}

func TestProject_RootAndKind(t *testing.T) {
	root := &Project{ID: "root"}
	assert.True(t, root.IsRoot())
	assert.Equal(t, "root", root.RootID())
	assert.Equal(t, NodeRoot, root.Kind())

	parent := "root"
	sub := &Project{ID: "sub", ParentID: &parent}
	assert.False(t, sub.IsRoot())
	assert.Equal(t, "root", sub.RootID())
	assert.Equal(t, NodeSubproject, sub.Kind())
}

func TestProject_ApplySchedule(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	start := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	p := &Project{}
	p.ApplySchedule(ScheduleDates{Start: &start}, now)

	assert.Nil(t, p.AvailableDate)
	require.NotNil(t, p.StartDate)
	assert.True(t, start.Equal(*p.StartDate))
	assert.Nil(t, p.EndDate)
	assert.Equal(t, now, p.UpdatedAt)
	assert.True(t, p.Schedule().IsOpen())
}

func TestSameInstant(t *testing.T) {
	a := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	b := a.In(time.FixedZone("CET", 3600))
	c := a.Add(time.Minute)

	assert.True(t, SameInstant(nil, nil))
	assert.False(t, SameInstant(&a, nil))
	assert.False(t, SameInstant(nil, &a))
	assert.True(t, SameInstant(&a, &b), "same instant in different zones")
	assert.False(t, SameInstant(&a, &c))
}

func TestScheduleDates_Equal(t *testing.T) {
	d1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	x := ScheduleDates{Available: &d1, End: &d2}
	y := ScheduleDates{Available: &d1, End: &d2}
	assert.True(t, x.Equal(y))

	y.Start = &d1
	assert.False(t, x.Equal(y))
}
