package domain

import (
	"fmt"
	"regexp"
	"time"
)

var shortIDPattern = regexp.MustCompile(`^[A-Z]{3,6}[0-9]{2,4}$`)

// Project is a hierarchical node: a root project when ParentID is nil,
// otherwise a subproject of the root project it points at.
type Project struct {
	ID             string
	OrganizationID string
	CustomerID     *string
	ParentID       *string
	ShortID        string
	Name           string
	FixedDeadline  *time.Time

	// Derived from children; written only by the schedule engine.
	AvailableDate *time.Time
	StartDate     *time.Time
	EndDate       *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsRoot reports whether the project sits directly under its organization.
func (p *Project) IsRoot() bool {
	return p.ParentID == nil
}

// RootID returns the id of the root project that owns p's subtree.
func (p *Project) RootID() string {
	if p.ParentID != nil {
		return *p.ParentID
	}
	return p.ID
}

// Schedule returns the derived dates as a single value.
func (p *Project) Schedule() ScheduleDates {
	return ScheduleDates{
		Available: p.AvailableDate,
		Start:     p.StartDate,
		End:       p.EndDate,
	}
}

// ApplySchedule overwrites the derived dates.
func (p *Project) ApplySchedule(d ScheduleDates, now time.Time) {
	p.AvailableDate = d.Available
	p.StartDate = d.Start
	p.EndDate = d.End
	p.UpdatedAt = now
}

// ValidateShortID checks that ShortID is non-empty and matches the required
// format: 3-6 uppercase letters followed by 2-4 digits (e.g. ACME01, WEB0234).
func (p *Project) ValidateShortID() error {
	if p.ShortID == "" {
		return fmt.Errorf("short ID is required")
	}
	if !shortIDPattern.MatchString(p.ShortID) {
		return fmt.Errorf("short ID %q must be 3-6 uppercase letters followed by 2-4 digits (e.g. ACME01)", p.ShortID)
	}
	return nil
}

// DisplayID returns the best short identifier for display.
// It prefers ShortID; if empty it truncates ID to 8 characters.
func (p *Project) DisplayID() string {
	if p.ShortID != "" {
		return p.ShortID
	}
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}
