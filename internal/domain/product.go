package domain

import "time"

// Product is a deliverable item. Its dates are owned by the product
// workflow and are only read by the schedule engine.
type Product struct {
	ID            string
	ProjectID     string
	Name          string
	AvailableDate *time.Time
	StartDate     *time.Time
	EndDate       *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (p *Product) Schedule() ScheduleDates {
	return ScheduleDates{
		Available: p.AvailableDate,
		Start:     p.StartDate,
		End:       p.EndDate,
	}
}

func (p *Product) ApplySchedule(d ScheduleDates, now time.Time) {
	p.AvailableDate = d.Available
	p.StartDate = d.Start
	p.EndDate = d.End
	p.UpdatedAt = now
}
