package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/alexanderramin/cadence/internal/schedule"
)

type scheduleService struct {
	orgs     repository.OrganizationRepo
	recalc   *schedule.Recalculator
	observer UseCaseObserver
}

func NewScheduleService(
	orgs repository.OrganizationRepo,
	recalc *schedule.Recalculator,
	observers ...UseCaseObserver,
) ScheduleService {
	return &scheduleService{
		orgs:     orgs,
		recalc:   recalc,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *scheduleService) RecalculateAll(ctx context.Context, orgID string) (rep schedule.Report, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"organization_id": orgID}
	defer func() {
		fields["batches"] = rep.Batches
		fields["subprojects"] = rep.Subprojects
		fields["roots"] = rep.Roots
		fields["nodes_updated"] = rep.Updated
		observe(ctx, s.observer, "recalculate-schedule", startedAt, fields, nil, &err)
	}()

	if _, err = s.orgs.GetByID(ctx, orgID); err != nil {
		return rep, fmt.Errorf("organization %s: %w", orgID, err)
	}
	return s.recalc.RecalculateAll(ctx, orgID)
}
