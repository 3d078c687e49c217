package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/alexanderramin/cadence/internal/schedule"
	"github.com/alexanderramin/cadence/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type services struct {
	db       *sql.DB
	uow      db.UnitOfWork
	org      *domain.Organization
	orgs     OrganizationService
	projects ProjectService
	products ProductService
	schedule ScheduleService
	imports  ImportService
	observer *recordingObserver
}

func setupServices(t *testing.T) *services {
	t.Helper()
	database := testutil.NewTestDB(t)
	return setupServicesWith(t, database, testutil.NewTestUoW(database))
}

func setupServicesWith(t *testing.T, database *sql.DB, uow db.UnitOfWork) *services {
	t.Helper()
	obs := &recordingObserver{}
	locks := schedule.NewRootLocks()
	orgRepo := repository.NewSQLiteOrganizationRepo(database)
	recalc := schedule.NewRecalculator(testutil.NewTestUoW(database), repository.NewScheduleBatchStore,
		schedule.RecalculatorConfig{BatchSize: 3}, nil)

	s := &services{
		db:       database,
		uow:      uow,
		orgs:     NewOrganizationService(orgRepo),
		projects: NewProjectService(repository.NewSQLiteProjectRepo(database), uow, locks, obs),
		products: NewProductService(repository.NewSQLiteProductRepo(database), uow, locks, obs),
		schedule: NewScheduleService(orgRepo, recalc, obs),
		imports:  NewImportService(orgRepo, uow, obs),
		observer: obs,
	}
	org := &domain.Organization{Name: "Acme"}
	require.NoError(t, s.orgs.Create(context.Background(), org))
	s.org = org
	return s
}

func (s *services) root(t *testing.T, name string) *domain.Project {
	t.Helper()
	p := &domain.Project{OrganizationID: s.org.ID, Name: name}
	require.NoError(t, s.projects.Create(context.Background(), p))
	return p
}

func (s *services) sub(t *testing.T, parent *domain.Project, name string) *domain.Project {
	t.Helper()
	p := &domain.Project{OrganizationID: s.org.ID, Name: name, ParentID: &parent.ID}
	require.NoError(t, s.projects.Create(context.Background(), p))
	return p
}

func (s *services) item(t *testing.T, project *domain.Project, available, start, end *time.Time) *domain.Product {
	t.Helper()
	p := testutil.NewTestProduct(project.ID, "Item", testutil.WithDates(available, start, end))
	p.ID = ""
	require.NoError(t, s.products.Create(context.Background(), p))
	return p
}

func (s *services) reload(t *testing.T, p *domain.Project) *domain.Project {
	t.Helper()
	got, err := s.projects.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	return got
}

// assertMatchesBulk checks that a full recalculation finds nothing to fix.
func (s *services) assertMatchesBulk(t *testing.T) {
	t.Helper()
	rep, err := s.schedule.RecalculateAll(context.Background(), s.org.ID)
	require.NoError(t, err)
	assert.Zero(t, rep.Updated, "incremental propagation left stale dates")
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) last(name string) (UseCaseEvent, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := len(o.events) - 1; i >= 0; i-- {
		if o.events[i].Name == name {
			return o.events[i], true
		}
	}
	return UseCaseEvent{}, false
}

func assertDay(t *testing.T, want, got *time.Time, msg string) {
	t.Helper()
	if want == nil {
		assert.Nil(t, got, msg)
		return
	}
	if assert.NotNil(t, got, msg) {
		assert.True(t, want.Equal(*got), "%s: want %s, got %s", msg, want.Format(time.DateOnly), got.Format(time.DateOnly))
	}
}
