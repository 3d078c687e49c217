package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
	"golang.org/x/sync/errgroup"
)

// DefaultBatchSize bounds the number of nodes read and written per
// transaction during bulk recalculation.
const DefaultBatchSize = 2000

// BatchStore is the persistence the bulk recalculator needs.
type BatchStore interface {
	// ListNodes returns up to limit nodes of the given kind in the
	// organization with id greater than afterID, ordered by id.
	ListNodes(ctx context.Context, orgID string, kind domain.NodeKind, afterID string, limit int) ([]*domain.Project, error)
	// LoadChildrenBatch returns the children's dates keyed by node id.
	LoadChildrenBatch(ctx context.Context, nodes []*domain.Project) (map[string][]domain.ScheduleDates, error)
	SaveBatch(ctx context.Context, nodes []*domain.Project) error
}

// BatchStoreFactory builds a store bound to one transaction.
type BatchStoreFactory func(tx db.DBTX) BatchStore

type RecalculatorConfig struct {
	BatchSize int
	Workers   int
}

// Report summarizes an organization-wide recalculation. Counts cover
// committed batches only.
type Report struct {
	OrganizationID string
	Batches        int
	Subprojects    int
	Roots          int
	Updated        int
	Duration       time.Duration
}

// Recalculator recomputes every node of an organization: subprojects first,
// then roots from their already-fixed subprojects and own products.
type Recalculator struct {
	uow       db.UnitOfWork
	newStore  BatchStoreFactory
	batchSize int
	workers   int
	logger    *slog.Logger
	now       func() time.Time
}

func NewRecalculator(uow db.UnitOfWork, newStore BatchStoreFactory, cfg RecalculatorConfig, logger *slog.Logger) *Recalculator {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Recalculator{
		uow:       uow,
		newStore:  newStore,
		batchSize: cfg.BatchSize,
		workers:   cfg.Workers,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// RecalculateAll runs both passes. A failing batch is rolled back on its
// own; batches committed before it stay, and rerunning is safe because an
// already-correct node is not rewritten.
func (r *Recalculator) RecalculateAll(ctx context.Context, orgID string) (rep Report, err error) {
	started := time.Now()
	rep = Report{OrganizationID: orgID}
	defer func() {
		rep.Duration = time.Since(started)
		recalcDuration.Observe(rep.Duration.Seconds())
	}()

	for _, kind := range []domain.NodeKind{domain.NodeSubproject, domain.NodeRoot} {
		if err = r.runPass(ctx, orgID, kind, &rep); err != nil {
			return rep, err
		}
	}

	r.logger.InfoContext(ctx, "schedule recalculation finished",
		"organization_id", orgID,
		"batches", rep.Batches,
		"subprojects", rep.Subprojects,
		"roots", rep.Roots,
		"updated", rep.Updated,
	)
	return rep, nil
}

func (r *Recalculator) runPass(ctx context.Context, orgID string, kind domain.NodeKind, rep *Report) error {
	after := ""
	for {
		var scanned, updated int
		var last string

		err := r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			store := r.newStore(tx)
			nodes, err := store.ListNodes(ctx, orgID, kind, after, r.batchSize)
			if err != nil {
				return fmt.Errorf("listing %s nodes: %w", kind, err)
			}
			if len(nodes) == 0 {
				return nil
			}
			children, err := store.LoadChildrenBatch(ctx, nodes)
			if err != nil {
				return fmt.Errorf("loading children: %w", err)
			}
			changed, err := r.recompute(ctx, nodes, children)
			if err != nil {
				return err
			}
			if len(changed) > 0 {
				if err := store.SaveBatch(ctx, changed); err != nil {
					return fmt.Errorf("saving batch: %w", err)
				}
			}
			scanned, updated = len(nodes), len(changed)
			last = nodes[len(nodes)-1].ID
			return nil
		})
		if err != nil {
			recalcBatchFailures.WithLabelValues(string(kind)).Inc()
			return fmt.Errorf("recalculating %s batch after %q: %w", kind, after, err)
		}
		if scanned == 0 {
			return nil
		}

		rep.Batches++
		rep.Updated += updated
		if kind == domain.NodeRoot {
			rep.Roots += scanned
		} else {
			rep.Subprojects += scanned
		}
		recalcNodesTotal.WithLabelValues(string(kind), "updated").Add(float64(updated))
		recalcNodesTotal.WithLabelValues(string(kind), "unchanged").Add(float64(scanned - updated))

		if scanned < r.batchSize {
			return nil
		}
		after = last
	}
}

// recompute aggregates every node of the batch in parallel and returns the
// nodes whose dates changed, with the new dates applied.
func (r *Recalculator) recompute(ctx context.Context, nodes []*domain.Project, children map[string][]domain.ScheduleDates) ([]*domain.Project, error) {
	results := make([]domain.ScheduleDates, len(nodes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, n := range nodes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = Aggregate(children[n.ID])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := r.now()
	var changed []*domain.Project
	for i, n := range nodes {
		if results[i].Equal(n.Schedule()) {
			continue
		}
		n.ApplySchedule(results[i], now)
		changed = append(changed, n)
	}
	return changed, nil
}
