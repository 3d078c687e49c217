package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/alexanderramin/cadence/internal/schedule"
)

const maxLockAttempts = 3

var errRootsMoved = errors.New("affected roots changed while waiting for lock")

// rootResolver returns the root projects a mutation will touch, read
// through tx.
type rootResolver func(ctx context.Context, tx db.DBTX) ([]string, error)

// mutator runs a hierarchy mutation. It holds the per-root locks of the
// process and commits the mutation together with its propagation.
type mutator struct {
	uow   db.UnitOfWork
	locks *schedule.RootLocks
}

func newMutator(uow db.UnitOfWork, locks *schedule.RootLocks) mutator {
	if locks == nil {
		locks = schedule.NewRootLocks()
	}
	return mutator{uow: uow, locks: locks}
}

// run resolves the affected roots, locks them, and runs fn in one
// transaction. If the roots changed before the lock was granted it starts
// over.
func (m mutator) run(ctx context.Context, resolve rootResolver, fn func(ctx context.Context, tx db.DBTX) error) error {
	for attempt := 1; ; attempt++ {
		var roots []string
		err := m.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			var err error
			roots, err = resolve(ctx, tx)
			return err
		})
		if err != nil {
			return err
		}

		unlock := m.locks.Lock(roots...)
		err = m.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			current, err := resolve(ctx, tx)
			if err != nil {
				return err
			}
			if !slices.Equal(current, roots) {
				return errRootsMoved
			}
			return fn(ctx, tx)
		})
		unlock()

		if errors.Is(err, errRootsMoved) && attempt < maxLockAttempts {
			continue
		}
		return err
	}
}

// rootSet sorts ids and drops empties and duplicates.
func rootSet(ids ...string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// propagate walks delta upward from nodeID inside tx and adds the walk to w.
func (w *WalkStats) propagate(ctx context.Context, tx db.DBTX, nodeID string, delta schedule.Delta, now time.Time) error {
	prop := schedule.NewPropagator(repository.NewSQLiteScheduleStore(tx),
		schedule.WithClock(func() time.Time { return now }),
		schedule.WithLogger(slog.Default()))
	res, err := prop.Propagate(ctx, nodeID, delta)
	if err != nil {
		return fmt.Errorf("propagating schedule from %s: %w", nodeID, err)
	}
	w.add(res)
	return nil
}
