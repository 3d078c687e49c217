package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

// ErrCycle is returned when a walk reaches a node it already visited.
var ErrCycle = errors.New("schedule: cycle in project hierarchy")

// NodeStore is the persistence the propagator needs: one node by id, the
// dates of a node's direct children, and a write of the node's own fields.
type NodeStore interface {
	LoadNode(ctx context.Context, id string) (*domain.Project, error)
	LoadChildren(ctx context.Context, node *domain.Project) ([]domain.ScheduleDates, error)
	Save(ctx context.Context, node *domain.Project) error
}

// StopReason records why a propagation ended.
type StopReason string

const (
	StopNoop       StopReason = "noop"
	StopUnaffected StopReason = "unaffected"
	StopRoot       StopReason = "root"
)

// Result summarizes one propagation walk.
type Result struct {
	Visited      []string
	Updated      []string
	SiblingReads int
	Stop         StopReason
}

// Propagator re-establishes derived dates along the path from one node to
// its root.
type Propagator struct {
	store  NodeStore
	logger *slog.Logger
	now    func() time.Time
}

type PropagatorOption func(*Propagator)

func WithLogger(l *slog.Logger) PropagatorOption {
	return func(p *Propagator) {
		if l != nil {
			p.logger = l
		}
	}
}

func WithClock(now func() time.Time) PropagatorOption {
	return func(p *Propagator) {
		if now != nil {
			p.now = now
		}
	}
}

func NewPropagator(store NodeStore, opts ...PropagatorOption) *Propagator {
	p := &Propagator{
		store:  store,
		logger: slog.New(slog.DiscardHandler),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Propagate applies delta, which describes a change to one child of nodeID,
// to nodeID and then to each ancestor until a level is unaffected or the
// root has been written.
func (p *Propagator) Propagate(ctx context.Context, nodeID string, delta Delta) (Result, error) {
	started := time.Now()
	var res Result
	defer func() {
		if res.Stop != "" {
			propagationTotal.WithLabelValues(string(res.Stop)).Inc()
			propagationLevels.Observe(float64(len(res.Visited)))
			propagationDuration.Observe(time.Since(started).Seconds())
		}
	}()

	if delta.IsEmpty() {
		res.Stop = StopNoop
		return res, nil
	}

	visited := make(map[string]bool)
	id := nodeID
	for {
		if visited[id] {
			return res, fmt.Errorf("revisiting %s: %w", id, ErrCycle)
		}
		visited[id] = true

		node, err := p.store.LoadNode(ctx, id)
		if err != nil {
			return res, fmt.Errorf("loading node %s: %w", id, err)
		}
		res.Visited = append(res.Visited, id)

		current := node.Schedule()
		next, pending := p.classify(delta, current)
		if pending != 0 {
			children, err := p.store.LoadChildren(ctx, node)
			if err != nil {
				return res, fmt.Errorf("loading children of %s: %w", id, err)
			}
			res.SiblingReads++
			pending.Each(func(dim Dimensions) {
				next = With(next, dim, AggregateDimension(children, dim))
			})
		}

		changed := Diff(current, next)
		if changed == 0 {
			res.Stop = StopUnaffected
			p.logger.DebugContext(ctx, "schedule propagation stopped",
				"node_id", id, "levels", len(res.Visited), "stop", res.Stop)
			return res, nil
		}

		node.ApplySchedule(next, p.now())
		if err := p.store.Save(ctx, node); err != nil {
			return res, fmt.Errorf("saving node %s: %w", id, err)
		}
		res.Updated = append(res.Updated, id)

		if node.ParentID == nil {
			res.Stop = StopRoot
			p.logger.DebugContext(ctx, "schedule propagation reached root",
				"node_id", id, "levels", len(res.Visited), "changed", changed.String())
			return res, nil
		}

		delta = Delta{}
		changed.Each(func(dim Dimensions) {
			delta.setChange(dim, &Change{Old: Get(current, dim), New: Get(next, dim)})
		})
		id = *node.ParentID
	}
}

// classify applies the per-dimension verdicts for delta to current. It
// returns the dates after all shortcuts and the dimensions that still need
// a rescan of the children.
func (p *Propagator) classify(delta Delta, current domain.ScheduleDates) (domain.ScheduleDates, Dimensions) {
	dims := delta.Dimensions()
	if delta.Mode != ModeUpdated {
		dims = AllDimensions
	}

	next := current
	var pending Dimensions
	dims.Each(func(dim Dimensions) {
		var c Change
		if ch := delta.change(dim); ch != nil {
			c = *ch
		}
		v := Classify(dim, c, Get(current, dim), delta.Mode)
		verdictTotal.WithLabelValues(dim.String(), v.Action.String()).Inc()
		switch v.Action {
		case Shortcut:
			next = With(next, dim, v.Value)
		case Rescan:
			pending |= dim
		}
	})
	return next, pending
}
