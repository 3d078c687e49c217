package service

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/schedule"
)

// UseCaseEvent describes one finished service call.
type UseCaseEvent struct {
	Name      string
	StartedAt time.Time
	Duration  time.Duration
	Success   bool
	Err       error
	// Fields holds the ids the use case touched and its own counters.
	Fields map[string]any
	// Walk is set for hierarchy mutations; nil for reads and bulk runs.
	Walk *WalkStats
}

// WalkStats sums the propagation walks a single mutation triggered. A move
// walks twice: from the old parent and from the new one.
type WalkStats struct {
	Walks        int
	Levels       int
	NodesUpdated int
	SiblingReads int
	Stops        []schedule.StopReason
}

func (w *WalkStats) add(res schedule.Result) {
	w.Walks++
	w.Levels += len(res.Visited)
	w.NodesUpdated += len(res.Updated)
	w.SiblingReads += res.SiblingReads
	w.Stops = append(w.Stops, res.Stop)
}

func (w *WalkStats) logValue() slog.Value {
	stops := make([]string, 0, len(w.Stops))
	for _, s := range w.Stops {
		stops = append(stops, string(s))
	}
	return slog.GroupValue(
		slog.Int("walks", w.Walks),
		slog.Int("levels", w.Levels),
		slog.Int("nodes_updated", w.NodesUpdated),
		slog.Int("sibling_reads", w.SiblingReads),
		slog.String("stops", strings.Join(stops, ",")),
	)
}

// UseCaseObserver receives use-case execution events.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

// NoopUseCaseObserver ignores all events.
type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type logUseCaseObserver struct {
	logger *slog.Logger
}

// NewLogUseCaseObserver logs each use case through logger, which carries
// the configured level and format. Failures log at error; mutations that
// left every ancestor untouched log at debug.
func NewLogUseCaseObserver(logger *slog.Logger) UseCaseObserver {
	if logger == nil {
		return NoopUseCaseObserver{}
	}
	return &logUseCaseObserver{logger: logger}
}

func (o *logUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	attrs := make([]slog.Attr, 0, 5+len(event.Fields))
	attrs = append(attrs,
		slog.String("use_case", event.Name),
		slog.Int64("duration_ms", event.Duration.Milliseconds()),
		slog.Bool("success", event.Success),
	)
	keys := make([]string, 0, len(event.Fields))
	for k := range event.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, event.Fields[k]))
	}
	if event.Walk != nil {
		attrs = append(attrs, slog.Attr{Key: "walk", Value: event.Walk.logValue()})
	}

	level := slog.LevelInfo
	switch {
	case event.Err != nil:
		attrs = append(attrs, slog.String("error", event.Err.Error()))
		level = slog.LevelError
	case event.Walk != nil && event.Walk.NodesUpdated == 0:
		level = slog.LevelDebug
	}
	o.logger.LogAttrs(ctx, level, "service_use_case", attrs...)
}

func useCaseObserverOrNoop(observers []UseCaseObserver) UseCaseObserver {
	for _, o := range observers {
		if o != nil {
			return o
		}
	}
	return NoopUseCaseObserver{}
}
