package service

import (
	"context"
	"strings"
	"time"
)

// observe reports one use case to obs. Call it deferred with a pointer to
// the named error result. walk is nil for use cases that never propagate.
func observe(ctx context.Context, obs UseCaseObserver, name string, startedAt time.Time, fields map[string]any, walk *WalkStats, err *error) {
	obs.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   *err == nil,
		Err:       *err,
		Fields:    fields,
		Walk:      walk,
	})
}

func requireName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalidf("name is required")
	}
	return name, nil
}
