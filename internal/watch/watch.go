// Package watch follows runs as they are published to the blackboard.
package watch

import (
	"context"
	"fmt"
	"time"

	"github.com/dyluth/z32/internal/blackboard"
)

// RunGetter looks up published runs.
type RunGetter interface {
	GetRun(ctx context.Context, runID string) (*blackboard.RunSummary, error)
}

// RunSubscriber opens a stream of run events.
type RunSubscriber interface {
	SubscribeRunEvents(ctx context.Context) (*blackboard.Subscription, error)
}

// WaitForRun polls every interval until runID has been published or
// timeout elapses.
func WaitForRun(ctx context.Context, client RunGetter, runID string, interval, timeout time.Duration) (*blackboard.RunSummary, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	timeoutCh := time.After(timeout)

	for {
		summary, err := client.GetRun(ctx, runID)
		if err == nil {
			return summary, nil
		}
		if !blackboard.IsNotFound(err) {
			return nil, fmt.Errorf("failed to query for run: %w", err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timeoutCh:
			return nil, fmt.Errorf("timeout waiting for run %s after %v", runID, timeout)
		case <-ticker.C:
		}
	}
}

// StreamRuns calls handle for every run published until ctx is cancelled,
// the subscription ends or handle returns an error. Malformed events are
// passed to onError, which may be nil, and skipped.
func StreamRuns(ctx context.Context, client RunSubscriber, handle func(*blackboard.RunSummary) error, onError func(error)) error {
	sub, err := client.SubscribeRunEvents(ctx)
	if err != nil {
		return err
	}
	defer sub.Close()

	events, errs := sub.Events(), sub.Errors()
	for {
		select {
		case <-ctx.Done():
			return nil
		case summary, ok := <-events:
			if !ok {
				return nil
			}
			if err := handle(summary); err != nil {
				return err
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if onError != nil {
				onError(err)
			}
		}
	}
}
