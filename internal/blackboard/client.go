// Package blackboard publishes completed z32 runs to Redis so other tools
// can pick up the summary, the ranked survivors and a completion event
// without reading the output directory.
package blackboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/dyluth/z32/internal/report"
	"github.com/dyluth/z32/internal/solver"
	"github.com/redis/go-redis/v9"
)

// Client provides instance-scoped Redis operations. It is safe for
// concurrent use.
type Client struct {
	rdb          *redis.Client
	instanceName string
	now          func() time.Time
}

// NewClient creates a client for the given instance. Returns an error if
// instanceName is not a valid instance name.
func NewClient(redisOpts *redis.Options, instanceName string) (*Client, error) {
	if err := ValidateInstanceName(instanceName); err != nil {
		return nil, err
	}

	return &Client{
		rdb:          redis.NewClient(redisOpts),
		instanceName: instanceName,
		now:          time.Now,
	}, nil
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping verifies Redis connectivity.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// PublishRun stores the run summary and its ranked survivors in one
// transaction, indexes the run, then publishes the summary on the run
// events channel. Publishing the same run twice replaces the first copy.
func (c *Client) PublishRun(ctx context.Context, rec report.Record) (*RunSummary, error) {
	summary := NewRunSummary(rec, c.now())
	if err := summary.Validate(); err != nil {
		return nil, fmt.Errorf("invalid run summary: %w", err)
	}

	survivors := make([]interface{}, 0, len(rec.Survivors))
	for i, s := range rec.Survivors {
		data, err := json.Marshal(s)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal survivor %d: %w", i+1, err)
		}
		survivors = append(survivors, string(data))
	}

	runKey := RunKey(c.instanceName, summary.RunID)
	survivorsKey := SurvivorsKey(c.instanceName, summary.RunID)

	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, runKey, survivorsKey)
		pipe.HSet(ctx, runKey, SummaryToHash(&summary))
		if len(survivors) > 0 {
			pipe.RPush(ctx, survivorsKey, survivors...)
		}
		pipe.ZAdd(ctx, RunsKey(c.instanceName), redis.Z{
			Score:  float64(summary.CreatedAtMs),
			Member: summary.RunID,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to write run to Redis: %w", err)
	}

	event, err := json.Marshal(summary)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal run event: %w", err)
	}
	if err := c.rdb.Publish(ctx, RunEventsChannel(c.instanceName), event).Err(); err != nil {
		return nil, fmt.Errorf("failed to publish run event: %w", err)
	}

	return &summary, nil
}

// GetRun retrieves a run summary. Returns (nil, redis.Nil) if the run does
// not exist; use IsNotFound to check.
func (c *Client) GetRun(ctx context.Context, runID string) (*RunSummary, error) {
	hash, err := c.rdb.HGetAll(ctx, RunKey(c.instanceName, runID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read run from Redis: %w", err)
	}
	if len(hash) == 0 {
		return nil, redis.Nil
	}

	summary, err := HashToSummary(hash)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize run: %w", err)
	}
	return summary, nil
}

// ListSurvivors returns up to limit survivors of a run in rank order. A
// limit <= 0 returns all of them.
func (c *Client) ListSurvivors(ctx context.Context, runID string, limit int) ([]solver.Survivor, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}

	items, err := c.rdb.LRange(ctx, SurvivorsKey(c.instanceName, runID), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read survivors from Redis: %w", err)
	}

	survivors := make([]solver.Survivor, 0, len(items))
	for i, item := range items {
		var s solver.Survivor
		if err := json.Unmarshal([]byte(item), &s); err != nil {
			return nil, fmt.Errorf("failed to unmarshal survivor %d: %w", i+1, err)
		}
		survivors = append(survivors, s)
	}
	return survivors, nil
}

// ListRunsBetween returns up to limit run IDs published in the half-open
// window [since, until), most recent first. A zero since or until leaves
// that side open; a limit <= 0 returns every match.
func (c *Client) ListRunsBetween(ctx context.Context, since, until time.Time, limit int) ([]string, error) {
	by := &redis.ZRangeBy{Min: "-inf", Max: "+inf"}
	if !since.IsZero() {
		by.Min = strconv.FormatInt(since.UnixMilli(), 10)
	}
	if !until.IsZero() {
		by.Max = "(" + strconv.FormatInt(until.UnixMilli(), 10)
	}
	if limit > 0 {
		by.Count = int64(limit)
	}

	ids, err := c.rdb.ZRevRangeByScore(ctx, RunsKey(c.instanceName), by).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return ids, nil
}

// Subscription is an active subscription to run events. Callers must
// Close it when done.
type Subscription struct {
	events <-chan *RunSummary
	errors <-chan error
	cancel func()
	once   sync.Once
}

// Events returns the channel of run events. It is closed when the
// subscription is closed or its context is cancelled.
func (s *Subscription) Events() <-chan *RunSummary {
	return s.events
}

// Errors returns malformed-event errors. The subscription keeps running
// after an error; the offending message is skipped.
func (s *Subscription) Errors() <-chan error {
	return s.errors
}

// Close stops the subscription. Safe to call more than once.
func (s *Subscription) Close() error {
	s.once.Do(s.cancel)
	return nil
}

// SubscribeRunEvents subscribes to this instance's run events. The call
// returns once Redis has confirmed the subscription, so no run published
// afterwards is missed.
func (c *Client) SubscribeRunEvents(ctx context.Context) (*Subscription, error) {
	pubsub := c.rdb.Subscribe(ctx, RunEventsChannel(c.instanceName))
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to run events: %w", err)
	}

	eventsChan := make(chan *RunSummary, 10)
	errorsChan := make(chan error, 10)
	subCtx, cancel := context.WithCancel(ctx)

	go func() {
		defer close(eventsChan)
		defer close(errorsChan)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}

				var summary RunSummary
				if err := json.Unmarshal([]byte(msg.Payload), &summary); err != nil {
					select {
					case errorsChan <- fmt.Errorf("failed to unmarshal run event: %w", err):
					case <-subCtx.Done():
						return
					}
					continue
				}

				select {
				case eventsChan <- &summary:
				case <-subCtx.Done():
					return
				}
			}
		}
	}()

	return &Subscription{
		events: eventsChan,
		errors: errorsChan,
		cancel: cancel,
	}, nil
}

// IsNotFound reports whether err is a Redis "key not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, redis.Nil)
}
