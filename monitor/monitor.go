// Package monitor schedules recurring endpoint health probes through a
// host-owned job queue. The monitor never talks to go-job directly; it works
// against the core job contracts so adapters/gojob can supply the queue.
package monitor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Awatif2003/marinesafe/core"
)

const (
	JobIDHealthProbe = "marinesafe.health.probe"
	JobIDDiagnostics = "marinesafe.endpoints.diagnostics"

	defaultProbeInterval = 60 * time.Second
	defaultNackDelay     = 15 * time.Second
)

type HealthChecker interface {
	HealthCheck(ctx context.Context) (string, error)
	TestAllConnections(ctx context.Context) []core.ProbeResult
}

type Monitor struct {
	checker  HealthChecker
	enqueuer core.JobEnqueuer
	dequeuer core.JobDequeuer
	observer *core.Observer
	interval time.Duration
	now      func() time.Time
}

type Option func(*Monitor)

func WithObserver(observer *core.Observer) Option {
	return func(m *Monitor) {
		m.observer = observer
	}
}

func WithProbeInterval(interval time.Duration) Option {
	return func(m *Monitor) {
		if interval > 0 {
			m.interval = interval
		}
	}
}

func WithNowFunc(now func() time.Time) Option {
	return func(m *Monitor) {
		if now != nil {
			m.now = now
		}
	}
}

func New(checker HealthChecker, enqueuer core.JobEnqueuer, dequeuer core.JobDequeuer, opts ...Option) (*Monitor, error) {
	if checker == nil {
		return nil, fmt.Errorf("monitor: health checker is required")
	}
	m := &Monitor{
		checker:  checker,
		enqueuer: enqueuer,
		dequeuer: dequeuer,
		interval: defaultProbeInterval,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(m)
	}
	return m, nil
}

// EnqueueProbe schedules one health-probe execution. The idempotency key is
// bucketed to the probe interval so a crashed scheduler cannot flood the
// queue with duplicates.
func (m *Monitor) EnqueueProbe(ctx context.Context) error {
	if m == nil || m.enqueuer == nil {
		return fmt.Errorf("monitor: enqueuer is not configured")
	}
	return m.enqueuer.Enqueue(ctx, &core.JobExecutionMessage{
		JobID:          JobIDHealthProbe,
		IdempotencyKey: m.probeIdempotencyKey(),
		DedupPolicy:    "drop",
	})
}

// EnqueueDiagnostics schedules a full candidate sweep.
func (m *Monitor) EnqueueDiagnostics(ctx context.Context) error {
	if m == nil || m.enqueuer == nil {
		return fmt.Errorf("monitor: enqueuer is not configured")
	}
	return m.enqueuer.Enqueue(ctx, &core.JobExecutionMessage{
		JobID: JobIDDiagnostics,
	})
}

// ProcessDelivery executes a single dequeued probe job, acking on success
// and nacking with a delay on failure.
func (m *Monitor) ProcessDelivery(ctx context.Context, delivery core.JobDelivery) error {
	if m == nil || m.checker == nil {
		return fmt.Errorf("monitor: health checker is required")
	}
	if delivery == nil {
		return fmt.Errorf("monitor: delivery is required")
	}
	msg := delivery.Message()
	if msg == nil {
		return delivery.Nack(ctx, core.JobNackOptions{
			DeadLetter: true,
			Reason:     "missing execution message",
		})
	}

	startedAt := m.now()
	var err error
	switch strings.TrimSpace(msg.JobID) {
	case JobIDHealthProbe:
		_, err = m.checker.HealthCheck(ctx)
	case JobIDDiagnostics:
		results := m.checker.TestAllConnections(ctx)
		m.logDiagnostics(ctx, results)
	default:
		return delivery.Nack(ctx, core.JobNackOptions{
			DeadLetter: true,
			Reason:     fmt.Sprintf("unknown job id %q", msg.JobID),
		})
	}
	m.observe(ctx, startedAt, msg.JobID, err)

	if err != nil {
		return delivery.Nack(ctx, core.JobNackOptions{
			Delay:   defaultNackDelay,
			Requeue: true,
			Reason:  err.Error(),
		})
	}
	return delivery.Ack(ctx)
}

// Run drains the dequeuer until the context is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	if m == nil || m.dequeuer == nil {
		return fmt.Errorf("monitor: dequeuer is not configured")
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		delivery, err := m.dequeuer.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			m.logWarn(ctx, "health monitor dequeue failed", map[string]any{
				"error": err.Error(),
			})
			continue
		}
		if processErr := m.ProcessDelivery(ctx, delivery); processErr != nil {
			m.logWarn(ctx, "health monitor delivery failed", map[string]any{
				"error": processErr.Error(),
			})
		}
	}
}

func (m *Monitor) probeIdempotencyKey() string {
	bucket := m.now().Truncate(m.interval).Unix()
	return fmt.Sprintf("%s::%d", JobIDHealthProbe, bucket)
}

func (m *Monitor) logDiagnostics(ctx context.Context, results []core.ProbeResult) {
	if m.observer == nil {
		return
	}
	for _, result := range results {
		fields := map[string]any{
			"endpoint":   result.URL,
			"healthy":    result.Healthy,
			"latency_ms": result.LatencyMS,
		}
		if result.Detail != "" {
			fields["detail"] = result.Detail
		}
		m.observer.LogInfo(ctx, "endpoint diagnostics result", fields)
	}
}

func (m *Monitor) observe(ctx context.Context, startedAt time.Time, jobID string, err error) {
	if m.observer == nil {
		return
	}
	m.observer.ObserveOperation(ctx, startedAt, "monitor.process", err, map[string]any{
		"job_id": jobID,
	})
}

func (m *Monitor) logWarn(ctx context.Context, message string, fields map[string]any) {
	if m.observer == nil {
		return
	}
	m.observer.LogWarn(ctx, message, fields)
}
