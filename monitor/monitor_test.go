package monitor

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Awatif2003/marinesafe/core"
)

type stubChecker struct {
	healthFn  func(ctx context.Context) (string, error)
	testAllFn func(ctx context.Context) []core.ProbeResult
}

func (s stubChecker) HealthCheck(ctx context.Context) (string, error) {
	if s.healthFn == nil {
		return "", fmt.Errorf("health check not configured")
	}
	return s.healthFn(ctx)
}

func (s stubChecker) TestAllConnections(ctx context.Context) []core.ProbeResult {
	if s.testAllFn == nil {
		return nil
	}
	return s.testAllFn(ctx)
}

type captureEnqueuer struct {
	messages []*core.JobExecutionMessage
	err      error
}

func (e *captureEnqueuer) Enqueue(_ context.Context, msg *core.JobExecutionMessage) error {
	if e.err != nil {
		return e.err
	}
	e.messages = append(e.messages, msg)
	return nil
}

type fakeDelivery struct {
	msg      *core.JobExecutionMessage
	acked    bool
	nacked   bool
	nackOpts core.JobNackOptions
}

func (d *fakeDelivery) Message() *core.JobExecutionMessage { return d.msg }

func (d *fakeDelivery) Ack(context.Context) error {
	d.acked = true
	return nil
}

func (d *fakeDelivery) Nack(_ context.Context, opts core.JobNackOptions) error {
	d.nacked = true
	d.nackOpts = opts
	return nil
}

func TestEnqueueProbe_BucketsIdempotencyKeyToInterval(t *testing.T) {
	enqueuer := &captureEnqueuer{}
	now := time.Date(2026, 3, 14, 5, 26, 10, 0, time.UTC)
	m, err := New(stubChecker{}, enqueuer, nil,
		WithProbeInterval(time.Minute),
		WithNowFunc(func() time.Time { return now }),
	)
	if err != nil {
		t.Fatalf("new monitor: %v", err)
	}

	if err := m.EnqueueProbe(context.Background()); err != nil {
		t.Fatalf("enqueue probe: %v", err)
	}
	now = now.Add(20 * time.Second)
	if err := m.EnqueueProbe(context.Background()); err != nil {
		t.Fatalf("enqueue probe again: %v", err)
	}

	if len(enqueuer.messages) != 2 {
		t.Fatalf("expected two enqueues, got %d", len(enqueuer.messages))
	}
	first, second := enqueuer.messages[0], enqueuer.messages[1]
	if first.JobID != JobIDHealthProbe || first.DedupPolicy != "drop" {
		t.Fatalf("unexpected probe message: %#v", first)
	}
	if first.IdempotencyKey == "" || first.IdempotencyKey != second.IdempotencyKey {
		t.Fatalf("same interval bucket must reuse the key: %q vs %q", first.IdempotencyKey, second.IdempotencyKey)
	}

	now = now.Add(time.Minute)
	if err := m.EnqueueProbe(context.Background()); err != nil {
		t.Fatalf("enqueue probe next bucket: %v", err)
	}
	if enqueuer.messages[2].IdempotencyKey == first.IdempotencyKey {
		t.Fatalf("next interval bucket must rotate the key")
	}
}

func TestEnqueueProbe_RequiresEnqueuer(t *testing.T) {
	m, err := New(stubChecker{}, nil, nil)
	if err != nil {
		t.Fatalf("new monitor: %v", err)
	}
	if err := m.EnqueueProbe(context.Background()); err == nil {
		t.Fatalf("expected missing enqueuer error")
	}
}

func TestProcessDelivery_AcksSuccessfulProbe(t *testing.T) {
	checked := false
	m, err := New(stubChecker{
		healthFn: func(context.Context) (string, error) {
			checked = true
			return "http://primary:3000", nil
		},
	}, nil, nil)
	if err != nil {
		t.Fatalf("new monitor: %v", err)
	}

	delivery := &fakeDelivery{msg: &core.JobExecutionMessage{JobID: JobIDHealthProbe}}
	if err := m.ProcessDelivery(context.Background(), delivery); err != nil {
		t.Fatalf("process delivery: %v", err)
	}
	if !checked {
		t.Fatalf("expected health check invocation")
	}
	if !delivery.acked || delivery.nacked {
		t.Fatalf("expected ack, got acked=%v nacked=%v", delivery.acked, delivery.nacked)
	}
}

func TestProcessDelivery_NacksFailedProbeWithDelay(t *testing.T) {
	m, err := New(stubChecker{
		healthFn: func(context.Context) (string, error) {
			return "", fmt.Errorf("all candidates down")
		},
	}, nil, nil)
	if err != nil {
		t.Fatalf("new monitor: %v", err)
	}

	delivery := &fakeDelivery{msg: &core.JobExecutionMessage{JobID: JobIDHealthProbe}}
	if err := m.ProcessDelivery(context.Background(), delivery); err != nil {
		t.Fatalf("process delivery: %v", err)
	}
	if !delivery.nacked || delivery.acked {
		t.Fatalf("expected nack, got acked=%v nacked=%v", delivery.acked, delivery.nacked)
	}
	if !delivery.nackOpts.Requeue || delivery.nackOpts.DeadLetter {
		t.Fatalf("failed probe must requeue, got %#v", delivery.nackOpts)
	}
	if delivery.nackOpts.Delay != defaultNackDelay {
		t.Fatalf("unexpected nack delay: %v", delivery.nackOpts.Delay)
	}
	if delivery.nackOpts.Reason == "" {
		t.Fatalf("nack must carry the failure reason")
	}
}

func TestProcessDelivery_RunsDiagnosticsSweep(t *testing.T) {
	swept := false
	m, err := New(stubChecker{
		testAllFn: func(context.Context) []core.ProbeResult {
			swept = true
			return []core.ProbeResult{{URL: "http://primary:3000", Healthy: true}}
		},
	}, nil, nil)
	if err != nil {
		t.Fatalf("new monitor: %v", err)
	}

	delivery := &fakeDelivery{msg: &core.JobExecutionMessage{JobID: JobIDDiagnostics}}
	if err := m.ProcessDelivery(context.Background(), delivery); err != nil {
		t.Fatalf("process delivery: %v", err)
	}
	if !swept || !delivery.acked {
		t.Fatalf("expected diagnostics sweep and ack, got swept=%v acked=%v", swept, delivery.acked)
	}
}

func TestProcessDelivery_DeadLettersUnknownJob(t *testing.T) {
	m, err := New(stubChecker{}, nil, nil)
	if err != nil {
		t.Fatalf("new monitor: %v", err)
	}

	delivery := &fakeDelivery{msg: &core.JobExecutionMessage{JobID: "marinesafe.unknown"}}
	if err := m.ProcessDelivery(context.Background(), delivery); err != nil {
		t.Fatalf("process delivery: %v", err)
	}
	if !delivery.nacked || !delivery.nackOpts.DeadLetter {
		t.Fatalf("unknown job must dead-letter, got %#v", delivery.nackOpts)
	}
}

func TestProcessDelivery_DeadLettersMissingMessage(t *testing.T) {
	m, err := New(stubChecker{}, nil, nil)
	if err != nil {
		t.Fatalf("new monitor: %v", err)
	}

	delivery := &fakeDelivery{}
	if err := m.ProcessDelivery(context.Background(), delivery); err != nil {
		t.Fatalf("process delivery: %v", err)
	}
	if !delivery.nacked || !delivery.nackOpts.DeadLetter {
		t.Fatalf("missing message must dead-letter, got %#v", delivery.nackOpts)
	}
}

func TestRun_StopsOnContextCancellation(t *testing.T) {
	m, err := New(stubChecker{}, nil, dequeueFunc(func(ctx context.Context) (core.JobDelivery, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}))
	if err != nil {
		t.Fatalf("new monitor: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- m.Run(ctx)
	}()
	cancel()

	select {
	case runErr := <-done:
		if runErr != context.Canceled {
			t.Fatalf("expected context cancellation, got %v", runErr)
		}
	case <-time.After(time.Second):
		t.Fatalf("run did not stop after cancellation")
	}
}

type dequeueFunc func(ctx context.Context) (core.JobDelivery, error)

func (f dequeueFunc) Dequeue(ctx context.Context) (core.JobDelivery, error) {
	return f(ctx)
}
