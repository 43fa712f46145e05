package monitor

import (
	"context"

	"github.com/Awatif2003/marinesafe/core"
)

// LoggingHook surfaces worker lifecycle events in the client's logs.
type LoggingHook struct {
	observer *core.Observer
}

func NewLoggingHook(observer *core.Observer) *LoggingHook {
	return &LoggingHook{observer: observer}
}

func (h *LoggingHook) OnStart(ctx context.Context, event core.JobWorkerEvent) {
	h.log(ctx, "probe job started", event, nil)
}

func (h *LoggingHook) OnSuccess(ctx context.Context, event core.JobWorkerEvent) {
	h.log(ctx, "probe job succeeded", event, nil)
}

func (h *LoggingHook) OnFailure(ctx context.Context, event core.JobWorkerEvent) {
	h.log(ctx, "probe job failed", event, event.Err)
}

func (h *LoggingHook) OnRetry(ctx context.Context, event core.JobWorkerEvent) {
	h.log(ctx, "probe job retrying", event, event.Err)
}

func (h *LoggingHook) log(ctx context.Context, message string, event core.JobWorkerEvent, err error) {
	if h == nil || h.observer == nil {
		return
	}
	fields := map[string]any{
		"attempt": event.Attempt,
	}
	if event.Message != nil {
		fields["job_id"] = event.Message.JobID
	}
	if event.Delay > 0 {
		fields["delay_ms"] = event.Delay.Milliseconds()
	}
	if err != nil {
		fields["error"] = err.Error()
		h.observer.LogWarn(ctx, message, fields)
		return
	}
	h.observer.LogDebug(ctx, message, fields)
}

var _ core.JobWorkerHook = (*LoggingHook)(nil)
