package core

import (
	"context"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

// TokenStore is persisted single-slot storage for the opaque bearer token.
// Every reader must hit persistence rather than trust an in-memory copy:
// the transport's 401 handling has to observe a removal performed by a
// concurrent call.
type TokenStore interface {
	Get(ctx context.Context) (token string, found bool, err error)
	Set(ctx context.Context, token string) error
	Remove(ctx context.Context) error
}

// ProfileStore persists the user profile across process restarts.
type ProfileStore interface {
	Get(ctx context.Context) (profile UserProfile, found bool, err error)
	Set(ctx context.Context, profile UserProfile) error
	Remove(ctx context.Context) error
}

// SelectionStore persists the active endpoint URL. Written only through the
// endpoint selector's mutator; never read elsewhere directly.
type SelectionStore interface {
	Get(ctx context.Context) (url string, found bool, err error)
	Set(ctx context.Context, url string) error
}

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

// StoreProvider exposes the persisted client stores built by a repository
// factory.
type StoreProvider interface {
	TokenStore() TokenStore
	ProfileStore() ProfileStore
	SelectionStore() SelectionStore
}

type RepositoryStoreFactory interface {
	BuildStores(persistenceClient any) (StoreProvider, error)
}

// Job contracts decouple recurring health-probe scheduling from the queue
// implementation; adapters/gojob maps them onto go-job.

type JobExecutionMessage struct {
	JobID          string
	Parameters     map[string]any
	IdempotencyKey string
	DedupPolicy    string
}

type JobNackOptions struct {
	Delay      time.Duration
	Requeue    bool
	DeadLetter bool
	Reason     string
}

type JobEnqueuer interface {
	Enqueue(ctx context.Context, msg *JobExecutionMessage) error
}

type JobDelivery interface {
	Message() *JobExecutionMessage
	Ack(ctx context.Context) error
	Nack(ctx context.Context, opts JobNackOptions) error
}

type JobDequeuer interface {
	Dequeue(ctx context.Context) (JobDelivery, error)
}

type JobWorkerEvent struct {
	Message   *JobExecutionMessage
	Attempt   int
	Delay     time.Duration
	Err       error
	StartedAt time.Time
	Duration  time.Duration
}

type JobWorkerHook interface {
	OnStart(ctx context.Context, event JobWorkerEvent)
	OnSuccess(ctx context.Context, event JobWorkerEvent)
	OnFailure(ctx context.Context, event JobWorkerEvent)
	OnRetry(ctx context.Context, event JobWorkerEvent)
}
