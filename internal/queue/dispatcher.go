package queue

import (
	"context"
)

type DispatchResult int

const (
	// Published means the post was created during the call.
	Published DispatchResult = iota
	// Queued means a publish task was handed to the task queue.
	Queued
)

// Dispatcher hands saved content to the publisher.
type Dispatcher interface {
	Dispatch(ctx context.Context, contentID int64) (DispatchResult, error)
}

type asyncDispatcher struct {
	client enqueuer
	q      *Queue
}

// NewAsyncDispatcher enqueues publish tasks; retries happen as delayed
// redeliveries handled by HandlePublishTask.
func NewAsyncDispatcher(client enqueuer, q *Queue) Dispatcher {
	return &asyncDispatcher{client: client, q: q}
}

func (d *asyncDispatcher) Dispatch(ctx context.Context, contentID int64) (DispatchResult, error) {
	return Queued, EnqueuePublish(d.client, PublishContentPayload{ContentID: contentID}, d.q.ps.Policy(), 0)
}

type inlineDispatcher struct {
	q *Queue
}

// NewInlineDispatcher publishes within the caller, retrying transient
// failures in-process. Used when no task queue is configured.
func NewInlineDispatcher(q *Queue) Dispatcher {
	return &inlineDispatcher{q: q}
}

func (d *inlineDispatcher) Dispatch(ctx context.Context, contentID int64) (DispatchResult, error) {
	_, err := d.q.PublishContent(ctx, contentID, 1, true)
	return Published, err
}
