package worker

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/hibiken/asynq"
)

// Client submits jobs to the queue.
type Client struct {
	client *asynq.Client
}

// NewClient constructs an Asynq client.
func NewClient(redisOpts asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpts)}
}

// EnqueueArchive enqueues the archive task of a period. A period that is
// already queued yields report.ErrArchiveAlreadyQueued.
func (c *Client) EnqueueArchive(ctx context.Context, year, month int) (string, string, error) {
	task, err := NewArchiveTask(year, month)
	if err != nil {
		return "", "", err
	}

	info, err := c.client.EnqueueContext(ctx, task)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) || errors.Is(err, asynq.ErrDuplicateTask) {
			return "", "", report.ErrArchiveAlreadyQueued
		}
		return "", "", err
	}
	return info.ID, info.Queue, nil
}

// Close releases client resources.
func (c *Client) Close() error {
	return c.client.Close()
}
