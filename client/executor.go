package client

import (
	"context"

	"github.com/tripwise/packmate/client/internal/shardqueue"
)

// executor abstracts the background job runner used for bag-total refreshes.
type executor interface {
	Submit(context.Context, string, shardqueue.Job) error
	Stop()
}
