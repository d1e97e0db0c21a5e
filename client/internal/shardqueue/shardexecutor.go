// Package shardqueue provides a lightweight sharded work-queue that guarantees
// FIFO order *per key* while allowing parallelism across shards.
//
// The SDK keys jobs by trip id, so background bag-total refreshes for one
// trip never overtake each other.
//
// **Contract**: callers must not invoke Submit concurrently for the *same*
// key when they rely on FIFO ordering between those submissions.
package shardqueue

import (
	"context"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"github.com/tripwise/packmate/client/internal/errors"
)

type queuedJob struct {
	ctx context.Context
	key string
	job Job
}

// ShardExecutor executes Jobs on worker goroutines partitioned by a stable hash
// of the key. FIFO ordering is preserved within a shard; jobs with different
// keys may run in parallel.
type ShardExecutor struct {
	cfg    Config
	queues []chan queuedJob // len == cfg.Shards

	done   chan struct{} // closed in Stop()
	closed uint32        // 0 → running, 1 → closed

	wg sync.WaitGroup
}

// NewShardExecutor constructs the executor and starts its shard workers.
func NewShardExecutor(cfg Config) *ShardExecutor {
	cfg = cfg.withDefaults()

	p := &ShardExecutor{
		cfg:    cfg,
		queues: make([]chan queuedJob, cfg.Shards),
		done:   make(chan struct{}),
	}
	for i := 0; i < cfg.Shards; i++ {
		ch := make(chan queuedJob, cfg.QueueSize)
		p.queues[i] = ch
		p.wg.Add(1)
		go p.runWorker(i, ch)
	}
	return p
}

// Submit enqueues job for the shard derived from key.
//
//   - Returns nil on success.
//   - Returns ErrExecutorClosed if the executor is stopped.
//   - Returns ErrQueueFull (wrapped in *QueueFullError) if the shard is full
//     after EnqueueTimeout elapses.
//   - Returns ctx.Err() if the caller-provided context is cancelled first.
func (p *ShardExecutor) Submit(ctx context.Context, key string, job Job) error {
	if atomic.LoadUint32(&p.closed) == 1 {
		return ErrExecutorClosed
	}
	select {
	case <-p.done:
		return ErrExecutorClosed
	default:
	}

	qj := queuedJob{ctx: ctx, key: key, job: job}
	shard := p.shardFor(key)
	ch := p.queues[shard]

	timer := time.NewTimer(p.cfg.EnqueueTimeout)
	defer timer.Stop()

	select {
	case ch <- qj:
		submissionsTotal.WithLabelValues(labelFor(shard)).Inc()
		return nil

	case <-p.done: // Stop() may be called while waiting for space
		return ErrExecutorClosed

	case <-ctx.Done():
		return ctx.Err()

	case <-timer.C:
		queueFullTotal.WithLabelValues(labelFor(shard)).Inc()
		return &QueueFullError{
			Shard:    shard,
			Length:   len(ch),
			Capacity: cap(ch),
		}
	}
}

// Barrier enqueues a no-op job on the shard for key and waits until it runs,
// ensuring all previously submitted jobs for that key have completed.
func (p *ShardExecutor) Barrier(ctx context.Context, key string) error {
	done := make(chan struct{})
	j := JobFunc(func(context.Context) error {
		close(done)
		return nil
	})
	if err := p.Submit(ctx, key, j); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// Stop signals every worker to finish draining its current queue, waits for
// them to terminate, and then returns. It is idempotent and safe for
// concurrent use.
func (p *ShardExecutor) Stop() {
	if !atomic.CompareAndSwapUint32(&p.closed, 0, 1) {
		return
	}

	log.Debug().Int("shards", p.cfg.Shards).Msg("shardqueue: stopping executor")
	close(p.done)
	p.wg.Wait()
	log.Debug().Msg("shardqueue: executor stopped, all queues drained")
}

// Close lets ShardExecutor satisfy io.Closer.
func (p *ShardExecutor) Close() error {
	p.Stop()
	return nil
}

// ------------------------- internals -------------------------

func (p *ShardExecutor) runWorker(idx int, ch <-chan queuedJob) {
	defer p.wg.Done()

	label := labelFor(idx)

	for {
		select {
		case qj := <-ch:
			if qj.job == nil {
				continue
			}

			// Honour caller context so a cancelled job doesn't stall the shard.
			select {
			case <-qj.ctx.Done():
				p.fail(label, qj.key, qj.ctx.Err())
			default:
				if stop := p.runWithRetry(label, qj); stop {
					return
				}
			}

			queueDepth.WithLabelValues(label).Set(float64(len(ch)))

		case <-p.done:
			// Drain remaining jobs, preserving FIFO, then exit.
			drained := 0
			for {
				select {
				case qj := <-ch:
					if qj.job != nil {
						if err := p.runOnce(qj); err != nil {
							p.fail(label, qj.key, err)
						}
						drained++
					}
				default:
					if drained > 0 {
						log.Debug().Int("worker", idx).Int("drained", drained).Msg("shardqueue: drained jobs on stop")
					}
					queueDepth.WithLabelValues(label).Set(0)
					return
				}
			}
		}
	}
}

// runWithRetry runs qj until it succeeds, fails irrecoverably or exhausts
// MaxAttempts. It reports true when the executor was stopped mid-backoff.
func (p *ShardExecutor) runWithRetry(label string, qj queuedJob) bool {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.cfg.BaseBackoff
	exp.Multiplier = 2
	exp.MaxInterval = p.cfg.MaxInterval
	exp.Reset()

	for attempt := 1; ; attempt++ {
		start := time.Now()
		err := p.runOnce(qj)
		runDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())

		if err == nil {
			return false
		}
		if errors.IsIrrecoverable(err) || attempt >= p.cfg.MaxAttempts {
			p.fail(label, qj.key, err)
			return false
		}

		wait := exp.NextBackOff()
		log.Debug().Err(err).Str("key", qj.key).Int("attempt", attempt).Dur("wait", wait).Msg("shardqueue: retrying job")
		select {
		case <-time.After(wait):
		case <-p.done:
			return true
		case <-qj.ctx.Done():
			p.fail(label, qj.key, qj.ctx.Err())
			return false
		}
	}
}

// runOnce executes a single attempt, converting a panic into a *PanicError so
// one misbehaving job cannot take its shard down.
func (p *ShardExecutor) runOnce(qj queuedJob) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Key: qj.key, Value: r}
		}
	}()
	return qj.job.Run(qj.ctx)
}

func (p *ShardExecutor) fail(label, key string, err error) {
	jobFailuresTotal.WithLabelValues(label).Inc()
	if err == nil || p.cfg.ErrorHandler == nil {
		return
	}
	func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("key", key).Msg("shardqueue: error handler panic")
			}
		}()
		p.cfg.ErrorHandler(key, err)
	}()
}

func (p *ShardExecutor) shardFor(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(p.cfg.Shards))
}
