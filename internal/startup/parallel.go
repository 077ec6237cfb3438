package startup

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/vk/startupgo/internal/ctxlog"
)

// RunParallel is the explicitly-opted-in concurrent mode. It preserves every
// guarantee of Run except total ordering: each task still runs exactly once,
// only after all of its inputs are readable; variable writes and readiness
// notifications are serialized; an unsatisfiable graph still fails the whole
// run. What it gives up is determinism between independent tasks: tasks that
// are satisfied at the same time may run in any relative order across
// workers. Use Run when the observable order matters.
//
// The engine is consumed exactly as with Run.
func (s *Startup) RunParallel(ctx context.Context, initial map[string]any, workers int) (map[string]any, error) {
	if s.state != stateNotStarted {
		return nil, s.refuseRerun()
	}
	if workers < 1 {
		workers = 1
	}
	logger := ctxlog.FromContext(ctx)

	// Every task is enqueued at most once, so the channel never blocks a
	// producer.
	ready := make(chan *task, len(s.tasks))
	var closeOnce sync.Once
	closeReady := func() { closeOnce.Do(func() { close(ready) }) }

	// mu owns the variable table, all readiness bookkeeping, and the failed
	// flag. Invocations run outside it: a task's inputs are readable, hence
	// immutable. Enqueueing happens only under mu with failed unset, and
	// failed is always set under mu before the channel is closed, so no send
	// can race the close.
	var mu sync.Mutex
	failed := false
	fail := func() {
		mu.Lock()
		failed = true
		mu.Unlock()
		closeReady()
	}

	seed := sortTasks(s.staged)
	seed = append(seed, s.writeInitial(logger, initial)...)

	// active counts tasks that are queued or running. When it reaches zero
	// no further progress is possible and the queue is closed; whatever is
	// left in s.tasks was unsatisfiable.
	active := len(seed)
	for _, t := range seed {
		ready <- t
	}
	if active == 0 {
		closeReady()
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		workerID := i
		g.Go(func() error {
			for t := range ready {
				if err := gctx.Err(); err != nil {
					fail()
					return err
				}
				logger.Debug("Worker picked up task.", "workerID", workerID, "key", t.key)
				results, err := t.invoke(gctx)
				if err != nil {
					fail()
					return err
				}

				mu.Lock()
				written, err := t.commit(results)
				if err != nil {
					failed = true
					mu.Unlock()
					closeReady()
					return err
				}
				delete(s.tasks, t.key)
				next := s.notifyReaders(logger, written)
				active += len(next) - 1
				stalled := active == 0 && !failed
				if !failed {
					for _, n := range next {
						ready <- n
					}
				}
				mu.Unlock()

				if stalled {
					closeReady()
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.state = stateFailed
		return nil, err
	}
	if len(s.tasks) > 0 {
		s.state = stateFailed
		return nil, fmt.Errorf("cannot satisfy dependency for [%s]: %w",
			strings.Join(s.pendingKeys(), ", "), ErrUnsatisfiable)
	}

	s.state = stateCompleted
	return s.values(), nil
}
