// Released under an MIT license. See LICENSE.

package interp

import (
	"context"
	"fmt"

	"github.com/emberlang/ember/internal/engine/result"
	"github.com/google/uuid"
)

// Callback receives the result of an asynchronous evaluation. It runs on
// the worker that performed the evaluation.
type Callback func(job uuid.UUID, r result.T)

// EvaluateFileAsync evaluates the file name on a new thread.
func (i *interp) EvaluateFileAsync(ctx context.Context, name string, flags EngineFlags, cb Callback) (uuid.UUID, error) {
	return i.async(ctx, "file", cb, func(t *T) result.T {
		return t.EvaluateFile(name, flags)
	})
}

// EvaluateScriptAsync evaluates text on a new thread.
func (i *interp) EvaluateScriptAsync(ctx context.Context, text string, flags EngineFlags, cb Callback) (uuid.UUID, error) {
	return i.async(ctx, "script", cb, func(t *T) result.T {
		return t.EvaluateScript("", 1, text, 0, len(text), flags)
	})
}

// SubstituteStringAsync performs substitutions on text on a new thread.
func (i *interp) SubstituteStringAsync(ctx context.Context, text string, flags SubstitutionFlags, cb Callback) (uuid.UUID, error) {
	return i.async(ctx, "subst", cb, func(t *T) result.T {
		return t.SubstituteString("", 1, text, flags)
	})
}

// Wait blocks until every asynchronous evaluation has finished.
func (i *interp) Wait() {
	i.jobs.Wait()
}

// async runs fn on a new thread once a worker is available. Without a
// callback, an Error result is reported as a background error.
func (i *interp) async(ctx context.Context, kind string, cb Callback, fn func(t *T) result.T) (uuid.UUID, error) {
	if i.disposed.Load() {
		return uuid.Nil, ErrUnusable
	}

	job := uuid.New()

	i.jobs.Add(1)

	go func() {
		defer i.jobs.Done()

		if err := i.pool.Acquire(ctx, 1); err != nil {
			i.finish(job, result.FromError(fmt.Errorf("job %s: %w", job, err)), cb)

			return
		}
		defer i.pool.Release(1)

		i.logger.Debug("async job started", "job", job, "kind", kind)

		r := fn(i.Thread())

		i.logger.Debug("async job finished", "job", job, "code", r.Code)

		i.finish(job, r, cb)
	}()

	return job, nil
}

// backgroundError invokes bgerror with the message of r. The error is
// logged when there is no bgerror command or when bgerror itself fails.
func (i *interp) backgroundError(job uuid.UUID, r result.T) {
	_, e, err := i.resolver.Resolve(i, "bgerror", nil, NoUnknown)
	if err != nil || e == nil || e.Identity().Hidden() {
		i.logger.Error("background error",
			"job", job, "error", r.Value, "errorInfo", r.ErrorInfo)

		return
	}

	i.setGlobal("errorInfo", r.ErrorInfo, false)
	i.setGlobal("errorCode", r.ErrorCode, false)

	b := i.Execute("bgerror", e, e.Identity().ClientData, []string{"bgerror", r.Value}, 0)
	if b.Code == result.Error {
		i.logger.Error("bgerror failed",
			"job", job, "error", r.Value, "bgerror", b.Value)
	}
}

func (i *interp) finish(job uuid.UUID, r result.T, cb Callback) {
	if cb != nil {
		cb(job, r)

		return
	}

	if r.Code != result.Error {
		return
	}

	i.QueueEvent("bgerror", func(t *T) {
		t.backgroundError(job, r)
	})
}
