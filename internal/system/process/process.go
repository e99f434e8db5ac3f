// Released under an MIT license. See LICENSE.

// Package process turns process signals into requests to stop evaluation.
package process

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
)

// Canceler is what signals act on.
type Canceler interface {
	CancelEvaluate(unwind bool, msg string)
	HaltEvaluate(msg string)
}

// Watch relays signals to c until ctx is done. An interrupt cancels the
// current evaluation, a quit unwinds it and a terminate halts it.
func Watch(ctx context.Context, c Canceler, logger *slog.Logger) {
	signals := make(chan os.Signal, 1)

	signal.Notify(signals, watched...)

	go func() {
		defer signal.Stop(signals)

		for {
			select {
			case <-ctx.Done():
				return
			case s := <-signals:
				logger.Debug("signal received", "signal", s)
				relay(c, s)
			}
		}
	}()
}
