package dynft

import (
	"context"
	"errors"
	"time"

	"github.com/everFinance/dynft/ledger"
)

const (
	drainMaxAttempts  = 3
	drainRetryBackoff = 1 * time.Second
)

// EventLogReader drains an append-only log as one scoped operation:
// subscribe, accumulate, release. The wait is always bounded by the timeout.
type EventLogReader struct {
	ledger ledger.Client
}

func NewEventLogReader(ledgerCli ledger.Client) *EventLogReader {
	return &EventLogReader{ledger: ledgerCli}
}

// Drain accumulates records in delivery order until maxCount records arrived
// or timeout elapsed, whichever first. A timeout with fewer records than
// requested is a success, not an error: logs routinely hold fewer records
// than the requested window. Transport failures are retried with linear
// backoff; exhausted retries also resolve with whatever was accumulated,
// since losing the entire history on a transient blip is worse than a
// partial view the caller can re-request.
func (r *EventLogReader) Drain(ctx context.Context, logHandle string, startTime time.Time, maxCount int, timeout time.Duration) ([]ledger.LogRecord, error) {
	records := make([]ledger.LogRecord, 0, maxCount)
	if maxCount <= 0 {
		return records, nil
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	recCh := make(chan ledger.LogRecord)
	done := make(chan error, 1)
	go func() {
		done <- r.pump(ctx, logHandle, startTime, recCh)
	}()

	for {
		select {
		case <-ctx.Done():
			return records, nil
		case rec := <-recCh:
			records = append(records, rec)
			if len(records) >= maxCount {
				return records, nil
			}
		case err := <-done:
			if err != nil {
				log.Warn("drain resolved with partial result", "log", logHandle, "records", len(records), "err", err)
			}
			return records, nil
		}
	}
}

// pump owns the subscription lifecycle; it is released on every exit path.
func (r *EventLogReader) pump(ctx context.Context, logHandle string, startTime time.Time, out chan<- ledger.LogRecord) error {
	next := startTime
	var lastErr error
	for attempt := 1; attempt <= drainMaxAttempts; attempt++ {
		if attempt > 1 {
			metricDrainRetry()
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Duration(attempt-1) * drainRetryBackoff):
			}
		}

		sub, err := r.ledger.SubscribeLog(ctx, logHandle, next)
		if err != nil {
			lastErr = err
			log.Warn("subscribe log failed", "log", logHandle, "attempt", attempt, "err", err)
			continue
		}

		err = func() error {
			defer sub.Close()
			for {
				rec, err := sub.Recv(ctx)
				if err != nil {
					return err
				}
				select {
				case out <- rec:
					// resume past delivered records if the stream breaks
					next = rec.ConsensusTime.Add(time.Nanosecond)
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}()
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil
		}
		lastErr = err
		log.Warn("log stream broke", "log", logHandle, "attempt", attempt, "err", err)
	}
	return lastErr
}
