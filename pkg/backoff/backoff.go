// Package backoff centralizes the retry policy shared by the pipeline's
// network stages. Attempts are classified so transport hiccups get retried
// while deterministic failures (a malformed response will not parse better on
// a second try) stop immediately.
package backoff

import (
	"context"
	"time"
)

// Outcome classifies a single attempt.
type Outcome int

const (
	// Done means the attempt succeeded and retrying must stop.
	Done Outcome = iota
	// Retryable means the failure is transient and another attempt may help.
	Retryable
	// Terminal means retrying cannot change the result.
	Terminal
)

// Policy describes how many attempts to make and how long to wait between
// them. Sleep is swappable so tests can observe delays without waiting.
type Policy struct {
	Attempts int
	Base     time.Duration
	Sleep    func(time.Duration)
}

// Retry runs fn until it reports Done or Terminal, or attempts run out.
// Between attempts it waits Base·2^i. Returns the error of the last attempt.
func (p Policy) Retry(ctx context.Context, fn func() (Outcome, error)) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var last error
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		outcome, err := fn()
		switch outcome {
		case Done:
			return nil
		case Terminal:
			return err
		}

		last = err
		if i < attempts-1 {
			sleep(p.Base << i)
		}
	}

	return last
}
