// internal/service/retry.go
package service

import (
    "time"

    appErrors "github.com/unclebandit/voiceleopard-backend/internal/errors"
)

// RetryPolicy is the one retry mechanism shared by call dispatch and event
// publishing. An error is retried only while Classify reports it retryable;
// backoff grows linearly with the attempt number.
type RetryPolicy struct {
    MaxAttempts int
    Backoff     time.Duration
    // Classify decides whether an error deserves another attempt.
    // Defaults to appErrors.IsRetryable.
    Classify func(err error) bool
}

// DispatchRetryPolicy gives a retryable dispatch error exactly one more
// attempt before the contact's slot is treated as terminal.
var DispatchRetryPolicy = RetryPolicy{
    MaxAttempts: 2,
    Backoff:     500 * time.Millisecond,
}

func (p RetryPolicy) classify(err error) bool {
    if p.Classify != nil {
        return p.Classify(err)
    }
    return appErrors.IsRetryable(err)
}

// Do runs op until it succeeds, returns a terminal error, or attempts run out.
func (p RetryPolicy) Do(op func() error) error {
    attempts := p.MaxAttempts
    if attempts < 1 {
        attempts = 1
    }

    var err error
    for attempt := 1; attempt <= attempts; attempt++ {
        err = op()
        if err == nil {
            return nil
        }
        if !p.classify(err) || attempt == attempts {
            return err
        }
        time.Sleep(time.Duration(attempt) * p.Backoff)
    }
    return err
}
