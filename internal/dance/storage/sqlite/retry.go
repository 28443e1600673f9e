package sqlite

import (
	"strings"
	"time"
)

const (
	busyRetries   = 5
	busyBaseDelay = 10 * time.Millisecond
)

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

// retryOnBusy runs fn until it succeeds, fails with a non-busy error, or
// the retry budget is spent. The delay doubles after each busy attempt.
func retryOnBusy(fn func() error) error {
	delay := busyBaseDelay
	var err error
	for attempt := 0; attempt < busyRetries; attempt++ {
		err = fn()
		if !isSQLiteBusy(err) {
			return err
		}
		if attempt < busyRetries-1 {
			time.Sleep(delay)
			delay *= 2
		}
	}
	return err
}
