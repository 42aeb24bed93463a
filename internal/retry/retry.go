// Package retry provides a bounded retry policy with an explicit wait
// schedule, independent of any particular call site.
package retry

import "time"

// Policy retries an operation up to len(Waits) extra times, sleeping
// Waits[i] before retry i+1.
type Policy struct {
	Waits []time.Duration

	// Sleep is the wait function; nil means time.Sleep. Tests inject a
	// recorder here.
	Sleep func(time.Duration)
}

// Do runs op, retrying per the policy while retryable reports the error as
// transient. The last error is returned when the schedule is exhausted;
// non-retryable errors propagate immediately.
func (p Policy) Do(op func() error, retryable func(error) bool) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	var err error
	for attempt := 0; ; attempt++ {
		err = op()
		if err == nil || !retryable(err) || attempt >= len(p.Waits) {
			return err
		}
		sleep(p.Waits[attempt])
	}
}
