package retry

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDo_SuccessFirstAttempt verifies no waits happen when op succeeds.
func TestDo_SuccessFirstAttempt(t *testing.T) {
	var slept []time.Duration
	p := Policy{
		Waits: []time.Duration{3 * time.Second, 5 * time.Second},
		Sleep: func(d time.Duration) { slept = append(slept, d) },
	}

	calls := 0
	err := p.Do(func() error {
		calls++
		return nil
	}, func(error) bool { return true })

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, slept)
}

// TestDo_RetriesFollowSchedule verifies the wait schedule and attempt count.
func TestDo_RetriesFollowSchedule(t *testing.T) {
	var slept []time.Duration
	p := Policy{
		Waits: []time.Duration{3 * time.Second, 5 * time.Second},
		Sleep: func(d time.Duration) { slept = append(slept, d) },
	}

	calls := 0
	transient := errors.New("transient")
	err := p.Do(func() error {
		calls++
		return transient
	}, func(error) bool { return true })

	require.ErrorIs(t, err, transient)
	assert.Equal(t, 3, calls, "one attempt plus one retry per wait")
	assert.Equal(t, []time.Duration{3 * time.Second, 5 * time.Second}, slept)
}

// TestDo_RecoversMidSchedule verifies a success after one retry stops the
// schedule early.
func TestDo_RecoversMidSchedule(t *testing.T) {
	var slept []time.Duration
	p := Policy{
		Waits: []time.Duration{3 * time.Second, 5 * time.Second},
		Sleep: func(d time.Duration) { slept = append(slept, d) },
	}

	calls := 0
	err := p.Do(func() error {
		calls++
		if calls == 1 {
			return errors.New("transient")
		}
		return nil
	}, func(error) bool { return true })

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []time.Duration{3 * time.Second}, slept)
}

// TestDo_NonRetryablePropagatesImmediately verifies permanent errors skip
// the schedule.
func TestDo_NonRetryablePropagatesImmediately(t *testing.T) {
	var slept []time.Duration
	p := Policy{
		Waits: []time.Duration{3 * time.Second},
		Sleep: func(d time.Duration) { slept = append(slept, d) },
	}

	permanent := errors.New("permanent")
	calls := 0
	err := p.Do(func() error {
		calls++
		return permanent
	}, func(error) bool { return false })

	require.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
	assert.Empty(t, slept)
}
