package services

import (
	"fmt"
	"time"
)

// LockoutPolicy is the pure decision logic over the failed-attempt counter
// and lockout timestamp stored on the user row. It never touches storage;
// the orchestrator applies its decisions through CredentialStore.
type LockoutPolicy struct {
	MaxAttempts int
	Window      time.Duration
}

// DefaultLockoutPolicy mirrors the shipped defaults: 5 attempts, 15 minutes.
func DefaultLockoutPolicy() LockoutPolicy {
	return LockoutPolicy{MaxAttempts: 5, Window: 15 * time.Minute}
}

// IsLockedOut reports whether the account is currently refused: a lockout
// end is set and still in the future.
func (p LockoutPolicy) IsLockedOut(lockoutEnd *time.Time, now time.Time) bool {
	return lockoutEnd != nil && lockoutEnd.After(now)
}

// IsStale reports whether a past lockout window is still recorded. The
// caller must reset the failed count before evaluating further attempts;
// lockout state does not heal on its own.
func (p LockoutPolicy) IsStale(lockoutEnd *time.Time, now time.Time) bool {
	return lockoutEnd != nil && !lockoutEnd.After(now)
}

// ShouldLock reports whether the given failed count has reached the
// threshold.
func (p LockoutPolicy) ShouldLock(failedCount int) bool {
	return failedCount >= p.MaxAttempts
}

// NextLockoutEnd computes the lockout expiry applied when the threshold is
// crossed.
func (p LockoutPolicy) NextLockoutEnd(now time.Time) time.Time {
	return now.Add(p.Window)
}

// RemainingAttempts returns how many attempts are left before lockout,
// never negative.
func (p LockoutPolicy) RemainingAttempts(failedCount int) int {
	remaining := p.MaxAttempts - failedCount
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RemainingLockout formats the time left on an active lockout for the
// user-facing message.
func (p LockoutPolicy) RemainingLockout(lockoutEnd time.Time, now time.Time) string {
	left := lockoutEnd.Sub(now)
	if left < 0 {
		left = 0
	}
	minutes := int(left.Minutes())
	seconds := int(left.Seconds()) % 60
	return fmt.Sprintf("%d minute(s) and %d second(s)", minutes, seconds)
}
