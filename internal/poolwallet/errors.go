package poolwallet

import (
	"errors"
	"fmt"
)

// Conflict errors: another transition or transaction is in the way. The
// caller resolves them by deleting the stale pending transaction or simply
// not repeating the request.
var (
	ErrPendingTransition      = errors.New("a pool transition is already pending for this singleton")
	ErrUnconfirmedTransaction = errors.New("an unconfirmed transaction must be confirmed or deleted first")
	ErrSameState              = errors.New("target state equals the current state")
	ErrInvalidTarget          = errors.New("invalid transition target")
	ErrNothingToClaim         = errors.New("no unclaimed farming rewards")
	ErrFeeTooLow              = errors.New("fee below the network minimum relay rate")
)

// TimingLockError reports a transition attempted before the relative lock
// height elapsed. Retryable once the chain reaches LegalHeight.
type TimingLockError struct {
	PeakHeight  uint32
	LegalHeight uint32
}

func (e *TimingLockError) Error() string {
	return fmt.Sprintf("relative lock height has not elapsed: action becomes legal at height %d (peak %d)", e.LegalHeight, e.PeakHeight)
}

// ErrNoHistory is returned when a wallet's spend history is empty, which
// only happens before the launcher spend confirms.
var ErrNoHistory = errors.New("no confirmed spend history for this singleton")
