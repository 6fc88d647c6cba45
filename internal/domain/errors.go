package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNegativeAmount       = errors.New("amount must not be negative")
	ErrAuctionNotClosed     = errors.New("auction is not closed")
	ErrSettlementExists     = errors.New("settlement already started for auction")
	ErrSettlementFinalized  = errors.New("settlement already finalized")
	ErrNoEligibleBidders    = errors.New("no eligible bidders to settle")
	ErrOpenWindowExists     = errors.New("another payment window is already open")
	ErrWindowClosed         = errors.New("payment window already closed")
	ErrDeclineNotAllowed    = errors.New("only backup offers may be declined")
	ErrWindowNotFound       = errors.New("payment window not found")
	ErrSettlementNotFound   = errors.New("settlement not found")
)

// ValidationError is a bid rejected at admission. Recovered locally and
// surfaced to the bidder as a rejection reason; never enters the ledger.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("bid rejected: %s", e.Reason)
}

func NewValidationError(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// PaymentAttemptError is a failed processor call. Retryable within the
// same open window; it never advances the cascade by itself.
type PaymentAttemptError struct {
	Err error
}

func (e *PaymentAttemptError) Error() string {
	return fmt.Sprintf("payment attempt failed: %v", e.Err)
}

func (e *PaymentAttemptError) Unwrap() error {
	return e.Err
}

func IsPaymentAttemptError(err error) bool {
	var pe *PaymentAttemptError
	return errors.As(err, &pe)
}

// InvariantViolation is fatal to a settlement run: the run aborts and the
// settlement is flagged for manual review rather than guessing an outcome.
type InvariantViolation struct {
	AuctionID string
	Err       error
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("settlement invariant violated for auction %s: %v", e.AuctionID, e.Err)
}

func (e *InvariantViolation) Unwrap() error {
	return e.Err
}

func IsInvariantViolation(err error) bool {
	var iv *InvariantViolation
	return errors.As(err, &iv)
}
