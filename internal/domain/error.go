package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidExecContext = errors.New("invalid execution context")
	ErrOperationFailed    = errors.New("operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")

	// Callback / verification errors
	ErrMalformedInput           = errors.New("malformed callback input")
	ErrGatewayUnreachable       = errors.New("payment gateway unreachable")
	ErrGatewayMalformedResponse = errors.New("payment gateway returned malformed response")
	ErrPaymentNotApproved       = errors.New("payment status not successful")
	ErrCurrencyMismatch         = errors.New("currency does not match course settings")
	ErrAmountShortfall          = errors.New("amount paid is not enough")
	ErrInstanceFull             = errors.New("maximum number of enrolled users reached")
	ErrNoCost                   = errors.New("no cost associated with this enrolment instance")

	// ErrAlreadyEnrolled is a short-circuit, not a failure: the caller must
	// treat it as success without writing a second ledger entry.
	ErrAlreadyEnrolled = errors.New("user already enrolled in this instance")

	// ErrLockNotAcquired signals a concurrent callback already holds the
	// per-reference lock.
	ErrLockNotAcquired = errors.New("could not acquire lock")
)
