package model

import "time"

type AttemptStatus string

const (
	AttemptStatusInitiated AttemptStatus = "initiated" // payment page rendered, awaiting gateway callback
	AttemptStatusVerified  AttemptStatus = "verified"  // gateway confirmed the transaction
	AttemptStatusFailed    AttemptStatus = "failed"    // verification failed or was denied
)

// PaymentAttempt records a single payment initiation. Immutable once
// created; only Status flips afterwards. The Reference is the unguessable
// token correlating this attempt with the later gateway callback.
type PaymentAttempt struct {
	ID          string // ULID
	Reference   string
	UserID      int64
	CourseID    int64
	InstanceID  int64
	AmountMinor int64 // kobo; avoid float comparison errors
	Currency    string
	Status      AttemptStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type VerificationStatus string

const (
	VerificationSuccess VerificationStatus = "success"
	VerificationPending VerificationStatus = "pending"
	VerificationFailed  VerificationStatus = "failed"
	VerificationUnknown VerificationStatus = "unknown"
)

// Remita transaction status codes. "00" is approved, "01" means the
// transaction was already processed; both count as paid.
const (
	RemitaStatusApproved  = "00"
	RemitaStatusProcessed = "01"
	RemitaStatusPending   = "021"
)

// VerificationResult is the parsed outcome of one status-check call against
// the gateway. Produced once per call; never retried automatically.
type VerificationResult struct {
	StatusCode  string
	Status      VerificationStatus
	AmountMinor int64
	Message     string
	Raw         []byte
}

// Approved reports whether the gateway status code is in the success set.
func (r *VerificationResult) Approved() bool {
	return r.StatusCode == RemitaStatusApproved || r.StatusCode == RemitaStatusProcessed
}

// ClassifyRemitaStatus maps a raw gateway status code onto the coarse
// verification status enum.
func ClassifyRemitaStatus(code string) VerificationStatus {
	switch code {
	case RemitaStatusApproved, RemitaStatusProcessed:
		return VerificationSuccess
	case RemitaStatusPending:
		return VerificationPending
	case "":
		return VerificationUnknown
	default:
		return VerificationFailed
	}
}
