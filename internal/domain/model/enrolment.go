package model

import "time"

type EnrolmentStatus string

const (
	EnrolmentStatusActive    EnrolmentStatus = "active"
	EnrolmentStatusSuspended EnrolmentStatus = "suspended"
)

// EnrolmentRecord is the ledger entry created exactly once per successfully
// verified payment. Unique on (UserID, InstanceID): a duplicate verified
// callback for an already-enrolled user must be a no-op.
type EnrolmentRecord struct {
	ID               string // UUID
	UserID           int64
	CourseID         int64
	InstanceID       int64
	PaymentReference string
	GatewayRef       string // Remita RRR from the callback
	AmountMinor      int64
	Currency         string
	RoleID           int64
	Status           EnrolmentStatus
	TimeStart        time.Time
	TimeEnd          *time.Time // nil when the enrolment is open-ended
	TimeUpdated      time.Time
}

// CourseInstance is one paid enrolment offer on a course. CostMinor <= 0
// means the process-wide default cost applies.
type CourseInstance struct {
	ID          int64
	CourseID    int64
	Name        string
	CostMinor   int64
	Currency    string
	RoleID      int64
	EnrolPeriod time.Duration // 0 = unlimited
	MaxEnrolled int           // 0 = no cap
	Enabled     bool
}

// EffectiveCost returns the instance cost, falling back to defaultMinor for
// instances configured without one.
func (ci *CourseInstance) EffectiveCost(defaultMinor int64) int64 {
	if ci.CostMinor > 0 {
		return ci.CostMinor
	}
	return defaultMinor
}
