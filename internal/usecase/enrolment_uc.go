package usecase

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"remita-course-enrolment/internal/config"
	"remita-course-enrolment/internal/domain"
	"remita-course-enrolment/internal/domain/model"
	"remita-course-enrolment/internal/domain/ports/adapter"
	"remita-course-enrolment/internal/domain/ports/repository"
	pay "remita-course-enrolment/internal/infra/payment"
)

// OutcomeState is the terminal state of the verification pipeline.
type OutcomeState string

const (
	OutcomeGranted        OutcomeState = "granted"
	OutcomeAlreadyGranted OutcomeState = "already_granted"
	OutcomeDenied         OutcomeState = "denied"
	OutcomeTransient      OutcomeState = "transient"
)

// Outcome is the tagged result of one callback run. Reason is a bounded
// label for metrics/audit; Message is the user-facing text and never
// carries secrets.
type Outcome struct {
	State   OutcomeState
	Reason  string
	Message string
	Record  *model.EnrolmentRecord
	Result  *model.VerificationResult
}

// Locker serializes concurrent callbacks for the same gateway reference.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, err error)
	Unlock(ctx context.Context, key, token string) error
}

// Compile-time check
var _ EnrolmentUseCase = (*enrolmentUC)(nil)

type EnrolmentUseCase interface {
	// Confirm runs the verification pipeline for a shape-validated callback:
	// gateway verify, business checks in fixed order, then the idempotent
	// grant. Denials leave the ledger untouched.
	Confirm(ctx context.Context, cb *Callback) (*Outcome, error)
}

type enrolmentUC struct {
	attempts   repository.PaymentAttemptRepository
	enrolments repository.EnrolmentRepository
	instances  repository.CourseInstanceRepository
	gateway    adapter.PaymentGateway
	notifier   adapter.Notifier
	tm         repository.TransactionManager
	locker     Locker
	defaults   config.EnrolmentConfig
	lockTTL    time.Duration
	log        *zerolog.Logger
}

func NewEnrolmentUseCase(
	attempts repository.PaymentAttemptRepository,
	enrolments repository.EnrolmentRepository,
	instances repository.CourseInstanceRepository,
	gateway adapter.PaymentGateway,
	notifier adapter.Notifier,
	tm repository.TransactionManager,
	locker Locker,
	defaults config.EnrolmentConfig,
	lockTTL time.Duration,
	logger *zerolog.Logger,
) *enrolmentUC {
	if lockTTL <= 0 {
		lockTTL = 30 * time.Second
	}
	return &enrolmentUC{
		attempts:   attempts,
		enrolments: enrolments,
		instances:  instances,
		gateway:    gateway,
		notifier:   notifier,
		tm:         tm,
		locker:     locker,
		defaults:   defaults,
		lockTTL:    lockTTL,
		log:        logger,
	}
}

func hashToInt64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64() & ((1 << 63) - 1))
}

func (u *enrolmentUC) Confirm(ctx context.Context, cb *Callback) (*Outcome, error) {
	// Serialize duplicate callbacks for the same RRR (double-submission,
	// gateway retries). The DB uniqueness constraint remains the hard
	// guarantee; the lock only keeps us from verifying twice in parallel.
	if u.locker != nil {
		token, err := u.locker.TryLock(ctx, "enrol:cb:"+cb.RRR, u.lockTTL)
		if err != nil {
			return &Outcome{
				State:   OutcomeTransient,
				Reason:  "callback_in_flight",
				Message: "This payment is already being processed. Please retry in a moment.",
			}, nil
		}
		defer func() { _ = u.locker.Unlock(context.WithoutCancel(ctx), "enrol:cb:"+cb.RRR, token) }()
	}

	// ShapeValidated -> GatewayVerified
	res, err := u.gateway.Verify(ctx, cb.RRR)
	if err != nil {
		if errors.Is(err, domain.ErrGatewayUnreachable) {
			u.log.Warn().Err(err).Str("rrr", cb.RRR).Msg("gateway unreachable during verification")
			return &Outcome{
				State:   OutcomeTransient,
				Reason:  "gateway_unreachable",
				Message: "We could not reach the payment provider. Your payment has not been lost; please retry shortly.",
			}, nil
		}
		if errors.Is(err, domain.ErrGatewayMalformedResponse) {
			u.log.Error().Err(err).Str("rrr", cb.RRR).Msg("gateway returned malformed response")
			return u.deny(ctx, cb, nil, "malformed_response", "Payment verification failed."), nil
		}
		return nil, err
	}

	instance, err := u.instances.FindByID(ctx, nil, cb.InstanceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return u.deny(ctx, cb, res, "unknown_instance", "Unknown enrolment instance."), nil
		}
		return nil, err
	}

	// GatewayVerified -> BusinessValidated. Fixed order: status, currency,
	// amount, cap; later checks assume earlier ones passed a sane record.
	if !res.Approved() {
		u.log.Info().Str("rrr", cb.RRR).Str("status", res.StatusCode).Str("message", res.Message).
			Msg("payment status not successful")
		msg := res.Message
		if msg == "" {
			msg = "Payment was not successful."
		}
		return u.deny(ctx, cb, res, "not_approved", msg), nil
	}

	if cb.Currency != instance.Currency {
		return u.deny(ctx, cb, res, "currency_mismatch",
			fmt.Sprintf("Currency does not match course settings, received: %s", cb.Currency)), nil
	}

	cost := instance.EffectiveCost(u.defaults.DefaultCostMinor)
	if res.AmountMinor < cost {
		return u.deny(ctx, cb, res, "amount_shortfall",
			fmt.Sprintf("Amount paid is not enough (%s < %s)", pay.FormatAmount(res.AmountMinor), pay.FormatAmount(cost))), nil
	}

	maxEnrolled := instance.MaxEnrolled
	if maxEnrolled == 0 {
		maxEnrolled = u.defaults.MaxEnrolled
	}
	if maxEnrolled > 0 {
		count, err := u.enrolments.CountByInstance(ctx, nil, instance.ID)
		if err != nil {
			return nil, err
		}
		if count >= maxEnrolled {
			return u.deny(ctx, cb, res, "instance_full",
				"Maximum number of users allowed to enrol has been reached."), nil
		}
	}

	// BusinessValidated -> Granted | AlreadyGranted
	rec, inserted, err := u.recordAndGrant(ctx, cb, res, instance)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return &Outcome{
			State:   OutcomeAlreadyGranted,
			Reason:  "already_enrolled",
			Message: "You are already enrolled in this course.",
			Result:  res,
		}, nil
	}

	// Best-effort; never part of the transactional guarantee.
	if u.notifier != nil {
		u.notifier.EnrolmentGranted(ctx, rec, instance)
	}

	u.log.Info().
		Str("rrr", cb.RRR).
		Int64("user_id", cb.UserID).
		Int64("instance_id", instance.ID).
		Int64("amount_minor", res.AmountMinor).
		Msg("enrolment granted")
	return &Outcome{
		State:   OutcomeGranted,
		Reason:  "granted",
		Message: "Payment verified. You have been enrolled in the course.",
		Record:  rec,
		Result:  res,
	}, nil
}

// recordAndGrant persists the ledger entry and the access grant atomically.
// The per-(user,instance) advisory lock plus the unique key make the grant
// exactly-once; the losing caller observes inserted=false.
func (u *enrolmentUC) recordAndGrant(ctx context.Context, cb *Callback, res *model.VerificationResult, instance *model.CourseInstance) (*model.EnrolmentRecord, bool, error) {
	now := time.Now()

	roleID := instance.RoleID
	if roleID == 0 {
		roleID = u.defaults.DefaultRoleID
	}
	period := instance.EnrolPeriod
	if period == 0 {
		period = u.defaults.EnrolPeriod
	}

	rec := &model.EnrolmentRecord{
		ID:               uuid.NewString(),
		UserID:           cb.UserID,
		CourseID:         cb.CourseID,
		InstanceID:       instance.ID,
		PaymentReference: cb.Reference,
		GatewayRef:       cb.RRR,
		AmountMinor:      res.AmountMinor,
		Currency:         cb.Currency,
		RoleID:           roleID,
		Status:           model.EnrolmentStatusActive,
		TimeStart:        now,
		TimeUpdated:      now,
	}
	if rec.PaymentReference == "" {
		rec.PaymentReference = cb.RRR
	}
	if period > 0 {
		end := now.Add(period)
		rec.TimeEnd = &end
	}

	var inserted bool
	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		if err := lockUserInstance(ctx, tx, cb.UserID, instance.ID); err != nil {
			return err
		}
		enrolled, err := u.enrolments.IsEnrolled(ctx, tx, cb.UserID, instance.ID)
		if err != nil {
			return err
		}
		if enrolled {
			inserted = false
			return nil
		}
		inserted, err = u.enrolments.Insert(ctx, tx, rec)
		if err != nil {
			return err
		}
		if inserted && cb.Reference != "" {
			if attempt, err := u.attempts.FindByReference(ctx, tx, cb.Reference); err == nil {
				if err := u.attempts.UpdateStatus(ctx, tx, attempt.ID, model.AttemptStatusVerified); err != nil {
					return err
				}
			} else if !errors.Is(err, domain.ErrNotFound) {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if !inserted {
		return nil, false, nil
	}
	return rec, true, nil
}

// lockUserInstance takes a transaction-scoped advisory lock keyed on the
// (user, instance) pair.
func lockUserInstance(ctx context.Context, tx repository.Tx, userID, instanceID int64) error {
	pgtx, ok := tx.(pgx.Tx)
	if !ok {
		// Non-postgres test doubles rely on the repository's own guard.
		return nil
	}
	key := hashToInt64(fmt.Sprintf("enrol:%d:%d", userID, instanceID))
	_, err := pgtx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", key)
	return err
}

// deny marks the matching attempt failed (best effort) and returns the
// terminal denial. No ledger mutation happens on this path.
func (u *enrolmentUC) deny(ctx context.Context, cb *Callback, res *model.VerificationResult, reason, message string) *Outcome {
	if cb.Reference != "" {
		if attempt, err := u.attempts.FindByReference(ctx, nil, cb.Reference); err == nil && attempt.Status == model.AttemptStatusInitiated {
			_ = u.attempts.UpdateStatus(ctx, nil, attempt.ID, model.AttemptStatusFailed)
		}
	}
	u.log.Info().
		Str("rrr", cb.RRR).
		Str("reason", reason).
		Int64("user_id", cb.UserID).
		Int64("instance_id", cb.InstanceID).
		Msg("enrolment denied")
	return &Outcome{State: OutcomeDenied, Reason: reason, Message: message, Result: res}
}
