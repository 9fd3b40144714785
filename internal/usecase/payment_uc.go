package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"remita-course-enrolment/internal/config"
	"remita-course-enrolment/internal/domain"
	"remita-course-enrolment/internal/domain/model"
	"remita-course-enrolment/internal/domain/ports/adapter"
	"remita-course-enrolment/internal/domain/ports/repository"
	pay "remita-course-enrolment/internal/infra/payment"
)

// Compile-time check
var _ PaymentUseCase = (*paymentUC)(nil)

// PaymentForm carries everything the (external) payment page needs to post
// an initiation request to the gateway.
type PaymentForm struct {
	ActionURL     string
	MerchantID    string
	ServiceTypeID string
	Reference     string
	Amount        string // fixed two-decimal major units
	Currency      string
	Hash          string
	Custom        string // "<userId>-<courseId>-<instanceId>"
}

type PaymentUseCase interface {
	// Initiate creates an immutable PaymentAttempt with a fresh reference
	// and returns the signed form the payment page posts to the gateway.
	Initiate(ctx context.Context, userID, courseID, instanceID int64, seed string) (*model.PaymentAttempt, *PaymentForm, error)
}

type paymentUC struct {
	attempts  repository.PaymentAttemptRepository
	instances repository.CourseInstanceRepository
	gateway   adapter.PaymentGateway
	remita    config.RemitaConfig
	defaults  config.EnrolmentConfig
	log       *zerolog.Logger
}

func NewPaymentUseCase(
	attempts repository.PaymentAttemptRepository,
	instances repository.CourseInstanceRepository,
	gateway adapter.PaymentGateway,
	remita config.RemitaConfig,
	defaults config.EnrolmentConfig,
	logger *zerolog.Logger,
) *paymentUC {
	return &paymentUC{
		attempts:  attempts,
		instances: instances,
		gateway:   gateway,
		remita:    remita,
		defaults:  defaults,
		log:       logger,
	}
}

func (u *paymentUC) Initiate(ctx context.Context, userID, courseID, instanceID int64, seed string) (*model.PaymentAttempt, *PaymentForm, error) {
	instance, err := u.instances.FindByID(ctx, nil, instanceID)
	if err != nil {
		return nil, nil, err
	}
	if !instance.Enabled {
		return nil, nil, domain.ErrNotFound
	}

	cost := instance.EffectiveCost(u.defaults.DefaultCostMinor)
	if cost <= 0 {
		// Free instances are handled by other enrolment methods.
		return nil, nil, domain.ErrNoCost
	}

	reference, err := pay.NewReference(seed)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	attempt := &model.PaymentAttempt{
		ID:          ulid.Make().String(),
		Reference:   reference,
		UserID:      userID,
		CourseID:    courseID,
		InstanceID:  instanceID,
		AmountMinor: cost,
		Currency:    instance.Currency,
		Status:      model.AttemptStatusInitiated,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := u.attempts.Save(ctx, nil, attempt); err != nil {
		return nil, nil, err
	}

	amount := pay.FormatAmount(cost)
	form := &PaymentForm{
		ActionURL:     u.gateway.InitURL(),
		MerchantID:    u.remita.MerchantID,
		ServiceTypeID: u.remita.ServiceTypeID,
		Reference:     reference,
		Amount:        amount,
		Currency:      instance.Currency,
		Hash:          pay.PaymentHash(u.remita.MerchantID, u.remita.ServiceTypeID, reference, amount, u.remita.APIKey),
		Custom:        fmt.Sprintf("%d-%d-%d", userID, courseID, instanceID),
	}

	u.log.Info().
		Str("attempt_id", attempt.ID).
		Int64("user_id", userID).
		Int64("instance_id", instanceID).
		Str("amount", amount).
		Msg("payment attempt initiated")
	return attempt, form, nil
}
