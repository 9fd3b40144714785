//go:build !integration

package usecase_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"remita-course-enrolment/internal/domain"
	"remita-course-enrolment/internal/domain/model"
	"remita-course-enrolment/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// MockAttemptRepo is a func-field test double for PaymentAttemptRepository.
type MockAttemptRepo struct {
	SaveFunc            func(ctx context.Context, tx repository.Tx, attempt *model.PaymentAttempt) error
	FindByReferenceFunc func(ctx context.Context, tx repository.Tx, reference string) (*model.PaymentAttempt, error)
	UpdateStatusFunc    func(ctx context.Context, tx repository.Tx, id string, status model.AttemptStatus) error
}

func (m *MockAttemptRepo) Save(ctx context.Context, tx repository.Tx, attempt *model.PaymentAttempt) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, attempt)
	}
	return nil
}

func (m *MockAttemptRepo) FindByReference(ctx context.Context, tx repository.Tx, reference string) (*model.PaymentAttempt, error) {
	if m.FindByReferenceFunc != nil {
		return m.FindByReferenceFunc(ctx, tx, reference)
	}
	return nil, domain.ErrNotFound
}

func (m *MockAttemptRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.AttemptStatus) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, id, status)
	}
	return nil
}

// MockEnrolmentRepo is a func-field test double for EnrolmentRepository.
type MockEnrolmentRepo struct {
	InsertFunc          func(ctx context.Context, tx repository.Tx, rec *model.EnrolmentRecord) (bool, error)
	IsEnrolledFunc      func(ctx context.Context, tx repository.Tx, userID, instanceID int64) (bool, error)
	CountByInstanceFunc func(ctx context.Context, tx repository.Tx, instanceID int64) (int, error)
	ListByInstanceFunc  func(ctx context.Context, tx repository.Tx, instanceID int64, offset, limit int) ([]*model.EnrolmentRecord, error)
	ListRecentFunc      func(ctx context.Context, tx repository.Tx, limit int) ([]*model.EnrolmentRecord, error)
}

func (m *MockEnrolmentRepo) Insert(ctx context.Context, tx repository.Tx, rec *model.EnrolmentRecord) (bool, error) {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, tx, rec)
	}
	return true, nil
}

func (m *MockEnrolmentRepo) IsEnrolled(ctx context.Context, tx repository.Tx, userID, instanceID int64) (bool, error) {
	if m.IsEnrolledFunc != nil {
		return m.IsEnrolledFunc(ctx, tx, userID, instanceID)
	}
	return false, nil
}

func (m *MockEnrolmentRepo) CountByInstance(ctx context.Context, tx repository.Tx, instanceID int64) (int, error) {
	if m.CountByInstanceFunc != nil {
		return m.CountByInstanceFunc(ctx, tx, instanceID)
	}
	return 0, nil
}

func (m *MockEnrolmentRepo) ListByInstance(ctx context.Context, tx repository.Tx, instanceID int64, offset, limit int) ([]*model.EnrolmentRecord, error) {
	if m.ListByInstanceFunc != nil {
		return m.ListByInstanceFunc(ctx, tx, instanceID, offset, limit)
	}
	return nil, nil
}

func (m *MockEnrolmentRepo) ListRecent(ctx context.Context, tx repository.Tx, limit int) ([]*model.EnrolmentRecord, error) {
	if m.ListRecentFunc != nil {
		return m.ListRecentFunc(ctx, tx, limit)
	}
	return nil, nil
}

// MockInstanceRepo is a func-field test double for CourseInstanceRepository.
type MockInstanceRepo struct {
	FindByIDFunc func(ctx context.Context, tx repository.Tx, id int64) (*model.CourseInstance, error)
	SaveFunc     func(ctx context.Context, tx repository.Tx, instance *model.CourseInstance) error
}

func (m *MockInstanceRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.CourseInstance, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, tx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *MockInstanceRepo) Save(ctx context.Context, tx repository.Tx, instance *model.CourseInstance) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, instance)
	}
	return nil
}

// MockGateway is a func-field test double for the payment gateway port.
type MockGateway struct {
	VerifyFunc  func(ctx context.Context, rrr string) (*model.VerificationResult, error)
	InitURLFunc func() string
}

func (m *MockGateway) Name() string { return "mock" }

func (m *MockGateway) InitURL() string {
	if m.InitURLFunc != nil {
		return m.InitURLFunc()
	}
	return "https://gateway.test/paymentinit"
}

func (m *MockGateway) Verify(ctx context.Context, rrr string) (*model.VerificationResult, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, rrr)
	}
	return nil, domain.ErrGatewayUnreachable
}

// MockNotifier counts notification dispatches.
type MockNotifier struct {
	Granted []*model.EnrolmentRecord
}

func (m *MockNotifier) EnrolmentGranted(ctx context.Context, rec *model.EnrolmentRecord, instance *model.CourseInstance) {
	m.Granted = append(m.Granted, rec)
}

// MockTxManager runs the function inline with a nil tx handle.
type MockTxManager struct {
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, nil)
}

// MockLocker is a func-field test double for the callback lock.
type MockLocker struct {
	TryLockFunc func(ctx context.Context, key string, ttl time.Duration) (string, error)
	UnlockFunc  func(ctx context.Context, key, token string) error
	Unlocked    []string
}

func (m *MockLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if m.TryLockFunc != nil {
		return m.TryLockFunc(ctx, key, ttl)
	}
	return "token", nil
}

func (m *MockLocker) Unlock(ctx context.Context, key, token string) error {
	m.Unlocked = append(m.Unlocked, key)
	if m.UnlockFunc != nil {
		return m.UnlockFunc(ctx, key, token)
	}
	return nil
}
