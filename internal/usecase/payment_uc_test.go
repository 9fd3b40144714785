//go:build !integration

package usecase_test

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"testing"

	"remita-course-enrolment/internal/config"
	"remita-course-enrolment/internal/domain"
	"remita-course-enrolment/internal/domain/model"
	"remita-course-enrolment/internal/domain/ports/repository"
	"remita-course-enrolment/internal/usecase"
)

func newPaymentFixture() (*MockAttemptRepo, *MockInstanceRepo, usecase.PaymentUseCase) {
	attempts := &MockAttemptRepo{}
	instances := &MockInstanceRepo{}
	instances.FindByIDFunc = func(ctx context.Context, tx repository.Tx, id int64) (*model.CourseInstance, error) {
		if id != 9 {
			return nil, domain.ErrNotFound
		}
		return &model.CourseInstance{
			ID: 9, CourseID: 3, CostMinor: 5000, Currency: "NGN", Enabled: true,
		}, nil
	}
	remita := config.RemitaConfig{
		MerchantID:    "2547916",
		APIKey:        "1946",
		ServiceTypeID: "4430731",
		Mode:          config.ModeDemo,
	}
	uc := usecase.NewPaymentUseCase(attempts, instances, &MockGateway{}, remita,
		config.EnrolmentConfig{Currency: "NGN"}, newTestLogger())
	return attempts, instances, uc
}

func TestInitiate(t *testing.T) {
	attempts, _, uc := newPaymentFixture()

	var saved *model.PaymentAttempt
	attempts.SaveFunc = func(ctx context.Context, tx repository.Tx, attempt *model.PaymentAttempt) error {
		saved = attempt
		return nil
	}

	attempt, form, err := uc.Initiate(context.Background(), 7, 3, 9, "seed")
	if err != nil {
		t.Fatalf("Initiate: %v", err)
	}
	if saved == nil {
		t.Fatal("attempt was not persisted")
	}
	if attempt.Status != model.AttemptStatusInitiated {
		t.Errorf("status = %q, want initiated", attempt.Status)
	}
	if attempt.AmountMinor != 5000 {
		t.Errorf("amount = %d, want 5000", attempt.AmountMinor)
	}
	if attempt.Reference == "" || attempt.ID == "" {
		t.Error("attempt must have a reference and an id")
	}

	if form.Amount != "50.00" {
		t.Errorf("form amount = %q, want 50.00", form.Amount)
	}
	if form.Custom != "7-3-9" {
		t.Errorf("form custom = %q, want 7-3-9", form.Custom)
	}
	if form.ActionURL == "" {
		t.Error("form must carry the gateway action url")
	}

	sum := sha512.Sum512([]byte("2547916" + "4430731" + form.Reference + "50.00" + "1946"))
	if want := hex.EncodeToString(sum[:]); form.Hash != want {
		t.Errorf("form hash = %s, want %s", form.Hash, want)
	}
}

func TestInitiateReferencesAreUnique(t *testing.T) {
	_, _, uc := newPaymentFixture()

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		attempt, _, err := uc.Initiate(context.Background(), 7, 3, 9, "seed")
		if err != nil {
			t.Fatalf("Initiate: %v", err)
		}
		if _, dup := seen[attempt.Reference]; dup {
			t.Fatalf("duplicate reference on attempt %d", i)
		}
		seen[attempt.Reference] = struct{}{}
	}
}

func TestInitiateFreeInstance(t *testing.T) {
	_, instances, uc := newPaymentFixture()
	instances.FindByIDFunc = func(ctx context.Context, tx repository.Tx, id int64) (*model.CourseInstance, error) {
		return &model.CourseInstance{ID: 9, CourseID: 3, CostMinor: 0, Currency: "NGN", Enabled: true}, nil
	}

	_, _, err := uc.Initiate(context.Background(), 7, 3, 9, "seed")
	if !errors.Is(err, domain.ErrNoCost) {
		t.Fatalf("err = %v, want ErrNoCost", err)
	}
}

func TestInitiateDisabledInstance(t *testing.T) {
	_, instances, uc := newPaymentFixture()
	instances.FindByIDFunc = func(ctx context.Context, tx repository.Tx, id int64) (*model.CourseInstance, error) {
		return &model.CourseInstance{ID: 9, CourseID: 3, CostMinor: 5000, Currency: "NGN", Enabled: false}, nil
	}

	_, _, err := uc.Initiate(context.Background(), 7, 3, 9, "seed")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
