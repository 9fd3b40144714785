//go:build integration

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"

	"remita-course-enrolment/internal/domain"
	"remita-course-enrolment/internal/domain/model"
)

func TestAttemptRepo_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode.")
	}

	ctx := context.Background()
	repo := NewAttemptRepo(testPool)

	newAttempt := func(reference string) *model.PaymentAttempt {
		now := time.Now().Truncate(time.Millisecond)
		return &model.PaymentAttempt{
			ID:          ulid.Make().String(),
			Reference:   reference,
			UserID:      7,
			CourseID:    3,
			InstanceID:  9,
			AmountMinor: 5000,
			Currency:    "NGN",
			Status:      model.AttemptStatusInitiated,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	}

	t.Run("should save and find by reference", func(t *testing.T) {
		cleanup(t)

		a := newAttempt("ref-save-find")
		if err := repo.Save(ctx, nil, a); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		found, err := repo.FindByReference(ctx, nil, "ref-save-find")
		if err != nil {
			t.Fatalf("FindByReference failed: %v", err)
		}
		if found.ID != a.ID || found.AmountMinor != 5000 {
			t.Fatalf("found = %+v", found)
		}
	})

	t.Run("unknown reference yields not found", func(t *testing.T) {
		cleanup(t)

		_, err := repo.FindByReference(ctx, nil, "no-such-reference")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("duplicate reference is rejected", func(t *testing.T) {
		cleanup(t)

		if err := repo.Save(ctx, nil, newAttempt("ref-dup")); err != nil {
			t.Fatalf("first Save failed: %v", err)
		}
		if err := repo.Save(ctx, nil, newAttempt("ref-dup")); err == nil {
			t.Fatal("second Save with the same reference must fail")
		}
	})

	t.Run("should update status", func(t *testing.T) {
		cleanup(t)

		a := newAttempt("ref-status")
		repo.Save(ctx, nil, a)

		if err := repo.UpdateStatus(ctx, nil, a.ID, model.AttemptStatusVerified); err != nil {
			t.Fatalf("UpdateStatus failed: %v", err)
		}
		found, _ := repo.FindByReference(ctx, nil, "ref-status")
		if found.Status != model.AttemptStatusVerified {
			t.Errorf("status = %q, want verified", found.Status)
		}
	})
}
