//go:build integration

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"remita-course-enrolment/internal/domain"
	"remita-course-enrolment/internal/domain/model"
)

func TestInstanceRepo_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode.")
	}

	ctx := context.Background()
	repo := NewInstanceRepo(testPool)

	t.Run("should save and find", func(t *testing.T) {
		cleanup(t)

		in := &model.CourseInstance{
			ID:          9,
			CourseID:    3,
			Name:        "Intro to Databases",
			CostMinor:   5000,
			Currency:    "NGN",
			RoleID:      5,
			EnrolPeriod: 30 * 24 * time.Hour,
			MaxEnrolled: 100,
			Enabled:     true,
		}
		if err := repo.Save(ctx, nil, in); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		found, err := repo.FindByID(ctx, nil, 9)
		if err != nil {
			t.Fatalf("FindByID failed: %v", err)
		}
		if found.CostMinor != 5000 || found.Currency != "NGN" {
			t.Errorf("found = %+v", found)
		}
		if found.EnrolPeriod != 30*24*time.Hour {
			t.Errorf("enrol period = %s, want 720h", found.EnrolPeriod)
		}
	})

	t.Run("save is an upsert", func(t *testing.T) {
		cleanup(t)

		in := &model.CourseInstance{ID: 9, CourseID: 3, CostMinor: 5000, Currency: "NGN", Enabled: true}
		repo.Save(ctx, nil, in)

		in.CostMinor = 7500
		in.Enabled = false
		if err := repo.Save(ctx, nil, in); err != nil {
			t.Fatalf("upsert failed: %v", err)
		}

		found, _ := repo.FindByID(ctx, nil, 9)
		if found.CostMinor != 7500 || found.Enabled {
			t.Errorf("found = %+v", found)
		}
	})

	t.Run("unknown id yields not found", func(t *testing.T) {
		cleanup(t)

		_, err := repo.FindByID(ctx, nil, 404)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})
}
