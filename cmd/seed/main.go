package main

import (
	"context"
	"flag"
	"log"
	"time"

	"remita-course-enrolment/internal/config"
	"remita-course-enrolment/internal/domain/model"
	pg "remita-course-enrolment/internal/infra/db/postgres"
)

// Creates the schema and, optionally, a demo course instance. Run once
// against a fresh database before starting the app.

const schema = `
CREATE TABLE IF NOT EXISTS course_instances (
    id            BIGINT PRIMARY KEY,
    course_id     BIGINT NOT NULL,
    name          TEXT NOT NULL DEFAULT '',
    cost_minor    BIGINT NOT NULL DEFAULT 0,
    currency      TEXT NOT NULL DEFAULT 'NGN',
    role_id       BIGINT NOT NULL DEFAULT 0,
    enrol_period  BIGINT NOT NULL DEFAULT 0,
    max_enrolled  INT NOT NULL DEFAULT 0,
    enabled       BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS payment_attempts (
    id            TEXT PRIMARY KEY,
    reference     TEXT NOT NULL UNIQUE,
    user_id       BIGINT NOT NULL,
    course_id     BIGINT NOT NULL,
    instance_id   BIGINT NOT NULL,
    amount_minor  BIGINT NOT NULL,
    currency      TEXT NOT NULL,
    status        TEXT NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL,
    updated_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS enrolments (
    id                 TEXT PRIMARY KEY,
    user_id            BIGINT NOT NULL,
    course_id          BIGINT NOT NULL,
    instance_id        BIGINT NOT NULL,
    payment_reference  TEXT NOT NULL,
    gateway_ref        TEXT NOT NULL,
    amount_minor       BIGINT NOT NULL,
    currency           TEXT NOT NULL,
    role_id            BIGINT NOT NULL DEFAULT 0,
    status             TEXT NOT NULL,
    time_start         TIMESTAMPTZ NOT NULL,
    time_end           TIMESTAMPTZ,
    time_updated       TIMESTAMPTZ NOT NULL,
    UNIQUE (user_id, instance_id)
);

CREATE INDEX IF NOT EXISTS idx_enrolments_instance ON enrolments (instance_id);
CREATE INDEX IF NOT EXISTS idx_attempts_reference ON payment_attempts (reference);
`

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	demo := flag.Bool("demo", false, "also seed a demo course instance")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 2)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, schema); err != nil {
		log.Fatalf("schema: %v", err)
	}
	log.Println("schema created")

	if *demo {
		repo := pg.NewInstanceRepo(pool)
		instance := &model.CourseInstance{
			ID:          9,
			CourseID:    3,
			Name:        "Demo paid course",
			CostMinor:   5000, // 50.00 NGN
			Currency:    cfg.Enrolment.Currency,
			RoleID:      cfg.Enrolment.DefaultRoleID,
			EnrolPeriod: cfg.Enrolment.EnrolPeriod,
			MaxEnrolled: cfg.Enrolment.MaxEnrolled,
			Enabled:     true,
		}
		if err := repo.Save(ctx, nil, instance); err != nil {
			log.Fatalf("seed demo instance: %v", err)
		}
		log.Printf("seeded demo instance %d (cost %d %s)", instance.ID, instance.CostMinor, instance.Currency)
	}
}
