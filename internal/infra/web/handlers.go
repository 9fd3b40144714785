package web

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"remita-course-enrolment/internal/domain"
	"remita-course-enrolment/internal/infra/metrics"
	"remita-course-enrolment/internal/usecase"
)

// handleCallback receives the gateway's form-encoded POST, runs the
// verification pipeline and answers with a human-readable page. Business
// denials are still acknowledged with HTTP 200; the gateway expects a
// transport-level success even when enrolment is refused.
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if err := r.ParseForm(); err != nil {
		metrics.CallbackVerifyRequests.WithLabelValues("malformed", "bad_form").Inc()
		s.renderHTML(w, http.StatusBadRequest, false, "Sorry, you can not use the script that way.")
		return
	}

	cb, err := usecase.ParseCallback(r.PostForm)
	if err != nil {
		metrics.CallbackVerifyRequests.WithLabelValues("malformed", "bad_shape").Inc()
		s.log.Warn().Err(err).Msg("malformed callback rejected")
		s.renderHTML(w, http.StatusBadRequest, false, "Invalid request.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.gatewayTimeout+5*time.Second)
	defer cancel()

	outcome, err := s.enrolUC.Confirm(ctx, cb)
	if err != nil {
		metrics.CallbackVerifyRequests.WithLabelValues("error", "internal").Inc()
		s.log.Error().Err(err).Str("rrr", cb.RRR).Msg("callback processing failed")
		s.renderHTML(w, http.StatusInternalServerError, false, "Something went wrong processing your payment. Please contact support.")
		return
	}

	result := string(outcome.State)
	metrics.CallbackVerifyRequests.WithLabelValues(result, outcome.Reason).Inc()
	metrics.CallbackVerifyDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())

	switch outcome.State {
	case usecase.OutcomeGranted:
		metrics.EnrolmentsTotal.WithLabelValues("granted").Inc()
		s.renderHTML(w, http.StatusOK, true, outcome.Message)
	case usecase.OutcomeAlreadyGranted:
		metrics.EnrolmentsTotal.WithLabelValues("already_granted").Inc()
		s.renderHTML(w, http.StatusOK, true, outcome.Message)
	case usecase.OutcomeTransient:
		s.renderHTML(w, http.StatusBadGateway, false, outcome.Message)
	default: // denied
		s.renderHTML(w, http.StatusOK, false, outcome.Message)
	}
}

// handleInitiate serves the external payment-form layer: it creates an
// attempt and returns the signed form fields to post to the gateway.
func (s *Server) handleInitiate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID     int64  `json:"user_id"`
		CourseID   int64  `json:"course_id"`
		InstanceID int64  `json:"instance_id"`
		Seed       string `json:"seed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	attempt, form, err := s.paymentUC.Initiate(r.Context(), req.UserID, req.CourseID, req.InstanceID, req.Seed)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			http.Error(w, "Unknown enrolment instance", http.StatusNotFound)
		case errors.Is(err, domain.ErrNoCost):
			http.Error(w, "There is no cost associated with this instance", http.StatusConflict)
		default:
			s.log.Error().Err(err).Msg("payment initiation failed")
			http.Error(w, "Failed to initiate payment", http.StatusInternalServerError)
		}
		return
	}
	metrics.AttemptsTotal.WithLabelValues("initiated").Inc()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(struct {
		AttemptID string               `json:"attempt_id"`
		Reference string               `json:"reference"`
		Form      *usecase.PaymentForm `json:"form"`
	}{
		AttemptID: attempt.ID,
		Reference: attempt.Reference,
		Form:      form,
	})
}

// handleListEnrolments serves the audit listing, optionally filtered by
// instance.
func (s *Server) handleListEnrolments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var (
		records interface{}
		err     error
	)
	if raw := r.URL.Query().Get("instance"); raw != "" {
		instanceID, perr := strconv.ParseInt(raw, 10, 64)
		if perr != nil {
			http.Error(w, "Invalid instance id", http.StatusBadRequest)
			return
		}
		records, err = s.auditUC.ListByInstance(ctx, instanceID, offset, limit)
	} else {
		records, err = s.auditUC.ListRecent(ctx, limit)
	}
	if err != nil {
		http.Error(w, "Failed to list enrolments", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(records)
}

var page = template.Must(template.New("cb").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width,initial-scale=1" />
<title>Enrolment {{if .OK}}Confirmed{{else}}Result{{end}}</title>
<style>
body{font-family:system-ui,Arial,sans-serif;margin:2rem;}
.card{max-width:560px;border:1px solid #ddd;border-radius:12px;padding:24px;}
.ok{color:#057a55} .fail{color:#b00020}
</style>
</head>
<body>
<div class="card">
  <h2 class="{{if .OK}}ok{{else}}fail{{end}}">{{if .OK}}Payment Successful{{else}}Payment Processed{{end}}</h2>
  <p>{{.Msg}}</p>
</div>
</body>
</html>`))

func (s *Server) renderHTML(w http.ResponseWriter, code int, ok bool, msg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_ = page.Execute(w, struct {
		OK  bool
		Msg string
	}{OK: ok, Msg: msg})
}
