package web

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"remita-course-enrolment/internal/usecase"
)

// Server wires the gateway callback and the admin audit API.
type Server struct {
	enrolUC        usecase.EnrolmentUseCase
	paymentUC      usecase.PaymentUseCase
	auditUC        usecase.AuditUseCase
	cbPath         string
	adminKey       string
	gatewayTimeout time.Duration
	log            *zerolog.Logger
}

func NewServer(
	enrolUC usecase.EnrolmentUseCase,
	paymentUC usecase.PaymentUseCase,
	auditUC usecase.AuditUseCase,
	cbPath string,
	adminKey string,
	gatewayTimeout time.Duration,
	logger *zerolog.Logger,
) *Server {
	if cbPath == "" {
		cbPath = "/enrol/remita/verify"
	}
	if gatewayTimeout <= 0 {
		gatewayTimeout = 15 * time.Second
	}
	return &Server{
		enrolUC:        enrolUC,
		paymentUC:      paymentUC,
		auditUC:        auditUC,
		cbPath:         cbPath,
		adminKey:       adminKey,
		gatewayTimeout: gatewayTimeout,
		log:            logger,
	}
}

// Router builds the chi router for the whole HTTP surface.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Post(s.cbPath, s.handleCallback)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/enrolments", s.handleListEnrolments)
		r.Post("/attempts", s.handleInitiate)
	})
	return r
}

// authMiddleware provides simple Bearer token authentication for the admin API.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.adminKey == "" {
			s.log.Error().Msg("admin API key is not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
			http.Error(w, "Unauthorized: Malformed token", http.StatusUnauthorized)
			return
		}

		if tokenParts[1] != s.adminKey {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
