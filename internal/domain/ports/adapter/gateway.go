package adapter

import (
	"context"

	"remita-course-enrolment/internal/domain/model"
)

// PaymentGateway is the hex port for the payment provider.
type PaymentGateway interface {
	Name() string

	// InitURL returns the gateway endpoint the payment form posts to.
	InitURL() string

	// Verify performs the server-side status check for a gateway transaction
	// reference (RRR). It returns domain.ErrGatewayUnreachable on
	// connection/timeout errors and domain.ErrGatewayMalformedResponse when
	// the body cannot be parsed. It never retries.
	Verify(ctx context.Context, rrr string) (*model.VerificationResult, error)
}
