package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"remita-course-enrolment/internal/config"
	"remita-course-enrolment/internal/domain"
	"remita-course-enrolment/internal/domain/model"
	"remita-course-enrolment/internal/domain/ports/adapter"
)

const (
	statusPath = "/remita/exapp/api/v1/send/api/echannelsvc/%s/%s/%s/status.reg"
	initPath   = "/remita/exapp/api/v1/send/api/echannelsvc/merchant/api/paymentinit"
)

var _ adapter.PaymentGateway = (*RemitaGateway)(nil)

// RemitaGateway implements the PaymentGateway port using direct HTTP calls
// against Remita's echannel service.
type RemitaGateway struct {
	merchantID    string
	apiKey        string
	serviceTypeID string
	baseURL       string
	client        *http.Client
}

func NewRemitaGateway(cfg config.RemitaConfig, timeout time.Duration) *RemitaGateway {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &RemitaGateway{
		merchantID:    cfg.MerchantID,
		apiKey:        cfg.APIKey,
		serviceTypeID: cfg.ServiceTypeID,
		baseURL:       cfg.BaseURL(),
		client:        &http.Client{Timeout: timeout},
	}
}

func (g *RemitaGateway) Name() string { return "remita" }

// InitURL returns the endpoint the payment form posts the initiation
// request to.
func (g *RemitaGateway) InitURL() string { return g.baseURL + initPath }

// remitaStatusResponse is the shape of the status.reg body. Amount arrives
// in kobo.
type remitaStatusResponse struct {
	Status  string      `json:"status"`
	Amount  json.Number `json:"amount"`
	Message string      `json:"message"`
	RRR     string      `json:"RRR"`
}

// Verify performs the status-check GET. The verify hash is embedded both
// in the URL path and repeated in the authorization header.
func (g *RemitaGateway) Verify(ctx context.Context, rrr string) (*model.VerificationResult, error) {
	hash := VerificationHash(rrr, g.apiKey, g.merchantID)
	url := g.baseURL + fmt.Sprintf(statusPath, g.merchantID, rrr, hash)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build status request: %w", err)
	}
	req.Header.Set("Authorization", "remitaConsumerKey="+g.merchantID+",remitaConsumerToken="+hash)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := g.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrGatewayUnreachable, err)
	}

	// Any non-timeout, non-connection-error response is a candidate success
	// provided the body parses; business meaning is decided by the caller.
	var parsed remitaStatusResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayMalformedResponse, err)
	}
	if parsed.Status == "" {
		return nil, fmt.Errorf("%w: missing status field", domain.ErrGatewayMalformedResponse)
	}

	var amount int64
	if parsed.Amount != "" {
		amount, err = parsed.Amount.Int64()
		if err != nil {
			// Some endpoints format the amount with decimals.
			f, ferr := parsed.Amount.Float64()
			if ferr != nil {
				return nil, fmt.Errorf("%w: bad amount %q", domain.ErrGatewayMalformedResponse, parsed.Amount)
			}
			amount = int64(f)
		}
	}

	return &model.VerificationResult{
		StatusCode:  parsed.Status,
		Status:      model.ClassifyRemitaStatus(parsed.Status),
		AmountMinor: amount,
		Message:     parsed.Message,
		Raw:         body,
	}, nil
}
