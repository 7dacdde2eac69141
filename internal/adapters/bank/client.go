package bank

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"payment-gateway/internal/core/domain"
	"payment-gateway/internal/core/ports"
)

// authorizationResponse mirrors the bank's success body.
type authorizationResponse struct {
	Authorized        bool    `json:"authorized"`
	AuthorizationCode *string `json:"authorization_code"`
}

// Client is the AcquiringBank implementation over HTTP. One attempt per
// authorization, no retries.
type Client struct {
	client *http.Client
	url    string
	logger *slog.Logger
}

// NewClient creates a bank client for the given authorization endpoint.
func NewClient(url string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		client: &http.Client{Timeout: timeout},
		url:    url,
		logger: logger,
	}
}

// Authorize sends a single authorization attempt. Transport faults fold into
// an InternalError outcome; a refusing or unparseable endpoint folds into a
// Failure outcome. The caller always gets a usable result.
func (c *Client) Authorize(ctx context.Context, bankReq ports.BankRequest) domain.Authorization {
	body, err := json.Marshal(bankReq)
	if err != nil {
		c.logger.Error("failed to marshal bank request", "error", err)
		return internalErrorOutcome()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		c.logger.Error("failed to build bank request", "error", err)
		return internalErrorOutcome()
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("bank call failed", "error", err)
		return internalErrorOutcome()
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.Warn("bank returned non-success status", "status_code", resp.StatusCode)
		return failureOutcome()
	}

	var bankResp authorizationResponse
	if err := json.NewDecoder(resp.Body).Decode(&bankResp); err != nil {
		c.logger.Warn("failed to decode bank response, treating as failure", "error", err)
		return failureOutcome()
	}

	// The processing status is derived from the authorized flag rather than
	// taken from the endpoint.
	status := domain.ProcessingFailure
	if bankResp.Authorized {
		status = domain.ProcessingSuccess
	}
	c.logger.Info("bank authorization completed", "authorized", bankResp.Authorized)
	return domain.Authorization{
		Authorized:        bankResp.Authorized,
		AuthorizationCode: bankResp.AuthorizationCode,
		Status:            status,
	}
}

func failureOutcome() domain.Authorization {
	return domain.Authorization{Status: domain.ProcessingFailure}
}

func internalErrorOutcome() domain.Authorization {
	return domain.Authorization{Status: domain.ProcessingInternalError}
}
