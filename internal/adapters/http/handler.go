package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"payment-gateway/internal/core/domain"
	"payment-gateway/internal/core/ports"
)

// PaymentHandler stores all its dependencies.
type PaymentHandler struct {
	service ports.PaymentService
	logger  *slog.Logger
}

// NewPaymentHandler wires the payment service and a logger.
func NewPaymentHandler(service ports.PaymentService, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		logger:  logger,
	}
}

type submitPaymentRequest struct {
	CardNumber  string `json:"card_number"`
	ExpiryMonth int    `json:"expiry_month"`
	ExpiryYear  int    `json:"expiry_year"`
	Currency    string `json:"currency"`
	Amount      int64  `json:"amount"`
	CVV         int    `json:"cvv"`
}

type paymentResponse struct {
	ID                 uuid.UUID `json:"id"`
	Status             string    `json:"status"`
	CardNumberLastFour string    `json:"card_number_last_four"`
	ExpiryMonth        int       `json:"expiry_month"`
	ExpiryYear         int       `json:"expiry_year"`
	Currency           string    `json:"currency"`
	Amount             int64     `json:"amount"`
}

func toPaymentResponse(p domain.Payment) paymentResponse {
	return paymentResponse{
		ID:                 p.ID,
		Status:             string(p.Status),
		CardNumberLastFour: p.CardNumberLastFour,
		ExpiryMonth:        p.ExpiryMonth,
		ExpiryYear:         p.ExpiryYear,
		Currency:           p.Currency,
		Amount:             p.Amount,
	}
}

// HandleSubmitPayment accepts a card-payment submission. Malformed requests
// get a 400 with the violated rules; a REJECTED result is a normal 201.
func (h *PaymentHandler) HandleSubmitPayment(w http.ResponseWriter, r *http.Request) {
	var req submitPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	paymentReq := domain.PaymentRequest{
		CardNumber:  req.CardNumber,
		ExpiryMonth: req.ExpiryMonth,
		ExpiryYear:  req.ExpiryYear,
		Currency:    req.Currency,
		Amount:      req.Amount,
		CVV:         req.CVV,
	}

	if violations := domain.ValidateRequest(paymentReq); len(violations) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":      "invalid payment request",
			"violations": violations,
		})
		return
	}

	payment, err := h.service.SubmitPayment(r.Context(), paymentReq)
	if err != nil {
		h.logger.Error("failed to submit payment", "error", err)
		writeJSONError(w, "service temporarily unavailable", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusCreated, toPaymentResponse(payment))
}

// HandleGetPayment returns a previously submitted payment by identifier.
func (h *PaymentHandler) HandleGetPayment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSONError(w, "invalid payment id", http.StatusBadRequest)
		return
	}

	payment, err := h.service.GetPayment(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrPaymentNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]any{
				"title":  "Payment not found",
				"status": http.StatusNotFound,
				"detail": "payment with id " + id.String() + " not found",
			})
			return
		}
		h.logger.Error("failed to fetch payment", "payment_id", id, "error", err)
		writeJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, toPaymentResponse(payment))
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func writeJSONError(w http.ResponseWriter, message string, code int) {
	writeJSON(w, code, map[string]string{"error": message})
}
