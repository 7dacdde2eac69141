package main

import (
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"payment-gateway/internal/observability"
)

// Deterministic acquiring-bank stand-in for local development: the last
// digit of the card number decides the outcome. Odd digits authorize, even
// digits decline, a trailing zero simulates a bank outage.

type authorizationRequest struct {
	CardNumber string `json:"card_number"`
	ExpiryDate string `json:"expiry_date"`
	Currency   string `json:"currency"`
	Amount     int64  `json:"amount"`
	CVV        int    `json:"cvv"`
}

type authorizationResponse struct {
	Authorized        bool    `json:"authorized"`
	AuthorizationCode *string `json:"authorization_code"`
}

func main() {
	addr := flag.String("addr", ":8080", "Listen address")
	flag.Parse()

	logger := observability.SetupLogger("development")

	r := chi.NewRouter()
	r.Use(middleware.Logger, middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"healthy","service":"bank-simulator"}`))
	})

	r.Post("/payments", func(w http.ResponseWriter, r *http.Request) {
		var req authorizationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		if req.CardNumber == "" || !strings.Contains(req.ExpiryDate, "/") {
			http.Error(w, "missing card details", http.StatusBadRequest)
			return
		}

		lastDigit := req.CardNumber[len(req.CardNumber)-1]
		switch {
		case lastDigit == '0':
			logger.Warn("simulating bank outage", "amount", req.Amount)
			http.Error(w, "service unavailable", http.StatusServiceUnavailable)
			return
		case (lastDigit-'0')%2 == 1:
			code := uuid.New().String()
			logger.Info("payment authorized", "amount", req.Amount, "currency", req.Currency)
			writeResponse(w, authorizationResponse{Authorized: true, AuthorizationCode: &code})
		default:
			logger.Info("payment declined", "amount", req.Amount, "currency", req.Currency)
			writeResponse(w, authorizationResponse{Authorized: false})
		}
	})

	srv := &http.Server{
		Addr:         *addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	logger.Info("bank simulator starting", "addr", *addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("bank simulator failed", "error", err)
		os.Exit(1)
	}
}

func writeResponse(w http.ResponseWriter, resp authorizationResponse) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
