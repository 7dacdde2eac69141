package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"log"
	"math/rand"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-faker/faker/v4"
)

// paymentRequest must match what the payment gateway expects.
type paymentRequest struct {
	CardNumber  string `json:"card_number"`
	ExpiryMonth int    `json:"expiry_month"`
	ExpiryYear  int    `json:"expiry_year"`
	Currency    string `json:"currency"`
	Amount      int64  `json:"amount"`
	CVV         int    `json:"cvv"`
}

var currencies = []string{"EUR", "GBP", "USD"}

func main() {
	targetURL := flag.String("target", "http://localhost:8090/api/v1/payments", "Target URL for sending payments")
	rps := flag.Int("rps", 20, "Requests per second")
	flag.Parse()

	log.Printf("Starting generator: target=%s, rps=%d\n", *targetURL, *rps)

	ticker := time.NewTicker(time.Second / time.Duration(*rps))
	defer ticker.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		select {
		case <-ticker.C:
			go sendRequest(*targetURL)
		case <-ctx.Done():
			log.Println("Shutting down generator...")
			return
		}
	}
}

func sendRequest(url string) {
	reqData := paymentRequest{
		CardNumber:  fakeCardNumber(),
		ExpiryMonth: 1 + rand.Intn(12),
		ExpiryYear:  2027 + rand.Intn(3),
		Currency:    currencies[rand.Intn(len(currencies))],
		Amount:      int64(1 + rand.Intn(100000)),
		CVV:         fakeCVV(),
	}

	body, err := json.Marshal(reqData)
	if err != nil {
		log.Printf("ERROR: failed to marshal request: %v", err)
		return
	}

	resp, err := http.Post(url, "application/json", bytes.NewBuffer(body))
	if err != nil {
		log.Printf("ERROR: failed to send request: %v", err)
		return
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("Failed to close response body: %v", err)
		}
	}()

	if resp.StatusCode != http.StatusCreated {
		log.Printf("WARN: received non-201 status code: %d", resp.StatusCode)
	} else {
		log.Printf("INFO: request sent successfully, status: %d", resp.StatusCode)
	}
}

// fakeCardNumber pads faker's card numbers up to the gateway's 14 digit
// minimum.
func fakeCardNumber() string {
	number := faker.CCNumber()
	for len(number) < 14 {
		number += "0"
	}
	return number
}

// fakeCVV occasionally emits the sentinel 333 so rejected submissions show
// up in the generated traffic.
func fakeCVV() int {
	if rand.Intn(10) == 0 {
		return 333
	}
	cvv := 100 + rand.Intn(900)
	if cvv == 333 {
		cvv++
	}
	return cvv
}
