package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

type paymentResponse struct {
	ID                 string `json:"id"`
	Status             string `json:"status"`
	CardNumberLastFour string `json:"card_number_last_four"`
	ExpiryMonth        int    `json:"expiry_month"`
	ExpiryYear         int    `json:"expiry_year"`
	Currency           string `json:"currency"`
	Amount             int64  `json:"amount"`
}

func main() {
	var apiURL string

	rootCmd := &cobra.Command{Use: "gateway-cli"}
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "http://localhost:8090/api/v1", "Payment gateway API base URL")

	var cardNumber, currency string
	var month, year, cvv int
	var amount int64

	submitCmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a card payment",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := json.Marshal(map[string]any{
				"card_number":  cardNumber,
				"expiry_month": month,
				"expiry_year":  year,
				"currency":     currency,
				"amount":       amount,
				"cvv":          cvv,
			})
			if err != nil {
				return err
			}

			resp, err := http.Post(apiURL+"/payments", "application/json", bytes.NewReader(body))
			if err != nil {
				return fmt.Errorf("failed to reach gateway: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusCreated {
				raw, _ := io.ReadAll(resp.Body)
				return fmt.Errorf("gateway returned %d: %s", resp.StatusCode, raw)
			}

			var payment paymentResponse
			if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
				return fmt.Errorf("failed to decode response: %w", err)
			}
			printPayment(payment)
			return nil
		},
	}
	submitCmd.Flags().StringVar(&cardNumber, "card", "", "Card number (14-19 digits)")
	submitCmd.Flags().IntVar(&month, "month", 0, "Expiry month")
	submitCmd.Flags().IntVar(&year, "year", 0, "Expiry year")
	submitCmd.Flags().StringVar(&currency, "currency", "GBP", "Currency (EUR, GBP or USD)")
	submitCmd.Flags().Int64Var(&amount, "amount", 0, "Amount in minor units")
	submitCmd.Flags().IntVar(&cvv, "cvv", 0, "CVV")
	_ = submitCmd.MarkFlagRequired("card")
	_ = submitCmd.MarkFlagRequired("month")
	_ = submitCmd.MarkFlagRequired("year")
	_ = submitCmd.MarkFlagRequired("amount")
	_ = submitCmd.MarkFlagRequired("cvv")

	getCmd := &cobra.Command{
		Use:   "get <payment-id>",
		Short: "Fetch a payment by its identifier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := http.Get(apiURL + "/payments/" + args[0])
			if err != nil {
				return fmt.Errorf("failed to reach gateway: %w", err)
			}
			defer resp.Body.Close()

			switch resp.StatusCode {
			case http.StatusOK:
			case http.StatusNotFound:
				return fmt.Errorf("payment %s not found", args[0])
			default:
				raw, _ := io.ReadAll(resp.Body)
				return fmt.Errorf("gateway returned %d: %s", resp.StatusCode, raw)
			}

			var payment paymentResponse
			if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
				return fmt.Errorf("failed to decode response: %w", err)
			}
			printPayment(payment)
			return nil
		},
	}

	rootCmd.AddCommand(submitCmd, getCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func printPayment(p paymentResponse) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tCARD\tEXPIRY\tAMOUNT\tCURRENCY")
	fmt.Fprintf(w, "%s\t%s\t**** %s\t%02d/%d\t%d\t%s\n",
		p.ID, p.Status, p.CardNumberLastFour, p.ExpiryMonth, p.ExpiryYear, p.Amount, p.Currency)
	_ = w.Flush()
}
