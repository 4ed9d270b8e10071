//go:build ignore
// +build ignore

// Seeds a local TAAXDOG server with a demo user: a GST-registered profile and
// a quarter of realistic transactions, then runs a batch categorization and
// prints the BAS summary.
//
// Usage: go run scripts/seed-data.go (server must be running, e.g.
// USE_MEMORY_STORE=true go run ./cmd/server)
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
)

func main() {
	apiURL := os.Getenv("API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8111"
	}
	userID := os.Getenv("USER_ID")
	if userID == "" {
		userID = "local-dev-user"
	}

	log.Printf("Seeding demo data for %s at %s", userID, apiURL)

	profile := map[string]interface{}{
		"occupations":    []string{"software engineer"},
		"has_abn":        true,
		"gst_registered": true,
		"declared_work_use": map[string]float64{
			"home_office": 0.7,
		},
		"payg_instalment_cents": 150000,
	}
	mustDo(http.MethodPut, fmt.Sprintf("%s/v1/profile?user_id=%s", apiURL, userID), profile)

	transactions := map[string]interface{}{
		"transactions": []map[string]interface{}{
			{"amount_cents": 550000, "direction": "credit", "description": "INVOICE PAYMENT CLIENT ALPHA", "date": "2025-07-10"},
			{"amount_cents": 330000, "direction": "credit", "description": "STRIPE PAYOUT", "date": "2025-08-01"},
			{"amount_cents": 9900, "direction": "debit", "description": "TELSTRA NBN INTERNET PLAN", "merchant": "Telstra", "date": "2025-07-14"},
			{"amount_cents": 219900, "direction": "debit", "description": "APPLE STORE MACBOOK", "merchant": "Apple Store", "date": "2025-07-20"},
			{"amount_cents": 6600, "direction": "debit", "description": "UBER TRIP CLIENT SITE", "merchant": "Uber", "date": "2025-08-05"},
			{"amount_cents": 4950, "direction": "debit", "description": "XERO SUBSCRIPTION FEE", "date": "2025-08-12"},
			{"amount_cents": 12875, "direction": "debit", "description": "COLES SUPERMARKET 4821", "merchant": "Coles", "date": "2025-08-16"},
			{"amount_cents": 3200, "direction": "debit", "description": "UBER EATS DINNER", "date": "2025-08-23"},
			{"amount_cents": 5000, "direction": "debit", "description": "DONATION RED CROSS APPEAL", "date": "2025-09-01"},
			{"amount_cents": 18990, "direction": "debit", "description": "OFFICEWORKS DESK AND MONITOR", "merchant": "Officeworks", "date": "2025-09-08"},
		},
	}
	mustDo(http.MethodPost, fmt.Sprintf("%s/v1/transactions/ingest?user_id=%s", apiURL, userID), transactions)

	mustDo(http.MethodPost,
		fmt.Sprintf("%s/v1/transactions/categorize-batch?user_id=%s&financial_year=2025-26&auto_apply=true", apiURL, userID), nil)

	summary := mustDo(http.MethodGet,
		fmt.Sprintf("%s/v1/bas/summary?user_id=%s&fy_start_year=2025&quarter=1", apiURL, userID), nil)

	fmt.Println("BAS Q1 summary:")
	fmt.Println(summary)
}

func mustDo(method, url string, body interface{}) string {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			log.Fatalf("marshal payload for %s: %v", url, err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		log.Fatalf("build request %s %s: %v", method, url, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("%s %s: status %d: %s", method, url, resp.StatusCode, string(respBody))
	}
	log.Printf("%s %s: OK", method, url)
	return string(respBody)
}
