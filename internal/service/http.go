package service

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/taaxdog/backend/internal/model"
)

// RegisterRoutes mounts the JSON API on mux. Authentication is handled
// upstream; handlers trust the user_id query parameter.
func (s *TaxService) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("POST /v1/transactions/ingest", s.handleIngest)
	mux.HandleFunc("POST /v1/transactions/{id}/categorize", s.handleCategorize)
	mux.HandleFunc("POST /v1/transactions/categorize-batch", s.handleBatchCategorize)
	mux.HandleFunc("GET /v1/bas/summary", s.handleBASSummary)
	mux.HandleFunc("GET /v1/compliance/assessment", s.handleCompliance)
	mux.HandleFunc("GET /v1/budget/patterns", s.handleSpendingPatterns)
	mux.HandleFunc("GET /v1/budget/forecast", s.handleForecast)
	mux.HandleFunc("GET /v1/profile", s.handleGetProfile)
	mux.HandleFunc("PUT /v1/profile", s.handleUpdateProfile)
}

func (s *TaxService) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *TaxService) handleIngest(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	var body struct {
		Transactions []RawTransaction `json:"transactions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	summary, err := s.IngestTransactions(r.Context(), userID, body.Transactions)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *TaxService) handleCategorize(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	txnID := r.PathValue("id")
	if userID == "" || txnID == "" {
		writeError(w, http.StatusBadRequest, "user_id and transaction id are required")
		return
	}
	result, err := s.CategorizeTransaction(r.Context(), userID, txnID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *TaxService) handleBatchCategorize(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	financialYear := r.URL.Query().Get("financial_year")
	autoApply := r.URL.Query().Get("auto_apply") == "true"

	summary, err := s.BatchCategorize(r.Context(), userID, financialYear, autoApply)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *TaxService) handleBASSummary(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	fyStartYear, err := strconv.Atoi(r.URL.Query().Get("fy_start_year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "fy_start_year must be a year like 2025")
		return
	}
	quarter, err := strconv.Atoi(r.URL.Query().Get("quarter"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "quarter must be 1-4")
		return
	}
	summary, err := s.GetBASQuarterSummary(r.Context(), userID, fyStartYear, quarter)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *TaxService) handleCompliance(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	start, end, err := parseWindow(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	assessment, err := s.GetComplianceAssessment(r.Context(), userID, start, end)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, assessment)
}

func (s *TaxService) handleSpendingPatterns(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	lookbackDays := 0
	if v := r.URL.Query().Get("lookback_days"); v != "" {
		var err error
		lookbackDays, err = strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "lookback_days must be an integer")
			return
		}
	}
	analysis, err := s.AnalyzeSpending(r.Context(), userID, lookbackDays)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func (s *TaxService) handleForecast(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	monthsAhead := 0
	if v := r.URL.Query().Get("months_ahead"); v != "" {
		var err error
		monthsAhead, err = strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "months_ahead must be an integer")
			return
		}
	}
	forecast, err := s.PredictBudget(r.Context(), userID, monthsAhead)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, forecast)
}

func (s *TaxService) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	profile, err := s.GetTaxProfile(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if profile == nil {
		writeError(w, http.StatusNotFound, "no tax profile for user")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *TaxService) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	var profile model.TaxProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	profile.UserID = userID
	if err := s.UpdateTaxProfile(r.Context(), &profile); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, &profile)
}

// parseWindow reads the start/end query dates, defaulting to the last year.
func parseWindow(r *http.Request) (time.Time, time.Time, error) {
	end := time.Now()
	start := end.AddDate(-1, 0, 0)
	if v := r.URL.Query().Get("start"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return start, end, err
		}
		start = parsed
	}
	if v := r.URL.Query().Get("end"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return start, end, err
		}
		end = parsed
	}
	return start, end, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[HTTP] failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
