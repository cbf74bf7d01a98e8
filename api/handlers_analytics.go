package api

import (
	"net/http"

	"borsapulse/analytics"
)

// Analytics Handlers
//
// Every analysis endpoint computes on demand from the stored candle
// series. /api/snapshots serves the scheduled precomputed runs instead.

// loadSeries fetches the candle series for the requested symbol, writing
// the error response itself when the request cannot be served.
func (s *Server) loadSeries(w http.ResponseWriter, r *http.Request) (string, []analytics.PricePoint, bool) {
	symbol, ok := getSymbolParam(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Missing symbol parameter", nil)
		return "", nil, false
	}

	minDays, maxDays := 5, 1825
	days := getIntParam(r, "days", s.lookback, &minDays, &maxDays)

	series, err := s.priceRepo.GetSeries(symbol, days)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch price series", err)
		return "", nil, false
	}
	if len(series) == 0 {
		respondWithError(w, http.StatusNotFound, "No price history for symbol", nil)
		return "", nil, false
	}
	return symbol, series, true
}

// benchmarkSeries loads the benchmark candles for beta. Missing benchmark
// data is not an error, beta just falls back to its default.
func (s *Server) benchmarkSeries(days int) []analytics.PricePoint {
	if s.benchmark == "" {
		return nil
	}
	series, err := s.priceRepo.GetSeries(s.benchmark, days)
	if err != nil {
		return nil
	}
	return series
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	symbol, series, ok := s.loadSeries(w, r)
	if !ok {
		return
	}
	analysis := s.analyzer.Analyze(symbol, series, s.benchmarkSeries(len(series)))
	respondJSON(w, http.StatusOK, analysis)
}

func (s *Server) handleGetTrend(w http.ResponseWriter, r *http.Request) {
	symbol, series, ok := s.loadSeries(w, r)
	if !ok {
		return
	}
	trend := s.analyzer.AnalyzeTrend(series)
	if trend == nil {
		respondWithError(w, http.StatusUnprocessableEntity, "Series too short for trend analysis", nil)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"symbol": symbol, "trend": trend})
}

func (s *Server) handleGetRisk(w http.ResponseWriter, r *http.Request) {
	symbol, series, ok := s.loadSeries(w, r)
	if !ok {
		return
	}
	risk := s.analyzer.AssessRisk(series, s.benchmarkSeries(len(series)))
	if risk == nil {
		respondWithError(w, http.StatusUnprocessableEntity, "Series too short for risk metrics", nil)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"symbol": symbol, "risk": risk})
}

func (s *Server) handleGetIndicators(w http.ResponseWriter, r *http.Request) {
	symbol, series, ok := s.loadSeries(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"symbol":     symbol,
		"indicators": s.analyzer.Indicators(series),
	})
}

func (s *Server) handleGetSignals(w http.ResponseWriter, r *http.Request) {
	symbol, series, ok := s.loadSeries(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"symbol":  symbol,
		"signals": s.analyzer.GenerateSignals(series),
	})
}

func (s *Server) handleGetPredictions(w http.ResponseWriter, r *http.Request) {
	symbol, series, ok := s.loadSeries(w, r)
	if !ok {
		return
	}
	predictions := s.analyzer.PredictPrices(series)
	if len(predictions) == 0 {
		respondWithError(w, http.StatusUnprocessableEntity, "Series too short for predictions", nil)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"symbol": symbol, "predictions": predictions})
}

func (s *Server) handleGetLevels(w http.ResponseWriter, r *http.Request) {
	symbol, series, ok := s.loadSeries(w, r)
	if !ok {
		return
	}
	levels := s.analyzer.FindSupportResistance(series)
	if levels == nil {
		respondWithError(w, http.StatusUnprocessableEntity, "Series too short for support/resistance", nil)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"symbol": symbol, "levels": levels})
}

func (s *Server) handleGetAnomalies(w http.ResponseWriter, r *http.Request) {
	symbol, series, ok := s.loadSeries(w, r)
	if !ok {
		return
	}
	anomalies := s.analyzer.DetectAnomalies(series)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"symbol":    symbol,
		"anomalies": anomalies,
		"count":     len(anomalies),
	})
}

func (s *Server) handleGetSnapshots(w http.ResponseWriter, r *http.Request) {
	symbol, ok := getSymbolParam(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Missing symbol parameter", nil)
		return
	}

	if r.URL.Query().Get("latest") == "true" {
		snapshot, err := s.snapRepo.GetLatestSnapshot(symbol)
		if err != nil {
			respondWithError(w, http.StatusNotFound, "No snapshot for symbol", err)
			return
		}
		respondJSON(w, http.StatusOK, snapshot)
		return
	}

	minLimit, maxLimit := 1, 500
	limit := getIntParam(r, "limit", 100, &minLimit, &maxLimit)
	since := sinceParam(r, 30)

	list, err := s.snapRepo.GetSnapshots(symbol, since, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch snapshots", err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}
