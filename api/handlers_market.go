package api

import (
	"errors"
	"net/http"
	"strings"

	"borsapulse/database"
)

// Market Data Handlers

func (s *Server) handleGetQuotes(w http.ResponseWriter, r *http.Request) {
	quotes, err := s.priceRepo.GetQuotes()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch quotes", err)
		return
	}
	respondJSON(w, http.StatusOK, quotes)
}

func (s *Server) handleGetQuote(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(r.PathValue("symbol"))
	quote, err := s.priceRepo.GetQuote(symbol)
	if err != nil {
		var nf *database.NotFoundError
		if errors.As(err, &nf) {
			respondWithError(w, http.StatusNotFound, "Unknown symbol", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch quote", err)
		return
	}
	respondJSON(w, http.StatusOK, quote)
}

func (s *Server) handleGetCandles(w http.ResponseWriter, r *http.Request) {
	symbol, ok := getSymbolParam(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Missing symbol parameter", nil)
		return
	}

	minLimit, maxLimit := 1, 2000
	limit := getIntParam(r, "limit", 500, &minLimit, &maxLimit)
	since := sinceParam(r, 180)

	candles, err := s.priceRepo.GetCandles(symbol, since, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch candles", err)
		return
	}
	respondJSON(w, http.StatusOK, candles)
}
