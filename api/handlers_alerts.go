package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"borsapulse/alerts"
	"borsapulse/database"
	models "borsapulse/database/models_pkg"
)

// Alert Management Handlers

func (s *Server) handleGetAlerts(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	symbol := strings.ToUpper(r.URL.Query().Get("symbol"))
	activeOnly := r.URL.Query().Get("active") == "true"
	minLimit, maxLimit := 1, 500
	limit := getIntParam(r, "limit", 100, &minLimit, &maxLimit)

	list, err := s.alertRepo.GetAlerts(userID, symbol, activeOnly, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch alerts", err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateAlert(w http.ResponseWriter, r *http.Request) {
	var alert models.UserAlert
	if err := json.NewDecoder(r.Body).Decode(&alert); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	// Reset ID to let DB assign it
	alert.ID = 0
	alert.Symbol = strings.ToUpper(strings.TrimSpace(alert.Symbol))
	alert.IsActive = true
	alert.LastTriggered = nil

	if err := alerts.ValidateDefinition(&alert); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	if err := s.alertRepo.SaveAlert(&alert); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to save alert", err)
		return
	}
	respondJSON(w, http.StatusCreated, alert)
}

func (s *Server) handleUpdateAlert(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid ID", nil)
		return
	}

	existing, err := s.alertRepo.GetAlertByID(id)
	if err != nil {
		var nf *database.NotFoundError
		if errors.As(err, &nf) {
			respondWithError(w, http.StatusNotFound, "Alert not found", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch alert", err)
		return
	}

	var alert models.UserAlert
	if err := json.NewDecoder(r.Body).Decode(&alert); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	// Identity and trigger history are not editable through this endpoint
	alert.ID = id
	alert.UserID = existing.UserID
	alert.CreatedAt = existing.CreatedAt
	alert.LastTriggered = existing.LastTriggered
	alert.Symbol = strings.ToUpper(strings.TrimSpace(alert.Symbol))

	if err := alerts.ValidateDefinition(&alert); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	if err := s.alertRepo.SaveAlert(&alert); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to save alert", err)
		return
	}
	respondJSON(w, http.StatusOK, alert)
}

func (s *Server) handleDeleteAlert(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid ID", nil)
		return
	}

	if err := s.alertRepo.DeleteAlert(id); err != nil {
		var nf *database.NotFoundError
		if errors.As(err, &nf) {
			respondWithError(w, http.StatusNotFound, "Alert not found", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to delete alert", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleToggleAlert flips or sets the active flag. Deactivated alerts are
// skipped by the evaluator but keep their trigger history.
func (s *Server) handleToggleAlert(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid ID", nil)
		return
	}

	alert, err := s.alertRepo.GetAlertByID(id)
	if err != nil {
		var nf *database.NotFoundError
		if errors.As(err, &nf) {
			respondWithError(w, http.StatusNotFound, "Alert not found", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch alert", err)
		return
	}

	active := !alert.IsActive
	if v := r.URL.Query().Get("active"); v != "" {
		active = v == "true"
	}

	if err := s.alertRepo.SetActive(id, active); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to update alert", err)
		return
	}
	alert.IsActive = active
	respondJSON(w, http.StatusOK, alert)
}

func (s *Server) handleGetAlertTriggers(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid ID", nil)
		return
	}

	minLimit, maxLimit := 1, 500
	limit := getIntParam(r, "limit", 100, &minLimit, &maxLimit)
	since := sinceParam(r, 30)

	triggers, err := s.alertRepo.GetTriggers(id, "", since, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch triggers", err)
		return
	}
	respondJSON(w, http.StatusOK, triggers)
}

func (s *Server) handleGetTriggers(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(r.URL.Query().Get("symbol"))
	minLimit, maxLimit := 1, 500
	limit := getIntParam(r, "limit", 100, &minLimit, &maxLimit)
	since := sinceParam(r, 30)

	triggers, err := s.alertRepo.GetTriggers(0, symbol, since, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch triggers", err)
		return
	}
	respondJSON(w, http.StatusOK, triggers)
}

// sinceParam resolves the "days" query parameter into a cutoff time
func sinceParam(r *http.Request, defaultDays int) time.Time {
	minDays, maxDays := 1, 365
	days := getIntParam(r, "days", defaultDays, &minDays, &maxDays)
	return time.Now().AddDate(0, 0, -days)
}
