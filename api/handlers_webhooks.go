package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	models "borsapulse/database/models_pkg"
)

// handleHealth returns the health status of the API
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// Configuration Handlers (Webhooks Only)

func (s *Server) handleGetWebhooks(w http.ResponseWriter, r *http.Request) {
	webhooks, err := s.alertRepo.GetWebhooks()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch webhooks", err)
		return
	}
	respondJSON(w, http.StatusOK, webhooks)
}

func (s *Server) handleCreateWebhook(w http.ResponseWriter, r *http.Request) {
	var webhook models.AlertWebhook
	if err := json.NewDecoder(r.Body).Decode(&webhook); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	// Reset ID to let DB assign it
	webhook.ID = 0

	if err := s.alertRepo.SaveWebhook(&webhook); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to save webhook", err)
		return
	}

	// Refresh webhook manager cache
	if s.webhookMgr != nil {
		s.webhookMgr.RefreshCache()
	}

	respondJSON(w, http.StatusCreated, webhook)
}

func (s *Server) handleUpdateWebhook(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid ID", nil)
		return
	}

	var webhook models.AlertWebhook
	if err := json.NewDecoder(r.Body).Decode(&webhook); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	webhook.ID = id // Ensure ID matches path
	if err := s.alertRepo.SaveWebhook(&webhook); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to save webhook", err)
		return
	}

	// Refresh webhook manager cache
	if s.webhookMgr != nil {
		s.webhookMgr.RefreshCache()
	}

	respondJSON(w, http.StatusOK, webhook)
}

func (s *Server) handleDeleteWebhook(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid ID", nil)
		return
	}

	if err := s.alertRepo.DeleteWebhook(id); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to delete webhook", err)
		return
	}

	// Refresh webhook manager cache
	if s.webhookMgr != nil {
		s.webhookMgr.RefreshCache()
	}

	w.WriteHeader(http.StatusNoContent)
}
