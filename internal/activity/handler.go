package activity

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vinay-852/MediTracker-Backend/internal/auth"
	"github.com/vinay-852/MediTracker-Backend/internal/models"
)

type appendRequest struct {
	Compartment string `json:"compartment"`
	OpenedAt    string `json:"openedAt"`
}

type logsResponse struct {
	Message string            `json:"message"`
	Logs    []models.LogEntry `json:"logs"`
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrMissingFields):
		http.Error(w, "compartment and openedAt are required", http.StatusBadRequest)
	case errors.Is(err, ErrUserNotFound):
		http.Error(w, "user not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func LogsHandler(s *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		logs, err := s.Logs(userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if logs == nil {
			logs = []models.LogEntry{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(logs)
	}
}

func AppendHandler(s *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		var req appendRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		logs, err := s.Append(userID, req.Compartment, req.OpenedAt)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(logsResponse{Message: "Log added successfully", Logs: logs})
	}
}

func ResetHandler(s *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		logs, err := s.Reset(userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(logsResponse{Message: "Logs reset successfully", Logs: logs})
	}
}
