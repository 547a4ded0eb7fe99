package schedule

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/vinay-852/MediTracker-Backend/internal/auth"

	"github.com/go-chi/chi/v5"
)

type addTaskRequest struct {
	Name string `json:"name"`
	Time string `json:"time"`
}

func GetHandler(s *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		sched, err := s.Get(userID)
		if errors.Is(err, ErrScheduleNotFound) {
			http.Error(w, "schedule not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sched)
	}
}

func AddTaskHandler(s *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		var req addTaskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		sched, err := s.AddTask(userID, chi.URLParam(r, "compartment"), req.Name, req.Time)
		if errors.Is(err, ErrScheduleNotFound) {
			http.Error(w, "schedule not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sched)
	}
}

func DeleteTaskHandler(s *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		index, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			http.Error(w, "invalid task index", http.StatusBadRequest)
			return
		}
		sched, err := s.DeleteTask(userID, chi.URLParam(r, "compartment"), index)
		switch {
		case errors.Is(err, ErrScheduleNotFound):
			http.Error(w, "schedule not found", http.StatusNotFound)
			return
		case errors.Is(err, ErrCompartmentNotFound):
			http.Error(w, "compartment not found", http.StatusNotFound)
			return
		case errors.Is(err, ErrTaskIndexOutOfRange):
			http.Error(w, "task index out of range", http.StatusBadRequest)
			return
		case err != nil:
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sched)
	}
}
