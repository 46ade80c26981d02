package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/claude/volumetric/internal/models"
	"github.com/claude/volumetric/internal/pipeline"
	"github.com/claude/volumetric/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// userFromRequest resolves the acting user from the user_id query parameter,
// defaulting to user 1 (single-tenant deployments).
func userFromRequest(r *http.Request) int {
	if v := r.URL.Query().Get("user_id"); v != "" {
		if id, err := strconv.Atoi(v); err == nil && id > 0 {
			return id
		}
	}
	return 1
}

func sessionIDFromRequest(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

type createSessionRequest struct {
	UserID      int       `json:"user_id"`
	SessionDate time.Time `json:"session_date"`
	Completed   bool      `json:"completed"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.UserID <= 0 || req.SessionDate.IsZero() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "user_id and session_date are required"})
		return
	}

	sess, err := s.db.InsertSession(r.Context(), models.WorkoutSession{
		UserID:      req.UserID,
		SessionDate: req.SessionDate,
		Completed:   req.Completed,
	})
	if err != nil {
		s.log.Error("create session", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

type addPerformanceRequest struct {
	ExerciseID int      `json:"exercise_id"`
	SetsCount  int      `json:"sets_count"`
	ActualReps string   `json:"actual_reps"`
	WeightKg   float64  `json:"weight_kg"`
	RPE        *float64 `json:"rpe,omitempty"`
	RIR        *float64 `json:"rir,omitempty"`
	Completed  bool     `json:"completed"`
}

func (s *Server) handleAddPerformance(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionIDFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session ID"})
		return
	}

	var req addPerformanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.ExerciseID <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise_id is required"})
		return
	}

	perf, err := s.db.InsertPerformance(r.Context(), models.ExercisePerformance{
		SessionID:  sessionID,
		ExerciseID: req.ExerciseID,
		SetsCount:  req.SetsCount,
		ActualReps: req.ActualReps,
		WeightKg:   req.WeightKg,
		RPE:        req.RPE,
		RIR:        req.RIR,
		Completed:  req.Completed,
	})
	if err != nil {
		s.log.Error("add performance", "session_id", sessionID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, perf)
}

type addFeedbackRequest struct {
	UserID          int `json:"user_id"`
	PumpQuality     int `json:"pump_quality"`
	MuscleSoreness  int `json:"muscle_soreness"`
	PerceivedEffort int `json:"perceived_effort"`
	EnergyLevel     int `json:"energy_level"`
	SleepQuality    int `json:"sleep_quality"`
}

func (s *Server) handleAddFeedback(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionIDFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session ID"})
		return
	}

	var req addFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	err = s.db.InsertFeedback(r.Context(), models.RecoveryFeedback{
		SessionID:       sessionID,
		UserID:          req.UserID,
		PumpQuality:     req.PumpQuality,
		MuscleSoreness:  req.MuscleSoreness,
		PerceivedEffort: req.PerceivedEffort,
		EnergyLevel:     req.EnergyLevel,
		SleepQuality:    req.SleepQuality,
	})
	if err != nil {
		s.log.Error("add feedback", "session_id", sessionID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "ok"})
}

// handleCompleteSession marks the session completed and runs the analytics
// pipeline over it. The caller is responsible for invoking this at most once
// per session; re-running it duplicates progression records.
func (s *Server) handleCompleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionIDFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session ID"})
		return
	}
	userID := userFromRequest(r)

	if err := s.db.MarkSessionCompleted(r.Context(), sessionID); err != nil {
		if errors.Is(err, storage.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
			return
		}
		s.log.Error("mark session completed", "session_id", sessionID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	result, err := s.pipe.ProcessSessionCompletion(r.Context(), sessionID, userID)
	if err != nil {
		if errors.Is(err, pipeline.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}
		s.log.Error("process session", "session_id", sessionID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleProgression(w http.ResponseWriter, r *http.Request) {
	userID := userFromRequest(r)

	exerciseID := 0
	if v := r.URL.Query().Get("exercise_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid exercise_id"})
			return
		}
		exerciseID = id
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	records, err := s.db.ListProgression(r.Context(), userID, exerciseID, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleWeeklyVolume(w http.ResponseWriter, r *http.Request) {
	userID := userFromRequest(r)

	weeks := 12
	if v := r.URL.Query().Get("weeks"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			weeks = n
		}
	}
	start := time.Now().AddDate(0, 0, -7*weeks)

	records, err := s.db.ListWeeklyVolume(r.Context(), userID, start)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleLandmarks(w http.ResponseWriter, r *http.Request) {
	userID := userFromRequest(r)

	landmarks, err := s.db.LandmarksByUser(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, landmarks)
}

func (s *Server) handleMuscleGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.db.ListMuscleGroups(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, groups)
}
