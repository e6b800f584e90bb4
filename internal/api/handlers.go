// Package api exposes HTTP handlers for the day-plan service.
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"example.com/dayplan/internal/domain"
)

// Handler coordinates HTTP requests with the plan generation service.
type Handler struct {
	service *domain.Service
}

// NewHandler builds a Handler.
func NewHandler(service *domain.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/generate-plan", h.generatePlan)
	mux.HandleFunc("/health", health)
}

// health reports liveness. It carries a timestamp so callers can spot a
// wedged process behind a keepalive connection.
func health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Message:   "service is running",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) generatePlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req GeneratePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request data")
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := h.service.GeneratePlan(r.Context(), req.Normalize())
	if err != nil {
		log.Printf("plan request failed: %v", err)
		if domain.IsGenerationError(err) {
			writeError(w, http.StatusBadRequest, "Failed to generate plan: "+err.Error())
			return
		}
		writeError(w, http.StatusBadGateway, "Plan generation is temporarily unavailable")
		return
	}

	writeJSON(w, http.StatusOK, GeneratePlanResponse{Plan: plan})
}

// GeneratePlanRequest is the payload for POST /generate-plan.
type GeneratePlanRequest struct {
	Mood          string   `json:"mood"`
	Energy        int      `json:"energy"`
	AvailableTime float64  `json:"available_time"`
	Goals         []string `json:"goals"`
}

// Validate ensures request correctness. No upstream call is made until it
// passes.
func (r GeneratePlanRequest) Validate() error {
	if strings.TrimSpace(r.Mood) == "" {
		return errors.New("Mood is required")
	}
	if len(trimmedGoals(r.Goals)) == 0 {
		return errors.New("At least one goal is required")
	}
	if r.AvailableTime < 0.5 || r.AvailableTime > 24 {
		return errors.New("Available time must be between 0.5 and 24 hours")
	}
	if r.Energy < 1 || r.Energy > 5 {
		return errors.New("Energy level must be between 1 and 5")
	}
	return nil
}

// Normalize lowercases and trims the free-text parameters for the generator.
func (r GeneratePlanRequest) Normalize() domain.PlanRequest {
	return domain.PlanRequest{
		Mood:           strings.ToLower(strings.TrimSpace(r.Mood)),
		Energy:         r.Energy,
		AvailableHours: r.AvailableTime,
		Goals:          trimmedGoals(r.Goals),
	}
}

func trimmedGoals(goals []string) []string {
	out := make([]string, 0, len(goals))
	for _, g := range goals {
		trimmed := strings.ToLower(strings.TrimSpace(g))
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// GeneratePlanResponse wraps a successful schedule.
type GeneratePlanResponse struct {
	Plan []domain.Activity `json:"plan"`
}

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"error": detail})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
