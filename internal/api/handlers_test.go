package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"example.com/dayplan/internal/domain"
)

const validBody = `{"mood":"Focused","energy":4,"available_time":3,"goals":["Work","health"]}`

func newTestHandler(completer domain.Completer) *Handler {
	service := domain.NewService(completer, domain.WithClock(func() time.Time {
		return time.Date(2025, time.October, 27, 14, 0, 0, 0, time.UTC)
	}))
	return NewHandler(service)
}

func postPlan(t *testing.T, handler *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/generate-plan", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.generatePlan(rr, req)
	return rr
}

func TestGeneratePlanSuccess(t *testing.T) {
	completer := &stubCompleter{response: `Sure! [
  {"time": "09:00", "activity": "Deep work", "description": "Focus block", "duration": 45, "priority": 1},
  {"time": "09:45", "activity": "Walk", "description": "Get outside", "duration": 30, "priority": 2}
] Hope that helps!`}

	rr := postPlan(t, newTestHandler(completer), validBody)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Plan []map[string]any `json:"plan"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(resp.Plan) != 2 {
		t.Fatalf("expected 2 activities got %d", len(resp.Plan))
	}
	if resp.Plan[0]["time"] != "14:00" {
		t.Fatalf("expected first activity at 14:00 got %v", resp.Plan[0]["time"])
	}
	if resp.Plan[1]["time"] != "14:45" {
		t.Fatalf("expected second activity at 14:45 got %v", resp.Plan[1]["time"])
	}
	if completer.calls != 1 {
		t.Fatalf("expected exactly one upstream call got %d", completer.calls)
	}
	if !strings.Contains(completer.lastPrompt, "feeling focused") {
		t.Fatalf("prompt should carry the lowercased mood: %s", completer.lastPrompt)
	}
}

func TestGeneratePlanMissingMood(t *testing.T) {
	completer := &stubCompleter{}
	rr := postPlan(t, newTestHandler(completer), `{"energy":3,"available_time":2,"goals":["read"]}`)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
	assertErrorBody(t, rr, "Mood is required")
	if completer.calls != 0 {
		t.Fatalf("generator must not be invoked on validation failure, got %d calls", completer.calls)
	}
}

func TestGeneratePlanEnergyOutOfRange(t *testing.T) {
	handler := newTestHandler(&stubCompleter{})
	for _, energy := range []string{"0", "6"} {
		body := `{"mood":"calm","energy":` + energy + `,"available_time":2,"goals":["read"]}`
		rr := postPlan(t, handler, body)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("energy=%s: expected 400 got %d", energy, rr.Code)
		}
		assertErrorBody(t, rr, "Energy level must be between 1 and 5")
	}
}

func TestGeneratePlanAvailableTimeOutOfRange(t *testing.T) {
	handler := newTestHandler(&stubCompleter{})
	rr := postPlan(t, handler, `{"mood":"calm","energy":3,"available_time":25,"goals":["read"]}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
	assertErrorBody(t, rr, "Available time must be between 0.5 and 24 hours")
}

func TestGeneratePlanNoGoals(t *testing.T) {
	handler := newTestHandler(&stubCompleter{})
	rr := postPlan(t, handler, `{"mood":"calm","energy":3,"available_time":2,"goals":["  "]}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
	assertErrorBody(t, rr, "At least one goal is required")
}

func TestGeneratePlanMalformedBody(t *testing.T) {
	rr := postPlan(t, newTestHandler(&stubCompleter{}), `{"mood":`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
	assertErrorBody(t, rr, "Invalid request data")
}

func TestGeneratePlanUnusableModelOutput(t *testing.T) {
	rr := postPlan(t, newTestHandler(&stubCompleter{response: "[]"}), validBody)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", rr.Code, rr.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if !strings.Contains(body["error"], "Failed to generate plan") {
		t.Fatalf("unexpected error message %q", body["error"])
	}
}

func TestGeneratePlanUpstreamFailure(t *testing.T) {
	completer := &stubCompleter{err: errors.New("dial tcp: connection refused")}
	rr := postPlan(t, newTestHandler(completer), validBody)
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 got %d", rr.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	// Upstream detail stays in the server log, not the response.
	if strings.Contains(body["error"], "connection refused") {
		t.Fatalf("internal detail leaked to caller: %q", body["error"])
	}
}

func TestGeneratePlanRejectsGet(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/generate-plan", nil)
	rr := httptest.NewRecorder()
	newTestHandler(&stubCompleter{}).generatePlan(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 got %d", rr.Code)
	}
}

func TestHealth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	health(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "healthy" {
		t.Fatalf("expected status healthy got %q", resp.Status)
	}
	if _, err := time.Parse(time.RFC3339, resp.Timestamp); err != nil {
		t.Fatalf("timestamp not RFC3339: %q", resp.Timestamp)
	}
}

func assertErrorBody(t *testing.T, rr *httptest.ResponseRecorder, want string) {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if body["error"] != want {
		t.Fatalf("expected error %q got %q", want, body["error"])
	}
}

type stubCompleter struct {
	response   string
	err        error
	calls      int
	lastPrompt string
}

func (c *stubCompleter) Complete(_ context.Context, prompt string) (string, error) {
	c.calls++
	c.lastPrompt = prompt
	return c.response, c.err
}
