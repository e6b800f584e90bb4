// Package domain defines the plan generation logic for the day-plan service.
package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"example.com/dayplan/internal/observability"
)

// Bounds enforced on every activity kept in a plan. The prompt asks the model
// to stay inside them, and validation drops anything that doesn't.
const (
	MinActivityMinutes = 30
	MaxActivityMinutes = 120
	MinPriority        = 1
	MaxPriority        = 3
)

const minutesPerDay = 24 * 60

var (
	// ErrEmptyCompletion indicates the model returned no usable text.
	ErrEmptyCompletion = errors.New("empty response from model")
	// ErrMalformedPlan indicates the completion held no parseable JSON array.
	ErrMalformedPlan = errors.New("invalid plan format received from model")
	// ErrNoActivities indicates every candidate was filtered out.
	ErrNoActivities = errors.New("no valid activities could be created")
)

// IsGenerationError reports whether err means the model's output was unusable,
// as opposed to the model service itself failing. Generation errors are the
// caller's to retry: model output is non-deterministic.
func IsGenerationError(err error) bool {
	return errors.Is(err, ErrEmptyCompletion) ||
		errors.Is(err, ErrMalformedPlan) ||
		errors.Is(err, ErrNoActivities)
}

// Completer is the external text-completion collaborator.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// PlanRequest carries validated, normalized parameters from the API layer.
type PlanRequest struct {
	Mood           string
	Energy         int
	AvailableHours float64
	Goals          []string
}

// Service turns plan requests into validated activity schedules.
type Service struct {
	completer Completer
	logger    *log.Logger
	now       func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithLogger overrides the default logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the wall clock, fixing the schedule's start hour in tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService constructs a Service around the given completer.
func NewService(completer Completer, opts ...Option) *Service {
	s := &Service{
		completer: completer,
		logger:    log.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GeneratePlan builds a prompt from the request, calls the completer once and
// validates the result into a time-ordered schedule. Times start at the
// current hour and each activity begins where the previous one ended.
func (s *Service) GeneratePlan(ctx context.Context, req PlanRequest) ([]Activity, error) {
	startHour := s.now().Hour()
	prompt := buildPrompt(req, startHour)

	s.logger.Printf("generating plan: mood=%s energy=%d hours=%g goals=%s",
		req.Mood, req.Energy, req.AvailableHours, strings.Join(req.Goals, ","))

	raw, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		observability.RecordGenerationFailure("upstream")
		return nil, fmt.Errorf("completion request: %w", err)
	}

	candidates, err := extractActivities(raw)
	if err != nil {
		observability.RecordGenerationFailure("generation")
		s.logger.Printf("plan generation failed: %v", err)
		return nil, err
	}

	plan, total := s.validateActivities(candidates, startHour*60)
	if len(plan) == 0 {
		observability.RecordGenerationFailure("generation")
		return nil, ErrNoActivities
	}

	observability.RecordPlanGenerated(s.now())
	s.logger.Printf("generated plan with %d activities totalling %d minutes", len(plan), total)
	return plan, nil
}

// extractActivities slices the first bracketed span out of the raw completion,
// tolerating prose the model may wrap around it, and parses it into a generic
// tree. Field-level trust comes later, in validateActivities.
func extractActivities(raw string) ([]map[string]any, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, ErrEmptyCompletion
	}

	start := strings.Index(trimmed, "[")
	end := strings.LastIndex(trimmed, "]")
	if start == -1 || end <= start {
		return nil, ErrMalformedPlan
	}

	var items []map[string]any
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPlan, err)
	}
	return items, nil
}

var requiredKeys = []string{"time", "activity", "description", "duration", "priority"}

// validateActivities coerces each candidate into an Activity, discarding any
// that fail a field check, and rewrites times from the running clock.
func (s *Service) validateActivities(items []map[string]any, startMinutes int) ([]Activity, int) {
	plan := make([]Activity, 0, len(items))
	clock := startMinutes
	total := 0

	for _, item := range items {
		act, ok := s.coerceActivity(item)
		if !ok {
			continue
		}

		act.Time = formatClock(clock)
		clock = (clock + act.DurationMin) % minutesPerDay
		total += act.DurationMin
		plan = append(plan, act)
	}

	return plan, total
}

func (s *Service) coerceActivity(item map[string]any) (Activity, bool) {
	for _, key := range requiredKeys {
		if _, ok := item[key]; !ok {
			observability.RecordActivityDiscarded("missing_field")
			return Activity{}, false
		}
	}

	label, ok := asString(item["activity"])
	if !ok || strings.TrimSpace(label) == "" {
		observability.RecordActivityDiscarded("missing_field")
		return Activity{}, false
	}
	description, ok := asString(item["description"])
	if !ok {
		observability.RecordActivityDiscarded("missing_field")
		return Activity{}, false
	}

	duration, ok := asInt(item["duration"])
	if !ok || duration < MinActivityMinutes || duration > MaxActivityMinutes {
		observability.RecordActivityDiscarded("bad_duration")
		s.logger.Printf("discarding activity %q: duration out of bounds", label)
		return Activity{}, false
	}

	priority, ok := asInt(item["priority"])
	if !ok {
		observability.RecordActivityDiscarded("bad_priority")
		s.logger.Printf("discarding activity %q: priority not an integer", label)
		return Activity{}, false
	}
	priority = clamp(priority, MinPriority, MaxPriority)

	var extras map[string]any
	for k, v := range item {
		if isRequiredKey(k) {
			continue
		}
		if extras == nil {
			extras = make(map[string]any)
		}
		extras[k] = v
	}

	return Activity{
		Label:       label,
		Description: description,
		DurationMin: duration,
		Priority:    priority,
		Extras:      extras,
	}, true
}

func isRequiredKey(key string) bool {
	for _, k := range requiredKeys {
		if k == key {
			return true
		}
	}
	return false
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// asInt tolerates the shapes JSON numbers arrive in, plus numeric-looking
// strings. Fractional values truncate toward zero.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case string:
		trimmed := strings.TrimSpace(n)
		if parsed, err := strconv.Atoi(trimmed); err == nil {
			return parsed, true
		}
		if parsed, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return int(parsed), true
		}
		return 0, false
	default:
		return 0, false
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func formatClock(minutes int) string {
	minutes %= minutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
