package domain

import (
	"fmt"
	"strings"
)

// buildPrompt renders the instruction sent to the model. The formatting rules
// mirror what validateActivities enforces so well-behaved completions survive
// filtering intact.
func buildPrompt(req PlanRequest, startHour int) string {
	totalMinutes := int(req.AvailableHours * 60)

	var b strings.Builder
	fmt.Fprintf(&b, "Create a %g-hour schedule for someone who is feeling %s with energy level %d/5.\n",
		req.AvailableHours, req.Mood, req.Energy)
	fmt.Fprintf(&b, "They want to focus on: %s.\n", strings.Join(req.Goals, ", "))
	fmt.Fprintf(&b, "Start the schedule from %d:00.\n\n", startHour)

	b.WriteString("Return a JSON array of activities. Each activity must have:\n")
	b.WriteString("{\n")
	b.WriteString("    \"time\": \"HH:MM\",\n")
	b.WriteString("    \"activity\": \"Activity name\",\n")
	b.WriteString("    \"description\": \"Brief description\",\n")
	b.WriteString("    \"duration\": minutes (integer),\n")
	b.WriteString("    \"priority\": 1 (high), 2 (medium), or 3 (low)\n")
	b.WriteString("}\n\n")

	b.WriteString("Rules:\n")
	b.WriteString("1. Use 24-hour time format (e.g., \"14:00\")\n")
	fmt.Fprintf(&b, "2. Keep activities between %d-%d minutes\n", MinActivityMinutes, MaxActivityMinutes)
	fmt.Fprintf(&b, "3. Total duration must not exceed %d minutes\n", totalMinutes)
	b.WriteString("4. Return only the JSON array, no other text\n")
	return b.String()
}
