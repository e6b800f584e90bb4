package domain

import "encoding/json"

// Activity is one scheduled item in a generated plan.
type Activity struct {
	Time        string
	Label       string
	Description string
	DurationMin int
	Priority    int

	// Extras carries any keys the model emitted beyond the required five;
	// they pass through to the response unmodified.
	Extras map[string]any
}

// MarshalJSON merges the canonical fields with the model-supplied extras.
// Canonical fields win on key collisions.
func (a Activity) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(a.Extras)+5)
	for k, v := range a.Extras {
		out[k] = v
	}
	out["time"] = a.Time
	out["activity"] = a.Label
	out["description"] = a.Description
	out["duration"] = a.DurationMin
	out["priority"] = a.Priority
	return json.Marshal(out)
}
