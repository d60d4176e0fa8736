package story

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Plan is the three-part outline the model returns before any part is written.
type Plan struct {
	Deel1 string `json:"deel1"`
	Deel2 string `json:"deel2"`
	Deel3 string `json:"deel3"`
}

// Part returns the outline for part n, counting from 1.
func (p Plan) Part(n int) string {
	switch n {
	case 1:
		return p.Deel1
	case 2:
		return p.Deel2
	case 3:
		return p.Deel3
	default:
		return ""
	}
}

// Slice returns the outlines in order.
func (p Plan) Slice() []string {
	return []string{p.Deel1, p.Deel2, p.Deel3}
}

// ParsePlan decodes a plan completion. The text must be a JSON object itself;
// there is no repair and no retry. Keys match exactly, so "DEEL1" is not deel1
// and a missing key leaves that outline empty.
func ParsePlan(completion string) (Plan, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(completion), &fields); err != nil {
		return Plan{}, fmt.Errorf("parse plan: %w", err)
	}
	if fields == nil {
		return Plan{}, errors.New("parse plan: completion is not a JSON object")
	}
	return Plan{
		Deel1: outline(fields["deel1"]),
		Deel2: outline(fields["deel2"]),
		Deel3: outline(fields["deel3"]),
	}, nil
}

// outline reads a string value as-is and any other value as its JSON text.
func outline(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
