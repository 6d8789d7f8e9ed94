package store

import (
	"encoding/json"
	"fmt"
	"time"
)

// timeLayout stores timestamps as sortable UTC text.
const timeLayout = time.RFC3339Nano

// marshalSummary converts a summary to JSON TEXT. Map keys are sorted by
// encoding/json, so equal summaries store identical text.
func marshalSummary(summary map[string]int) (string, error) {
	if summary == nil {
		summary = map[string]int{}
	}
	data, err := json.Marshal(summary)
	if err != nil {
		return "", fmt.Errorf("marshal summary: %w", err)
	}
	return string(data), nil
}

func unmarshalSummary(text string) (map[string]int, error) {
	summary := map[string]int{}
	if err := json.Unmarshal([]byte(text), &summary); err != nil {
		return nil, fmt.Errorf("unmarshal summary: %w", err)
	}
	return summary, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(text string) (time.Time, error) {
	t, err := time.Parse(timeLayout, text)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", text, err)
	}
	return t, nil
}
