package matrix

// Action says what a synchronization did to a drawing row.
type Action string

const (
	ActionUpdated Action = "updated"
	ActionAdded   Action = "added"
)

// Entry records the revision written for one drawing.
type Entry struct {
	BaseName string `json:"base_name"`
	Revision string `json:"revision"`
	Filename string `json:"filename"`
	Action   Action `json:"action"`
}

// Report enumerates everything a synchronization pass changed or skipped.
type Report struct {
	Document        string   `json:"document,omitempty"`
	DocumentCreated bool     `json:"document_created,omitempty"`
	Label           string   `json:"label"`
	Meta            string   `json:"meta"`
	Column          int      `json:"column"`
	ColumnCreated   bool     `json:"column_created"`
	Entries         []Entry  `json:"entries"`
	Unrecognized    []string `json:"unrecognized"`
	Unrevisioned    []string `json:"unrevisioned"`
}

// Count returns the number of entries with action a.
func (r *Report) Count(a Action) int {
	n := 0
	for _, e := range r.Entries {
		if e.Action == a {
			n++
		}
	}
	return n
}

// Revisions maps each drawing to the revision written.
func (r *Report) Revisions() map[string]string {
	out := make(map[string]string, len(r.Entries))
	for _, e := range r.Entries {
		out[e.BaseName] = e.Revision
	}
	return out
}
