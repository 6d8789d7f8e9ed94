package revision

import (
	"github.com/roach88/revmatrix/internal/fsutil"
	"github.com/roach88/revmatrix/internal/ident"
)

// Plan is the set of decisions for one folder, before anything moves.
type Plan struct {
	Folder       string          `json:"folder"`
	Scanned      int             `json:"scanned"`
	Groups       []ResolvedGroup `json:"groups"`
	Unrecognized []string        `json:"unrecognized"`
}

// PlanFolder lists the files in folder, identifies those that pass filter,
// and resolves every group. When nothing is identified it returns the plan,
// so the unrecognized names can still be reported, with ErrNoRecognizedFiles.
func PlanFolder(folder string, m *ident.Matcher, filter ident.Filter) (*Plan, error) {
	names, err := fsutil.ListFiles(folder)
	if err != nil {
		return nil, err
	}

	ids, unrecognized := m.Classify(names, filter)
	if unrecognized == nil {
		unrecognized = []string{}
	}
	plan := &Plan{
		Folder:       folder,
		Scanned:      len(names),
		Groups:       Group(ids),
		Unrecognized: unrecognized,
	}
	if len(plan.Groups) == 0 {
		return plan, ErrNoRecognizedFiles
	}
	return plan, nil
}
