package revision

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/revmatrix/internal/fsutil"
)

// DefaultHoldingFolder is the canonical holding folder name.
const DefaultHoldingFolder = "Superceded"

// HoldingAction records how the holding folder was resolved.
type HoldingAction string

const (
	HoldingExisting HoldingAction = "existing"
	HoldingRenamed  HoldingAction = "renamed"
	HoldingCreated  HoldingAction = "created"
)

// Result is the outcome of Apply.
type Result struct {
	HoldingFolder string        `json:"holding_folder"`
	HoldingAction HoldingAction `json:"holding_action"`
	Moved         []string      `json:"moved"`
	Kept          []string      `json:"kept"`
	Failed        []*MoveError  `json:"-"`
}

// FailedNames returns the filenames of abandoned moves.
func (r *Result) FailedNames() []string {
	names := make([]string, 0, len(r.Failed))
	for _, f := range r.Failed {
		names = append(names, f.Filename)
	}
	return names
}

// ResolveHoldingFolder finds the child of sourceFolder named name, ignoring
// case, and renames it to name if the casing differs. When there is no such
// folder it is created.
func ResolveHoldingFolder(sourceFolder, name string, logger *slog.Logger) (string, HoldingAction, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	canonical := filepath.Join(sourceFolder, name)
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", "", &HoldingFolderError{Path: canonical, Err: errors.New("invalid folder name")}
	}

	found, ok, err := fsutil.FindChildFold(sourceFolder, name, true)
	if err != nil {
		return "", "", &HoldingFolderError{Path: canonical, Err: err}
	}
	if ok {
		if found == name {
			return canonical, HoldingExisting, nil
		}
		if err := os.Rename(filepath.Join(sourceFolder, found), canonical); err != nil {
			return "", "", &HoldingFolderError{Path: canonical, Err: err}
		}
		logger.Info("renamed holding folder", "from", found, "to", name)
		return canonical, HoldingRenamed, nil
	}

	if err := os.Mkdir(canonical, 0o755); err != nil {
		return "", "", &HoldingFolderError{Path: canonical, Err: err}
	}
	logger.Info("created holding folder", "path", canonical)
	return canonical, HoldingCreated, nil
}

// Apply moves every superseded member of groups from sourceFolder into the
// holding folder. A holding folder failure is returned as an error before any
// move; individual move failures are collected in Result.Failed.
func Apply(groups []ResolvedGroup, sourceFolder, holdingName string, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	holding, action, err := ResolveHoldingFolder(sourceFolder, holdingName, logger)
	if err != nil {
		return nil, err
	}

	res := &Result{
		HoldingFolder: holding,
		HoldingAction: action,
		Moved:         []string{},
		Kept:          []string{},
	}
	for _, g := range groups {
		for _, m := range g.Supersede {
			src := filepath.Join(sourceFolder, m.Filename)
			dst := filepath.Join(holding, m.Filename)
			if err := moveFile(src, dst); err != nil {
				err.BaseName = g.BaseName
				err.Filename = m.Filename
				logger.Warn("move failed", "file", m.Filename, "kind", err.Kind, "error", err.Err)
				res.Failed = append(res.Failed, err)
				continue
			}
			logger.Info("moved to holding folder", "file", m.Filename, "base", g.BaseName)
			res.Moved = append(res.Moved, m.Filename)
		}
		logger.Info("keeping", "file", g.Keep.Filename, "base", g.BaseName)
		res.Kept = append(res.Kept, g.Keep.Filename)
	}
	return res, nil
}

// moveFile renames src to dst, refusing to overwrite an existing dst.
func moveFile(src, dst string) *MoveError {
	if _, err := os.Lstat(src); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &MoveError{Kind: MoveMissingSource, Err: err}
		}
		return &MoveError{Kind: MoveFailed, Err: err}
	}
	if _, err := os.Lstat(dst); err == nil {
		return &MoveError{Kind: MoveDestinationExists, Err: fs.ErrExist}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return &MoveError{Kind: MoveFailed, Err: err}
	}
	if err := os.Rename(src, dst); err != nil {
		return &MoveError{Kind: MoveFailed, Err: err}
	}
	return nil
}
