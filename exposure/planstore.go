package exposure

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// PlanStore persists one consolidated plan JSON document per participant.
// Save is last-writer-wins; there is no merging, versioning, or locking.
// The on-disk file is the durable source of truth and the recovery path
// after a session is abandoned mid-flow.
type PlanStore struct {
	dir string
}

func NewPlanStore(dir string) *PlanStore {
	return &PlanStore{dir: dir}
}

// Save overwrites the participant's stored plan atomically.
func (s *PlanStore) Save(participantID string, plan Plan) error {
	path, err := s.planPath(participantID)
	if err != nil {
		return fmt.Errorf("PlanStore.Save: %w", err)
	}
	if len(plan.Scenarios) == 0 {
		return errors.New("PlanStore.Save: plan has no scenarios")
	}

	b, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("PlanStore.Save: marshal: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("PlanStore.Save: mkdir plan dir: %w", err)
	}
	if err := writeFileAtomic(s.dir, path, b, 0o644); err != nil {
		return fmt.Errorf("PlanStore.Save: write: %w", err)
	}
	return nil
}

// Load returns the participant's stored plan, or nil when none has been
// saved. A missing file is not an error. A stored plan with an empty
// scenario list counts as "no plan".
func (s *PlanStore) Load(participantID string) (*Plan, error) {
	path, err := s.planPath(participantID)
	if err != nil {
		return nil, fmt.Errorf("PlanStore.Load: %w", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("PlanStore.Load: read file: %w", err)
	}
	var p Plan
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("PlanStore.Load: unmarshal: %w", err)
	}
	if len(p.Scenarios) == 0 {
		return nil, nil
	}
	return &p, nil
}

func (s *PlanStore) planPath(participantID string) (string, error) {
	id := strings.TrimSpace(participantID)
	if id == "" {
		return "", errors.New("participant id is empty")
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("participant id is not a valid file name: %q", id)
	}
	return filepath.Join(s.dir, id+".json"), nil
}

// writeFileAtomic writes via a temp file in the same directory followed by a
// rename, so readers never observe a partially written document.
func writeFileAtomic(tmpDir, finalPath string, data []byte, mode fs.FileMode) error {
	tmp, err := os.CreateTemp(tmpDir, ".plan_*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if _, err := tmp.Write([]byte("\n")); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, finalPath)
}
