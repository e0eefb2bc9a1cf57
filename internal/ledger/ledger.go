package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/slurmsweep/internal/errors"
	"github.com/felixgeelhaar/slurmsweep/internal/sbatch"
)

// Record status values
const (
	StatusPending   = "pending"
	StatusSubmitted = "submitted"
	StatusFailed    = "failed"
	StatusDryRun    = "dry-run"
)

const recordVersion = "1.0"

// Record is the ledger entry of one sweep submission
type Record struct {
	Version     string            `json:"version" yaml:"version"`
	ID          string            `json:"id" yaml:"id"`
	CreatedAt   time.Time         `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at" yaml:"updated_at"`
	Status      string            `json:"status" yaml:"status"`
	ParamFile   string            `json:"param_file" yaml:"param_file"`
	Fingerprint string            `json:"fingerprint" yaml:"fingerprint"`
	Count       int64             `json:"count" yaml:"count"`
	Array       string            `json:"array" yaml:"array"`
	Command     string            `json:"command" yaml:"command"`
	Setup       string            `json:"setup,omitempty" yaml:"setup,omitempty"`
	Directives  sbatch.Directives `json:"directives,omitempty" yaml:"directives,omitempty"`
	ScriptPath  string            `json:"script_path" yaml:"script_path"`
	JobID       string            `json:"job_id,omitempty" yaml:"job_id,omitempty"`
	ResumedFrom string            `json:"resumed_from,omitempty" yaml:"resumed_from,omitempty"`
	Error       string            `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewRecord creates a pending record with a fresh ID
func NewRecord() *Record {
	now := time.Now().UTC()
	return &Record{
		Version:   recordVersion,
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		Status:    StatusPending,
	}
}

// MarkSubmitted records a successful submission
func (r *Record) MarkSubmitted(jobID string) {
	r.Status = StatusSubmitted
	r.JobID = jobID
	r.Error = ""
}

// MarkFailed records a failed submission
func (r *Record) MarkFailed(err error) {
	r.Status = StatusFailed
	if err != nil {
		r.Error = err.Error()
	}
}

// VerifyFingerprint fails with a drift error when the parameter space that
// is about to be submitted differs from the recorded one.
func (r *Record) VerifyFingerprint(current string) error {
	if current != r.Fingerprint {
		return errors.NewSpaceChangedError(r.ParamFile, r.Fingerprint, current)
	}
	return nil
}

// Store persists records as JSON files, one per submission
type Store struct {
	dir string
}

// NewStore creates a store below stateDir
func NewStore(stateDir string) *Store {
	return &Store{dir: filepath.Join(stateDir, "submissions")}
}

// Dir returns the directory holding the records
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s.json", id))
}

// Save writes the record to disk
func (s *Store) Save(r *Record) error {
	if r == nil {
		return fmt.Errorf("ledger record is nil")
	}

	r.UpdatedAt = time.Now().UTC()

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeDirectoryFailed, fmt.Sprintf("create ledger directory %s", s.dir), err)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal ledger record: %w", err)
	}

	if err := os.WriteFile(s.path(r.ID), data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, fmt.Sprintf("write ledger record %s", r.ID), err)
	}

	return nil
}

// Load reads a record by ID. A unique ID prefix is accepted.
func (s *Store) Load(id string) (*Record, error) {
	full, err := s.resolveID(id)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(full))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewSubmissionNotFoundError(id)
		}
		return nil, errors.Wrap(errors.ErrCodeFileReadFailed, fmt.Sprintf("read ledger record %s", full), err)
	}

	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, errors.NewFileUnmarshalError(s.path(full), "JSON", err)
	}

	return &r, nil
}

// List returns every record, newest first.
func (s *Store) List() ([]*Record, error) {
	ids, err := s.ids()
	if err != nil {
		return nil, err
	}

	records := make([]*Record, 0, len(ids))
	for _, id := range ids {
		r, err := s.Load(id)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	return records, nil
}

func (s *Store) ids() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, errors.Wrap(errors.ErrCodeFileReadFailed, fmt.Sprintf("read ledger directory %s", s.dir), err)
	}

	var ids []string
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			ids = append(ids, strings.TrimSuffix(entry.Name(), ".json"))
		}
	}
	return ids, nil
}

func (s *Store) resolveID(id string) (string, error) {
	if id == "" {
		return "", errors.NewSubmissionNotFoundError(id)
	}

	ids, err := s.ids()
	if err != nil {
		return "", err
	}

	var matches []string
	for _, candidate := range ids {
		if candidate == id {
			return id, nil
		}
		if strings.HasPrefix(candidate, id) {
			matches = append(matches, candidate)
		}
	}

	switch len(matches) {
	case 0:
		return "", errors.NewSubmissionNotFoundError(id)
	case 1:
		return matches[0], nil
	default:
		return "", errors.NewSubmissionNotFoundError(id).
			WithSuggestion(fmt.Sprintf("ID prefix %q is ambiguous; it matches %d submissions", id, len(matches)))
	}
}
