// Package fixtures loads the demo dataset into the database.
package fixtures

import (
	"bytes"
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dukerupert/siag/internal/model"
	"github.com/dukerupert/siag/internal/store"
)

//go:embed seed.yaml
var seed []byte

// ErrEmpty is returned by Parse for a document with no content.
var ErrEmpty = errors.New("fixture file is empty")

// User is a seeded account. PIN is stored hashed; an empty PIN leaves the
// account unable to log in.
type User struct {
	Name string `yaml:"name"`
	Role string `yaml:"role"`
	PIN  string `yaml:"pin"`
}

// Dataset is the fixture file layout.
type Dataset struct {
	Companies        []model.Company         `yaml:"companies"`
	Users            []User                  `yaml:"users"`
	Cases            []model.Case            `yaml:"cases"`
	Hearings         []model.Hearing         `yaml:"hearings"`
	Deadlines        []model.Deadline        `yaml:"deadlines"`
	Tasks            []model.Task            `yaml:"tasks"`
	EvidenceRequests []model.EvidenceRequest `yaml:"evidence_requests"`
	EvidenceItems    []model.EvidenceItem    `yaml:"evidence_items"`
	Alerts           []model.Alert           `yaml:"alerts"`
	DownloadLogs     []model.DownloadLog     `yaml:"download_logs"`
}

// Snapshot returns the case collections as an indexed snapshot.
func (d *Dataset) Snapshot() *model.Snapshot {
	snap := &model.Snapshot{
		Companies:        d.Companies,
		Cases:            d.Cases,
		Hearings:         d.Hearings,
		Deadlines:        d.Deadlines,
		Tasks:            d.Tasks,
		EvidenceRequests: d.EvidenceRequests,
		EvidenceItems:    d.EvidenceItems,
		Alerts:           d.Alerts,
		DownloadLogs:     d.DownloadLogs,
	}
	snap.Index()
	return snap
}

// Default returns the embedded demo dataset.
func Default() (*Dataset, error) {
	return Parse(seed)
}

// Parse decodes and validates a fixture document. Unknown keys are errors.
func Parse(data []byte) (*Dataset, error) {
	var d Dataset
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	if err := Validate(&d); err != nil {
		return nil, err
	}
	return &d, nil
}

// ReadFile parses the fixture file at path.
func ReadFile(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return Parse(data)
}

// Load writes d into db: the case collections replace whatever is stored,
// users are created when missing and their PINs reset.
func Load(ctx context.Context, db *sql.DB, d *Dataset) error {
	if err := store.NewDatasetStore(db).Replace(ctx, d.Snapshot()); err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	users := store.NewUserStore(db)
	for _, fu := range d.Users {
		u, err := users.GetByName(fu.Name)
		if err != nil {
			return fmt.Errorf("load user %s: %w", fu.Name, err)
		}
		if u == nil {
			if u, err = users.Create(fu.Name, fu.Role); err != nil {
				return fmt.Errorf("load user %s: %w", fu.Name, err)
			}
		}
		if fu.PIN == "" {
			continue
		}
		if err := users.SetPIN(u.ID, fu.PIN); err != nil {
			return fmt.Errorf("load user %s: %w", fu.Name, err)
		}
	}
	return nil
}

// LoadDefault seeds db with the embedded dataset.
func LoadDefault(ctx context.Context, db *sql.DB) error {
	d, err := Default()
	if err != nil {
		return err
	}
	return Load(ctx, db, d)
}
