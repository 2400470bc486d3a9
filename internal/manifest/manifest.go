// Package manifest owns the persisted cross-retailer manifest consumed by
// the dashboard. The manifest is loaded once at the start of a run, updated
// per retailer, and rewritten once at the end; entries for retailers not
// touched by the run are carried over verbatim, so one retailer's failure
// never discards another's last successful entry.
package manifest

import (
	"encoding/json"
	"os"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/retail-etl/internal/model"
)

// Store wraps the manifest file at a fixed path.
type Store struct {
	path string
	m    *model.Manifest
}

// Load reads the manifest at path. A missing file yields a fresh, empty
// manifest; a corrupt file is an error (the caller decides whether that is
// fatal for the run).
func Load(path string) (*Store, error) {
	s := &Store{path: path, m: model.NewManifest()}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, eris.Wrapf(err, "manifest: read %s", path)
	}

	if err := json.Unmarshal(data, s.m); err != nil {
		return nil, eris.Wrapf(err, "manifest: unmarshal %s", path)
	}
	if s.m.Retailers == nil {
		s.m.Retailers = make(map[string]model.ManifestEntry)
	}
	return s, nil
}

// Record sets or replaces one retailer's entry.
func (s *Store) Record(key string, e model.ManifestEntry) {
	s.m.Retailers[key] = e
}

// Entry returns the current entry for a retailer.
func (s *Store) Entry(key string) (model.ManifestEntry, bool) {
	e, ok := s.m.Retailers[key]
	return e, ok
}

// Manifest exposes the underlying manifest for display commands.
func (s *Store) Manifest() *model.Manifest {
	return s.m
}

// Write stamps the generation time and rewrites the manifest file.
func (s *Store) Write(now time.Time) error {
	s.m.GeneratedAt = now.Format("2006-01-02T15:04:05")

	data, err := json.MarshalIndent(s.m, "", "  ")
	if err != nil {
		return eris.Wrap(err, "manifest: marshal")
	}
	if err := os.WriteFile(s.path, append(data, '\n'), 0o644); err != nil {
		return eris.Wrapf(err, "manifest: write %s", s.path)
	}
	return nil
}
