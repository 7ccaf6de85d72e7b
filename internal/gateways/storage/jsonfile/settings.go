package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ellavondegurechaff/asae/internal/domain/tenant"
)

// SettingsStore keeps each tenant's runtime settings in its own JSON file.
type SettingsStore struct {
	dataDir string
}

func NewSettingsStore(dataDir string) *SettingsStore {
	return &SettingsStore{dataDir: dataDir}
}

func (s *SettingsStore) path(t tenant.Tenant) string {
	return filepath.Join(s.dataDir, t.SettingsFile)
}

// Load returns the stored settings with missing keys filled from the defaults.
// A missing file is written with the defaults and reported as created.
func (s *SettingsStore) Load(_ context.Context, t tenant.Tenant) (*tenant.Settings, bool, error) {
	path := s.path(t)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		settings := tenant.DefaultSettings()
		if err := s.write(path, settings); err != nil {
			return nil, false, err
		}
		return settings, true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read settings %s: %w", path, err)
	}

	settings := tenant.DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, false, fmt.Errorf("parse settings %s: %w", path, err)
	}
	if settings.AdminUsers == nil {
		settings.AdminUsers = []uint64{}
	}
	return settings, false, nil
}

func (s *SettingsStore) Save(_ context.Context, t tenant.Tenant, settings *tenant.Settings) error {
	return s.write(s.path(t), settings)
}

func (s *SettingsStore) write(path string, settings *tenant.Settings) error {
	data, err := encode(settings)
	if err != nil {
		return err
	}
	if err := writeAtomic(path, data); err != nil {
		return fmt.Errorf("save settings %s: %w", path, err)
	}
	return nil
}

var _ tenant.SettingsStore = (*SettingsStore)(nil)
