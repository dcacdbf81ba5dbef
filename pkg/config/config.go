// Package config persists GPSDO settings as JSON backup files and restores
// them onto a settings instance.
package config

import (
	"fmt"
	"time"

	"github.com/lbtools/gpsdoctl/pkg/gpsdo"
)

// DeviceConfig is the backup file content: the fully-defined settings
// snapshot plus metadata identifying where and when it was taken.
type DeviceConfig struct {
	Serial    string       `json:"serial,omitempty"`
	Product   string       `json:"product,omitempty"`
	Timestamp time.Time    `json:"timestamp,omitzero"`
	Settings  gpsdo.Backup `json:"settings"`
}

// FromSettings snapshots a settings instance into a backup. It fails when
// the settings are incomplete or the frequency plan is invalid; with
// ignoreFreqLimits set, out-of-range frequencies are tolerated (backing up a
// partially misconfigured device is permitted, writing it back is not).
func FromSettings(s *gpsdo.Settings, serial, product string, ignoreFreqLimits bool) (*DeviceConfig, error) {
	snapshot, err := s.Snapshot(ignoreFreqLimits)
	if err != nil {
		return nil, err
	}

	return &DeviceConfig{
		Serial:    serial,
		Product:   product,
		Timestamp: time.Now(),
		Settings:  *snapshot,
	}, nil
}

// Restore applies the backed-up settings to a settings instance through the
// validated update path.
func (c *DeviceConfig) Restore(s *gpsdo.Settings) error {
	if err := s.Update(c.Settings.Partial()); err != nil {
		return fmt.Errorf("backup contains invalid settings: %w", err)
	}
	return nil
}
