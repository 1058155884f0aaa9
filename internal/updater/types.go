package updater

import (
	"context"
	"time"
)

// State is the current phase of the update process.
type State string

const (
	StateIdle        State = "idle"
	StateChecking    State = "checking"
	StateAvailable   State = "available"
	StateDownloading State = "downloading"
	StateApplying    State = "applying"
	StateError       State = "error"
	StateRolledBack  State = "rolled_back"
)

// Service checks for, applies and rolls back binary updates.
type Service interface {
	// CheckForUpdate queries the release source without downloading.
	CheckForUpdate(ctx context.Context) (*UpdateInfo, error)

	// ApplyUpdate downloads the latest release and replaces the
	// running binary, backing up the current one first.
	ApplyUpdate(ctx context.Context) error

	// Rollback restores the backed up binary.
	Rollback(ctx context.Context) error

	// GetStatus returns the current update state and version info.
	GetStatus(ctx context.Context) *Status

	// IsEnabled reports whether updates can be applied. False when
	// the binary location is not writable.
	IsEnabled() bool

	// DisabledReason returns why the service is disabled, empty if enabled.
	DisabledReason() string
}

// UpdateInfo describes the latest known release relative to the
// running version.
type UpdateInfo struct {
	CurrentVersion  string    `json:"current_version"`
	LatestVersion   string    `json:"latest_version"`
	ReleaseNotes    string    `json:"release_notes"`
	ReleaseURL      string    `json:"release_url"`
	PublishedAt     time.Time `json:"published_at"`
	AssetSize       int       `json:"asset_size"`
	UpdateAvailable bool      `json:"update_available"`
}

// Status is a snapshot of the updater state machine.
type Status struct {
	State           State      `json:"state"`
	CurrentVersion  string     `json:"current_version"`
	TargetVersion   string     `json:"target_version,omitempty"`
	Progress        int        `json:"progress,omitempty"`
	Error           string     `json:"error,omitempty"`
	LastChecked     *time.Time `json:"last_checked,omitempty"`
	BackupAvailable bool       `json:"backup_available"`
	BackupVersion   string     `json:"backup_version,omitempty"`
}

// Options configures the updater service.
type Options struct {
	Repository string // GitHub repo slug, e.g. "srtcast/srtcast"
	Prerelease bool
}
