// Package legacy performs the one-time transition from the old unencrypted
// JSON configuration to the encrypted store.
//
// The migration is destructive by design: legacy plaintext files are deleted,
// not imported, and users re-enter their server credentials afterwards. A
// durable marker file next to the database records completion and makes
// every later run a no-op.
package legacy

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/akarpov87/vsnap/internal/common"
	"github.com/akarpov87/vsnap/internal/filex"
	"github.com/akarpov87/vsnap/internal/logging"
)

// MarkerFileName is created inside the data directory once migration ran.
const MarkerFileName = ".migration_v2_complete"

// oldKeyringServices are vault service names used by earlier releases. The
// vault offers no way to enumerate keys, so entries under these services
// cannot be removed wholesale; listing them here documents the leftover.
var oldKeyringServices = []string{"snapshot_manager"}

// Migrator deletes legacy configuration artifacts and records completion.
type Migrator struct {
	dataDir     string
	legacyPaths []string
	log         logging.Logger
}

// NewMigrator returns a Migrator for the given data directory. The set of
// legacy file locations is fixed; overrides exist for tests only.
func NewMigrator(dataDir string, log logging.Logger) *Migrator {
	if log == nil {
		log = logging.NewNopLogger()
	}
	home, _ := os.UserHomeDir()
	return &Migrator{
		dataDir: dataDir,
		legacyPaths: []string{
			filepath.Join(home, ".vsnap_viewer.json"),
			filepath.Join(home, ".vsnap", "config.json"),
			filepath.Join(home, ".vsnap", "config.json.bak"),
		},
		log: log,
	}
}

// Run executes the migration unless the marker already exists. Individual
// file removals are best-effort; only a failure to write the marker itself
// is an error, since without it the migration would re-run forever.
func (m *Migrator) Run(ctx context.Context) error {
	marker := filepath.Join(m.dataDir, MarkerFileName)
	if filex.Exists(marker) {
		return nil
	}

	m.log.Info(ctx, "starting migration to encrypted configuration")

	m.cleanupLegacyFiles(ctx)
	m.cleanupOldKeyringEntries(ctx)

	if err := m.writeMarker(ctx, marker); err != nil {
		return err
	}

	m.log.Info(ctx, "migration to encrypted configuration complete")
	return nil
}

func (m *Migrator) cleanupLegacyFiles(ctx context.Context) {
	removed := 0
	for _, path := range m.legacyPaths {
		if !filex.Exists(path) {
			continue
		}
		if err := os.Remove(path); err != nil {
			m.log.Warn(ctx, "failed to remove legacy config file", "path", path, "error", err)
			continue
		}
		removed++
		m.log.Info(ctx, "removed legacy config file", "path", path)
	}
	if removed > 0 {
		m.log.Info(ctx, "cleaned up legacy configuration files", "count", removed)
	}
}

func (m *Migrator) cleanupOldKeyringEntries(ctx context.Context) {
	for _, service := range oldKeyringServices {
		// entries can only be deleted per known hostname:username pair,
		// which we no longer have at this point
		m.log.Info(ctx, "legacy vault service left in place", "service", service)
	}
}

func (m *Migrator) writeMarker(ctx context.Context, marker string) error {
	if err := filex.EnsureDir(m.dataDir); err != nil {
		return fmt.Errorf("%w: %v", common.ErrMigration, err)
	}

	content := fmt.Sprintf(
		"Migration to v%s completed at %s\nLegacy configuration files removed - users must re-enter server data\n",
		common.AppVersion, time.Now().Format(time.RFC3339))

	if err := os.WriteFile(marker, []byte(content), 0o600); err != nil {
		m.log.Error(ctx, "failed to create migration marker", "error", err)
		return fmt.Errorf("%w: write marker: %v", common.ErrMigration, err)
	}
	return nil
}
