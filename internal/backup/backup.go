// Package backup writes and restores full-state snapshots. Snapshots are
// JSON documents, optionally sealed with a passphrase; a cron schedule can
// produce them automatically.
package backup

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/wrenfield/perch/internal/store"
)

// File extensions for plain and encrypted snapshots.
const (
	extPlain     = ".json"
	extEncrypted = ".perch"
)

// Config holds backup manager configuration. Schedule is a cron expression;
// empty disables automatic snapshots. An empty Passphrase writes plain JSON.
type Config struct {
	Dir        string
	Schedule   string
	Passphrase string
}

// Manager produces and restores snapshots of the store state.
type Manager struct {
	mu     sync.Mutex
	cfg    Config
	store  *store.Store
	cron   *cron.Cron
	logger *slog.Logger

	lastBackup time.Time
	now        func() time.Time
}

func NewManager(cfg Config, st *store.Store, logger *slog.Logger) *Manager {
	return &Manager{
		cfg:    cfg,
		store:  st,
		logger: logger,
		now:    time.Now,
	}
}

// Start registers the cron schedule, if any. Returns an error for a
// malformed expression.
func (m *Manager) Start() error {
	if m.cfg.Schedule == "" {
		return nil
	}

	m.cron = cron.New()
	_, err := m.cron.AddFunc(m.cfg.Schedule, func() {
		if _, err := m.Export(m.cfg.Passphrase); err != nil {
			m.logger.Error("scheduled snapshot failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("backup schedule %q: %w", m.cfg.Schedule, err)
	}
	m.cron.Start()
	m.logger.Info("automatic snapshots enabled", "schedule", m.cfg.Schedule)
	return nil
}

// Stop halts the cron scheduler and waits for a running job to finish.
func (m *Manager) Stop() {
	if m.cron != nil {
		<-m.cron.Stop().Done()
	}
}

// LastBackup returns when the most recent snapshot was written, zero if none.
func (m *Manager) LastBackup() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastBackup
}

// Export writes a snapshot of the current state into the backup directory
// and returns the file path. With a passphrase the file is encrypted.
func (m *Manager) Export(passphrase string) (string, error) {
	snap := m.store.Snapshot()
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	ext := extPlain
	if passphrase != "" {
		data, err = Encrypt(data, passphrase)
		if err != nil {
			return "", err
		}
		ext = extEncrypted
	}

	if err := os.MkdirAll(m.cfg.Dir, 0o700); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	name := fmt.Sprintf("perch-%s%s", m.now().UTC().Format("20060102-150405"), ext)
	path := filepath.Join(m.cfg.Dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	m.mu.Lock()
	m.lastBackup = m.now()
	m.mu.Unlock()

	m.logger.Info("snapshot written", "path", path, "encrypted", ext == extEncrypted)
	return path, nil
}

// Import reads a snapshot file and replaces the store state with it.
// Encrypted snapshots require the passphrase they were written with.
func (m *Manager) Import(path, passphrase string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	if strings.HasSuffix(path, extEncrypted) {
		data, err = Decrypt(data, passphrase)
		if err != nil {
			return err
		}
	}

	var snap store.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("parse snapshot: %w", err)
	}

	if err := m.store.Restore(snap); err != nil {
		return fmt.Errorf("restore snapshot: %w", err)
	}
	m.logger.Info("snapshot restored", "path", path)
	return nil
}

// List returns the snapshot files in the backup directory, newest-named
// last. A missing directory yields an empty list.
func (m *Manager) List() ([]string, error) {
	entries, err := os.ReadDir(m.cfg.Dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read backup dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), extPlain) || strings.HasSuffix(e.Name(), extEncrypted) {
			files = append(files, filepath.Join(m.cfg.Dir, e.Name()))
		}
	}
	return files, nil
}
