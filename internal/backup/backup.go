package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/hybridmaster/internal/constants"
	"github.com/julianstephens/hybridmaster/internal/logger"
)

const timestampFormat = "20060102-150405"

var ErrInvalidBackup = errors.New("not a hybridmaster backup")

// Source is the data a backup snapshots and a restore replaces
type Source interface {
	ExportAll() map[string]string
	ImportAll(data map[string]string) bool
	Clear() bool
}

// Snapshot is the on-disk format of a backup
type Snapshot struct {
	App       string            `json:"app"`
	Version   string            `json:"version"`
	CreatedAt time.Time         `json:"created_at"`
	Data      map[string]string `json:"data"`
}

// Info contains information about a backup file
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64

	seq int // collision counter within the same second
}

func (i Info) Name() string {
	return filepath.Base(i.Path)
}

func (i Info) HumanSize() string {
	return humanize.Bytes(uint64(i.Size))
}

func (i Info) Age() string {
	return humanize.Time(i.Timestamp)
}

// Manager handles backup operations
type Manager struct {
	dir    string
	source Source
	now    func() time.Time
}

// NewManager keeps backups of source under <configDir>/backups
func NewManager(configDir string, source Source) *Manager {
	return &Manager{
		dir:    filepath.Join(configDir, constants.BackupDirName),
		source: source,
		now:    time.Now,
	}
}

// Dir returns the backup directory path
func (m *Manager) Dir() string {
	return m.dir
}

// Create writes a snapshot of every stored key and rotates old backups
func (m *Manager) Create() (string, error) {
	return m.create(false)
}

// create writes a new snapshot. skipRotation keeps the safety backup made
// during a restore from evicting older ones.
func (m *Manager) create(skipRotation bool) (string, error) {
	if err := os.MkdirAll(m.dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	now := m.now()
	path, err := m.uniquePath(now)
	if err != nil {
		return "", err
	}

	snap := m.snapshot(now)
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode backup: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	logger.Info("backup created", "path", path, "keys", len(snap.Data))

	if !skipRotation {
		if err := m.rotate(); err != nil {
			logger.Warn("failed to rotate old backups", "error", err)
		}
	}
	return path, nil
}

func (m *Manager) snapshot(now time.Time) Snapshot {
	return Snapshot{
		App:       constants.AppName,
		Version:   constants.Version,
		CreatedAt: now.UTC(),
		Data:      m.source.ExportAll(),
	}
}

// Export writes a snapshot of every stored key to w in the backup format
func (m *Manager) Export(w io.Writer) (int, error) {
	snap := m.snapshot(m.now())
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return 0, fmt.Errorf("failed to encode export: %w", err)
	}
	return len(snap.Data), nil
}

func (m *Manager) uniquePath(now time.Time) (string, error) {
	stamp := now.Local().Format(timestampFormat)
	path := filepath.Join(m.dir, constants.BackupFilePrefix+stamp+constants.BackupFileSuffix)
	for counter := 1; fileExists(path); counter++ {
		if counter > 100 {
			return "", errors.New("failed to generate unique backup filename")
		}
		path = filepath.Join(m.dir, fmt.Sprintf("%s%s-%d%s", constants.BackupFilePrefix, stamp, counter, constants.BackupFileSuffix))
	}
	return path, nil
}

// List returns every backup, newest first
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.dir)
	if errors.Is(err, os.ErrNotExist) {
		return []Info{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []Info{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ts, seq, ok := parseName(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Path:      filepath.Join(m.dir, entry.Name()),
			Timestamp: ts,
			Size:      info.Size(),
			seq:       seq,
		})
	}

	sort.SliceStable(backups, func(i, j int) bool {
		if backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].seq > backups[j].seq
		}
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

// parseName extracts the timestamp of prefix-YYYYMMDD-HHMMSS[-N].json
func parseName(name string) (time.Time, int, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
		return time.Time{}, 0, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)

	seq := 0
	if len(stamp) > len(timestampFormat) {
		n, err := strconv.Atoi(strings.TrimPrefix(stamp[len(timestampFormat):], "-"))
		if err != nil {
			return time.Time{}, 0, false
		}
		stamp, seq = stamp[:len(timestampFormat)], n
	}
	ts, err := time.ParseInLocation(timestampFormat, stamp, time.Local)
	if err != nil {
		return time.Time{}, 0, false
	}
	return ts, seq, true
}

// rotate removes backups beyond the retention limit
func (m *Manager) rotate() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	for i := constants.MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// Resolve maps a bare backup filename to a path in the backup directory
func (m *Manager) Resolve(name string) string {
	if filepath.IsAbs(name) || fileExists(name) {
		return name
	}
	if candidate := filepath.Join(m.dir, name); fileExists(candidate) {
		return candidate
	}
	return name
}

// Read loads and validates a backup file
func Read(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read backup: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	if snap.App != constants.AppName || snap.Data == nil {
		return Snapshot{}, ErrInvalidBackup
	}
	return snap, nil
}

// Restore replaces the stored data with a backup. The current data is saved
// first and the path of that safety backup is returned.
func (m *Manager) Restore(path string) (string, error) {
	snap, err := Read(path)
	if err != nil {
		return "", err
	}

	safety, err := m.create(true)
	if err != nil {
		return "", fmt.Errorf("failed to back up current data before restore: %w", err)
	}

	if !m.source.Clear() {
		return safety, errors.New("failed to clear current data")
	}
	if !m.source.ImportAll(snap.Data) {
		return safety, fmt.Errorf("failed to import backup, current data saved in %s", filepath.Base(safety))
	}
	logger.Info("backup restored", "path", path, "keys", len(snap.Data))
	return safety, nil
}

// AutoBackup creates a backup unless one was already made today
func (m *Manager) AutoBackup() (string, bool, error) {
	backups, err := m.List()
	if err != nil {
		return "", false, err
	}
	now := m.now()
	if len(backups) > 0 && sameDay(backups[0].Timestamp, now) {
		return backups[0].Path, false, nil
	}
	path, err := m.Create()
	if err != nil {
		return "", false, err
	}
	return path, true, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
