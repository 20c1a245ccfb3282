package backup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitkit/internal/logger"
)

const (
	// MaxBackups is how many snapshots rotation keeps
	MaxBackups = 14
	DirName    = "backups"

	filePrefix = "habitkit-"
	fileSuffix = ".db"
	stampFmt   = "20060102-150405"
)

// Info describes one snapshot on disk
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager snapshots a SQLite habit database into a sibling backups/ directory.
type Manager struct {
	dbPath string
	dir    string
	keep   int
	now    func() time.Time
}

func NewManager(dbPath string) *Manager {
	return &Manager{
		dbPath: dbPath,
		dir:    filepath.Join(filepath.Dir(dbPath), DirName),
		keep:   MaxBackups,
		now:    time.Now,
	}
}

// Dir returns the directory snapshots are written to
func (m *Manager) Dir() string {
	return m.dir
}

// Create writes a new snapshot and rotates old ones.
func (m *Manager) Create(ctx context.Context) (Info, error) {
	info, err := m.snapshot(ctx)
	if err != nil {
		return Info{}, err
	}
	if err := m.rotate(); err != nil {
		logger.Warn("Failed to rotate old backups", "error", err)
	}
	return info, nil
}

func (m *Manager) snapshot(ctx context.Context) (Info, error) {
	if _, err := os.Stat(m.dbPath); err != nil {
		return Info{}, fmt.Errorf("database does not exist: %s", m.dbPath)
	}
	if err := os.MkdirAll(m.dir, 0700); err != nil {
		return Info{}, fmt.Errorf("failed to create backup directory: %w", err)
	}

	path, stamp, err := m.nextPath()
	if err != nil {
		return Info{}, err
	}

	src, err := sql.Open("sqlite", "file:"+m.dbPath+"?mode=ro")
	if err != nil {
		return Info{}, fmt.Errorf("failed to open database: %w", err)
	}
	defer src.Close()

	if err := verify(ctx, src); err != nil {
		return Info{}, fmt.Errorf("database appears to be corrupted: %w", err)
	}
	// VACUUM INTO writes a consistent copy even while other connections are open
	if _, err := src.ExecContext(ctx, "VACUUM INTO ?", path); err != nil {
		return Info{}, fmt.Errorf("failed to back up database: %w", err)
	}

	st, err := os.Stat(path)
	if err != nil {
		return Info{}, err
	}
	logger.Info("Created backup", "path", path, "size", st.Size())
	return Info{Path: path, Timestamp: stamp, Size: st.Size()}, nil
}

// nextPath names the snapshot by the current second, adding a counter on collision.
func (m *Manager) nextPath() (string, time.Time, error) {
	stamp := m.now().Truncate(time.Second)
	base := filePrefix + stamp.Format(stampFmt)
	path := filepath.Join(m.dir, base+fileSuffix)
	for n := 1; ; n++ {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return path, stamp, nil
		}
		if n > 100 {
			return "", time.Time{}, fmt.Errorf("failed to generate unique backup filename")
		}
		path = filepath.Join(m.dir, fmt.Sprintf("%s-%d%s", base, n, fileSuffix))
	}
}

// List returns the snapshots, newest first. Files that do not follow the
// naming scheme are ignored.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []Info
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		stamp, seq, ok := parseName(entry.Name())
		if !ok {
			continue
		}
		st, err := entry.Info()
		if err != nil {
			continue
		}
		// the collision counter orders snapshots taken within one second
		backups = append(backups, Info{
			Path:      filepath.Join(m.dir, entry.Name()),
			Timestamp: stamp.Add(time.Duration(seq)),
			Size:      st.Size(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

// parseName extracts the timestamp and collision counter from a snapshot filename.
func parseName(name string) (time.Time, int, bool) {
	if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
		return time.Time{}, 0, false
	}
	rest := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)
	if len(rest) < len(stampFmt) {
		return time.Time{}, 0, false
	}

	stamp, err := time.ParseInLocation(stampFmt, rest[:len(stampFmt)], time.Local)
	if err != nil {
		return time.Time{}, 0, false
	}
	seq := 0
	if suffix := rest[len(stampFmt):]; suffix != "" {
		n, err := strconv.Atoi(strings.TrimPrefix(suffix, "-"))
		if err != nil || !strings.HasPrefix(suffix, "-") {
			return time.Time{}, 0, false
		}
		seq = n
	}
	return stamp, seq, true
}

func (m *Manager) rotate() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	for _, b := range backups[min(m.keep, len(backups)):] {
		if err := os.Remove(b.Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", b.Path, err)
		}
	}
	return nil
}

// Restore replaces the database with the snapshot at path. The current
// database is snapshotted first, without rotation, and that snapshot is
// returned. The caller must close its own connections beforehand.
func (m *Manager) Restore(ctx context.Context, path string) (Info, error) {
	if _, err := os.Stat(path); err != nil {
		return Info{}, fmt.Errorf("backup file does not exist: %s", path)
	}
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return Info{}, err
	}
	err = verify(ctx, db)
	db.Close()
	if err != nil {
		return Info{}, fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var safety Info
	if _, err := os.Stat(m.dbPath); err == nil {
		if safety, err = m.snapshot(ctx); err != nil {
			return Info{}, fmt.Errorf("failed to back up current database before restore: %w", err)
		}
	}

	tmp := m.dbPath + ".restore.tmp"
	if err := copyFile(path, tmp); err != nil {
		_ = os.Remove(tmp)
		return Info{}, fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tmp, m.dbPath); err != nil {
		_ = os.Remove(tmp)
		return Info{}, fmt.Errorf("failed to restore database: %w", err)
	}

	logger.Info("Restored database", "from", path)
	return safety, nil
}

// verify fails unless db is a readable habitkit database.
func verify(ctx context.Context, db *sql.DB) error {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'habits'`).Scan(&n)
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.New("not a habitkit database")
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
