package stores

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/hay-kot/tsreview/internal/core/history"
	"github.com/hay-kot/tsreview/internal/data/db"
)

var (
	corruptCodes    = []int{sqlite3.SQLITE_CORRUPT, sqlite3.SQLITE_NOTADB, sqlite3.SQLITE_CANTOPEN}
	corruptMessages = []string{"database disk image is malformed", "file is not a database"}
)

// IsCorruptionError reports whether err means the history database file is
// unusable and should be moved aside.
func IsCorruptionError(err error) bool {
	if err == nil {
		return false
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return slices.Contains(corruptCodes, sqliteErr.Code())
	}

	msg := err.Error()
	return slices.ContainsFunc(corruptMessages, func(s string) bool {
		return strings.Contains(msg, s)
	})
}

// notFound maps a missing row to history.ErrNotFound and leaves other errors
// untouched.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return history.ErrNotFound
	}
	return err
}

// RecoverFromCorruption moves the history database and its WAL and SHM files
// aside as <name>.corrupt.<timestamp> so the next open starts fresh. Files
// that cannot be renamed are removed; a stale WAL would otherwise be replayed
// into the new database.
func RecoverFromCorruption(dataDir string) error {
	stamp := time.Now().Format("20060102-150405")

	for _, suffix := range []string{"", "-wal", "-shm"} {
		src := filepath.Join(dataDir, db.FileName+suffix)
		dst := filepath.Join(dataDir, db.FileName+".corrupt."+stamp+suffix)

		err := os.Rename(src, dst)
		if err == nil || errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if rmErr := os.Remove(src); rmErr != nil {
			return fmt.Errorf("move aside %s: %w", filepath.Base(src), err)
		}
	}

	return nil
}
