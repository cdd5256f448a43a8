package storage

import (
	"io"
	"os"

	"github.com/klauspost/compress/gzip"

	"clindb/internal/apperr"
)

// Backup writes a gzip-compressed copy of the database file to dst.
// The WAL is checkpointed first so the copy is a complete, standalone
// database. Concurrent writers are blocked for the duration of the copy
// only by SQLite's own locking; callers wanting a quiet backup should run
// it outside business hours.
func (db *DB) Backup(dst io.Writer) error {
	if _, err := db.conn.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return classify("checkpoint database", err)
	}

	src, err := os.Open(db.path)
	if err != nil {
		return apperr.Wrap(apperr.StorageError, "open database file for backup", err)
	}
	defer src.Close()

	zw := gzip.NewWriter(dst)
	if _, err := io.Copy(zw, src); err != nil {
		zw.Close()
		return apperr.Wrap(apperr.StorageError, "copy database file", err)
	}
	if err := zw.Close(); err != nil {
		return apperr.Wrap(apperr.StorageError, "flush backup stream", err)
	}

	db.logger.Info("database backup written", "source", db.path)
	return nil
}
