// Package snapshot persists cache mappings as whole-file images on disk.
//
// Writes follow a backup-then-write scheme: the previous snapshot is
// renamed to the backup path before the new file is written, so the prior
// snapshot survives if the process dies mid-write. This is deliberately
// not an atomic replace; a crash between the rename and the write leaves
// only the backup file, which can be restored manually.
package snapshot

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
)

// BackupSuffix is appended to a snapshot path when the previous file is
// rotated away before a write.
const BackupSuffix = "~"

// Exists reports whether a snapshot file is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Save serializes data to path. An existing file at path is first renamed
// to path+BackupSuffix, overwriting any older backup.
func Save(path string, data any) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot directory: %w", err)
		}
	}

	if Exists(path) {
		if err := os.Rename(path, path+BackupSuffix); err != nil {
			return fmt.Errorf("rotate snapshot backup: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}

	if err := gob.NewEncoder(f).Encode(data); err != nil {
		f.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return f.Close()
}

// Load deserializes the snapshot at path into out, which must be a
// pointer to the same type that was saved.
func Load(path string, out any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open snapshot file: %w", err)
	}
	defer f.Close()

	if err := gob.NewDecoder(f).Decode(out); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	return nil
}
