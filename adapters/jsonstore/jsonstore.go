// Package jsonstore provides whole-document JSON store adapters.
// Each store is a single file read in full, mutated in memory, and
// written back in full under an in-process mutex. A document that
// fails to decode is quarantined with a timestamped suffix and
// replaced by a freshly seeded default; corruption never surfaces to
// callers.
package jsonstore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// readDocument loads the JSON document at path into v. A missing file
// is created from seed. A corrupt file is renamed aside and replaced
// by seed; the decode error is logged, not returned.
func readDocument(path string, v any, seed any, now time.Time, logger zerolog.Logger) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return seedDocument(path, v, seed)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if err := json.Unmarshal(data, v); err == nil {
		return nil
	}

	quarantine(path, now, logger)
	return seedDocument(path, v, seed)
}

// writeDocument writes v to path, creating parent directories.
func writeDocument(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func seedDocument(path string, v any, seed any) error {
	if err := writeDocument(path, seed); err != nil {
		return err
	}

	// Round-trip through JSON so v ends up with exactly the seeded state.
	data, err := json.Marshal(seed)
	if err != nil {
		return fmt.Errorf("encode seed: %w", err)
	}
	return json.Unmarshal(data, v)
}

// quarantine preserves a corrupt document under a timestamped backup
// suffix instead of deleting it.
func quarantine(path string, now time.Time, logger zerolog.Logger) {
	backup := fmt.Sprintf("%s.%d.corrupt", path, now.Unix())
	if err := os.Rename(path, backup); err != nil {
		logger.Error().Err(err).Str("path", path).Msg("failed to quarantine corrupt store")
		return
	}
	logger.Warn().
		Str("path", path).
		Str("backup", backup).
		Msg("store corrupt, quarantined and reseeded")
}
