package cohort

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/amedeedaboville/gix-of-theseus/internal/engineerr"
)

// WriteFile serializes t as indented JSON to path, via a temporary file in
// the same directory followed by an atomic rename, so a crash or error
// mid-write never leaves a partial cohorts.json behind (spec.md §7: "No
// partial cohorts.json is ever written (atomic rename from a temporary
// file)").
func WriteFile(t *Table, path string) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return engineerr.WrapIOError(err)
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".cohorts-*.json.tmp")
	if err != nil {
		return engineerr.WrapIOError(err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return engineerr.WrapIOError(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return engineerr.WrapIOError(err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return engineerr.WrapIOError(err)
	}
	return nil
}
