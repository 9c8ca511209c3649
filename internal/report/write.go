package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dyluth/z32/internal/solver"
)

// Paths names the artifacts a successful Write produced.
type Paths struct {
	JSON string
	CSV  string
}

// rename is swapped in tests to fail a specific move.
var rename = os.Rename

// Write stores the JSON record and the CSV table for res in dir, creating
// dir if needed. Both files are staged under temporary names and only
// renamed into place once both are complete, so a failed write leaves no
// new artifact behind. If the CSV cannot be moved after the JSON has
// replaced the previous one, both result files are removed so the
// directory never holds a mismatched pair.
func Write(dir string, res *solver.Result) (Paths, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Paths{}, fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	paths := Paths{
		JSON: filepath.Join(dir, JSONFile),
		CSV:  filepath.Join(dir, CSVFile),
	}

	jsonTmp, err := stage(dir, JSONFile, func(w io.Writer) error {
		return FormatJSON(w, NewRecord(res))
	})
	if err != nil {
		return Paths{}, err
	}
	csvTmp, err := stage(dir, CSVFile, func(w io.Writer) error {
		return FormatCSV(w, res.Survivors)
	})
	if err != nil {
		os.Remove(jsonTmp)
		return Paths{}, err
	}

	if err := rename(jsonTmp, paths.JSON); err != nil {
		os.Remove(jsonTmp)
		os.Remove(csvTmp)
		return Paths{}, fmt.Errorf("failed to move %s into place: %w", JSONFile, err)
	}
	if err := rename(csvTmp, paths.CSV); err != nil {
		os.Remove(csvTmp)
		os.Remove(paths.JSON)
		os.Remove(paths.CSV)
		return Paths{}, fmt.Errorf("failed to move %s into place: %w", CSVFile, err)
	}
	return paths, nil
}

// stage writes one artifact to a temporary file in dir and returns its path.
func stage(dir, name string, write func(io.Writer) error) (string, error) {
	f, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", name, err)
	}
	tmp := f.Name()

	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to close %s: %w", name, err)
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to set permissions on %s: %w", name, err)
	}
	return tmp, nil
}
