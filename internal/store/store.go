// Package store reads and writes the bot's flat CSV record files.
//
// The store keeps no state of its own. Loads that fail are logged and
// produce empty results so the bot keeps running without its files.
package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/susu3304/creditbot/internal/metrics"
)

type Store struct {
	balancesPath string
	ignoredPath  string
	rewardsPath  string
}

func New(balancesPath, ignoredPath, rewardsPath string) *Store {
	return &Store{
		balancesPath: balancesPath,
		ignoredPath:  ignoredPath,
		rewardsPath:  rewardsPath,
	}
}

// readRows returns the data rows of a CSV file with the header stripped.
// A missing file yields no rows and no error.
func readRows(path string, header []string) ([][]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	if !sameHeader(rows[0], header) {
		return nil, fmt.Errorf("unexpected header in %s: %v", path, rows[0])
	}
	return rows[1:], nil
}

// writeRows replaces path with header and rows via a temp file in the same
// directory, so readers never observe a half-written file.
func writeRows(path string, header []string, rows [][]string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func sameHeader(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if strings.TrimSpace(got[i]) != want[i] {
			return false
		}
	}
	return true
}

func logFailure(op, path string, err error) {
	metrics.PersistenceErrors.WithLabelValues(op).Inc()
	log.WithError(err).WithFields(log.Fields{
		"op":   op,
		"path": path,
	}).Error("record store operation failed")
}
