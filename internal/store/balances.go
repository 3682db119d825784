package store

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

var balancesHeader = []string{"UserId", "ReactionCount"}

// LoadBalances reads the balances file. Missing or unreadable files give an
// empty map; malformed rows are skipped.
func (s *Store) LoadBalances() map[uint64]int {
	balances := make(map[uint64]int)

	rows, err := readRows(s.balancesPath, balancesHeader)
	if err != nil {
		logFailure("load_balances", s.balancesPath, err)
		return balances
	}

	for n, row := range rows {
		userID, count, err := parseBalanceRow(row)
		if err != nil {
			log.WithError(err).WithFields(log.Fields{
				"path": s.balancesPath,
				"row":  n + 2,
			}).Warn("Skipping malformed balance row")
			continue
		}
		balances[userID] = count
	}
	return balances
}

// SaveBalances rewrites the balances file from m, ordered by user ID.
func (s *Store) SaveBalances(m map[uint64]int) error {
	ids := make([]uint64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, []string{
			strconv.FormatUint(id, 10),
			strconv.Itoa(m[id]),
		})
	}

	if err := writeRows(s.balancesPath, balancesHeader, rows); err != nil {
		logFailure("save_balances", s.balancesPath, err)
		return fmt.Errorf("failed to save balances: %w", err)
	}
	return nil
}

func parseBalanceRow(row []string) (uint64, int, error) {
	if len(row) != 2 {
		return 0, 0, fmt.Errorf("expected 2 columns, got %d", len(row))
	}
	userID, err := strconv.ParseUint(strings.TrimSpace(row[0]), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad user id %q: %w", row[0], err)
	}
	count, err := strconv.Atoi(strings.TrimSpace(row[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("bad reaction count %q: %w", row[1], err)
	}
	if count < 0 {
		return 0, 0, fmt.Errorf("negative reaction count %d", count)
	}
	return userID, count, nil
}
