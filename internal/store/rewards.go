package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

var rewardsHeader = []string{"RewardType", "Quantity", "DateAdded"}

// RewardEntry is one row of the append-only reward log.
type RewardEntry struct {
	RewardType string
	Quantity   int
	DateAdded  time.Time
}

// AppendReward appends one entry to the reward log, writing the header first
// when the file is new or empty.
func (s *Store) AppendReward(entry RewardEntry) error {
	if err := s.appendReward(entry); err != nil {
		logFailure("append_reward", s.rewardsPath, err)
		return fmt.Errorf("failed to append reward: %w", err)
	}
	return nil
}

func (s *Store) appendReward(entry RewardEntry) error {
	f, err := os.OpenFile(s.rewardsPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return err
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(rewardsHeader); err != nil {
			f.Close()
			return err
		}
	}
	if err := w.Write([]string{
		entry.RewardType,
		strconv.Itoa(entry.Quantity),
		entry.DateAdded.UTC().Format(time.RFC3339),
	}); err != nil {
		f.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadRewards returns the reward log in file order.
func (s *Store) LoadRewards() []RewardEntry {
	rows, err := readRows(s.rewardsPath, rewardsHeader)
	if err != nil {
		logFailure("load_rewards", s.rewardsPath, err)
		return nil
	}

	entries := make([]RewardEntry, 0, len(rows))
	for n, row := range rows {
		entry, err := parseRewardRow(row)
		if err != nil {
			log.WithError(err).WithFields(log.Fields{
				"path": s.rewardsPath,
				"row":  n + 2,
			}).Warn("Skipping malformed reward row")
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

func parseRewardRow(row []string) (RewardEntry, error) {
	if len(row) != 3 {
		return RewardEntry{}, fmt.Errorf("expected 3 columns, got %d", len(row))
	}
	qty, err := strconv.Atoi(strings.TrimSpace(row[1]))
	if err != nil {
		return RewardEntry{}, fmt.Errorf("bad quantity %q: %w", row[1], err)
	}
	added, err := parseTimestamp(strings.TrimSpace(row[2]))
	if err != nil {
		return RewardEntry{}, err
	}
	return RewardEntry{
		RewardType: row[0],
		Quantity:   qty,
		DateAdded:  added,
	}, nil
}

// parseTimestamp accepts RFC 3339 as written by AppendReward, and the
// space-separated ISO form older logs may contain.
func parseTimestamp(v string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999Z07:00", "2006-01-02 15:04:05.999999999"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("bad timestamp %q", v)
}
