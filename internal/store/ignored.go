package store

import (
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

var ignoredHeader = []string{"UserId"}

// LoadIgnoredUsers reads the ignore list. A missing file is an empty set.
func (s *Store) LoadIgnoredUsers() map[uint64]struct{} {
	ignored := make(map[uint64]struct{})

	rows, err := readRows(s.ignoredPath, ignoredHeader)
	if err != nil {
		logFailure("load_ignored", s.ignoredPath, err)
		return ignored
	}

	for n, row := range rows {
		if len(row) != 1 {
			log.WithFields(log.Fields{"path": s.ignoredPath, "row": n + 2}).Warn("Skipping malformed ignored user row")
			continue
		}
		id, err := strconv.ParseUint(strings.TrimSpace(row[0]), 10, 64)
		if err != nil {
			log.WithError(err).WithFields(log.Fields{"path": s.ignoredPath, "row": n + 2}).Warn("Skipping malformed ignored user row")
			continue
		}
		ignored[id] = struct{}{}
	}
	return ignored
}
