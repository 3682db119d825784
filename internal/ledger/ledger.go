// Package ledger keeps the in-memory credit balances and decides which
// reactions earn a credit.
//
// A message earns its author at most one credit, however many users react
// to it. Every mutation is followed by a full flush of the balances through
// the configured Saver; the in-memory state stays authoritative when a flush
// fails and is written again on the next mutation or Flush call.
package ledger

import (
	"errors"
	"sort"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/susu3304/creditbot/internal/metrics"
)

var ErrInvalidAmount = errors.New("amount must be positive")

// Saver persists a full snapshot of the balances.
type Saver interface {
	SaveBalances(balances map[uint64]int) error
}

// Standing is one leaderboard row.
type Standing struct {
	UserID  uint64 `json:"user_id,string"`
	Balance int    `json:"balance"`
}

type Ledger struct {
	mu        sync.RWMutex
	balances  map[uint64]int
	credited  map[uint64]map[uint64]struct{} // author -> message IDs
	ignored   map[uint64]struct{}
	increment int
	version   uint64

	flushMu sync.Mutex
	flushed uint64
	saver   Saver
}

type Option func(*Ledger)

// WithIncrement sets the credit granted per credited message. Non-positive
// values are ignored.
func WithIncrement(n int) Option {
	return func(l *Ledger) {
		if n > 0 {
			l.increment = n
		}
	}
}

// New builds a ledger seeded with balances. The maps are copied.
func New(balances map[uint64]int, ignored map[uint64]struct{}, saver Saver, opts ...Option) *Ledger {
	l := &Ledger{
		balances:  make(map[uint64]int, len(balances)),
		credited:  make(map[uint64]map[uint64]struct{}),
		ignored:   make(map[uint64]struct{}, len(ignored)),
		increment: 1,
		saver:     saver,
	}
	for id, n := range balances {
		l.balances[id] = n
	}
	for id := range ignored {
		l.ignored[id] = struct{}{}
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// RecordReaction credits authorID for a reaction by reactorID on messageID
// and reports whether a credit was issued.
func (l *Ledger) RecordReaction(reactorID, authorID, messageID uint64) bool {
	l.mu.Lock()
	if reason := l.skipReason(reactorID, authorID, messageID); reason != "" {
		l.mu.Unlock()
		metrics.ReactionsSkipped.WithLabelValues(reason).Inc()
		return false
	}

	msgs, ok := l.credited[authorID]
	if !ok {
		msgs = make(map[uint64]struct{})
		l.credited[authorID] = msgs
	}
	msgs[messageID] = struct{}{}
	l.balances[authorID] += l.increment
	snap, ver := l.snapshotLocked()
	l.mu.Unlock()

	metrics.ReactionsCredited.Inc()
	log.WithFields(log.Fields{
		"reactor_id": reactorID,
		"author_id":  authorID,
		"message_id": messageID,
	}).Debug("Credited reaction")

	if err := l.persist(snap, ver); err != nil {
		log.WithError(err).Warn("Balances not flushed after credit; keeping in-memory state")
	}
	return true
}

func (l *Ledger) skipReason(reactorID, authorID, messageID uint64) string {
	if _, ok := l.ignored[reactorID]; ok {
		return "ignored_reactor"
	}
	if _, ok := l.ignored[authorID]; ok {
		return "ignored_author"
	}
	if reactorID == authorID {
		return "self_reaction"
	}
	if _, ok := l.credited[authorID][messageID]; ok {
		return "already_credited"
	}
	return ""
}

// GetBalance returns the user's balance, 0 for unknown users.
func (l *Ledger) GetBalance(userID uint64) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balances[userID]
}

// Debit subtracts amount from the user's balance when it covers it. It
// returns false without mutating anything when the balance is too low.
// If the balances cannot be flushed the debit is undone and the
// persistence error is returned.
func (l *Ledger) Debit(userID uint64, amount int) (bool, error) {
	if amount <= 0 {
		return false, ErrInvalidAmount
	}

	l.mu.Lock()
	if l.balances[userID] < amount {
		l.mu.Unlock()
		return false, nil
	}
	l.balances[userID] -= amount
	snap, ver := l.snapshotLocked()
	l.mu.Unlock()

	if err := l.persist(snap, ver); err != nil {
		l.Refund(userID, amount)
		return false, err
	}
	return true, nil
}

// Refund gives back amount to a user after a failed follow-up to Debit.
func (l *Ledger) Refund(userID uint64, amount int) {
	if amount <= 0 {
		return
	}
	l.mu.Lock()
	l.balances[userID] += amount
	snap, ver := l.snapshotLocked()
	l.mu.Unlock()

	if err := l.persist(snap, ver); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("Balances not flushed after refund; keeping in-memory state")
	}
}

// IsIgnored reports whether the user is excluded from credit accounting.
func (l *Ledger) IsIgnored(userID uint64) bool {
	_, ok := l.ignored[userID]
	return ok
}

// Snapshot returns a copy of all balances.
func (l *Ledger) Snapshot() map[uint64]int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[uint64]int, len(l.balances))
	for id, n := range l.balances {
		out[id] = n
	}
	return out
}

// Top returns up to n users ordered by balance, highest first.
func (l *Ledger) Top(n int) []Standing {
	return Rank(l.Snapshot(), n)
}

// Rank orders balances highest first, breaking ties by user ID. n <= 0
// returns every row.
func Rank(balances map[uint64]int, n int) []Standing {
	out := make([]Standing, 0, len(balances))
	for id, b := range balances {
		out = append(out, Standing{UserID: id, Balance: b})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Balance != out[j].Balance {
			return out[i].Balance > out[j].Balance
		}
		return out[i].UserID < out[j].UserID
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Dirty reports whether the latest state has not reached the Saver yet.
func (l *Ledger) Dirty() bool {
	l.mu.RLock()
	ver := l.version
	l.mu.RUnlock()

	l.flushMu.Lock()
	defer l.flushMu.Unlock()
	return l.flushed < ver
}

// Flush writes the current balances if the last flush did not succeed.
func (l *Ledger) Flush() error {
	l.mu.RLock()
	snap := make(map[uint64]int, len(l.balances))
	for id, n := range l.balances {
		snap[id] = n
	}
	ver := l.version
	l.mu.RUnlock()

	return l.persist(snap, ver)
}

func (l *Ledger) snapshotLocked() (map[uint64]int, uint64) {
	l.version++
	snap := make(map[uint64]int, len(l.balances))
	for id, n := range l.balances {
		snap[id] = n
	}
	return snap, l.version
}

// persist writes snap unless a snapshot at least as new is already on disk,
// so concurrent flushes can never leave older state behind.
func (l *Ledger) persist(snap map[uint64]int, ver uint64) error {
	l.flushMu.Lock()
	defer l.flushMu.Unlock()
	if ver <= l.flushed {
		return nil
	}
	if l.saver != nil {
		if err := l.saver.SaveBalances(snap); err != nil {
			return err
		}
	}
	l.flushed = ver
	return nil
}
