package redeem

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/susu3304/creditbot/internal/ledger"
	"github.com/susu3304/creditbot/internal/store"
)

type fakeRewards struct {
	fail    bool
	entries []store.RewardEntry
}

func (f *fakeRewards) AppendReward(e store.RewardEntry) error {
	if f.fail {
		return errors.New("read-only file system")
	}
	f.entries = append(f.entries, e)
	return nil
}

type sentMessage struct {
	channelID uint64
	text      string
}

type fakeNotifier struct {
	err  error
	sent []sentMessage
}

func (f *fakeNotifier) Notify(_ context.Context, channelID uint64, text string) error {
	f.sent = append(f.sent, sentMessage{channelID, text})
	return f.err
}

type failingSaver struct{}

func (failingSaver) SaveBalances(map[uint64]int) error { return errors.New("disk full") }

const (
	user    = uint64(42)
	channel = uint64(900)
)

var fixedNow = time.Date(2024, 3, 9, 18, 0, 0, 0, time.FixedZone("CET", 3600))

func newService(l Ledger, r RewardLog, n Notifier, channelID uint64) *Service {
	s := NewService(l, r, n, 5, channelID)
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestRedeem_ExactBalance(t *testing.T) {
	l := ledger.New(map[uint64]int{user: 5}, nil, nil)
	rewards := &fakeRewards{}
	notifier := &fakeNotifier{}

	res := newService(l, rewards, notifier, channel).Redeem(context.Background(), user, RewardRecuerdate)

	assert.Equal(t, OutcomeRedeemed, res.Outcome)
	assert.Equal(t, 0, res.Balance)
	assert.Equal(t, 0, l.GetBalance(user))
	require.Len(t, rewards.entries, 1)
	assert.Equal(t, store.RewardEntry{RewardType: "recuerdate", Quantity: 1, DateAdded: fixedNow.UTC()}, rewards.entries[0])
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, channel, notifier.sent[0].channelID)
	assert.Contains(t, notifier.sent[0].text, "<@42>")
	assert.Contains(t, notifier.sent[0].text, "Recuérdate")
}

func TestRedeem_InsufficientBalance(t *testing.T) {
	l := ledger.New(map[uint64]int{user: 4}, nil, nil)
	rewards := &fakeRewards{}
	notifier := &fakeNotifier{}

	res := newService(l, rewards, notifier, channel).Redeem(context.Background(), user, RewardRecuerdate)

	assert.Equal(t, OutcomeInsufficient, res.Outcome)
	assert.Equal(t, 1, res.Shortfall)
	assert.Equal(t, 4, res.Balance)
	assert.Equal(t, 4, l.GetBalance(user))
	assert.Empty(t, rewards.entries)
	assert.Empty(t, notifier.sent)
}

func TestRedeem_UnknownUser(t *testing.T) {
	l := ledger.New(nil, nil, nil)

	res := newService(l, &fakeRewards{}, &fakeNotifier{}, channel).Redeem(context.Background(), user, RewardRecuerdate)

	assert.Equal(t, OutcomeInsufficient, res.Outcome)
	assert.Equal(t, 5, res.Shortfall)
}

func TestRedeem_DebitNotPersisted(t *testing.T) {
	l := ledger.New(map[uint64]int{user: 9}, nil, failingSaver{})
	rewards := &fakeRewards{}
	notifier := &fakeNotifier{}

	res := newService(l, rewards, notifier, channel).Redeem(context.Background(), user, RewardRecuerdate)

	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Equal(t, 9, l.GetBalance(user))
	assert.Empty(t, rewards.entries)
	assert.Empty(t, notifier.sent)
}

func TestRedeem_RewardLogFailureRefunds(t *testing.T) {
	l := ledger.New(map[uint64]int{user: 7}, nil, nil)
	notifier := &fakeNotifier{}

	res := newService(l, &fakeRewards{fail: true}, notifier, channel).Redeem(context.Background(), user, RewardRecuerdate)

	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Equal(t, 7, l.GetBalance(user))
	assert.Empty(t, notifier.sent)
}

func TestRedeem_MissingChannelStillCompletes(t *testing.T) {
	l := ledger.New(map[uint64]int{user: 6}, nil, nil)
	rewards := &fakeRewards{}
	notifier := &fakeNotifier{}

	res := newService(l, rewards, notifier, 0).Redeem(context.Background(), user, RewardRecuerdate)

	assert.Equal(t, OutcomeRedeemed, res.Outcome)
	assert.Equal(t, 1, l.GetBalance(user))
	assert.Len(t, rewards.entries, 1)
	assert.Empty(t, notifier.sent)
}

func TestRedeem_NotifyFailureIsBestEffort(t *testing.T) {
	l := ledger.New(map[uint64]int{user: 5}, nil, nil)
	rewards := &fakeRewards{}
	notifier := &fakeNotifier{err: errors.New("503 Service Unavailable")}

	res := newService(l, rewards, notifier, channel).Redeem(context.Background(), user, RewardRecuerdate)

	assert.Equal(t, OutcomeRedeemed, res.Outcome)
	assert.Len(t, rewards.entries, 1)
	assert.Equal(t, 0, l.GetBalance(user))
}

func TestRedeem_WritesThroughRecordStore(t *testing.T) {
	dir := t.TempDir()
	s := store.New(
		filepath.Join(dir, "user_reactions.csv"),
		filepath.Join(dir, "ignored_users.csv"),
		filepath.Join(dir, "rewards.csv"),
	)
	require.NoError(t, s.SaveBalances(map[uint64]int{user: 5}))
	l := ledger.New(s.LoadBalances(), s.LoadIgnoredUsers(), s)

	res := newService(l, s, nil, 0).Redeem(context.Background(), user, RewardRecuerdate)

	require.Equal(t, OutcomeRedeemed, res.Outcome)
	assert.Equal(t, map[uint64]int{user: 0}, s.LoadBalances())
	rewards := s.LoadRewards()
	require.Len(t, rewards, 1)
	assert.Equal(t, 1, rewards[0].Quantity)
}
