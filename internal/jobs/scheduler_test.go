package jobs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/susu3304/creditbot/internal/ledger"
)

type toggleSaver struct {
	fail  bool
	saves int
}

func (s *toggleSaver) SaveBalances(map[uint64]int) error {
	if s.fail {
		return errors.New("disk full")
	}
	s.saves++
	return nil
}

func TestNewScheduler_InvalidSpec(t *testing.T) {
	_, err := NewScheduler("every now and then", ledger.New(nil, nil, nil))
	assert.Error(t, err)
}

func TestRetryFlush(t *testing.T) {
	saver := &toggleSaver{fail: true}
	l := ledger.New(nil, nil, saver)
	s, err := NewScheduler("@every 1m", l)
	require.NoError(t, err)

	l.RecordReaction(1, 2, 3)
	require.True(t, l.Dirty())

	s.retryFlush()
	assert.True(t, l.Dirty())

	saver.fail = false
	s.retryFlush()
	assert.False(t, l.Dirty())
	assert.Equal(t, 1, saver.saves)

	s.retryFlush()
	assert.Equal(t, 1, saver.saves, "clean ledger is not rewritten")
}
