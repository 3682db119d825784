package bot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

type fakeSender struct {
	errs     []error
	channels []string
	contents []string
}

func (f *fakeSender) ChannelMessageSend(channelID, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.channels = append(f.channels, channelID)
	f.contents = append(f.contents, content)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &discordgo.Message{}, nil
}

func newTestNotifier(s messageSender) *Notifier {
	n := NewNotifier(s)
	n.attemptTimeout = time.Second
	return n
}

func TestNotify_Sends(t *testing.T) {
	s := &fakeSender{}

	require.NoError(t, newTestNotifier(s).Notify(context.Background(), 1234567890123, "hello"))

	assert.Equal(t, []string{"1234567890123"}, s.channels)
	assert.Equal(t, []string{"hello"}, s.contents)
}

func TestNotify_RetriesTemporaryErrors(t *testing.T) {
	s := &fakeSender{errs: []error{timeoutError{}}}

	require.NoError(t, newTestNotifier(s).Notify(context.Background(), 1, "hello"))
	assert.Len(t, s.channels, 2)
}

func TestNotify_GivesUpOnPermanentErrors(t *testing.T) {
	s := &fakeSender{errs: []error{errors.New("403 Forbidden")}}

	assert.Error(t, newTestNotifier(s).Notify(context.Background(), 1, "hello"))
	assert.Len(t, s.channels, 1)
}

func TestNotify_NoChannel(t *testing.T) {
	s := &fakeSender{}

	assert.Error(t, newTestNotifier(s).Notify(context.Background(), 0, "hello"))
	assert.Empty(t, s.channels)
}
