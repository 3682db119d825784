package bot

import (
	"context"
	"errors"
	"math/rand"
	"net"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Notifier posts announcements to a channel.
type Notifier struct {
	session        messageSender
	attemptTimeout time.Duration
	maxAttempts    int
}

// Minimal session interface for sending channel messages.
type messageSender interface {
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

func NewNotifier(session messageSender) *Notifier {
	return &Notifier{
		session:        session,
		attemptTimeout: 12 * time.Second,
		maxAttempts:    2,
	}
}

// Notify sends text to channelID, retrying once on temporary network errors.
func (n *Notifier) Notify(ctx context.Context, channelID uint64, text string) error {
	if channelID == 0 {
		return errors.New("no channel configured")
	}
	return n.sendWithRetry(ctx, strconv.FormatUint(channelID, 10), text)
}

func (n *Notifier) sendWithRetry(ctx context.Context, channelID, content string) error {
	var lastErr error
	for attempt := 1; attempt <= n.maxAttempts; attempt++ {
		sendCtx, cancel := context.WithTimeout(ctx, n.attemptTimeout)
		_, err := n.session.ChannelMessageSend(channelID, content, discordgo.WithContext(sendCtx))
		cancel()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isTemporaryOrTimeout(err) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(300+rand.Intn(500)) * time.Millisecond):
		}
	}
	return lastErr
}

func isTemporaryOrTimeout(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) {
		return ne.Timeout()
	}
	return false
}
