package bot

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/susu3304/creditbot/internal/commands"
	"github.com/susu3304/creditbot/internal/ledger"
	"github.com/susu3304/creditbot/internal/redeem"
)

type fakeFetcher struct {
	messages map[string]*discordgo.Message
	calls    int
}

func (f *fakeFetcher) ChannelMessage(_, messageID string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.calls++
	msg, ok := f.messages[messageID]
	if !ok {
		return nil, errors.New("404 Not Found")
	}
	return msg, nil
}

type fakeResponder struct {
	responses []*discordgo.InteractionResponse
}

func (f *fakeResponder) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	f.responses = append(f.responses, resp)
	return nil
}

type fakeRedeemer struct{ calls int }

func (f *fakeRedeemer) Redeem(_ context.Context, _ uint64, reward string) redeem.Result {
	f.calls++
	return redeem.Result{Outcome: redeem.OutcomeRedeemed, Reward: reward, Price: 5}
}

func (f *fakeRedeemer) Price() int { return 5 }

func message(id, authorID string, bot bool) *discordgo.Message {
	return &discordgo.Message{ID: id, Author: &discordgo.User{ID: authorID, Bot: bot}}
}

func reaction(userID, messageID string) *discordgo.MessageReaction {
	return &discordgo.MessageReaction{UserID: userID, MessageID: messageID, ChannelID: "10"}
}

func TestHandleReaction_CreditsAuthorOnce(t *testing.T) {
	l := ledger.New(nil, nil, nil)
	b := &Bot{ledger: l}
	f := &fakeFetcher{messages: map[string]*discordgo.Message{"500": message("500", "2", false)}}

	assert.True(t, b.handleReaction(f, reaction("1", "500"), nil))
	assert.False(t, b.handleReaction(f, reaction("3", "500"), nil))

	assert.Equal(t, 1, l.GetBalance(2))
	assert.Equal(t, 2, f.calls)
}

func TestHandleReaction_UsesCachedMessage(t *testing.T) {
	l := ledger.New(nil, nil, nil)
	b := &Bot{ledger: l}
	f := &fakeFetcher{}

	assert.True(t, b.handleReaction(f, reaction("1", "500"), message("500", "2", false)))
	assert.Zero(t, f.calls)
}

func TestHandleReaction_Skips(t *testing.T) {
	tests := []struct {
		name     string
		reaction *discordgo.MessageReaction
		messages map[string]*discordgo.Message
	}{
		{"bot author", reaction("1", "500"), map[string]*discordgo.Message{"500": message("500", "2", true)}},
		{"self reaction", reaction("2", "500"), map[string]*discordgo.Message{"500": message("500", "2", false)}},
		{"message not found", reaction("1", "404"), nil},
		{"bad reactor id", reaction("someone", "500"), map[string]*discordgo.Message{"500": message("500", "2", false)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := ledger.New(nil, nil, nil)
			b := &Bot{ledger: l}

			assert.False(t, b.handleReaction(&fakeFetcher{messages: tt.messages}, tt.reaction, nil))
			assert.Empty(t, l.Snapshot())
		})
	}
}

func TestDispatchInteraction(t *testing.T) {
	l := ledger.New(map[uint64]int{42: 8}, nil, nil)
	r := &fakeRedeemer{}
	b := &Bot{ledger: l, redeemer: r}
	s := &fakeResponder{}
	member := &discordgo.Member{User: &discordgo.User{ID: "42"}}

	b.dispatchInteraction(s, &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:   discordgo.InteractionApplicationCommand,
		Member: member,
		Data:   discordgo.ApplicationCommandInteractionData{Name: commands.CommandCredits},
	}})
	require.Len(t, s.responses, 1)
	assert.Equal(t, "You have 8 social credits.", s.responses[0].Data.Content)

	b.dispatchInteraction(s, &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:   discordgo.InteractionMessageComponent,
		Member: member,
		Data: discordgo.MessageComponentInteractionData{
			CustomID: commands.CreditsMenuID,
			Values:   []string{"redeem_recuerdate"},
		},
	}})
	require.Len(t, s.responses, 2)
	assert.Equal(t, 1, r.calls)
}
