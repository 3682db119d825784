package redeem

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/susu3304/creditbot/internal/metrics"
	"github.com/susu3304/creditbot/internal/store"
)

const RewardRecuerdate = "recuerdate"

type Outcome int

const (
	OutcomeRedeemed Outcome = iota
	OutcomeInsufficient
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRedeemed:
		return "redeemed"
	case OutcomeInsufficient:
		return "insufficient"
	default:
		return "failed"
	}
}

// Result describes one redemption attempt. Balance is the user's balance
// after the attempt.
type Result struct {
	Outcome   Outcome
	Reward    string
	Price     int
	Balance   int
	Shortfall int
}

type Ledger interface {
	GetBalance(userID uint64) int
	Debit(userID uint64, amount int) (bool, error)
	Refund(userID uint64, amount int)
}

type RewardLog interface {
	AppendReward(entry store.RewardEntry) error
}

type Notifier interface {
	Notify(ctx context.Context, channelID uint64, text string) error
}

type Service struct {
	ledger    Ledger
	rewards   RewardLog
	notifier  Notifier
	price     int
	channelID uint64
	now       func() time.Time
}

func NewService(l Ledger, rewards RewardLog, notifier Notifier, price int, channelID uint64) *Service {
	return &Service{
		ledger:    l,
		rewards:   rewards,
		notifier:  notifier,
		price:     price,
		channelID: channelID,
		now:       time.Now,
	}
}

// Price returns the configured price of a reward.
func (s *Service) Price() int {
	return s.price
}

// Redeem exchanges the configured price for one unit of reward. The debit,
// the reward log row and the announcement happen together: when the debit
// or the log row cannot be persisted nothing is announced and the credits
// are left with the user.
func (s *Service) Redeem(ctx context.Context, userID uint64, reward string) Result {
	res := s.redeem(ctx, userID, reward)
	metrics.Redemptions.WithLabelValues(reward, res.Outcome.String()).Inc()
	return res
}

func (s *Service) redeem(ctx context.Context, userID uint64, reward string) Result {
	res := Result{Reward: reward, Price: s.price}
	logger := log.WithFields(log.Fields{"user_id": userID, "reward": reward})

	ok, err := s.ledger.Debit(userID, s.price)
	if err != nil {
		logger.WithError(err).Error("Failed to debit credits")
		res.Outcome = OutcomeFailed
		res.Balance = s.ledger.GetBalance(userID)
		return res
	}
	if !ok {
		res.Outcome = OutcomeInsufficient
		res.Balance = s.ledger.GetBalance(userID)
		res.Shortfall = s.price - res.Balance
		if res.Shortfall < 0 {
			// balance rose between the debit attempt and the read
			res.Shortfall = 0
		}
		logger.WithField("shortfall", res.Shortfall).Info("Redemption rejected")
		return res
	}

	entry := store.RewardEntry{
		RewardType: reward,
		Quantity:   1,
		DateAdded:  s.now().UTC(),
	}
	if err := s.rewards.AppendReward(entry); err != nil {
		logger.WithError(err).Error("Failed to log reward, refunding")
		s.ledger.Refund(userID, s.price)
		res.Outcome = OutcomeFailed
		res.Balance = s.ledger.GetBalance(userID)
		return res
	}

	res.Outcome = OutcomeRedeemed
	res.Balance = s.ledger.GetBalance(userID)
	logger.WithField("balance", res.Balance).Info("Reward redeemed")

	s.announce(ctx, userID, reward)
	return res
}

func (s *Service) announce(ctx context.Context, userID uint64, reward string) {
	if s.channelID == 0 {
		log.WithField("user_id", userID).Warn("TARGET_CHANNEL_ID not set, skipping redemption announcement")
		return
	}
	if s.notifier == nil {
		return
	}
	text := fmt.Sprintf("<@%d> redeemed a %s!", userID, DisplayName(reward))
	if err := s.notifier.Notify(ctx, s.channelID, text); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"user_id":    userID,
			"channel_id": s.channelID,
		}).Warn("Failed to announce redemption")
	}
}

// DisplayName is the user-facing name of a reward tag.
func DisplayName(reward string) string {
	switch reward {
	case RewardRecuerdate:
		return "Recuérdate"
	default:
		return reward
	}
}
