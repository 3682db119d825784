package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/susu3304/creditbot/internal/api"
	"github.com/susu3304/creditbot/internal/bot"
	"github.com/susu3304/creditbot/internal/config"
	"github.com/susu3304/creditbot/internal/jobs"
	"github.com/susu3304/creditbot/internal/ledger"
	"github.com/susu3304/creditbot/internal/redeem"
	"github.com/susu3304/creditbot/internal/store"
)

func NewRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Connect to Discord and start tracking credits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBot(cmd.Context())
		},
	}
}

func runBot(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.WithField("level", cfg.LogLevel).Warn("Unknown LOG_LEVEL, keeping info")
	}

	records := store.New(cfg.BalancesPath, cfg.IgnoredUsersPath, cfg.RewardsPath)
	balances := records.LoadBalances()
	ignored := records.LoadIgnoredUsers()
	log.WithFields(log.Fields{
		"users":   len(balances),
		"ignored": len(ignored),
	}).Info("Loaded records")

	credits := ledger.New(balances, ignored, records, ledger.WithIncrement(cfg.ReactionIncrement))

	discordBot, err := bot.New(cfg.DiscordToken, credits)
	if err != nil {
		return err
	}
	redeemer := redeem.NewService(credits, records, discordBot.Notifier(), cfg.RecuerdatePrice, cfg.TargetChannelID)
	discordBot.SetRedeemer(redeemer)

	if cfg.TargetChannelID == 0 {
		log.Warn("TARGET_CHANNEL_ID not set, redemptions will not be announced")
	}

	scheduler, err := jobs.NewScheduler(cfg.FlushSchedule, credits)
	if err != nil {
		return err
	}

	if err := discordBot.Start(); err != nil {
		return err
	}
	scheduler.Start()

	var apiServer *api.API
	if cfg.WebBind != "" {
		apiServer = api.New(cfg, credits, redeemer)
		go func() {
			if err := apiServer.Start(); err != nil {
				log.WithError(err).Error("API server error")
			}
		}()
	}

	// Wait for signal to stop
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("Shutting down...")

	if apiServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("API server shutdown")
		}
		cancel()
	}
	scheduler.Stop()
	if err := discordBot.Stop(); err != nil {
		log.WithError(err).Warn("Failed to close discord session")
	}
	if err := credits.Flush(); err != nil {
		return fmt.Errorf("final balances flush failed: %w", err)
	}
	return nil
}
