package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pepetopia/topi/internal/botkit"
	"github.com/pepetopia/topi/internal/config"
	"github.com/pepetopia/topi/internal/digest"
	"github.com/pepetopia/topi/internal/gemini"
	"github.com/pepetopia/topi/internal/present"
	"github.com/pepetopia/topi/internal/state"
)

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Run the investor digest bot",
	Long: `Runs the investor-relations digest: once a day (and on /report) it
summarizes the next unprocessed repository commit with the AI model and posts
a non-technical development report to the configured channel. Progress is
tracked with a Redis-persisted cursor; large commits are split across days.`,
	RunE: runDigest,
}

func runDigest(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.FromEnv()
	if err := cfg.ValidateDigest(); err != nil {
		return err
	}
	hour, minute, err := config.ParseClock(cfg.DigestTime)
	if err != nil {
		return err
	}
	logger.Info("starting digest service",
		zap.String("config", cfg.Summary()), zap.String("post_time", cfg.DigestTime))

	store, err := state.NewStore(ctx, state.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return err
	}
	defer store.Close()

	gem, err := gemini.New(ctx, cfg.GeminiAPIKey, logger)
	if err != nil {
		return err
	}

	bot, err := botkit.New(cfg.TelegramToken, cfg.Debug, logger)
	if err != nil {
		return err
	}

	owner, repo := cfg.RepoOwnerName()
	svc := digest.NewService(
		digest.NewGitHubSource(cfg.GitHubToken, owner, repo),
		store,
		digest.NewSummarizer(gem),
		func(ctx context.Context, html string) error {
			_, err := bot.SendHTML(cfg.DigestChatID, html)
			return err
		},
		logger,
	)

	// Manual trigger for admins of the digest channel.
	bot.AddCommand("report", func(b *botkit.Bot, update tgbotapi.Update) {
		msg := update.Message
		if msg.From == nil || !b.IsAdmin(msg.Chat.ID, msg.From.ID) {
			return
		}
		if err := svc.RunOnce(ctx); err != nil {
			logger.Error("manual digest run failed", zap.Error(err))
			_, _ = b.SendHTML(msg.Chat.ID, present.RenderError("Digest run failed"))
		}
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		bot.Run(gctx)
		return nil
	})
	g.Go(func() error {
		return svc.RunDaily(gctx, hour, minute)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
