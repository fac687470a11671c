package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pepetopia/topi/internal/botkit"
	"github.com/pepetopia/topi/internal/config"
	"github.com/pepetopia/topi/internal/gemini"
	"github.com/pepetopia/topi/internal/present"
	"github.com/pepetopia/topi/internal/reply"
)

// sessionTimeout bounds one end-to-end reply session, including the model
// fallback chain.
const sessionTimeout = 90 * time.Second

var replyCmd = &cobra.Command{
	Use:   "reply",
	Short: "Run the reply-draft assistant",
	Long: `Runs the operator-facing reply assistant. Paste a social post (optionally
ending with a persona trigger token) and receive 5-8 scored, ranked reply
candidates. Only the configured operator chat is answered.`,
	RunE: runReply,
}

func runReply(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.FromEnv()
	if err := cfg.ValidateReply(); err != nil {
		return err
	}
	logger.Info("starting reply service", zap.String("config", cfg.Summary()))

	gem, err := gemini.New(ctx, cfg.GeminiAPIKey, logger)
	if err != nil {
		return err
	}
	engine := reply.NewEngine(gem, logger)

	bot, err := botkit.New(cfg.TelegramToken, cfg.Debug, logger)
	if err != nil {
		return err
	}

	bot.AddCommand("start", func(b *botkit.Bot, update tgbotapi.Update) {
		if update.Message.Chat.ID != cfg.OperatorChatID {
			logger.Warn("unauthorized access attempt", zap.Int64("chat", update.Message.Chat.ID))
			return
		}
		_, _ = b.SendHTML(update.Message.Chat.ID,
			"👋 <b>Pepetopia Strategic Core Online</b>\n\n"+
				"Paste a post to analyze. End it with <code>@pepetopia_dev</code> for the engineer voice.")
	})

	bot.AddMessage("private", func(b *botkit.Bot, update tgbotapi.Update) {
		chatID := update.Message.Chat.ID
		if chatID != cfg.OperatorChatID {
			return
		}

		status, err := b.SendHTML(chatID, "🧠 <b>Analyzing...</b>")
		if err != nil {
			logger.Error("failed to send status message", zap.Error(err))
			return
		}

		sctx, cancel := context.WithTimeout(ctx, sessionTimeout)
		defer cancel()

		session, err := engine.Draft(sctx, update.Message.Text)
		if err != nil {
			_ = b.EditHTML(chatID, status.MessageID, renderFailure(err))
			logger.Error("reply session failed", zap.Error(err))
			return
		}

		if err := b.EditHTML(chatID, status.MessageID, present.RenderSession(session)); err != nil {
			logger.Error("failed to deliver session", zap.Error(err))
		}
	})

	bot.Run(ctx)
	return nil
}

// renderFailure maps pipeline errors to secret-free operator messages.
func renderFailure(err error) string {
	switch {
	case errors.Is(err, gemini.ErrModelUnavailable):
		return present.RenderError("All AI models are currently unavailable")
	case errors.Is(err, reply.ErrMalformedResponse):
		return present.RenderError("The model returned an unusable response")
	case errors.Is(err, reply.ErrValidationRejected):
		return present.RenderError("The drafts did not pass validation")
	default:
		return present.RenderError("Temporary network problem")
	}
}
