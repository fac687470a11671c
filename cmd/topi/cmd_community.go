package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pepetopia/topi/internal/botkit"
	"github.com/pepetopia/topi/internal/config"
	"github.com/pepetopia/topi/internal/gemini"
	"github.com/pepetopia/topi/internal/guard"
	"github.com/pepetopia/topi/internal/market"
	"github.com/pepetopia/topi/internal/moderation"
	"github.com/pepetopia/topi/internal/persona"
	"github.com/pepetopia/topi/internal/present"
)

var communityCmd = &cobra.Command{
	Use:   "community",
	Short: "Run the community moderation and mascot chat bot",
	Long: `Runs the group bot: flood control, link whitelist, blacklist filtering,
admin lockdown commands, /price, and the TOPI mascot AI chat.`,
	RunE: runCommunity,
}

func runCommunity(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.FromEnv()
	if err := cfg.ValidateCommunity(); err != nil {
		return err
	}
	policy, err := config.LoadPolicy(cfg.PolicyFile)
	if err != nil {
		return err
	}
	logger.Info("starting community service", zap.String("config", cfg.Summary()))

	gem, err := gemini.New(ctx, cfg.GeminiAPIKey, logger)
	if err != nil {
		return err
	}

	flood := moderation.NewFloodTracker(policy.FloodLimit,
		time.Duration(policy.FloodWindowSeconds)*time.Second)
	guards := moderation.Guards(policy, flood)
	switches := moderation.NewSwitches()
	muteFor := time.Duration(policy.MuteMinutes) * time.Minute
	ticker := market.NewClient()

	bot, err := botkit.New(cfg.TelegramToken, cfg.Debug, logger)
	if err != nil {
		return err
	}

	// Moderation runs as middleware so violating messages never reach the
	// chat handler. Admins bypass every check.
	bot.Use(func(mctx *botkit.MiddlewareContext, next botkit.NextFunc) {
		msg := mctx.Update.Message
		if msg == nil || msg.Text == "" || msg.Chat == nil || msg.Chat.IsPrivate() {
			next()
			return
		}
		if msg.From != nil && mctx.Bot.IsAdmin(msg.Chat.ID, msg.From.ID) {
			next()
			return
		}

		var userID int64
		if msg.From != nil {
			userID = msg.From.ID
		}
		result := guards.CheckSafe(msg.Text, map[string]any{
			moderation.ExtraUserID:  userID,
			moderation.ExtraHasLink: botkit.HasLink(msg),
		})
		if result.Passed {
			next()
			return
		}

		logger.Info("moderation triggered",
			zap.String("guard", result.GuardName),
			zap.String("reason", result.Reason),
			zap.Int64("user", userID))
		handleViolation(mctx.Bot, msg, result, muteFor)
		// Violation handled; do not call next().
	})

	bot.AddCommand("start", func(b *botkit.Bot, update tgbotapi.Update) {
		_, _ = b.SendHTML(update.Message.Chat.ID,
			"🐸 <b>TOPI online!</b> Ask me anything, or try /price.")
	})

	bot.AddCommand("price", func(b *botkit.Bot, update tgbotapi.Update) {
		tctx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		t, err := ticker.GetTicker(tctx, cfg.TradingSymbol)
		if err != nil {
			logger.Error("ticker lookup failed", zap.Error(err))
			_, _ = b.SendHTML(update.Message.Chat.ID, present.RenderError("Market data unavailable"))
			return
		}
		_, _ = b.SendHTML(update.Message.Chat.ID, present.RenderTicker(t))
	})

	addAdminCommand := func(name, confirmation string, action func(b *botkit.Bot, chatID int64) error) {
		bot.AddCommand(name, func(b *botkit.Bot, update tgbotapi.Update) {
			msg := update.Message
			if msg.From == nil || !b.IsAdmin(msg.Chat.ID, msg.From.ID) {
				return
			}
			if err := action(b, msg.Chat.ID); err != nil {
				logger.Error("admin command failed", zap.String("command", name), zap.Error(err))
				_, _ = b.SendHTML(msg.Chat.ID, present.RenderError("Could not update chat settings"))
				return
			}
			_, _ = b.SendHTML(msg.Chat.ID, confirmation)
		})
	}

	addAdminCommand("lockdown",
		"🚨 <b>SECURITY LOCKDOWN ACTIVATED</b>\nOnly admins can chat now.",
		func(b *botkit.Bot, chatID int64) error {
			switches.SetLockdown(true)
			return b.SetChatLocked(chatID, true)
		})
	addAdminCommand("unlock",
		"✅ <b>SYSTEM NORMAL</b>\nChat unlocked. Enjoy the vibes!",
		func(b *botkit.Bot, chatID int64) error {
			switches.SetLockdown(false)
			return b.SetChatLocked(chatID, false)
		})
	addAdminCommand("autopilot_on",
		"🤖 Autopilot <b>ON</b> — TOPI will chat again.",
		func(b *botkit.Bot, chatID int64) error {
			switches.SetAutopilot(true)
			return nil
		})
	addAdminCommand("autopilot_off",
		"🔇 Autopilot <b>OFF</b> — TOPI stays quiet.",
		func(b *botkit.Bot, chatID int64) error {
			switches.SetAutopilot(false)
			return nil
		})

	bot.AddMessage("all", func(b *botkit.Bot, update tgbotapi.Update) {
		if !switches.Autopilot() {
			return
		}
		cctx, cancel := context.WithTimeout(ctx, 45*time.Second)
		defer cancel()

		text, _, err := gem.Generate(cctx, gemini.Request{
			Prompt:            update.Message.Text,
			SystemInstruction: persona.MascotInstruction,
			Temperature:       0.8,
			MaxOutputTokens:   512,
		})
		if err != nil {
			logger.Error("mascot chat failed", zap.Error(err))
			return
		}
		msg := tgbotapi.NewMessage(update.Message.Chat.ID, text)
		msg.ReplyToMessageID = update.Message.MessageID
		_, _ = b.API.Send(msg)
	})

	bot.Run(ctx)
	return nil
}

// handleViolation deletes the offending message and applies the penalty for
// the triggered guard.
func handleViolation(b *botkit.Bot, msg *tgbotapi.Message, result *guard.Result, muteFor time.Duration) {
	b.DeleteMessage(msg.Chat.ID, msg.MessageID)

	mention := "member"
	if msg.From != nil && msg.From.UserName != "" {
		mention = "@" + msg.From.UserName
	}

	switch result.GuardName {
	case "flood_control":
		if msg.From != nil {
			if err := b.MuteUser(msg.Chat.ID, msg.From.ID, muteFor); err != nil {
				logger.Error("mute failed", zap.Error(err))
			}
		}
		_, _ = b.SendHTML(msg.Chat.ID, fmt.Sprintf(
			"🚫 %s, <b>stop spamming!</b> You are muted for %d minutes. ⏳",
			present.Escape(mention), int(muteFor.Minutes())))
	case "link_whitelist":
		_, _ = b.SendHTML(msg.Chat.ID, fmt.Sprintf(
			"⚠️ %s, <b>no unauthorized links allowed!</b> 🚫", present.Escape(mention)))
	default:
		_, _ = b.SendHTML(msg.Chat.ID, fmt.Sprintf(
			"🚫 %s, <b>watch your language!</b>", present.Escape(mention)))
	}
}
