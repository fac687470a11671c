// Package botkit is the shared Telegram runtime for all bot services:
// command/message routing, an onion middleware pipeline, a long-polling
// loop with panic recovery, and chat-administration helpers.
package botkit

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Bot wraps the Telegram client with routing, middleware and lifecycle.
type Bot struct {
	API    *tgbotapi.BotAPI
	Router *Router

	pipeline *MiddlewarePipeline
	log      *zap.Logger
}

// New authenticates against the Bot API and returns a runtime.
func New(token string, debug bool, log *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	api.Debug = debug
	if log == nil {
		log = zap.NewNop()
	}
	log.Info("telegram bot authorized", zap.String("username", api.Self.UserName))

	return &Bot{
		API:      api,
		Router:   NewRouter(),
		pipeline: NewMiddlewarePipeline(),
		log:      log,
	}, nil
}

// AddCommand registers a handler for a bot command.
func (b *Bot) AddCommand(name string, handler HandlerFunc) {
	b.Router.AddCommand(name, handler)
}

// AddMessage registers a handler for text messages.
// filter: "private", "group", or "all".
func (b *Bot) AddMessage(filter string, handler HandlerFunc) {
	b.Router.AddMessage(filter, handler)
}

// Use registers a global middleware.
func (b *Bot) Use(mw MiddlewareFunc) {
	b.pipeline.Use(mw)
}

// Run long-polls for updates until the context is canceled. Each update is
// handled in its own goroutine with panic recovery, so one failing session
// never takes the process down.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.API.GetUpdatesChan(u)

	go func() {
		<-ctx.Done()
		b.API.StopReceivingUpdates()
	}()

	b.log.Info("polling for updates")
	for update := range updates {
		go b.handleUpdate(update)
	}
	b.log.Info("update stream closed")
}

// handleUpdate processes a single update with panic recovery.
func (b *Bot) handleUpdate(update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("panic in handler", zap.Any("panic", r))
		}
	}()

	if b.pipeline.Len() > 0 {
		ctx := &MiddlewareContext{
			Update: update,
			Bot:    b,
			Extra:  make(map[string]any),
		}
		b.pipeline.Execute(ctx, func() {
			ctx.Handled = true
			b.Router.Dispatch(b, update)
		})
		return
	}
	b.Router.Dispatch(b, update)
}

// --- Send helpers ---

// SendHTML sends an HTML-parse-mode message.
func (b *Bot) SendHTML(chatID int64, text string) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	return b.API.Send(msg)
}

// EditHTML replaces a previously sent message, keeping HTML parse mode.
func (b *Bot) EditHTML(chatID int64, messageID int, text string) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	_, err := b.API.Send(edit)
	return err
}

// DeleteMessage removes a message, ignoring "not found" class failures.
func (b *Bot) DeleteMessage(chatID int64, messageID int) {
	if _, err := b.API.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		b.log.Debug("delete message failed", zap.Error(err))
	}
}

// --- Chat administration helpers ---

// restrictedPermissions is the muted-user permission set.
var restrictedPermissions = tgbotapi.ChatPermissions{}

// openPermissions restores standard member privileges.
var openPermissions = tgbotapi.ChatPermissions{
	CanSendMessages:       true,
	CanSendMediaMessages:  true,
	CanSendPolls:          true,
	CanSendOtherMessages:  true,
	CanAddWebPagePreviews: true,
	CanInviteUsers:        true,
}

// IsAdmin reports whether the user is a creator or administrator of the chat.
func (b *Bot) IsAdmin(chatID, userID int64) bool {
	member, err := b.API.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{ChatID: chatID, UserID: userID},
	})
	if err != nil {
		b.log.Debug("chat member lookup failed", zap.Error(err))
		return false
	}
	return member.Status == "creator" || member.Status == "administrator"
}

// MuteUser restricts a user from sending anything for the given duration.
func (b *Bot) MuteUser(chatID, userID int64, d time.Duration) error {
	perms := restrictedPermissions
	_, err := b.API.Request(tgbotapi.RestrictChatMemberConfig{
		ChatMemberConfig: tgbotapi.ChatMemberConfig{ChatID: chatID, UserID: userID},
		UntilDate:        time.Now().Add(d).Unix(),
		Permissions:      &perms,
	})
	if err != nil {
		return fmt.Errorf("mute user %d: %w", userID, err)
	}
	return nil
}

// SetChatLocked toggles chat-wide lockdown: locked leaves only admins able
// to post.
func (b *Bot) SetChatLocked(chatID int64, locked bool) error {
	perms := openPermissions
	if locked {
		perms = restrictedPermissions
	}
	_, err := b.API.Request(tgbotapi.SetChatPermissionsConfig{
		ChatConfig:  tgbotapi.ChatConfig{ChatID: chatID},
		Permissions: &perms,
	})
	if err != nil {
		return fmt.Errorf("set chat permissions: %w", err)
	}
	return nil
}

// HasLink reports whether a message carries a URL or text-link entity.
func HasLink(msg *tgbotapi.Message) bool {
	if msg == nil {
		return false
	}
	for _, entity := range msg.Entities {
		if entity.Type == "url" || entity.Type == "text_link" {
			return true
		}
	}
	return false
}
