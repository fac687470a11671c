package botkit

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// HandlerFunc is the function signature for all update handlers.
type HandlerFunc func(bot *Bot, update tgbotapi.Update)

// messageRoute pairs a chat-type filter with a handler.
type messageRoute struct {
	filter  string // "private", "group", "all"
	handler HandlerFunc
}

// Router dispatches incoming updates to registered handlers.
//
// Dispatch priority:
//  1. Command handlers (exact match on command name)
//  2. Message handlers (filter match on chat type)
type Router struct {
	commands map[string]HandlerFunc
	messages []messageRoute
}

// NewRouter creates an empty Router.
func NewRouter() *Router {
	return &Router{commands: make(map[string]HandlerFunc)}
}

// AddCommand registers a handler for a bot command (e.g. "price" for /price).
func (r *Router) AddCommand(name string, handler HandlerFunc) {
	r.commands[name] = handler
}

// AddMessage registers a handler for non-command text messages matching the
// filter.
//
// Supported filters:
//   - "private": only private (DM) messages
//   - "group":   only group and supergroup messages
//   - "all":     all text messages
func (r *Router) AddMessage(filter string, handler HandlerFunc) {
	r.messages = append(r.messages, messageRoute{filter: strings.ToLower(filter), handler: handler})
}

// Dispatch routes an update to the appropriate handler.
// Returns true if a handler was found and invoked.
func (r *Router) Dispatch(bot *Bot, update tgbotapi.Update) bool {
	if update.Message == nil || update.Message.Text == "" {
		return false
	}

	if update.Message.IsCommand() {
		if handler, ok := r.commands[update.Message.Command()]; ok {
			handler(bot, update)
			return true
		}
		// Unknown commands are dropped; they are not chat messages.
	}

	if !update.Message.IsCommand() {
		chatType := ""
		if update.Message.Chat != nil {
			chatType = strings.ToLower(update.Message.Chat.Type)
		}
		for _, route := range r.messages {
			if matchMessageFilter(route.filter, chatType) {
				route.handler(bot, update)
				return true
			}
		}
	}

	return false
}

func matchMessageFilter(filter, chatType string) bool {
	switch filter {
	case "all":
		return true
	case "private":
		return chatType == "private"
	case "group":
		return chatType == "group" || chatType == "supergroup"
	default:
		return false
	}
}
