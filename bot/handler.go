// Package bot is the Telegram front end: it keeps each user's shared
// location, asks for one when a directions question arrives without it, and
// relays questions to the assistant.
package bot

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/va6996/routebot/geo"
	"github.com/va6996/routebot/log"
	"github.com/va6996/routebot/session"
)

const (
	ShareLocationButton = "📍 Share My Location"
	SkipLocationButton  = "❌ Skip Location"

	welcomeText         = "Howdy, how are you doing?"
	requestLocationText = "🗺️ To give you accurate directions from your current location, please share your location by tapping the button below:\n\n📱 This helps me calculate the best route for you!"
	skipLocationText    = "⚠️ No problem! You can still ask for directions, but you'll need to specify your starting location in your message.\n\nFor example: 'Directions from Times Square to Central Park'"

	// maxMessageRunes is Telegram's limit on a single text message
	maxMessageRunes = 4096
)

// Sender is the part of the Telegram client the handler needs
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Asker answers a user's question
type Asker interface {
	Ask(ctx context.Context, question string, userID int64) string
}

// AddressResolver turns a shared coordinate into something readable
type AddressResolver interface {
	ReverseGeocode(ctx context.Context, coord geo.Coordinate) string
}

// Handler reacts to Telegram updates
type Handler struct {
	sender    Sender
	asker     Asker
	store     session.Store
	addresses AddressResolver
	location  *time.Location
	now       func() time.Time
}

// NewHandler wires a handler. addresses may be nil, in which case shared
// locations are shown as coordinates. loc is used for plan timestamps.
func NewHandler(sender Sender, asker Asker, store session.Store, addresses AddressResolver, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		sender:    sender,
		asker:     asker,
		store:     store,
		addresses: addresses,
		location:  loc,
		now:       time.Now,
	}
}

// HandleUpdate dispatches one update. Errors are logged and, where a chat
// is known, reported to the user.
func (h *Handler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	switch {
	case msg.IsCommand():
		h.handleCommand(ctx, msg)
	case msg.Location != nil:
		h.handleLocation(ctx, msg)
	case msg.Text == SkipLocationButton:
		h.handleSkipLocation(ctx, msg)
	case msg.Text != "":
		h.handleText(ctx, msg)
	}
}

func (h *Handler) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start", "hello":
		h.reply(ctx, msg, welcomeText)
	case "location":
		h.requestLocation(ctx, msg, session.ManualLocationRequest)
	default:
		h.handleText(ctx, msg)
	}
}

func (h *Handler) handleLocation(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	rec, err := h.store.Get(ctx, userID)
	if err != nil {
		h.sendError(ctx, msg.Chat.ID, err)
		return
	}

	sample := &geo.LocationSample{
		Latitude:   msg.Location.Latitude,
		Longitude:  msg.Location.Longitude,
		CapturedAt: h.now(),
	}
	rec.CurrentLocation = sample
	pending := rec.PendingQuery
	rec.PendingQuery = ""
	if err := h.store.Put(ctx, userID, rec); err != nil {
		h.sendError(ctx, msg.Chat.ID, err)
		return
	}
	log.Infof(ctx, "Stored location for user %d", userID)

	address := sample.Coordinate().Label()
	if h.addresses != nil {
		address = h.addresses.ReverseGeocode(ctx, sample.Coordinate())
	}

	if pending == session.ManualLocationRequest {
		h.send(ctx, msg.Chat.ID, fmt.Sprintf("📍 Location saved: %s\n\n✅ You can now ask for directions and I'll use this location!", address), tgbotapi.NewRemoveKeyboard(false))
		return
	}

	h.send(ctx, msg.Chat.ID, fmt.Sprintf("📍 Got your location: %s\n\nNow processing your request...", address), tgbotapi.NewRemoveKeyboard(false))
	if pending != "" {
		h.send(ctx, msg.Chat.ID, h.asker.Ask(ctx, pending, userID), nil)
	}
}

func (h *Handler) handleSkipLocation(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	h.send(ctx, msg.Chat.ID, skipLocationText, tgbotapi.NewRemoveKeyboard(false))

	rec, err := h.store.Get(ctx, userID)
	if err != nil {
		h.sendError(ctx, msg.Chat.ID, err)
		return
	}
	pending := rec.PendingQuery
	if pending == "" {
		return
	}
	rec.PendingQuery = ""
	if err := h.store.Put(ctx, userID, rec); err != nil {
		h.sendError(ctx, msg.Chat.ID, err)
		return
	}
	if pending != session.ManualLocationRequest {
		h.send(ctx, msg.Chat.ID, h.asker.Ask(ctx, pending, userID), nil)
	}
}

func (h *Handler) handleText(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID

	if NeedsDirections(msg.Text) {
		rec, err := h.store.Get(ctx, userID)
		if err != nil {
			h.sendError(ctx, msg.Chat.ID, err)
			return
		}
		if _, ok := geo.FreshLocation(rec.CurrentLocation, h.now()); !ok {
			h.requestLocation(ctx, msg, msg.Text)
			return
		}
		log.Debugf(ctx, "Using saved location for user %d", userID)
	}

	answer := h.asker.Ask(ctx, msg.Text, userID)
	if NeedsPlanModification(msg.Text) {
		h.pinPlan(ctx, msg, answer)
		return
	}
	h.reply(ctx, msg, answer)
}

// requestLocation parks query until the user shares or skips a location
func (h *Handler) requestLocation(ctx context.Context, msg *tgbotapi.Message, query string) {
	rec, err := h.store.Get(ctx, msg.From.ID)
	if err != nil {
		h.sendError(ctx, msg.Chat.ID, err)
		return
	}
	rec.PendingQuery = query
	if err := h.store.Put(ctx, msg.From.ID, rec); err != nil {
		h.sendError(ctx, msg.Chat.ID, err)
		return
	}

	keyboard := tgbotapi.NewReplyKeyboard(tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButtonLocation(ShareLocationButton),
		tgbotapi.NewKeyboardButton(SkipLocationButton),
	))
	keyboard.ResizeKeyboard = true
	keyboard.OneTimeKeyboard = true
	h.send(ctx, msg.Chat.ID, requestLocationText, keyboard)
}

// FormatTravelPlan wraps an answer as the pinned travel plan
func FormatTravelPlan(answer string, updated time.Time) string {
	return fmt.Sprintf("📋 **Your Travel Plan**\n\n%s\n\n_Last updated: %s_", answer, updated.Format("2006-01-02 15:04"))
}

// pinPlan posts the answer as the travel plan and pins it in place of the
// previous one
func (h *Handler) pinPlan(ctx context.Context, msg *tgbotapi.Message, answer string) {
	chatID := msg.Chat.ID
	sent, ok := h.send(ctx, chatID, FormatTravelPlan(answer, h.now().In(h.location)), nil)
	if !ok {
		return
	}

	rec, err := h.store.Get(ctx, msg.From.ID)
	if err != nil {
		h.sendError(ctx, chatID, err)
		return
	}
	if rec.PinnedMessageID != 0 {
		if _, err := h.sender.Request(tgbotapi.UnpinChatMessageConfig{ChatID: chatID, MessageID: rec.PinnedMessageID}); err != nil {
			log.Warnf(ctx, "Failed to unpin message %d: %v", rec.PinnedMessageID, err)
		}
	}
	if _, err := h.sender.Request(tgbotapi.PinChatMessageConfig{ChatID: chatID, MessageID: sent.MessageID, DisableNotification: true}); err != nil {
		log.Warnf(ctx, "Failed to pin message %d: %v", sent.MessageID, err)
		h.send(ctx, chatID, fmt.Sprintf("Error pinning message: %v", err), nil)
		return
	}

	rec.PinnedMessageID = sent.MessageID
	if err := h.store.Put(ctx, msg.From.ID, rec); err != nil {
		log.Warnf(ctx, "Failed to remember pinned message: %v", err)
	}
}

func (h *Handler) reply(ctx context.Context, msg *tgbotapi.Message, text string) {
	h.sendChunks(ctx, msg.Chat.ID, text, nil, msg.MessageID)
}

func (h *Handler) send(ctx context.Context, chatID int64, text string, markup interface{}) (tgbotapi.Message, bool) {
	return h.sendChunks(ctx, chatID, text, markup, 0)
}

// sendChunks sends text split to Telegram's size limit. markup and the
// reply reference go on the first chunk. It returns the last sent message.
func (h *Handler) sendChunks(ctx context.Context, chatID int64, text string, markup interface{}, replyTo int) (tgbotapi.Message, bool) {
	var last tgbotapi.Message
	for i, chunk := range splitMessage(text, maxMessageRunes) {
		cfg := tgbotapi.NewMessage(chatID, chunk)
		if i == 0 {
			cfg.ReplyToMessageID = replyTo
			if markup != nil {
				cfg.ReplyMarkup = markup
			}
		}
		sent, err := h.sender.Send(cfg)
		if err != nil {
			log.Errorf(ctx, "Failed to send message to chat %d: %v", chatID, err)
			return last, false
		}
		last = sent
	}
	return last, true
}

func (h *Handler) sendError(ctx context.Context, chatID int64, err error) {
	log.Errorf(ctx, "Handler error: %v", err)
	h.send(ctx, chatID, fmt.Sprintf("Sorry, I encountered an error: %v", err), nil)
}

// splitMessage cuts text into pieces of at most limit runes, preferring to
// break after a newline.
func splitMessage(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}

	var parts []string
	for len(runes) > limit {
		cut := limit
		for i := limit - 1; i > limit/2; i-- {
			if runes[i] == '\n' {
				cut = i + 1
				break
			}
		}
		parts = append(parts, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}
