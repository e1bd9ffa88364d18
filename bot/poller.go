package bot

import (
	"context"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	reqctx "github.com/va6996/routebot/context"
	"github.com/va6996/routebot/log"
)

const defaultPollTimeout = 60

// Bot long-polls Telegram and hands every update to a Handler
type Bot struct {
	api         *tgbotapi.BotAPI
	handler     *Handler
	// pollTimeout is the long-poll timeout in seconds
	pollTimeout int
}

// NewBotAPI connects to Telegram with token
func NewBotAPI(token string) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}
	return api, nil
}

func NewBot(api *tgbotapi.BotAPI, handler *Handler, pollTimeout int) *Bot {
	if pollTimeout <= 0 {
		pollTimeout = defaultPollTimeout
	}
	return &Bot{api: api, handler: handler, pollTimeout: pollTimeout}
}

// Run polls until ctx is cancelled, then waits for in-flight updates
func (b *Bot) Run(ctx context.Context) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = b.pollTimeout
	cfg.AllowedUpdates = []string{"message"}

	updates := b.api.GetUpdatesChan(cfg)
	log.Infof(ctx, "Bot @%s is polling for updates", b.api.Self.UserName)

	var wg sync.WaitGroup
	defer wg.Wait()
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			log.Infof(ctx, "Bot stopped polling")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			wg.Add(1)
			go func(update tgbotapi.Update) {
				defer wg.Done()
				b.dispatch(ctx, update)
			}(update)
		}
	}
}

func (b *Bot) dispatch(ctx context.Context, update tgbotapi.Update) {
	var userID int64
	if from := update.SentFrom(); from != nil {
		userID = from.ID
	}
	ctx = reqctx.NewRequest(ctx, userID)

	defer func() {
		if r := recover(); r != nil {
			log.Errorf(ctx, "Recovered from panic handling update %d: %v", update.UpdateID, r)
		}
	}()
	log.Debugf(ctx, "Handling update %d", update.UpdateID)
	b.handler.HandleUpdate(ctx, update)
}
