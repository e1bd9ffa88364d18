package agents

import (
	"context"
	"strings"
	"time"

	"github.com/va6996/routebot/geo"
	"github.com/va6996/routebot/log"
	"github.com/va6996/routebot/routing"
	"github.com/va6996/routebot/session"
)

// Roles stored in session history
const (
	RoleUser  = "user"
	RoleModel = "model"
)

const (
	// DefaultHistoryLimit bounds the turns replayed to the model per user
	DefaultHistoryLimit = 20

	noResponse = "Sorry, I couldn't generate a response."
)

// GenerateRequest is one model call: system prompt, prior turns, new prompt
type GenerateRequest struct {
	System  string
	History []session.Turn
	Prompt  string
}

// Generator produces the model's final answer, running tools as needed
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// Assistant answers chat questions with per-user memory and location context
type Assistant struct {
	gen          Generator
	store        session.Store
	historyLimit int
	now          func() time.Time
}

func NewAssistant(gen Generator, store session.Store, historyLimit int) *Assistant {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &Assistant{
		gen:          gen,
		store:        store,
		historyLimit: historyLimit,
		now:          time.Now,
	}
}

// Ask answers question for userID. Failures are returned as text.
func (a *Assistant) Ask(ctx context.Context, question string, userID int64) string {
	rec, err := a.store.Get(ctx, userID)
	if err != nil {
		log.Warnf(ctx, "Failed to load session, continuing without it: %v", err)
		rec = session.Record{}
	}

	now := a.now()
	uc := routing.UserContext{}
	if sample, ok := geo.FreshLocation(rec.CurrentLocation, now); ok {
		uc.CurrentLocation = &sample
	}
	ctx = routing.WithUserContext(ctx, uc)

	log.Infof(ctx, "Asking assistant (history=%d, location=%t)", len(rec.History), uc.CurrentLocation != nil)
	answer, err := a.gen.Generate(ctx, GenerateRequest{
		System:  SystemPrompt(LocationContext(rec.CurrentLocation, now)),
		History: rec.History,
		Prompt:  question,
	})
	if err != nil {
		log.Errorf(ctx, "Error during agent execution: %v", err)
		return "Error: " + err.Error()
	}
	if strings.TrimSpace(answer) == "" {
		return noResponse
	}

	// Reload so a location shared while the model was busy is kept
	if latest, err := a.store.Get(ctx, userID); err == nil {
		rec = latest
	}
	rec.History = append(rec.History,
		session.Turn{Role: RoleUser, Text: question},
		session.Turn{Role: RoleModel, Text: answer},
	)
	rec.TrimHistory(a.historyLimit)
	if err := a.store.Put(ctx, userID, rec); err != nil {
		log.Warnf(ctx, "Failed to save conversation: %v", err)
	}

	return answer
}
