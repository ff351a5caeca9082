// File: internal/services/title/title.go

// Package title generates short German conversation titles from the first
// user message.
package title

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/haarwerk/haarwerk/internal/services/ai"
)

const generateTimeout = 10 * time.Second

const titleTemperature = 0.5
const titleMaxTokens = 30

const titlePrompt = `Generiere einen kurzen, praegnanten deutschen Titel (maximal 5 Woerter) fuer eine Unterhaltung, die mit der folgenden Nachricht beginnt. Der Titel soll das Hauptthema erfassen.

Antworte NUR mit dem Titel, ohne Anfuehrungszeichen oder zusaetzliche Erklaerung.

Nachricht: `

// TitleStore persists a generated title.
type TitleStore interface {
	UpdateTitle(ctx context.Context, conversationID uint, title string) error
}

// Logger is the key/value logging interface used by this package.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Generator produces and persists conversation titles.
type Generator struct {
	provider      ai.CompletionProvider
	conversations TitleStore
	model         string
	logger        Logger
}

func NewGenerator(provider ai.CompletionProvider, conversations TitleStore, model string, logger Logger) *Generator {
	return &Generator{
		provider:      provider,
		conversations: conversations,
		model:         model,
		logger:        logger,
	}
}

// Generate asks the model for a title based on the first user message and
// stores it. An empty answer leaves the conversation untitled.
func (g *Generator) Generate(ctx context.Context, conversationID uint, firstMessage string) error {
	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	result, err := g.provider.Complete(ctx, ai.CompletionRequest{
		Model:       g.model,
		Prompt:      titlePrompt + firstMessage,
		Temperature: titleTemperature,
		MaxTokens:   titleMaxTokens,
	})
	if err != nil {
		return fmt.Errorf("title completion: %w", err)
	}

	title := strings.TrimSpace(result)
	if title == "" {
		g.logger.Debug("empty title result", "conversation_id", conversationID)
		return nil
	}

	if err := g.conversations.UpdateTitle(ctx, conversationID, title); err != nil {
		return fmt.Errorf("persist title: %w", err)
	}
	return nil
}

// Dispatch runs Generate in the background. Failures are logged and never
// reach the caller.
func (g *Generator) Dispatch(conversationID uint, firstMessage string) {
	go func() {
		if err := g.Generate(context.Background(), conversationID, firstMessage); err != nil {
			g.logger.Error("title generation failed",
				"conversation_id", conversationID, "error", err)
		}
	}()
}
