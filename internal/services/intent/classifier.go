// File: internal/services/intent/classifier.go
package intent

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/haarwerk/haarwerk/internal/services/ai"
)

const classifyTimeout = 10 * time.Second

const classificationPrompt = `Klassifiziere die Absicht der folgenden Nachricht in genau EINE der folgenden Kategorien:

- product_recommendation: Der Nutzer fragt nach Produktempfehlungen, Produktvergleichen oder sucht nach bestimmten Haarpflegeprodukten
- hair_care_advice: Der Nutzer fragt nach allgemeinen Haarpflegetipps, Routinen oder Methoden
- diagnosis: Der Nutzer beschreibt ein Haarproblem und moechte eine Einschaetzung oder Ursachenanalyse
- routine_help: Der Nutzer moechte Hilfe bei der Erstellung oder Optimierung einer Haarpflege-Routine
- photo_analysis: Der Nutzer hat ein Bild hochgeladen und moechte eine Analyse seines Haarzustands
- ingredient_question: Der Nutzer fragt nach bestimmten Inhaltsstoffen, INCI-Listen oder deren Wirkung
- general_chat: Smalltalk, Begruessung oder allgemeine Unterhaltung rund ums Thema Haar
- followup: Eine Folgefrage oder Praezisierung zu einer vorherigen Antwort

Bestimme zusaetzlich, falls die Nachricht eine konkrete Produktart nennt, die Kategorie: shampoo, conditioner, mask, oil, leave_in oder routine. Sonst null.

Antworte NUR mit einem JSON-Objekt der Form {"intent": "...", "category": "..."} ohne weitere Erklaerung.

Nachricht: `

// CompletionProvider is the narrow slice of the AI service the classifier
// needs.
type CompletionProvider interface {
	Complete(ctx context.Context, req ai.CompletionRequest) (string, error)
}

// Logger is the key/value logging interface used by this package.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Classifier maps a user message to an intent and optional product category.
type Classifier struct {
	provider CompletionProvider
	model    string
	logger   Logger
}

func NewClassifier(provider CompletionProvider, model string, logger Logger) *Classifier {
	return &Classifier{
		provider: provider,
		model:    model,
		logger:   logger,
	}
}

// classifierOutput is the expected shape of the model's JSON answer.
type classifierOutput struct {
	Intent   string `json:"intent"`
	Category string `json:"category"`
}

// Classify determines the intent of message. Image-bearing messages are
// always routed to photo analysis without a provider call. Any provider or
// parse failure degrades to the general_chat default; this method never
// returns an error.
func (c *Classifier) Classify(ctx context.Context, message string, hasImage bool) Result {
	if hasImage {
		return Result{Intent: IntentPhotoAnalysis, Category: nil}
	}

	ctx, cancel := context.WithTimeout(ctx, classifyTimeout)
	defer cancel()

	raw, err := c.provider.Complete(ctx, ai.CompletionRequest{
		Model:       c.model,
		Prompt:      classificationPrompt + message,
		Temperature: 0,
		MaxTokens:   60,
		JSONMode:    true,
	})
	if err != nil {
		c.logger.Warn("intent classification failed, defaulting to general_chat", "error", err)
		return DefaultResult()
	}

	var out classifierOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		c.logger.Warn("intent classification returned malformed JSON", "error", err)
		return DefaultResult()
	}

	result := Result{
		Intent:   ParseIntent(strings.ToLower(strings.TrimSpace(out.Intent))),
		Category: ParseCategory(strings.ToLower(strings.TrimSpace(out.Category))),
	}

	c.logger.Debug("message classified", "intent", string(result.Intent))
	return result
}
