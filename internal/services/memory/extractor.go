// File: internal/services/memory/extractor.go

// Package memory derives durable facts about a user from finished
// conversation turns and merges them into the profile's memory blob.
// Extraction is incremental: a per-conversation watermark records the
// message count last processed, so repeated triggers at the same
// transcript length are no-ops.
package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/haarwerk/haarwerk/internal/domain"
	"github.com/haarwerk/haarwerk/internal/services/ai"
)

const extractTimeout = 30 * time.Second

// minUserMessages is the minimum number of user-authored messages before
// extraction runs. Shorter conversations carry too little signal.
const minUserMessages = 3

// noNewFactsSentinel is the exact answer the model gives when the
// conversation contains nothing worth remembering.
const noNewFactsSentinel = "KEINE_NEUEN_FAKTEN"

const extractionTemperature = 0.3
const extractionMaxTokens = 800

const extractionPrompt = `Du analysierst ein Beratungsgespraech zwischen einem Nutzer und einer Haar-Expertin. Extrahiere NEUE, dauerhafte Fakten ueber den Nutzer und sein Haar, die fuer zukuenftige Beratungen relevant sind.

Relevante Fakten sind zum Beispiel:
- Haareigenschaften, Kopfhautzustand, Diagnosen
- Verwendete oder abgelehnte Produkte und Inhaltsstoffe
- Gewohnheiten und Routinen (Waschfrequenz, Hitzestyling, Faerben)
- Ziele und Vorlieben des Nutzers

Regeln:
- Jeder Fakt ist eine eigene Zeile, beginnend mit "- "
- Nur Fakten, die NICHT bereits im bestehenden Gedaechtnis stehen
- Keine Vermutungen, nur explizit Gesagtes
- Kurz und praezise formulieren
- Wenn es keine neuen Fakten gibt, antworte exakt mit: KEINE_NEUEN_FAKTEN`

// ConversationStore is the subset of the conversation repository the
// extractor needs.
type ConversationStore interface {
	FindByID(ctx context.Context, id uint) (*domain.Conversation, error)
	AdvanceMemoryWatermark(ctx context.Context, conversationID uint, count int) error
}

// MessageStore loads a conversation's transcript.
type MessageStore interface {
	FindByConversationID(ctx context.Context, conversationID uint) ([]domain.Message, error)
}

// ProfileStore reads and writes the per-user memory blob.
type ProfileStore interface {
	FindByUserID(ctx context.Context, userID uint) (*domain.HairProfile, error)
	UpdateMemory(ctx context.Context, userID uint, memory string) error
}

// Logger is the key/value logging interface used by this package.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Extractor runs memory extraction for one conversation at a time.
type Extractor struct {
	provider      ai.CompletionProvider
	conversations ConversationStore
	messages      MessageStore
	profiles      ProfileStore
	model         string
	logger        Logger
}

func NewExtractor(
	provider ai.CompletionProvider,
	conversations ConversationStore,
	messages MessageStore,
	profiles ProfileStore,
	model string,
	logger Logger,
) *Extractor {
	return &Extractor{
		provider:      provider,
		conversations: conversations,
		messages:      messages,
		profiles:      profiles,
		model:         model,
		logger:        logger,
	}
}

// ExtractAndMerge loads the conversation transcript, asks the model for new
// durable facts and append-merges them into the user's memory blob under
// the hard cap. The watermark advances in every path that consumed the
// transcript, including the no-new-facts one, so re-invocation at an
// unchanged message count does nothing.
func (e *Extractor) ExtractAndMerge(ctx context.Context, conversationID, userID uint) error {
	ctx, cancel := context.WithTimeout(ctx, extractTimeout)
	defer cancel()

	messages, err := e.messages.FindByConversationID(ctx, conversationID)
	if err != nil {
		return fmt.Errorf("load messages: %w", err)
	}

	userMessages := 0
	for _, m := range messages {
		if m.Role == domain.RoleUser {
			userMessages++
		}
	}
	if userMessages < minUserMessages {
		e.logger.Debug("skipping extraction, conversation too short",
			"conversation_id", conversationID, "user_messages", userMessages)
		return nil
	}

	conv, err := e.conversations.FindByID(ctx, conversationID)
	if err != nil {
		return fmt.Errorf("load conversation: %w", err)
	}
	if conv.MemoryExtractedAtCount >= len(messages) {
		e.logger.Debug("skipping extraction, watermark current",
			"conversation_id", conversationID, "watermark", conv.MemoryExtractedAtCount)
		return nil
	}

	prof, err := e.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	existing := prof.ConversationMemory

	result, err := e.provider.Complete(ctx, ai.CompletionRequest{
		Model:       e.model,
		Prompt:      buildExtractionPrompt(existing, transcript(messages)),
		Temperature: extractionTemperature,
		MaxTokens:   extractionMaxTokens,
	})
	if err != nil {
		return fmt.Errorf("extraction completion: %w", err)
	}

	result = strings.TrimSpace(result)
	if result == "" || result == noNewFactsSentinel {
		// Record that this transcript length was processed so the next
		// trigger does not re-ask.
		if err := e.conversations.AdvanceMemoryWatermark(ctx, conversationID, len(messages)); err != nil {
			return fmt.Errorf("advance watermark: %w", err)
		}
		return nil
	}

	merged := mergeMemory(existing, result)
	if err := e.profiles.UpdateMemory(ctx, userID, merged); err != nil {
		return fmt.Errorf("persist memory: %w", err)
	}
	if err := e.conversations.AdvanceMemoryWatermark(ctx, conversationID, len(messages)); err != nil {
		return fmt.Errorf("advance watermark: %w", err)
	}

	e.logger.Info("memory extracted",
		"conversation_id", conversationID, "memory_len", len(merged))
	return nil
}

// transcript renders messages as "speaker: content" lines in order.
func transcript(messages []domain.Message) string {
	var b strings.Builder
	for i, m := range messages {
		if i > 0 {
			b.WriteByte('\n')
		}
		speaker := "Tom"
		if m.Role == domain.RoleUser {
			speaker = "Nutzer"
		}
		b.WriteString(speaker)
		b.WriteString(": ")
		b.WriteString(m.Content)
	}
	return b.String()
}

func buildExtractionPrompt(existing, transcript string) string {
	if existing != "" {
		return extractionPrompt + "\n\nBestehendes Gedaechtnis:\n" + existing + "\n\nGespraech:\n" + transcript
	}
	return extractionPrompt + "\n\nGespraech:\n" + transcript
}

// mergeMemory append-merges the new facts and enforces the hard cap.
// When the cap truncates mid-line, the result is trimmed back to the last
// complete line so no dangling partial fact is stored.
func mergeMemory(existing, result string) string {
	merged := result
	if existing != "" {
		merged = existing + "\n" + result
	}
	if len(merged) > domain.MemoryHardCap {
		merged = merged[:domain.MemoryHardCap]
		if last := strings.LastIndexByte(merged, '\n'); last > 0 {
			merged = merged[:last]
		}
	}
	return merged
}
