// File: internal/services/memory/extractor_test.go
package memory

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haarwerk/haarwerk/internal/domain"
	"github.com/haarwerk/haarwerk/internal/services/ai"
)

type fakeProvider struct {
	response string
	err      error
	calls    int
	lastReq  ai.CompletionRequest
}

func (f *fakeProvider) Complete(ctx context.Context, req ai.CompletionRequest) (string, error) {
	f.calls++
	f.lastReq = req
	return f.response, f.err
}

func (f *fakeProvider) StreamCompletion(ctx context.Context, req ai.CompletionRequest, onDelta func(string) error) error {
	return errors.New("not implemented")
}

type fakeConversations struct {
	conv *domain.Conversation
}

func (f *fakeConversations) FindByID(ctx context.Context, id uint) (*domain.Conversation, error) {
	return f.conv, nil
}

func (f *fakeConversations) AdvanceMemoryWatermark(ctx context.Context, conversationID uint, count int) error {
	if count > f.conv.MemoryExtractedAtCount {
		f.conv.MemoryExtractedAtCount = count
	}
	return nil
}

type fakeMessages struct {
	messages []domain.Message
}

func (f *fakeMessages) FindByConversationID(ctx context.Context, conversationID uint) ([]domain.Message, error) {
	return f.messages, nil
}

type fakeProfiles struct {
	prof    *domain.HairProfile
	updates int
}

func (f *fakeProfiles) FindByUserID(ctx context.Context, userID uint) (*domain.HairProfile, error) {
	return f.prof, nil
}

func (f *fakeProfiles) UpdateMemory(ctx context.Context, userID uint, memory string) error {
	if len(memory) > domain.MemoryHardCap {
		return errors.New("memory exceeds cap")
	}
	f.prof.ConversationMemory = memory
	f.updates++
	return nil
}

type noopLogger struct{}

func (noopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (noopLogger) Error(msg string, keysAndValues ...interface{}) {}
func (noopLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (noopLogger) Warn(msg string, keysAndValues ...interface{})  {}

func conversationOf(turns int) []domain.Message {
	var messages []domain.Message
	for i := 0; i < turns; i++ {
		messages = append(messages,
			domain.Message{Role: domain.RoleUser, Content: "Frage"},
			domain.Message{Role: domain.RoleAssistant, Content: "Antwort"},
		)
	}
	return messages
}

func newFixture(provider *fakeProvider, messages []domain.Message, existingMemory string) (*Extractor, *fakeConversations, *fakeProfiles) {
	conversations := &fakeConversations{conv: &domain.Conversation{ID: 1, UserID: 7}}
	profiles := &fakeProfiles{prof: &domain.HairProfile{UserID: 7, ConversationMemory: existingMemory}}
	extractor := NewExtractor(provider, conversations, &fakeMessages{messages: messages}, profiles, "test-model", noopLogger{})
	return extractor, conversations, profiles
}

func TestExtractSkipsShortConversations(t *testing.T) {
	provider := &fakeProvider{response: "- Fakt"}
	extractor, conversations, profiles := newFixture(provider, conversationOf(2), "")

	err := extractor.ExtractAndMerge(context.Background(), 1, 7)

	require.NoError(t, err)
	assert.Zero(t, provider.calls)
	assert.Zero(t, conversations.conv.MemoryExtractedAtCount)
	assert.Zero(t, profiles.updates)
}

func TestExtractSkipsWhenWatermarkCurrent(t *testing.T) {
	provider := &fakeProvider{response: "- Fakt"}
	messages := conversationOf(3)
	extractor, conversations, profiles := newFixture(provider, messages, "")
	conversations.conv.MemoryExtractedAtCount = len(messages)

	err := extractor.ExtractAndMerge(context.Background(), 1, 7)

	require.NoError(t, err)
	assert.Zero(t, provider.calls)
	assert.Zero(t, profiles.updates)
}

func TestExtractMergesAndAdvancesWatermark(t *testing.T) {
	provider := &fakeProvider{response: "- Nutzer hat feines Haar"}
	messages := conversationOf(3)
	extractor, conversations, profiles := newFixture(provider, messages, "")

	err := extractor.ExtractAndMerge(context.Background(), 1, 7)

	require.NoError(t, err)
	assert.Equal(t, "- Nutzer hat feines Haar", profiles.prof.ConversationMemory)
	assert.Equal(t, len(messages), conversations.conv.MemoryExtractedAtCount)
}

func TestExtractAppendsToExistingMemory(t *testing.T) {
	provider := &fakeProvider{response: "- Neuer Fakt"}
	extractor, _, profiles := newFixture(provider, conversationOf(3), "- Alter Fakt")

	err := extractor.ExtractAndMerge(context.Background(), 1, 7)

	require.NoError(t, err)
	assert.Equal(t, "- Alter Fakt\n- Neuer Fakt", profiles.prof.ConversationMemory)
	assert.Contains(t, provider.lastReq.Prompt, "Bestehendes Gedaechtnis:")
	assert.Contains(t, provider.lastReq.Prompt, "- Alter Fakt")
}

// Calling twice with no new messages changes nothing after the first call.
func TestExtractIdempotentAtSameMessageCount(t *testing.T) {
	provider := &fakeProvider{response: "- Fakt"}
	extractor, conversations, profiles := newFixture(provider, conversationOf(3), "")

	require.NoError(t, extractor.ExtractAndMerge(context.Background(), 1, 7))
	firstMemory := profiles.prof.ConversationMemory
	firstWatermark := conversations.conv.MemoryExtractedAtCount

	require.NoError(t, extractor.ExtractAndMerge(context.Background(), 1, 7))

	assert.Equal(t, 1, provider.calls)
	assert.Equal(t, firstMemory, profiles.prof.ConversationMemory)
	assert.Equal(t, firstWatermark, conversations.conv.MemoryExtractedAtCount)
}

func TestExtractSentinelAdvancesWatermarkOnly(t *testing.T) {
	provider := &fakeProvider{response: "KEINE_NEUEN_FAKTEN"}
	messages := conversationOf(3)
	extractor, conversations, profiles := newFixture(provider, messages, "- Bestehender Fakt")

	err := extractor.ExtractAndMerge(context.Background(), 1, 7)

	require.NoError(t, err)
	assert.Equal(t, "- Bestehender Fakt", profiles.prof.ConversationMemory)
	assert.Zero(t, profiles.updates)
	assert.Equal(t, len(messages), conversations.conv.MemoryExtractedAtCount)
}

func TestExtractTranscriptRendersSpeakers(t *testing.T) {
	provider := &fakeProvider{response: "KEINE_NEUEN_FAKTEN"}
	extractor, _, _ := newFixture(provider, conversationOf(3), "")

	require.NoError(t, extractor.ExtractAndMerge(context.Background(), 1, 7))

	assert.Contains(t, provider.lastReq.Prompt, "Nutzer: Frage")
	assert.Contains(t, provider.lastReq.Prompt, "Tom: Antwort")
}

// Repeated extraction rounds never push the stored memory past the cap,
// and a truncated memory never ends mid-line.
func TestMemoryCapInvariant(t *testing.T) {
	fact := "- " + strings.Repeat("x", 120)
	memory := ""

	for round := 0; round < 40; round++ {
		memory = mergeMemory(memory, fact)

		require.LessOrEqual(t, len(memory), domain.MemoryHardCap)
		// All facts are identical, so a clean cut means every stored
		// line is a complete fact.
		for _, line := range strings.Split(memory, "\n") {
			require.Equal(t, fact, line)
		}
	}
}

func TestMergeMemoryTrimsToLastLine(t *testing.T) {
	existing := strings.Repeat("a", domain.MemoryHardCap-10) + "\n- alt"
	merged := mergeMemory(existing, "- ein ziemlich langer neuer Fakt")

	assert.LessOrEqual(t, len(merged), domain.MemoryHardCap)
	// Cut lands on the last complete line, not inside the appended fact.
	assert.True(t, strings.HasSuffix(merged, "\n- alt"))
}

func TestMergeMemoryWithoutExisting(t *testing.T) {
	assert.Equal(t, "- Fakt", mergeMemory("", "- Fakt"))
}
