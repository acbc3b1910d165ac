package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wafam/salesbot/internal/config"
	"github.com/wafam/salesbot/internal/domain"
	"github.com/wafam/salesbot/internal/repository"
	"github.com/wafam/salesbot/internal/session"
)

type fakeRetriever struct {
	hits      []domain.SearchHit
	err       error
	lastQuery string
}

func (f *fakeRetriever) Search(_ context.Context, query string, _ int) ([]domain.SearchHit, error) {
	f.lastQuery = query
	return f.hits, f.err
}

type fakeCompleter struct {
	reply      string
	err        error
	lastSystem string
	lastTurns  []domain.Message
}

func (f *fakeCompleter) Complete(_ context.Context, system string, turns []domain.Message, _ int, _ float64) (string, error) {
	f.lastSystem = system
	f.lastTurns = turns
	return f.reply, f.err
}

type fixture struct {
	svc       *ChatService
	sessions  *session.Store
	leads     *repository.LeadRepository
	retriever *fakeRetriever
	completer *fakeCompleter
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := repository.NewDB(filepath.Join(t.TempDir(), "leads.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{}
	cfg.Knowledge.TopK = 2
	cfg.Knowledge.ScoreThreshold = 0.8
	cfg.Knowledge.SnippetLimit = 400
	cfg.Knowledge.TimeoutSecs = 5
	cfg.LLM.MaxTokens = 250
	cfg.LLM.Temperature = 0.3
	cfg.LLM.TimeoutSecs = 5
	cfg.Chat.HistoryLimit = 8
	cfg.Chat.PromptTurns = 3
	cfg.Chat.TurnLimit = 150

	sessions := session.NewStore(0, 0)
	t.Cleanup(sessions.Close)

	leads := repository.NewLeadRepository(db)
	retriever := &fakeRetriever{hits: []domain.SearchHit{
		{Content: "Okna DECCO 82 to standard.", Score: 0.3, Title: "Okna"},
	}}
	completer := &fakeCompleter{reply: "Dziękuję, handlowiec oddzwoni w ciągu 24h."}

	return &fixture{
		svc:       NewChatService(cfg, zap.NewNop(), sessions, leads, retriever, completer),
		sessions:  sessions,
		leads:     leads,
		retriever: retriever,
		completer: completer,
	}
}

func TestChatCapturesLeadOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Chat(ctx, "Chcę okna, mój telefon to 603693023", "default")
	require.NoError(t, err)
	assert.Equal(t, "Dziękuję, handlowiec oddzwoni w ciągu 24h.", resp.Bot)

	sess := f.sessions.GetOrCreate("default")
	assert.Equal(t, "okna", sess.Slot(session.SlotProduct))
	assert.Equal(t, "603693023", sess.Slot(session.SlotPhone))

	leads, err := f.leads.List("")
	require.NoError(t, err)
	require.Len(t, leads, 1)
	require.NotNil(t, leads[0].Phone)
	assert.Equal(t, "603693023", *leads[0].Phone)
	assert.Equal(t, "okna", leads[0].Product)
	assert.Equal(t, "default", leads[0].SessionID)

	// A second identical message must not create a duplicate lead.
	_, err = f.svc.Chat(ctx, "Chcę okna, mój telefon to 603693023", "default")
	require.NoError(t, err)

	count, err := f.leads.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestChatCapturesEmailLead(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Chat(context.Background(), "mój mail to Jan@WP.pl", "default")
	require.NoError(t, err)

	leads, err := f.leads.List("")
	require.NoError(t, err)
	require.Len(t, leads, 1)
	require.NotNil(t, leads[0].Email)
	assert.Equal(t, "jan@wp.pl", *leads[0].Email)
	assert.Equal(t, "nieznany", leads[0].Product)
}

func TestChatSourcesDedupedAndCapped(t *testing.T) {
	f := newFixture(t)
	f.retriever.hits = []domain.SearchHit{
		{Content: "a", Score: 0.1, Title: "Okna"},
		{Content: "b", Score: 0.2, Title: "Okna"},
		{Content: "c", Score: 0.3, Title: "Drzwi"},
		{Content: "d", Score: 0.4, Title: "Rolety"},
	}

	resp, err := f.svc.Chat(context.Background(), "co macie?", "default")
	require.NoError(t, err)
	assert.Equal(t, []string{"Okna", "Drzwi"}, resp.Sources)
}

func TestChatFiltersByThresholdAndDefaultsTitle(t *testing.T) {
	f := newFixture(t)
	f.retriever.hits = []domain.SearchHit{
		{Content: "blisko", Score: 0.5},
		{Content: "daleko", Score: 0.9, Title: "Ignorowane"},
	}

	resp, err := f.svc.Chat(context.Background(), "co macie?", "default")
	require.NoError(t, err)
	assert.Equal(t, []string{"Nieznane"}, resp.Sources)

	prompt := f.completer.lastTurns[len(f.completer.lastTurns)-1].Content
	assert.Contains(t, prompt, "blisko")
	assert.NotContains(t, prompt, "daleko")
}

func TestChatPromptStructure(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Chat(context.Background(), "Ile kosztują okna? Telefon 603693023", "default")
	require.NoError(t, err)

	assert.Equal(t, SystemPrompt, f.completer.lastSystem)

	prompt := f.completer.lastTurns[len(f.completer.lastTurns)-1].Content
	assert.Contains(t, prompt, "INTENCJA KLIENTA: cena")
	assert.Contains(t, prompt, "ZEBRANE DANE: Produkt: okna, Telefon: 603693023")
	assert.Contains(t, prompt, "DANE Z BAZY:\nOkna DECCO 82 to standard.")
	assert.Contains(t, prompt, "PYTANIE KLIENTA: Ile kosztują okna? Telefon 603693023")
	assert.Contains(t, prompt, "Nie zmieniaj tematu.")
}

func TestChatPromptPlaceholderWithoutKnowledge(t *testing.T) {
	f := newFixture(t)
	f.retriever.hits = nil

	_, err := f.svc.Chat(context.Background(), "dzień dobry", "default")
	require.NoError(t, err)

	prompt := f.completer.lastTurns[len(f.completer.lastTurns)-1].Content
	assert.Contains(t, prompt, "Brak szczegółowych danych w bazie.")
}

func TestChatExpandsShortFollowUpForRetrievalOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Chat(ctx, "ile kosztują okna", "default")
	require.NoError(t, err)

	_, err = f.svc.Chat(ctx, "tak", "default")
	require.NoError(t, err)

	// Retrieval sees the annotated query; history keeps the raw message.
	assert.Equal(t, "tak (kontekst: ile kosztują okna)", f.retriever.lastQuery)

	history := f.sessions.GetOrCreate("default").History()
	assert.Equal(t, "tak", history[2].Content)
}

func TestChatPriorTurnsWindowAndTruncation(t *testing.T) {
	f := newFixture(t)
	f.completer.reply = strings.Repeat("o", 300)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := f.svc.Chat(ctx, fmt.Sprintf("pytanie %d", i), "default")
		require.NoError(t, err)
	}

	// Three prior turns plus the structured prompt.
	require.Len(t, f.completer.lastTurns, 4)
	assert.Equal(t, "assistant", f.completer.lastTurns[0].Role)
	assert.Len(t, f.completer.lastTurns[0].Content, 150)

	// History stays bounded to eight raw entries.
	assert.Len(t, f.sessions.GetOrCreate("default").History(), 8)
}

func TestChatUpstreamErrors(t *testing.T) {
	f := newFixture(t)
	f.retriever.err = errors.New("connection refused")

	_, err := f.svc.Chat(context.Background(), "cześć", "default")
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)

	f.retriever.err = nil
	f.completer.err = errors.New("quota exceeded")

	_, err = f.svc.Chat(context.Background(), "cześć", "default")
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestChatDefaultSessionID(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Chat(context.Background(), "cześć", "")
	require.NoError(t, err)
	assert.NotEmpty(t, f.sessions.GetOrCreate(DefaultSessionID).History())
}

func TestSearchReturnsPairs(t *testing.T) {
	f := newFixture(t)

	results, err := f.svc.Search(context.Background(), "okna", 2)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Okna DECCO 82 to standard.", results[0].Content)
	assert.Equal(t, "Okna", results[0].Source)
}

func TestClearUnknownSessionIsNoOp(t *testing.T) {
	f := newFixture(t)
	f.svc.Clear("missing")
	assert.Equal(t, 0, f.sessions.Len())
}
