package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/wafam/salesbot/internal/config"
	"github.com/wafam/salesbot/internal/contact"
	"github.com/wafam/salesbot/internal/domain"
	"github.com/wafam/salesbot/internal/intent"
	"github.com/wafam/salesbot/internal/llm"
	"github.com/wafam/salesbot/internal/query"
	"github.com/wafam/salesbot/internal/rag"
	"github.com/wafam/salesbot/internal/repository"
	"github.com/wafam/salesbot/internal/session"
)

// DefaultSessionID is used when the caller does not supply one.
const DefaultSessionID = "default"

// Product detection buckets, checked in priority order; the first bucket
// with a keyword hit wins.
var productBuckets = []struct {
	product  string
	keywords []string
}{
	{"okna", []string{"okna", "okno"}},
	{"drzwi", []string{"drzwi"}},
	{"rolety", []string{"rolety", "roleta"}},
	{"bramy", []string{"brama", "bramy", "garaż"}},
}

// ChatService orchestrates a conversation turn: slot and lead capture,
// intent classification, query expansion, retrieval, prompt assembly,
// completion, and history upkeep.
type ChatService struct {
	cfg       *config.Config
	logger    *zap.Logger
	sessions  *session.Store
	leads     *repository.LeadRepository
	retriever rag.Retriever
	completer llm.Completer
}

// NewChatService creates a new chat service
func NewChatService(
	cfg *config.Config,
	logger *zap.Logger,
	sessions *session.Store,
	leads *repository.LeadRepository,
	retriever rag.Retriever,
	completer llm.Completer,
) *ChatService {
	return &ChatService{
		cfg:       cfg,
		logger:    logger,
		sessions:  sessions,
		leads:     leads,
		retriever: retriever,
		completer: completer,
	}
}

// Chat handles one user message and returns the reply with up to two
// cited source titles.
func (s *ChatService) Chat(ctx context.Context, text, sessionID string) (*domain.ChatResponse, error) {
	if sessionID == "" {
		sessionID = DefaultSessionID
	}
	sess := s.sessions.GetOrCreate(sessionID)

	s.updateCollected(sess, text, sessionID)

	msgIntent := intent.Classify(text)

	// The expanded form is used for retrieval only; history and the
	// prompt keep the raw message.
	expanded := query.Expand(text, sess)

	contexts, sources, err := s.searchKnowledge(ctx, expanded, s.cfg.Knowledge.TopK)
	if err != nil {
		return nil, err
	}

	collected := buildCollectedSummary(sess.Slots())
	userPrompt := buildUserPrompt(msgIntent, collected, strings.Join(contexts, "\n"), text)

	sess.AppendHistory("user", text, s.cfg.Chat.HistoryLimit)

	turns := s.buildTurns(sess, userPrompt)

	cctx, cancel := context.WithTimeout(ctx, s.cfg.LLMTimeout())
	defer cancel()
	reply, err := s.completer.Complete(cctx, SystemPrompt, turns, s.cfg.LLM.MaxTokens, s.cfg.LLM.Temperature)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}

	sess.AppendHistory("assistant", reply, s.cfg.Chat.HistoryLimit)

	return &domain.ChatResponse{
		Bot:     reply,
		Sources: uniqueHead(sources, 2),
	}, nil
}

// Search exposes raw retrieval hits for the search endpoint.
func (s *ChatService) Search(ctx context.Context, q string, limit int) ([]domain.SearchResult, error) {
	contexts, sources, err := s.searchKnowledge(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	results := make([]domain.SearchResult, len(contexts))
	for i := range contexts {
		results[i] = domain.SearchResult{Content: contexts[i], Source: sources[i]}
	}
	return results, nil
}

// Clear drops a session's conversation state. Unknown ids are a no-op.
func (s *ChatService) Clear(sessionID string) {
	if sessionID == "" {
		sessionID = DefaultSessionID
	}
	s.sessions.Clear(sessionID)
}

// updateCollected records the product and contact details mentioned in
// the message and captures a lead for each newly seen contact field.
func (s *ChatService) updateCollected(sess *session.Session, text, sessionID string) {
	lower := strings.ToLower(text)
	for _, b := range productBuckets {
		matched := false
		for _, kw := range b.keywords {
			if strings.Contains(lower, kw) {
				sess.SetSlot(session.SlotProduct, b.product)
				matched = true
				break
			}
		}
		if matched {
			break
		}
	}

	info := contact.Extract(text)

	if info.Phone != "" {
		sess.SetSlot(session.SlotPhone, info.Phone)
		s.captureLead(info.Phone, "", sess.Slot(session.SlotProduct), sessionID)
	}
	if info.Email != "" {
		sess.SetSlot(session.SlotEmail, info.Email)
		s.captureLead("", info.Email, sess.Slot(session.SlotProduct), sessionID)
	}
}

func (s *ChatService) captureLead(phone, email, product, sessionID string) {
	added, err := s.leads.Add(phone, email, product, sessionID)
	if err != nil {
		s.logger.Error("failed to store lead", zap.Error(err))
		return
	}
	if added {
		s.logger.Info("new lead captured",
			zap.String("phone", phone),
			zap.String("email", email),
			zap.String("product", product),
			zap.String("session_id", sessionID),
		)
	}
}

// searchKnowledge runs retrieval and keeps only hits under the distance
// threshold, truncating each passage and defaulting missing titles.
func (s *ChatService) searchKnowledge(ctx context.Context, q string, k int) (contexts, sources []string, err error) {
	rctx, cancel := context.WithTimeout(ctx, s.cfg.KnowledgeTimeout())
	defer cancel()

	hits, err := s.retriever.Search(rctx, q, k)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}

	for _, hit := range hits {
		if hit.Score >= s.cfg.Knowledge.ScoreThreshold {
			continue
		}
		contexts = append(contexts, truncateRunes(hit.Content, s.cfg.Knowledge.SnippetLimit))
		title := hit.Title
		if title == "" {
			title = "Nieznane"
		}
		sources = append(sources, title)
	}
	return contexts, sources, nil
}

// buildTurns selects up to the last prompt_turns prior history entries,
// each bounded to turn_limit characters, and closes with the structured
// prompt as the final user turn. The just-appended current message is
// excluded from the prior turns.
func (s *ChatService) buildTurns(sess *session.Session, userPrompt string) []domain.Message {
	history := sess.History()
	window := s.cfg.Chat.PromptTurns + 1
	if len(history) > window {
		history = history[len(history)-window:]
	}
	if len(history) > 0 {
		history = history[:len(history)-1]
	}

	turns := make([]domain.Message, 0, len(history)+1)
	for _, msg := range history {
		turns = append(turns, domain.Message{
			Role:    msg.Role,
			Content: truncateRunes(msg.Content, s.cfg.Chat.TurnLimit),
		})
	}
	return append(turns, domain.Message{Role: "user", Content: userPrompt})
}

// uniqueHead deduplicates preserving first-seen order and keeps at most
// n entries.
func uniqueHead(values []string, n int) []string {
	seen := make(map[string]struct{}, len(values))
	out := []string{}
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
		if len(out) == n {
			break
		}
	}
	return out
}
