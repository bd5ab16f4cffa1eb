package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/okkyra/panelist/internal/utils"
)

const feedbackItemCap = 8

type FeedbackService interface {
	// Summarize mines the rendered conversation window for candidate
	// feedback items and folds new ones into the session's set. At most
	// one summarization runs per session; triggers arriving while one is
	// in flight are dropped, not queued, and return the current set.
	Summarize(ctx context.Context, sessionID, conversation string) ([]string, error)
	// Items returns the accumulated set, in insertion order.
	Items(sessionID string) []string
	// Apply validates a selection and condenses it into a brief addendum
	// the caller folds into the next generate call.
	Apply(ctx context.Context, sessionID string, selected []string) (string, error)
}

type sessionFeedback struct {
	inflight sync.Mutex // TryLock guards the single-flight summarization
	mu       sync.Mutex
	items    []string
	seen     map[string]bool
}

type feedbackService struct {
	chain Completer
	log   *logrus.Logger

	mu       sync.Mutex
	sessions map[string]*sessionFeedback
}

func NewFeedbackService(chain Completer, log *logrus.Logger) FeedbackService {
	return &feedbackService{
		chain:    chain,
		log:      log,
		sessions: make(map[string]*sessionFeedback),
	}
}

func (s *feedbackService) session(sessionID string) *sessionFeedback {
	s.mu.Lock()
	defer s.mu.Unlock()
	sf, ok := s.sessions[sessionID]
	if !ok {
		sf = &sessionFeedback{seen: make(map[string]bool)}
		s.sessions[sessionID] = sf
	}
	return sf
}

func (s *feedbackService) Summarize(ctx context.Context, sessionID, conversation string) ([]string, error) {
	const op = "FeedbackService.Summarize"

	conversation = strings.TrimSpace(conversation)
	if conversation == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "conversation is required", nil)
	}

	sf := s.session(sessionID)
	if !sf.inflight.TryLock() {
		// A summarization is already running; this trigger is dropped.
		// The next reply after completion will trigger the next one.
		s.log.Debug("feedback summarization busy; trigger dropped")
		return s.Items(sessionID), nil
	}
	defer sf.inflight.Unlock()

	raw, _, err := s.chain.Complete(ctx, buildFeedbackPrompt(conversation))
	if err != nil {
		// Reported but never blocks the conversation.
		s.log.WithField("error", err.Error()).Warn("feedback summarization failed")
		return s.Items(sessionID), nil
	}

	sf.mu.Lock()
	for _, item := range parseBullets(raw) {
		item = strings.TrimSpace(item)
		key := strings.ToLower(item)
		if item == "" || sf.seen[key] {
			continue
		}
		sf.seen[key] = true
		sf.items = append(sf.items, item)
	}
	sf.mu.Unlock()

	return s.Items(sessionID), nil
}

func (s *feedbackService) Items(sessionID string) []string {
	sf := s.session(sessionID)
	sf.mu.Lock()
	defer sf.mu.Unlock()
	return append([]string(nil), sf.items...)
}

func (s *feedbackService) Apply(ctx context.Context, sessionID string, selected []string) (string, error) {
	const op = "FeedbackService.Apply"

	if len(selected) == 0 {
		return "", utils.E(utils.CodeInvalidArgument, op, "select at least one feedback item", nil)
	}

	sf := s.session(sessionID)
	sf.mu.Lock()
	for _, item := range selected {
		if !sf.seen[strings.ToLower(strings.TrimSpace(item))] {
			sf.mu.Unlock()
			return "", utils.E(utils.CodeInvalidArgument, op, fmt.Sprintf("unknown feedback item: %q", item), nil)
		}
	}
	sf.mu.Unlock()

	addendum := "Incorporate this feedback from earlier reviewer conversations:\n- " + strings.Join(selected, "\n- ")

	// Best effort: let the provider condense the selection; the plain
	// join already works when the chain is down.
	condensed, _, err := s.chain.Complete(ctx, fmt.Sprintf(
		"Condense the following product feedback items into one short paragraph of concrete guidance for revising a product brief. Return only the paragraph.\n\n- %s",
		strings.Join(selected, "\n- ")))
	if err == nil && strings.TrimSpace(condensed) != "" {
		addendum = "Incorporate this feedback from earlier reviewer conversations: " + strings.TrimSpace(condensed)
	} else if err != nil {
		s.log.WithField("error", err.Error()).Debug("feedback condensing unavailable, using raw items")
	}

	return addendum, nil
}

func buildFeedbackPrompt(conversation string) string {
	return fmt.Sprintf(`Below is a recent window of a conversation between a product founder (User) and a simulated customer reviewer (Reviewer):

%s

Extract up to %d short, actionable feedback items about the product idea that surfaced in this exchange. Each item must be a concrete suggestion or concern, phrased as a short imperative sentence.

Format your response as a plain bullet list, one item per line, each line starting with "- ". Return nothing else.`, conversation, feedbackItemCap)
}
