package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/okkyra/panelist/internal/models"
	"github.com/okkyra/panelist/internal/repositories"
	"github.com/okkyra/panelist/internal/utils"
)

// chatWindow bounds how many stored turns feed the chat prompt.
const chatWindow = 8

// offlineChatReply is the terminal fallback when every provider failed.
const offlineChatReply = "I'm reflecting on that. Could you clarify a bit more?"

type ChatService interface {
	// Context returns the stored persona entry for rendering the chat view.
	Context(ctx context.Context, sessionID string, personaID int) (*models.PanelEntry, error)
	// Reply generates the persona's answer and appends both turns to history.
	Reply(ctx context.Context, sessionID string, personaID int, message string) (string, error)
}

type chatService struct {
	panels repositories.PanelRepo
	chain  Completer
	log    *logrus.Logger
}

func NewChatService(panels repositories.PanelRepo, chain Completer, log *logrus.Logger) ChatService {
	return &chatService{panels: panels, chain: chain, log: log}
}

func (s *chatService) Context(ctx context.Context, sessionID string, personaID int) (*models.PanelEntry, error) {
	const op = "ChatService.Context"

	entry, err := s.panels.Get(ctx, sessionID, personaID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "persona not found; generate a new panel", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load persona", err)
	}
	return entry, nil
}

func (s *chatService) Reply(ctx context.Context, sessionID string, personaID int, message string) (string, error) {
	const op = "ChatService.Reply"

	message = strings.TrimSpace(message)
	if message == "" {
		return "", utils.E(utils.CodeInvalidArgument, op, "message is required", nil)
	}

	entry, err := s.panels.Get(ctx, sessionID, personaID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return "", utils.E(utils.CodeNotFound, op, "persona not found; generate a new panel", err)
		}
		return "", utils.E(utils.CodeInternal, op, "failed to load persona", err)
	}

	reply, provider, cerr := s.chain.Complete(ctx, buildChatPrompt(entry, message))
	if cerr != nil {
		s.log.WithFields(logrus.Fields{
			"persona_id": personaID,
			"error":      cerr.Error(),
		}).Warn("chat reply fell back to offline response")
		reply, provider = offlineChatReply, "offline"
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		reply, provider = offlineChatReply, "offline"
	}

	if err := s.panels.AppendTurn(ctx, sessionID, personaID, models.Turn{Role: models.RoleUser, Content: message}); err != nil {
		return "", utils.E(utils.CodeInternal, op, "failed to record user turn", err)
	}
	if err := s.panels.AppendTurn(ctx, sessionID, personaID, models.Turn{Role: models.RolePersona, Content: reply}); err != nil {
		return "", utils.E(utils.CodeInternal, op, "failed to record persona turn", err)
	}

	s.log.WithFields(logrus.Fields{
		"persona_id": personaID,
		"provider":   provider,
	}).Debug("chat turn completed")
	return reply, nil
}

func buildChatPrompt(entry *models.PanelEntry, message string) string {
	p := entry.Persona

	descriptor := p.Descriptor
	if descriptor == "" {
		descriptor = "an insightful customer persona"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Continue a conversation as %s, %s (tone: %s, traits: %s).\n",
		p.Name, strings.ToLower(descriptor), p.Tone, strings.Join(p.TraitNames(), ", "))
	if review := strings.TrimSpace(entry.Review.Text); review != "" {
		fmt.Fprintf(&sb, "Earlier you provided this feedback:\n%q\n", review)
	}
	sb.WriteString("\nRespond to the user's latest message in a conversational, authentic tone that reflects this persona. Avoid generic chatbot language and keep the answer concise and opinionated when appropriate.\n")

	history := entry.History
	if len(history) > chatWindow {
		history = history[len(history)-chatWindow:]
	}
	if len(history) > 0 {
		sb.WriteString("\nConversation so far:\n")
		sb.WriteString(formatHistory(history))
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "\nUser: %s\n%s:", message, p.Name)
	return sb.String()
}

func formatHistory(history []models.Turn) string {
	var lines []string
	for _, t := range history {
		if t.Content == "" {
			continue
		}
		if t.Role == models.RolePersona {
			lines = append(lines, "Persona: "+t.Content)
		} else {
			lines = append(lines, "User: "+t.Content)
		}
	}
	return strings.Join(lines, "\n")
}
