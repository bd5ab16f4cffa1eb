package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/okkyra/panelist/internal/models"
	"github.com/okkyra/panelist/internal/providers/tts"
	"github.com/okkyra/panelist/internal/repositories"
	"github.com/okkyra/panelist/internal/utils"
)

// callHistoryWindow bounds how many caller-supplied turns feed the prompt.
const callHistoryWindow = 6

const offlineCallReply = "Let's keep discussing your idea. Tell me more!"

// CallTurnRequest is one voice-call exchange. History is client-held: the
// call is an independent session layered on top of a stored persona, so
// the caller supplies its own transcript each turn.
type CallTurnRequest struct {
	Message     string
	PersonaName string
	Tone        string
	Gender      string
	History     []models.Turn
	Initial     bool
}

type CallTurnResult struct {
	Reply string
	Audio []byte // nil when synthesis failed or is unconfigured
}

type CallService interface {
	Turn(ctx context.Context, sessionID string, personaID int, req CallTurnRequest) (*CallTurnResult, error)
}

type callService struct {
	panels     repositories.PanelRepo
	chain      Completer
	speech     tts.Provider
	voices     tts.VoiceMap
	synthLimit time.Duration
	log        *logrus.Logger
}

func NewCallService(panels repositories.PanelRepo, chain Completer, speech tts.Provider, voices tts.VoiceMap, synthLimit time.Duration, log *logrus.Logger) CallService {
	return &callService{
		panels:     panels,
		chain:      chain,
		speech:     speech,
		voices:     voices,
		synthLimit: synthLimit,
		log:        log,
	}
}

// Turn runs one call exchange. The stored persona enriches the prompt
// when available, but payload fields win so a call can continue even if
// the panel was regenerated mid-call. Synthesis failure never fails a
// turn: the reply comes back text-only.
func (s *callService) Turn(ctx context.Context, sessionID string, personaID int, req CallTurnRequest) (*CallTurnResult, error) {
	const op = "CallService.Turn"

	message := strings.TrimSpace(req.Message)
	if message == "" && !req.Initial {
		return nil, utils.E(utils.CodeInvalidArgument, op, "message is required unless initial is set", nil)
	}

	name, tone, gender, review := s.resolvePersona(ctx, sessionID, personaID, req)

	var reply string
	if req.Initial {
		reply = fmt.Sprintf("Hey, I'm %s. I gave feedback on your project earlier. How may I help you today?", name)
	} else {
		out, provider, err := s.chain.Complete(ctx, buildCallPrompt(name, tone, review, req.History, message))
		if err != nil || strings.TrimSpace(out) == "" {
			s.log.WithFields(logrus.Fields{
				"persona_id": personaID,
			}).Warn("call reply fell back to offline response")
			out, provider = offlineCallReply, "offline"
		}
		reply = strings.TrimSpace(out)
		s.log.WithFields(logrus.Fields{
			"persona_id": personaID,
			"provider":   provider,
		}).Debug("call turn completed")
	}

	return &CallTurnResult{Reply: reply, Audio: s.synthesize(ctx, reply, tone, gender, personaID)}, nil
}

// resolvePersona merges the stored panel entry with payload overrides.
func (s *callService) resolvePersona(ctx context.Context, sessionID string, personaID int, req CallTurnRequest) (name, tone, gender, review string) {
	name, tone, gender = req.PersonaName, req.Tone, req.Gender

	entry, err := s.panels.Get(ctx, sessionID, personaID)
	if err != nil {
		if !errors.Is(err, utils.ErrNotFound) {
			s.log.WithField("error", err.Error()).Warn("call persona lookup failed")
		}
	} else {
		if name == "" {
			name = entry.Persona.Name
		}
		if tone == "" {
			tone = entry.Persona.Tone
		}
		if gender == "" {
			gender = entry.Persona.Gender
		}
		review = entry.Review.Text
	}

	if name == "" {
		name = fmt.Sprintf("Persona %d", personaID)
	}
	if tone == "" {
		tone = "friendly and natural"
	}
	return name, tone, gender, review
}

func (s *callService) synthesize(ctx context.Context, reply, tone, gender string, personaID int) []byte {
	if s.speech == nil {
		return nil
	}

	sctx, cancel := context.WithTimeout(ctx, s.synthLimit)
	defer cancel()

	speech := fmt.Sprintf("Speak in a %s tone: %s", tone, reply)
	audio, err := s.speech.Synthesize(sctx, speech, s.voices.Resolve(gender))
	if err != nil {
		// Swallowed: audio is best-effort, the turn proceeds text-only.
		s.log.WithFields(logrus.Fields{
			"persona_id": personaID,
			"error":      err.Error(),
		}).Warn("speech synthesis failed")
		return nil
	}
	return audio
}

func buildCallPrompt(name, tone, review string, history []models.Turn, message string) string {
	snippet := strings.TrimSpace(review)
	if snippet == "" {
		snippet = "No previous review context provided."
	}

	if len(history) > callHistoryWindow {
		history = history[len(history)-callHistoryWindow:]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "You are %s, speaking in a %s tone on a live voice call. Stay in character, respond conversationally, and keep answers concise but opinionated. Reference this earlier feedback when useful:\n%q\n", name, tone, snippet)
	if transcript := formatHistory(history); transcript != "" {
		fmt.Fprintf(&sb, "\nConversation so far:\n%s\n", transcript)
	}
	fmt.Fprintf(&sb, "\nUser: %s\n%s:", message, name)
	return sb.String()
}
