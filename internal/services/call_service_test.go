package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okkyra/panelist/internal/models"
	"github.com/okkyra/panelist/internal/providers/tts"
	"github.com/okkyra/panelist/internal/repositories/memory"
	"github.com/okkyra/panelist/internal/utils"
)

type fakeSpeech struct {
	lastText  string
	lastVoice string
	err       error
}

func (f *fakeSpeech) Synthesize(_ context.Context, text, voiceID string) ([]byte, error) {
	f.lastText, f.lastVoice = text, voiceID
	if f.err != nil {
		return nil, f.err
	}
	return []byte("mp3-bytes"), nil
}

func (f *fakeSpeech) Close() error { return nil }

func newCallService(t *testing.T, chain Completer, speech tts.Provider) CallService {
	t.Helper()
	voices := tts.VoiceMap{Default: "v-default", Male: "v-male", Female: "v-female"}
	return NewCallService(seedPanel(t, "s1"), chain, speech, voices, time.Second, testLogger())
}

func TestCallInitialGreeting(t *testing.T) {
	chain := &fakeChain{fn: func(string) (string, string, error) {
		t.Fatal("initial greeting must not hit the provider chain")
		return "", "", nil
	}}
	speech := &fakeSpeech{}
	svc := newCallService(t, chain, speech)

	res, err := svc.Turn(context.Background(), "s1", 1, CallTurnRequest{Initial: true})
	require.NoError(t, err)
	assert.Contains(t, res.Reply, "Hey, I'm Lena Schmidt.")
	assert.NotEmpty(t, res.Audio)
	assert.Contains(t, speech.lastText, "Speak in a critical tone:")
}

func TestCallTurnUsesClientHistory(t *testing.T) {
	var prompt string
	chain := &fakeChain{fn: func(p string) (string, string, error) {
		prompt = p
		return "Sure, here's my take.", "gemini", nil
	}}
	svc := newCallService(t, chain, &fakeSpeech{})

	history := []models.Turn{
		{Role: models.RoleUser, Content: "first question"},
		{Role: models.RolePersona, Content: "first answer"},
	}
	res, err := svc.Turn(context.Background(), "s1", 1, CallTurnRequest{
		Message: "And the price?",
		History: history,
	})
	require.NoError(t, err)
	assert.Equal(t, "Sure, here's my take.", res.Reply)
	assert.Contains(t, prompt, "User: first question")
	assert.Contains(t, prompt, "Persona: first answer")
	assert.Contains(t, prompt, "Promising but vague on pricing.")
}

func TestCallEmptyMessageRequiresInitial(t *testing.T) {
	svc := newCallService(t, &fakeChain{}, &fakeSpeech{})
	_, err := svc.Turn(context.Background(), "s1", 1, CallTurnRequest{Message: "  "})
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestCallSynthesisFailureIsSwallowed(t *testing.T) {
	chain := &fakeChain{fn: func(string) (string, string, error) {
		return "Text only is fine.", "gemini", nil
	}}
	svc := newCallService(t, chain, &fakeSpeech{err: errors.New("tts down")})

	res, err := svc.Turn(context.Background(), "s1", 1, CallTurnRequest{Message: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "Text only is fine.", res.Reply)
	assert.Nil(t, res.Audio)
}

func TestCallNoSpeechProvider(t *testing.T) {
	chain := &fakeChain{fn: func(string) (string, string, error) {
		return "ok", "gemini", nil
	}}
	svc := newCallService(t, chain, nil)

	res, err := svc.Turn(context.Background(), "s1", 1, CallTurnRequest{Message: "hello"})
	require.NoError(t, err)
	assert.Nil(t, res.Audio)
}

func TestCallVoiceKeyedByGender(t *testing.T) {
	chain := &fakeChain{fn: func(string) (string, string, error) {
		return "ok", "gemini", nil
	}}
	speech := &fakeSpeech{}
	svc := newCallService(t, chain, speech)

	_, err := svc.Turn(context.Background(), "s1", 1, CallTurnRequest{Message: "hi", Gender: "female"})
	require.NoError(t, err)
	assert.Equal(t, "v-female", speech.lastVoice)

	_, err = svc.Turn(context.Background(), "s1", 1, CallTurnRequest{Message: "hi", Gender: "martian"})
	require.NoError(t, err)
	assert.Equal(t, "v-default", speech.lastVoice)
}

func TestCallSurvivesMissingPanelEntry(t *testing.T) {
	chain := &fakeChain{fn: func(string) (string, string, error) {
		return "Still talking.", "gemini", nil
	}}
	voices := tts.VoiceMap{Default: "v-default"}
	svc := NewCallService(memory.NewPanelRepo(), chain, &fakeSpeech{}, voices, time.Second, testLogger())

	res, err := svc.Turn(context.Background(), "gone", 3, CallTurnRequest{
		Message:     "are you there?",
		PersonaName: "Morgan Patel",
		Tone:        "empathetic",
	})
	require.NoError(t, err)
	assert.Equal(t, "Still talking.", res.Reply)
}

func TestCallFallbackReply(t *testing.T) {
	chain := &fakeChain{fn: func(string) (string, string, error) {
		return "", "", errors.New("boom")
	}}
	svc := newCallService(t, chain, &fakeSpeech{})

	res, err := svc.Turn(context.Background(), "s1", 1, CallTurnRequest{Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, offlineCallReply, res.Reply)
}
