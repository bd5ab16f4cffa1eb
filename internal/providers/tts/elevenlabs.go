package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.elevenlabs.io/v1"

// ElevenLabs calls the text-to-speech REST endpoint directly; there is no
// official Go SDK.
type ElevenLabs struct {
	apiKey  string
	modelID string
	baseURL string
	http    *http.Client
}

func NewElevenLabs(apiKey, modelID string, timeout time.Duration) *ElevenLabs {
	if modelID == "" {
		modelID = "eleven_multilingual_v2"
	}
	return &ElevenLabs{
		apiKey:  apiKey,
		modelID: modelID,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// WithBaseURL overrides the API endpoint. Used by tests.
func (e *ElevenLabs) WithBaseURL(u string) *ElevenLabs {
	e.baseURL = u
	return e
}

type synthesizeRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

func (e *ElevenLabs) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	if voiceID == "" {
		return nil, fmt.Errorf("elevenlabs: no voice configured")
	}

	body, err := json.Marshal(synthesizeRequest{Text: text, ModelID: e.modelID})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/text-to-speech/%s", e.baseURL, voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", e.apiKey)

	resp, err := e.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("elevenlabs: status %d: %s", resp.StatusCode, snippet)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("elevenlabs: empty audio response")
	}
	return audio, nil
}

func (e *ElevenLabs) Close() error { return nil }
