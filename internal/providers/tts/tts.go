package tts

import (
	"context"
	"strings"
)

// Provider synthesizes speech for a call turn. Failures are always
// recoverable upstream: a turn without audio is still a valid turn.
type Provider interface {
	Synthesize(ctx context.Context, text, voiceID string) (audio []byte, err error)
	Close() error
}

// VoiceMap holds the configured voice ids per gender bucket.
type VoiceMap struct {
	Default   string
	Male      string
	Female    string
	NonBinary string
}

// Resolve picks a voice id from a free-form gender hint, falling back to
// whatever voice is configured when the hint is absent or unrecognized.
func (m VoiceMap) Resolve(gender string) string {
	switch strings.ToLower(strings.TrimSpace(gender)) {
	case "male", "man":
		if m.Male != "" {
			return m.Male
		}
	case "female", "woman":
		if m.Female != "" {
			return m.Female
		}
	case "non-binary", "nonbinary", "non binary", "nb":
		if m.NonBinary != "" {
			return m.NonBinary
		}
	}
	for _, v := range []string{m.Default, m.Male, m.Female, m.NonBinary} {
		if v != "" {
			return v
		}
	}
	return ""
}
