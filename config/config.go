package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is read once from the environment at startup. Provider keys are
// optional: a missing provider is simply absent from the fallback chain
// and the offline template covers total outage.
type Config struct {
	Port string

	// Text generation
	GeminiAPIKey   string
	GeminiModel    string
	VertexProject  string
	VertexLocation string
	VertexModel    string

	// Speech synthesis (ElevenLabs)
	ElevenAPIKey     string
	VoiceDefault     string
	VoiceMale        string
	VoiceFemale      string
	VoiceNonBinary   string
	ElevenModelID    string
	SynthesisTimeout time.Duration

	// Orchestration
	ProviderTimeout time.Duration
	MaxParallel     int

	// Session store
	RedisAddr  string
	SessionTTL time.Duration
}

func Load() *Config {
	c := &Config{
		Port:           getenv("PORT", "8080"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    getenv("GEMINI_MODEL", "gemini-2.0-flash-lite"),
		VertexProject:  os.Getenv("VERTEX_PROJECT_ID"),
		VertexLocation: getenv("VERTEX_LOCATION", "us-central1"),
		VertexModel:    getenv("VERTEX_MODEL", "gemini-1.5-flash"),

		ElevenAPIKey:  os.Getenv("ELEVENLABS_API_KEY"),
		VoiceMale:     os.Getenv("ELEVENLABS_VOICE_ID_MALE"),
		VoiceFemale:   os.Getenv("ELEVENLABS_VOICE_ID_FEMALE"),
		ElevenModelID: getenv("ELEVENLABS_MODEL_ID", "eleven_multilingual_v2"),

		ProviderTimeout:  getdur("PROVIDER_TIMEOUT", 30*time.Second),
		SynthesisTimeout: getdur("SYNTHESIS_TIMEOUT", 20*time.Second),
		MaxParallel:      getint("GENERATE_MAX_PARALLEL", 10),

		RedisAddr:  firstenv("REDIS_ADDR", "REDIS_URI", "REDIS_URL"),
		SessionTTL: getdur("SESSION_TTL", 2*time.Hour),
	}

	c.VoiceDefault = firstenv("ELEVENLABS_VOICE_ID_DEFAULT", "ELEVENLABS_VOICE_ID", "ELEVENLABS_VOICE_ID_NEUTRAL")
	c.VoiceNonBinary = firstenv("ELEVENLABS_VOICE_ID_NONBINARY", "ELEVENLABS_VOICE_ID_NEUTRAL")
	return c
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func firstenv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}
