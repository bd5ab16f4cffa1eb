package main

import (
	"context"
	"math/rand"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/okkyra/panelist/config"
	"github.com/okkyra/panelist/internal/api/handlers"
	"github.com/okkyra/panelist/internal/api/middleware"
	"github.com/okkyra/panelist/internal/api/routes"
	"github.com/okkyra/panelist/internal/logger"
	"github.com/okkyra/panelist/internal/providers/textgen"
	"github.com/okkyra/panelist/internal/providers/tts"
	"github.com/okkyra/panelist/internal/repositories"
	"github.com/okkyra/panelist/internal/repositories/memory"
	"github.com/okkyra/panelist/internal/repositories/redisrepo"
	"github.com/okkyra/panelist/internal/services"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()
	cfg := config.Load()
	ctx := context.Background()

	// Provider fallback chain: gemini -> vertex; the offline templates in
	// the services cover total outage. A missing key just drops that link.
	var providers []textgen.Provider
	if cfg.GeminiAPIKey != "" {
		g, err := textgen.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.WithField("error", err.Error()).Warn("gemini provider unavailable")
		} else {
			providers = append(providers, g)
		}
	}
	if cfg.VertexProject != "" {
		v, err := textgen.NewVertexGemini(ctx, cfg.VertexProject, cfg.VertexLocation, cfg.VertexModel)
		if err != nil {
			log.WithField("error", err.Error()).Warn("vertex provider unavailable")
		} else {
			providers = append(providers, v)
		}
	}
	chain := textgen.NewChain(log, cfg.ProviderTimeout, providers...)
	if chain.Len() == 0 {
		log.Warn("no text-generation providers configured; panels run in offline mode")
	}
	defer chain.Close()

	var speech tts.Provider
	if cfg.ElevenAPIKey != "" {
		speech = tts.NewElevenLabs(cfg.ElevenAPIKey, cfg.ElevenModelID, cfg.SynthesisTimeout)
	} else {
		log.Info("ELEVENLABS_API_KEY not set; call turns are text-only")
	}
	voices := tts.VoiceMap{
		Default:   cfg.VoiceDefault,
		Male:      cfg.VoiceMale,
		Female:    cfg.VoiceFemale,
		NonBinary: cfg.VoiceNonBinary,
	}

	var panels repositories.PanelRepo
	if cfg.RedisAddr != "" {
		rdb, err := config.NewRedis(ctx, cfg.RedisAddr)
		if err != nil {
			log.Fatalf("redis init error: %v", err)
		}
		panels = redisrepo.NewPanelRepo(rdb, cfg.SessionTTL)
		log.Info("using redis panel store")
	} else {
		panels = memory.NewPanelRepo()
		log.Info("using in-memory panel store")
	}

	personaSvc := services.NewPersonaService(rand.Int63())
	generationSvc := services.NewGenerationService(chain, log, cfg.MaxParallel)
	summarySvc := services.NewSummaryService(chain, log)
	chatSvc := services.NewChatService(panels, chain, log)
	callSvc := services.NewCallService(panels, chain, speech, voices, cfg.SynthesisTimeout, log)
	feedbackSvc := services.NewFeedbackService(chain, log)

	r := gin.New()
	r.Use(middleware.RequestLogger(log), gin.Recovery())
	r.MaxMultipartMemory = 8 << 20

	routes.RegisterRoutes(r, routes.Deps{
		Generate: handlers.NewGenerateHandler(personaSvc, generationSvc, summarySvc, panels, log),
		Chat:     handlers.NewChatHandler(chatSvc),
		Call:     handlers.NewCallHandler(callSvc),
		Feedback: handlers.NewFeedbackHandler(feedbackSvc),
	})

	log.WithField("port", cfg.Port).Info("panelist server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
