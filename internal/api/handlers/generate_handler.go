package handlers

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/okkyra/panelist/internal/models"
	"github.com/okkyra/panelist/internal/repositories"
	"github.com/okkyra/panelist/internal/services"
	"github.com/okkyra/panelist/internal/utils"
)

type GenerateHandler struct {
	personas   services.PersonaService
	generator  services.GenerationService
	summarizer services.SummaryService
	panels     repositories.PanelRepo
	log        *logrus.Logger
}

func NewGenerateHandler(
	personas services.PersonaService,
	generator services.GenerationService,
	summarizer services.SummaryService,
	panels repositories.PanelRepo,
	log *logrus.Logger,
) *GenerateHandler {
	return &GenerateHandler{
		personas:   personas,
		generator:  generator,
		summarizer: summarizer,
		panels:     panels,
		log:        log,
	}
}

type generateRequest struct {
	Text            string   `json:"text"`
	NumReviews      int      `json:"numReviews"`
	AgeMin          int      `json:"ageMin"`
	AgeMax          int      `json:"ageMax"`
	Gender          string   `json:"gender"`
	Location        string   `json:"location"`
	Characteristics []string `json:"characteristics"`
}

type reviewDTO struct {
	models.ReviewResult
	DisplayRating float64 `json:"displayRating"`
}

type generateResponse struct {
	SessionID     string      `json:"sessionId"`
	Reviews       []reviewDTO `json:"reviews"`
	SuccessCount  int         `json:"successCount"`
	ErrorCount    int         `json:"errorCount"`
	AverageRating float64     `json:"averageRating"`
	Glows         []string    `json:"glows"`
	Grows         []string    `json:"grows"`
	Message       string      `json:"message,omitempty"`
}

func (h *GenerateHandler) Generate(c *gin.Context) {
	const op = "GenerateHandler.Generate"

	brief, err := parseBrief(c)
	if err != nil {
		writeError(c, err)
		return
	}
	if strings.TrimSpace(brief.Text) == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "please enter a product idea", nil))
		return
	}
	if len(brief.Traits) == 0 {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "please select at least one persona trait", nil))
		return
	}

	specs, err := h.personas.BuildPanel(*brief)
	if err != nil {
		writeError(c, err)
		return
	}

	ctx := c.Request.Context()
	batch := h.generator.Generate(ctx, *brief, specs)
	h.summarizer.Summarize(ctx, batch)

	// A fresh panel replaces the previous one: old persona ids are gone.
	sid := ensureSessionID(c)
	entries := make([]models.PanelEntry, len(batch.Reviews))
	for i, r := range batch.Reviews {
		entries[i] = models.PanelEntry{Persona: r.Persona, Review: r}
	}
	if err := h.panels.Replace(ctx, sid, entries); err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to store panel", err))
		return
	}

	resp := generateResponse{
		SessionID:     sid,
		Reviews:       make([]reviewDTO, len(batch.Reviews)),
		SuccessCount:  batch.SuccessCount,
		ErrorCount:    batch.ErrorCount,
		AverageRating: batch.AverageRating,
		Glows:         batch.Glows,
		Grows:         batch.Grows,
	}
	for i, r := range batch.Reviews {
		resp.Reviews[i] = reviewDTO{ReviewResult: r, DisplayRating: r.DisplayRating()}
	}
	if batch.Offline {
		resp.Message = services.OfflineBanner
	}

	h.log.WithFields(logrus.Fields{
		"session_id":    sid,
		"num_reviews":   len(batch.Reviews),
		"success_count": batch.SuccessCount,
		"error_count":   batch.ErrorCount,
	}).Info("panel generated")
	c.JSON(http.StatusOK, resp)
}

// parseBrief accepts JSON or multipart form. A multipart ideaFile holds
// pre-extracted plain text from the upstream document collaborator; it is
// truncated before it reaches any prompt.
func parseBrief(c *gin.Context) (*models.Brief, error) {
	const op = "GenerateHandler.Generate"

	ct := c.ContentType()
	if ct == "multipart/form-data" {
		brief := &models.Brief{
			Text:     strings.TrimSpace(c.PostForm("text")),
			Gender:   strings.TrimSpace(c.PostForm("gender")),
			Location: strings.TrimSpace(c.PostForm("location")),
			Traits:   c.PostFormArray("characteristics"),
		}
		brief.NumReviews = formInt(c, "numReviews", 5)
		brief.AgeMin = formInt(c, "ageMin", 0)
		brief.AgeMax = formInt(c, "ageMax", 0)

		if fh, err := c.FormFile("ideaFile"); err == nil && fh != nil {
			f, err := fh.Open()
			if err != nil {
				return nil, utils.E(utils.CodeInvalidArgument, op, "could not read uploaded file", err)
			}
			defer f.Close()
			data, err := io.ReadAll(io.LimitReader(f, models.DocumentTextLimit+1))
			if err != nil {
				return nil, utils.E(utils.CodeInvalidArgument, op, "could not read uploaded file", err)
			}
			text := string(data)
			if len(text) > models.DocumentTextLimit {
				text = text[:models.DocumentTextLimit]
			}
			brief.DocumentText = text
		}
		return clampBrief(brief), nil
	}

	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err)
	}
	return clampBrief(&models.Brief{
		Text:       strings.TrimSpace(req.Text),
		NumReviews: req.NumReviews,
		AgeMin:     req.AgeMin,
		AgeMax:     req.AgeMax,
		Gender:     strings.TrimSpace(req.Gender),
		Location:   strings.TrimSpace(req.Location),
		Traits:     req.Characteristics,
	}), nil
}

func clampBrief(b *models.Brief) *models.Brief {
	if b.NumReviews == 0 {
		b.NumReviews = 5
	}
	if b.NumReviews < models.MinReviews {
		b.NumReviews = models.MinReviews
	}
	if b.NumReviews > models.MaxReviews {
		b.NumReviews = models.MaxReviews
	}
	return b
}

func formInt(c *gin.Context, key string, def int) int {
	v := strings.TrimSpace(c.PostForm(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
