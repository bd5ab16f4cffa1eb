package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/okkyra/panelist/internal/models"
)

// Completer is the uniform fallback-chain surface shared by every service
// that talks to a text-generation backend. textgen.Chain satisfies it.
type Completer interface {
	Complete(ctx context.Context, prompt string) (text, provider string, err error)
}

type GenerationService interface {
	Generate(ctx context.Context, brief models.Brief, personas []models.PersonaSpec) *models.Batch
}

type generationService struct {
	chain       Completer
	log         *logrus.Logger
	maxParallel int
}

func NewGenerationService(chain Completer, log *logrus.Logger, maxParallel int) GenerationService {
	if maxParallel <= 0 {
		maxParallel = 10
	}
	return &generationService{chain: chain, log: log, maxParallel: maxParallel}
}

// Generate fans out one review request per persona with bounded
// concurrency and joins on all of them: the batch is never returned
// before every slot has resolved. A slot whose whole provider chain
// failed gets the deterministic offline template and is marked errored,
// so it stays index-aligned and chat-addressable without counting toward
// success aggregates.
func (s *generationService) Generate(ctx context.Context, brief models.Brief, personas []models.PersonaSpec) *models.Batch {
	results := make([]models.ReviewResult, len(personas))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxParallel)
	for i := range personas {
		g.Go(func() error {
			results[i] = s.generateOne(gctx, brief, personas[i], i)
			return nil
		})
	}
	_ = g.Wait() // tasks report via results, never via error

	batch := &models.Batch{Reviews: results}
	for _, r := range results {
		if r.Errored {
			batch.ErrorCount++
		} else {
			batch.SuccessCount++
		}
	}
	batch.Offline = batch.SuccessCount == 0
	return batch
}

func (s *generationService) generateOne(ctx context.Context, brief models.Brief, p models.PersonaSpec, idx int) models.ReviewResult {
	raw, provider, err := s.chain.Complete(ctx, buildReviewPrompt(brief, p))
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"persona_id": p.ID,
			"error":      err.Error(),
		}).Warn("review generation exhausted provider chain")
		return offlineReview(brief, p, idx)
	}

	text, rating := parseReviewResponse(raw)
	return models.ReviewResult{
		PersonaID: p.ID,
		Persona:   p,
		Text:      text,
		Rating:    rating,
		Provider:  provider,
	}
}

func buildReviewPrompt(brief models.Brief, p models.PersonaSpec) string {
	var traits []string
	for _, t := range p.Traits {
		traits = append(traits, fmt.Sprintf("- %s %s", models.IntensityLabel(t.Intensity), t.Name))
	}

	constraints := []string{fmt.Sprintf("- Age: exactly %d years old", p.Age)}
	if p.Gender != "" {
		constraints = append(constraints, "- Gender: "+p.Gender)
	}
	if p.Location != "" {
		constraints = append(constraints, "- Based in "+p.Location)
	}
	constraints = append(constraints,
		"- Profession: "+p.Profession,
		"- Speaking tone: "+p.Tone,
	)

	docContext := ""
	if doc := strings.TrimSpace(brief.DocumentText); doc != "" {
		if len(doc) > models.DocumentTextLimit {
			doc = doc[:models.DocumentTextLimit] + "..."
		}
		docContext = "\n\nSupporting material supplied by the user:\n\"\"\"" + doc + "\"\"\"\n"
	}

	return fmt.Sprintf(`You are %s, a %s crafting feedback about a product IDEA/CONCEPT being pitched.

Product Concept Being Pitched:
"""%s"""

Primary persona traits to embody:
%s

Persona constraints:
%s%s

IMPORTANT: The persona is evaluating this CONCEPT based on the description provided. They have NOT used the product (it does not exist yet). Give feedback on the idea itself and its potential, raise concerns or suggestions, and do not invent features or experiences beyond what is described. The review must reference specifics from the product concept.

Return ONLY valid JSON (no code fences) with this structure:
{
  "text": "2-4 sentences of authentic feedback grounded in the product idea and persona perspective.",
  "rating": integer between 1 and 10
}`,
		p.Name, strings.ToLower(p.Descriptor), brief.Text,
		strings.Join(traits, "\n"), strings.Join(constraints, "\n"), docContext)
}

type reviewPayload struct {
	Text   string          `json:"text"`
	Rating json.RawMessage `json:"rating"`
	Review *reviewPayload  `json:"review"` // tolerate the nested shape some models emit
}

var (
	fenceRe  = regexp.MustCompile("(?is)^```(?:json)?|```$")
	ratingRe = regexp.MustCompile(`(?i)RATING:\s*(\d+)`)
)

// parseReviewResponse extracts {text, rating} from a provider response,
// accepting the requested JSON shape first and falling back to a loose
// "RATING: n" scan over plain text.
func parseReviewResponse(raw string) (string, int) {
	cleaned := strings.TrimSpace(fenceRe.ReplaceAllString(strings.TrimSpace(raw), ""))

	var payload reviewPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err == nil {
		if payload.Review != nil {
			payload = *payload.Review
		}
		if text := strings.TrimSpace(payload.Text); text != "" {
			return text, clampRating(parseRating(payload.Rating))
		}
	}

	rating := 5
	if m := ratingRe.FindStringSubmatch(raw); m != nil {
		fmt.Sscanf(m[1], "%d", &rating)
	}
	text := strings.TrimSpace(ratingRe.ReplaceAllString(raw, ""))
	if text == "" {
		text = "No feedback received."
	}
	return text, clampRating(rating)
}

func parseRating(raw json.RawMessage) int {
	if raw == nil {
		return 5
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		fmt.Sscanf(strings.TrimSpace(s), "%d", &n)
		if n != 0 {
			return n
		}
	}
	return 5
}

func clampRating(n int) int {
	if n < 1 {
		return 1
	}
	if n > 10 {
		return 10
	}
	return n
}

// offlineReview is the terminal fallback: a generic review referencing
// the brief's opening, with a rating derived from the slot index.
func offlineReview(brief models.Brief, p models.PersonaSpec, idx int) models.ReviewResult {
	snippet := brief.Text
	if len(snippet) > 60 {
		snippet = snippet[:60] + "..."
	}
	return models.ReviewResult{
		PersonaID: p.ID,
		Persona:   p,
		Text: fmt.Sprintf(
			"As a %s, I've considered %q. It shows promise, but clarifying the value proposition and next validation steps would help.",
			strings.ToLower(p.Descriptor), snippet),
		Rating:   6 + idx%3,
		Provider: "offline",
		Errored:  true,
	}
}

// OfflineBanner is surfaced when every slot fell through to the template.
const OfflineBanner = "Using simulated persona insights (offline mode)."
