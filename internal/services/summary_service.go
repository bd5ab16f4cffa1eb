package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/okkyra/panelist/internal/models"
)

const (
	summaryInputLimit = 8000
	summaryItemCap    = 5
)

// Placeholder lists keep the summary non-empty when the provider chain
// fails or returns nothing parseable.
var (
	placeholderGlows = []string{
		"Strong value proposition",
		"Innovative approach",
		"Clear target audience",
	}
	placeholderGrows = []string{
		"Consider refining user experience",
		"Clarify monetization strategy",
		"Address technical challenges",
	}
)

type SummaryService interface {
	// Summarize fills AverageRating, Glows, and Grows on the batch.
	Summarize(ctx context.Context, batch *models.Batch)
}

type summaryService struct {
	chain Completer
	log   *logrus.Logger
}

func NewSummaryService(chain Completer, log *logrus.Logger) SummaryService {
	return &summaryService{chain: chain, log: log}
}

func (s *summaryService) Summarize(ctx context.Context, batch *models.Batch) {
	var sum, n int
	for _, r := range batch.Reviews {
		if r.Errored {
			continue
		}
		sum += r.Rating
		n++
	}
	if n > 0 {
		batch.AverageRating = float64(sum) / float64(n)
	}

	if n == 0 {
		batch.Glows, batch.Grows = placeholderGlows, placeholderGrows
		return
	}

	raw, _, err := s.chain.Complete(ctx, buildSummaryPrompt(batch.Reviews))
	if err != nil {
		s.log.WithField("error", err.Error()).Warn("glows/grows summary fell back to placeholders")
		batch.Glows, batch.Grows = placeholderGlows, placeholderGrows
		return
	}

	glows, grows := parseGlowsGrows(raw)
	if len(glows) == 0 {
		glows = placeholderGlows
	}
	if len(grows) == 0 {
		grows = placeholderGrows
	}
	batch.Glows, batch.Grows = cap5(glows), cap5(grows)
}

func buildSummaryPrompt(reviews []models.ReviewResult) string {
	var formatted []string
	for _, r := range reviews {
		if r.Errored || strings.TrimSpace(r.Text) == "" {
			continue
		}
		p := r.Persona
		context := []string{p.Name}
		if p.Profession != "" {
			context = append(context, p.Profession)
		}
		if p.Tone != "" {
			context = append(context, "tone: "+p.Tone)
		}
		if p.Location != "" {
			context = append(context, p.Location)
		}
		if names := p.TraitNames(); len(names) > 0 {
			if len(names) > 5 {
				names = names[:5]
			}
			context = append(context, "traits: "+strings.Join(names, ", "))
		}
		formatted = append(formatted, fmt.Sprintf("%d: (%s) %s", r.PersonaID, strings.Join(context, " | "), r.Text))
	}

	feedback := strings.Join(formatted, ", ")
	if len(feedback) > summaryInputLimit {
		feedback = feedback[:summaryInputLimit] + "..."
	}

	return fmt.Sprintf(`You are analyzing multiple customer feedback responses about a product idea. Below are the numbered feedbacks:

%s

Analyze all these feedbacks and summarize them into two categories:

1. Glows: aspects of the product idea that are positive, well-received, or show promise. List 3-5 key strengths.
2. Grows: areas that need improvement, concerns raised, or aspects criticized. List 3-5 key areas for improvement.

Format your response EXACTLY as follows (use these exact section headers):

GLOWS:
- [point]

GROWS:
- [point]

Keep each point concise (one sentence or short phrase). Focus on the most common themes across all feedbacks.`, feedback)
}

var (
	glowsSectionRe = regexp.MustCompile(`(?is)GLOWS:\s*(.*?)(?:GROWS:|$)`)
	growsSectionRe = regexp.MustCompile(`(?is)GROWS:\s*(.*)$`)
)

func parseGlowsGrows(text string) (glows, grows []string) {
	if m := glowsSectionRe.FindStringSubmatch(text); m != nil {
		glows = parseBullets(m[1])
	}
	if m := growsSectionRe.FindStringSubmatch(text); m != nil {
		grows = parseBullets(m[1])
	}
	return glows, grows
}

func parseBullets(section string) []string {
	var items []string
	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "•") || strings.HasPrefix(line, "*") {
			item := strings.TrimSpace(strings.TrimLeft(line, "-•*"))
			if item != "" {
				items = append(items, item)
			}
		}
	}
	return items
}

func cap5(items []string) []string {
	if len(items) > summaryItemCap {
		return items[:summaryItemCap]
	}
	return items
}
