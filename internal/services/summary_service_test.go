package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okkyra/panelist/internal/models"
)

func batchWithRatings(ratings ...int) *models.Batch {
	b := &models.Batch{}
	for i, r := range ratings {
		b.Reviews = append(b.Reviews, models.ReviewResult{
			PersonaID: i + 1,
			Persona:   models.PersonaSpec{ID: i + 1, Name: "Tester", Profession: "QA Lead", Tone: "precise"},
			Text:      "Some feedback.",
			Rating:    r,
		})
		b.SuccessCount++
	}
	return b
}

func TestSummarizeAverage(t *testing.T) {
	chain := &fakeChain{fn: func(string) (string, string, error) {
		return "GLOWS:\n- Clear niche\n\nGROWS:\n- Pricing unclear", "gemini", nil
	}}
	svc := NewSummaryService(chain, testLogger())

	batch := batchWithRatings(6, 7, 8)
	svc.Summarize(context.Background(), batch)

	assert.InDelta(t, 7.0, batch.AverageRating, 1e-9)
	assert.Equal(t, []string{"Clear niche"}, batch.Glows)
	assert.Equal(t, []string{"Pricing unclear"}, batch.Grows)
}

func TestSummarizeExcludesErroredSlots(t *testing.T) {
	chain := &fakeChain{fn: func(string) (string, string, error) {
		return "GLOWS:\n- A\n\nGROWS:\n- B", "gemini", nil
	}}
	svc := NewSummaryService(chain, testLogger())

	batch := batchWithRatings(6, 8)
	batch.Reviews = append(batch.Reviews, models.ReviewResult{PersonaID: 3, Rating: 1, Errored: true})
	batch.ErrorCount = 1
	svc.Summarize(context.Background(), batch)

	assert.InDelta(t, 7.0, batch.AverageRating, 1e-9)
}

func TestSummarizeAllErrored(t *testing.T) {
	chain := &fakeChain{fn: func(string) (string, string, error) {
		t.Fatal("no provider call expected when nothing succeeded")
		return "", "", nil
	}}
	svc := NewSummaryService(chain, testLogger())

	batch := &models.Batch{Reviews: []models.ReviewResult{{PersonaID: 1, Errored: true}}, ErrorCount: 1}
	svc.Summarize(context.Background(), batch)

	assert.Zero(t, batch.AverageRating)
	assert.NotEmpty(t, batch.Glows, "placeholders, never empty")
	assert.NotEmpty(t, batch.Grows)
}

func TestSummarizeProviderFailure(t *testing.T) {
	chain := &fakeChain{fn: func(string) (string, string, error) {
		return "", "", errors.New("boom")
	}}
	svc := NewSummaryService(chain, testLogger())

	batch := batchWithRatings(8)
	svc.Summarize(context.Background(), batch)

	assert.Equal(t, placeholderGlows, batch.Glows)
	assert.Equal(t, placeholderGrows, batch.Grows)
}

func TestSummarizeCapsItems(t *testing.T) {
	chain := &fakeChain{fn: func(string) (string, string, error) {
		return "GLOWS:\n- a\n- b\n- c\n- d\n- e\n- f\n- g\n\nGROWS:\n- x", "gemini", nil
	}}
	svc := NewSummaryService(chain, testLogger())

	batch := batchWithRatings(8)
	svc.Summarize(context.Background(), batch)
	assert.Len(t, batch.Glows, summaryItemCap)
}

func TestParseGlowsGrows(t *testing.T) {
	text := `Here is the breakdown.

GLOWS:
- Strong concept
• Bullet dot style
* Star style

GROWS:
- Needs pricing detail
`
	glows, grows := parseGlowsGrows(text)
	require.Equal(t, []string{"Strong concept", "Bullet dot style", "Star style"}, glows)
	require.Equal(t, []string{"Needs pricing detail"}, grows)
}
