package models

// ReviewResult is one persona's generated review. When the whole provider
// chain failed for the slot, Errored is set and Text/Rating come from the
// offline template; the slot is excluded from success aggregates but the
// persona remains addressable for chat.
type ReviewResult struct {
	PersonaID int         `json:"id"`
	Persona   PersonaSpec `json:"metadata"`
	Text      string      `json:"review,omitempty"`
	Rating    int         `json:"rating,omitempty"` // 0-10 internal scale
	Provider  string      `json:"-"`                // which chain member produced it
	Errored   bool        `json:"errored,omitempty"`
}

// DisplayRating converts the internal 0-10 rating to the 0-5 scale the
// client renders.
func (r ReviewResult) DisplayRating() float64 {
	return float64(r.Rating) / 2
}

// Batch is the full result of one generate call, index-aligned with the
// persona list that produced it.
type Batch struct {
	Reviews       []ReviewResult `json:"reviews"`
	SuccessCount  int            `json:"successCount"`
	ErrorCount    int            `json:"errorCount"`
	AverageRating float64        `json:"averageRating"`
	Glows         []string       `json:"glows"`
	Grows         []string       `json:"grows"`
	Offline       bool           `json:"-"` // every slot came from the offline template
}
