package models

// Trait intensity levels, cycled per persona for variety.
var IntensityLevels = []float64{0.9, 1.0, 1.1}

// IntensityLabel maps an intensity multiplier to its adverb form
// used in prompts ("somewhat analytical", "very skeptical", ...).
func IntensityLabel(v float64) string {
	switch {
	case v < 0.95:
		return "somewhat"
	case v > 1.05:
		return "very"
	default:
		return "moderately"
	}
}

type Trait struct {
	Name      string  `json:"name"`
	Intensity float64 `json:"intensity"`
}

// PersonaSpec is one synthetic reviewer in a batch. IDs are 1-based and
// stable for the lifetime of the panel that produced them.
type PersonaSpec struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Age        int     `json:"age"`
	Gender     string  `json:"gender,omitempty"`
	Location   string  `json:"location,omitempty"`
	Profession string  `json:"profession,omitempty"`
	Tone       string  `json:"tone"`
	Descriptor string  `json:"descriptor"`
	Traits     []Trait `json:"traits"`
}

// TraitNames returns just the trait labels, in assignment order.
func (p PersonaSpec) TraitNames() []string {
	out := make([]string, 0, len(p.Traits))
	for _, t := range p.Traits {
		out = append(out, t.Name)
	}
	return out
}

// Brief is the validated product description a batch is generated from.
// DocumentText is pre-extracted plain text merged in by the handler,
// already truncated to DocumentTextLimit.
type Brief struct {
	Text         string   `json:"text"`
	DocumentText string   `json:"documentText,omitempty"`
	NumReviews   int      `json:"numReviews"`
	AgeMin       int      `json:"ageMin,omitempty"`
	AgeMax       int      `json:"ageMax,omitempty"`
	Gender       string   `json:"gender,omitempty"`
	Location     string   `json:"location,omitempty"`
	Traits       []string `json:"characteristics"`
}

const (
	MinReviews        = 1
	MaxReviews        = 20
	DocumentTextLimit = 3000
)
