package services

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/okkyra/panelist/internal/models"
	"github.com/okkyra/panelist/internal/utils"
)

const (
	ageFloor      = 13
	ageCeil       = 100
	defaultAgeMin = 22
	defaultAgeMax = 65
)

type PersonaService interface {
	BuildPanel(brief models.Brief) ([]models.PersonaSpec, error)
}

type personaService struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewPersonaService builds the factory. Seed only matters for tests;
// production callers pass a time-based seed.
func NewPersonaService(seed int64) PersonaService {
	return &personaService{rng: rand.New(rand.NewSource(seed))}
}

// BuildPanel manufactures exactly the clamped number of persona specs.
// It never calls a provider; validation failures stop the batch before
// any generation request is issued.
func (s *personaService) BuildPanel(brief models.Brief) ([]models.PersonaSpec, error) {
	const op = "PersonaService.BuildPanel"

	if brief.NumReviews <= 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "numReviews must be positive", nil)
	}
	if len(brief.Traits) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "select at least one persona trait", nil)
	}

	count := brief.NumReviews
	if count > models.MaxReviews {
		count = models.MaxReviews
	}

	ageMin, ageMax := clampAges(brief.AgeMin, brief.AgeMax)

	s.mu.Lock()
	defer s.mu.Unlock()

	used := make(map[string]bool, count)
	specs := make([]models.PersonaSpec, 0, count)
	for i := 0; i < count; i++ {
		name := uniqueName(pickName(brief.Location, s.rng), used)

		traits := make([]models.Trait, len(brief.Traits))
		for j, t := range brief.Traits {
			traits[j] = models.Trait{
				Name:      t,
				Intensity: models.IntensityLevels[(i+j)%len(models.IntensityLevels)],
			}
		}

		arch := archetypeFor(brief.Traits[0])
		specs = append(specs, models.PersonaSpec{
			ID:         i + 1,
			Name:       name,
			Age:        ageMin + s.rng.Intn(ageMax-ageMin+1),
			Gender:     brief.Gender,
			Location:   brief.Location,
			Profession: arch.Profession,
			Tone:       arch.Tone,
			Descriptor: arch.Descriptor,
			Traits:     traits,
		})
	}
	return specs, nil
}

func clampAges(min, max int) (int, int) {
	if min == 0 && max == 0 {
		return defaultAgeMin, defaultAgeMax
	}
	if min == 0 {
		min = ageFloor
	}
	if max == 0 {
		max = ageCeil
	}
	if min > max {
		min, max = max, min
	}
	if min < ageFloor {
		min = ageFloor
	}
	if max > ageCeil {
		max = ageCeil
	}
	return min, max
}

// uniqueName disambiguates collisions by appending a counter starting at 2.
func uniqueName(name string, used map[string]bool) string {
	candidate := name
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		candidate = fmt.Sprintf("%s %d", name, n)
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}
