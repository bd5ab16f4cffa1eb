package services

import (
	"math/rand"
	"sort"
	"strings"
)

// Region-keyed name pools. Lookup order: exact key match on the lowercased
// location, then substring match against pool keys, then the default
// first/last combination pool.
var regionNamePools = map[string][]string{
	"north america": {
		"Avery Chen", "Jordan Hayes", "Taylor Brooks", "Morgan Reed",
		"Casey Walker", "Riley Thompson", "Dakota Young", "Skyler Bennett",
		"Harper Collins", "Quinn Sanders", "Rowan Mitchell", "Peyton Clark",
	},
	"europe": {
		"Lena Schmidt", "Jonas Weber", "Clara Novak", "Mateo Rossi",
		"Freya Lindqvist", "Hugo Dubois", "Ines Fernandez", "Maren Olsen",
		"Tomas Kovac", "Elodie Martin", "Nils Bergman", "Sofia Petrov",
	},
	"asia": {
		"Morgan Patel", "Haruki Tanaka", "Mei Lin", "Arjun Sharma",
		"Ji-woo Park", "Anh Nguyen", "Rina Sato", "Wei Zhang",
		"Priya Iyer", "Kenji Nakamura", "Siti Rahman", "Min-jun Kim",
	},
	"south america": {
		"Sam Rivera", "Lucia Fernandez", "Mateus Silva", "Valentina Castro",
		"Diego Morales", "Camila Santos", "Thiago Oliveira", "Isabela Rocha",
		"Andres Vargas", "Mariana Costa", "Rafael Mendoza", "Julieta Romero",
	},
}

// Default pools, combined at random when no region pool applies.
var (
	defaultFirstNames = []string{
		"Alex", "Jordan", "Taylor", "Morgan", "Casey", "Riley", "Avery", "Quinn",
		"Sage", "River", "Phoenix", "Dakota", "Cameron", "Skyler", "Rowan", "Harper",
		"Finley", "Emerson", "Reese", "Parker", "Blake", "Kendall", "Hayden", "Peyton",
		"Drew", "Logan", "Charlie", "Jamie", "Jessie", "Micah", "Adrian", "Ash",
		"Sam", "Kai", "Ellis", "Elliot", "Aubrey", "Bailey", "Brook", "Dylan",
	}
	defaultLastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis",
		"Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez", "Wilson", "Anderson",
		"Thomas", "Taylor", "Moore", "Jackson", "Martin", "Lee", "Perez", "Thompson",
		"White", "Harris", "Sanchez", "Clark", "Ramirez", "Lewis", "Robinson", "Walker",
		"Young", "Allen", "King", "Wright", "Scott", "Torres", "Nguyen", "Hill", "Flores",
	}
)

// sorted pool keys so substring matching is deterministic
var regionPoolKeys = func() []string {
	keys := make([]string, 0, len(regionNamePools))
	for k := range regionNamePools {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}()

func pickName(location string, rng *rand.Rand) string {
	loc := strings.ToLower(strings.TrimSpace(location))
	if loc != "" {
		if pool, ok := regionNamePools[loc]; ok {
			return pool[rng.Intn(len(pool))]
		}
		for _, key := range regionPoolKeys {
			if strings.Contains(loc, key) || strings.Contains(key, loc) {
				pool := regionNamePools[key]
				return pool[rng.Intn(len(pool))]
			}
		}
	}
	return defaultFirstNames[rng.Intn(len(defaultFirstNames))] + " " + defaultLastNames[rng.Intn(len(defaultLastNames))]
}

// archetype provides the descriptor, profession, and tone a persona
// inherits from its dominant trait.
type archetype struct {
	Descriptor string
	Profession string
	Tone       string
}

var traitArchetypes = map[string]archetype{
	"analytical":      {"Data-driven growth specialist", "Business Analyst", "analytical"},
	"creative":        {"Creative marketing strategist", "Product Designer", "enthusiastic"},
	"practical":       {"Strategy-focused product designer", "Startup Mentor", "supportive"},
	"emotional":       {"User empathy researcher", "UX Researcher", "empathetic"},
	"skeptical":       {"Hard-nosed industry expert", "Venture Capitalist", "critical"},
	"optimistic":      {"Upbeat tech entrepreneur", "Tech Entrepreneur", "encouraging"},
	"detail-oriented": {"Detail-oriented quality assurance lead", "QA Lead", "precise"},
	"impulsive":       {"Trend-chasing early adopter", "Growth Marketer", "energetic"},
	"cautious":        {"Risk-aware operations manager", "Operations Manager", "measured"},
	"adventurous":     {"Experiment-happy innovation lead", "Innovation Lead", "bold"},
}

var defaultArchetype = archetype{"Insightful customer persona", "Product Manager", "balanced"}

func archetypeFor(trait string) archetype {
	if a, ok := traitArchetypes[strings.ToLower(strings.TrimSpace(trait))]; ok {
		return a
	}
	return defaultArchetype
}
