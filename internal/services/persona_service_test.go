package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okkyra/panelist/internal/models"
	"github.com/okkyra/panelist/internal/utils"
)

func testBrief() models.Brief {
	return models.Brief{
		Text:       "A subscription box for houseplants",
		NumReviews: 5,
		Traits:     []string{"analytical", "skeptical"},
	}
}

func TestBuildPanelValidation(t *testing.T) {
	svc := NewPersonaService(1)

	b := testBrief()
	b.Traits = nil
	_, err := svc.BuildPanel(b)
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	b = testBrief()
	b.NumReviews = 0
	_, err = svc.BuildPanel(b)
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestBuildPanelCountAndIDs(t *testing.T) {
	svc := NewPersonaService(1)

	specs, err := svc.BuildPanel(testBrief())
	require.NoError(t, err)
	require.Len(t, specs, 5)
	for i, s := range specs {
		assert.Equal(t, i+1, s.ID)
		assert.NotEmpty(t, s.Name)
		assert.NotEmpty(t, s.Descriptor)
		assert.NotEmpty(t, s.Tone)
		require.Len(t, s.Traits, 2)
	}
}

func TestBuildPanelClampsCount(t *testing.T) {
	svc := NewPersonaService(1)

	b := testBrief()
	b.NumReviews = 50
	specs, err := svc.BuildPanel(b)
	require.NoError(t, err)
	assert.Len(t, specs, models.MaxReviews)
}

func TestBuildPanelNamesDistinct(t *testing.T) {
	svc := NewPersonaService(7)

	// A 12-name region pool with 20 personas forces collisions.
	b := testBrief()
	b.NumReviews = 20
	b.Location = "Europe"
	specs, err := svc.BuildPanel(b)
	require.NoError(t, err)

	seen := make(map[string]bool)
	numbered := false
	for _, s := range specs {
		assert.False(t, seen[s.Name], "duplicate name %q", s.Name)
		seen[s.Name] = true
		if strings.HasSuffix(s.Name, " 2") {
			numbered = true
		}
	}
	assert.True(t, numbered, "expected at least one collision resolved with a counter")
}

func TestBuildPanelIntensitiesCycle(t *testing.T) {
	svc := NewPersonaService(1)

	b := testBrief()
	b.NumReviews = 3
	specs, err := svc.BuildPanel(b)
	require.NoError(t, err)

	for i, s := range specs {
		for j, tr := range s.Traits {
			assert.Equal(t, models.IntensityLevels[(i+j)%3], tr.Intensity)
		}
	}
}

func TestBuildPanelAgeRange(t *testing.T) {
	svc := NewPersonaService(1)

	b := testBrief()
	b.AgeMin, b.AgeMax = 30, 35
	b.NumReviews = 10
	specs, err := svc.BuildPanel(b)
	require.NoError(t, err)
	for _, s := range specs {
		assert.GreaterOrEqual(t, s.Age, 30)
		assert.LessOrEqual(t, s.Age, 35)
	}
}

func TestClampAges(t *testing.T) {
	tests := []struct {
		name             string
		min, max         int
		wantMin, wantMax int
	}{
		{"defaults", 0, 0, 22, 65},
		{"swapped", 40, 20, 20, 40},
		{"below floor", 5, 30, 13, 30},
		{"above ceiling", 50, 200, 50, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotMin, gotMax := clampAges(tt.min, tt.max)
			assert.Equal(t, tt.wantMin, gotMin)
			assert.Equal(t, tt.wantMax, gotMax)
		})
	}
}

func TestUniqueName(t *testing.T) {
	used := make(map[string]bool)
	assert.Equal(t, "Lena Schmidt", uniqueName("Lena Schmidt", used))
	assert.Equal(t, "Lena Schmidt 2", uniqueName("Lena Schmidt", used))
	assert.Equal(t, "Lena Schmidt 3", uniqueName("Lena Schmidt", used))
}

func TestPickNameRegionPools(t *testing.T) {
	svc := NewPersonaService(3).(*personaService)

	// exact key
	name := pickName("Europe", svc.rng)
	assert.Contains(t, regionNamePools["europe"], name)

	// substring of a longer location string
	name = pickName("Berlin, Europe", svc.rng)
	assert.Contains(t, regionNamePools["europe"], name)

	// unknown location falls back to the default combination pool
	name = pickName("Atlantis", svc.rng)
	parts := strings.SplitN(name, " ", 2)
	assert.Contains(t, defaultFirstNames, parts[0])
}
