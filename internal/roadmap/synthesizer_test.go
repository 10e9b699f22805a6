package roadmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swaggyashwin/pathfinder/internal/career"
)

func newTestSynthesizer(t *testing.T) *Synthesizer {
	t.Helper()
	store, err := LoadDefaultStore()
	require.NoError(t, err)
	syn, err := NewSynthesizer(career.NewResolver(), store)
	require.NoError(t, err)
	return syn
}

func TestSynthesizer_StampsGoal(t *testing.T) {
	syn := newTestSynthesizer(t)

	rm, c := syn.Synthesize("Help me transition to UX Design from marketing, I know HTML basics")
	assert.Equal(t, career.UXDesigner, c)
	assert.Equal(t, "UX Designer", rm.CareerGoal)
	assert.Equal(t, "Professional-level UX Designer", rm.TargetLevel)
	require.NoError(t, rm.Validate())
}

func TestSynthesizer_EmptyTriggerUsesDefault(t *testing.T) {
	syn := newTestSynthesizer(t)

	rm, c := syn.Synthesize("")
	assert.Equal(t, career.Default, c)
	assert.Equal(t, career.Default.DisplayName(), rm.CareerGoal)
}

func TestSynthesizer_Idempotent(t *testing.T) {
	syn := newTestSynthesizer(t)

	a, _ := syn.Synthesize("cloud architect")
	b, _ := syn.Synthesize("cloud architect")
	require.Equal(t, a, b)

	a.Phases[0].Objectives[0] = "mutated"
	a.CareerPaths = append(a.CareerPaths[:0], "mutated")
	assert.NotEqual(t, "mutated", b.Phases[0].Objectives[0])
	assert.NotEqual(t, "mutated", b.CareerPaths[0])

	c, _ := syn.Synthesize("cloud architect")
	assert.Equal(t, b, c)
}

func TestSynthesizer_EveryCategory(t *testing.T) {
	syn := newTestSynthesizer(t)
	for _, c := range career.All() {
		rm := syn.ForCategory(c)
		assert.Equal(t, c.DisplayName(), rm.CareerGoal)
		assert.Equal(t, TargetLevelPrefix+c.DisplayName(), rm.TargetLevel)
		require.NoError(t, rm.Validate())
	}
}
