package tier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cryptomalo/AurumBotX-sub003/internal/errors"
)

// TestNewCatalogue_ShippedTable tests that the shipped tier table loads
func TestNewCatalogue_ShippedTable(t *testing.T) {
	catalogue, err := NewCatalogue()
	require.NoError(t, err)

	for _, level := range catalogue.Levels() {
		cfg, err := catalogue.Get(level)
		require.NoError(t, err)
		assert.Equal(t, level.String(), cfg.Label)
	}
}

// TestNewCatalogue_ShippedTableMonotonic tests that size and risk grow with rank
func TestNewCatalogue_ShippedTableMonotonic(t *testing.T) {
	catalogue, err := NewCatalogue()
	require.NoError(t, err)

	prev, err := catalogue.Get(MinLevel)
	require.NoError(t, err)

	for level := MinLevel + 1; level <= MaxLevel; level++ {
		cfg, err := catalogue.Get(level)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, cfg.PositionSizeMin, prev.PositionSizeMin, "position_size_min must not shrink with rank")
		assert.GreaterOrEqual(t, cfg.PositionSizeMax, prev.PositionSizeMax, "position_size_max must not shrink with rank")
		assert.GreaterOrEqual(t, cfg.StopLossFraction, prev.StopLossFraction, "stop_loss_fraction must not shrink with rank")
		prev = cfg
	}
}

// TestNewCatalogueFrom_InvertedBounds tests rejection of min > max
func TestNewCatalogueFrom_InvertedBounds(t *testing.T) {
	table := cloneDefaults()
	cfg := table[Cruiser]
	cfg.PositionSizeMin = 0.5
	cfg.PositionSizeMax = 0.2
	table[Cruiser] = cfg

	_, err := NewCatalogueFrom(table)
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))
}

// TestNewCatalogueFrom_FractionOutOfRange tests rejection of fractions outside (0,1]
func TestNewCatalogueFrom_FractionOutOfRange(t *testing.T) {
	table := cloneDefaults()
	cfg := table[Rocket]
	cfg.StopLossFraction = 0
	table[Rocket] = cfg

	_, err := NewCatalogueFrom(table)
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))
}

// TestNewCatalogueFrom_MissingTier tests rejection of an incomplete table
func TestNewCatalogueFrom_MissingTier(t *testing.T) {
	table := cloneDefaults()
	delete(table, Falcon)

	_, err := NewCatalogueFrom(table)
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))
}

// TestCatalogue_Get_InvalidLevel tests that an out-of-range rank is an input error
func TestCatalogue_Get_InvalidLevel(t *testing.T) {
	catalogue, err := NewCatalogue()
	require.NoError(t, err)

	_, err = catalogue.Get(Level(0))
	require.Error(t, err)
	assert.True(t, errors.IsInvalidInput(err))

	_, err = catalogue.Get(Level(6))
	require.Error(t, err)
	assert.True(t, errors.IsInvalidInput(err))
}

// TestCatalogue_Next_Clamping tests that repeated moves never leave the valid range
func TestCatalogue_Next_Clamping(t *testing.T) {
	catalogue, err := NewCatalogue()
	require.NoError(t, err)

	level := Rocket
	for i := 0; i < 10; i++ {
		level = catalogue.Next(level, Promote)
	}
	assert.Equal(t, Rocket, level)

	level = Turtle
	for i := 0; i < 10; i++ {
		level = catalogue.Next(level, Demote)
	}
	assert.Equal(t, Turtle, level)
}

// TestCatalogue_Next_Steps tests single-step promotion and demotion
func TestCatalogue_Next_Steps(t *testing.T) {
	catalogue, err := NewCatalogue()
	require.NoError(t, err)

	assert.Equal(t, Steady, catalogue.Next(Turtle, Promote))
	assert.Equal(t, Falcon, catalogue.Next(Rocket, Demote))
	assert.Equal(t, Cruiser, catalogue.Next(Steady, Promote))
}

// TestParseLevel_RoundTrip tests that every label parses back to its level
func TestParseLevel_RoundTrip(t *testing.T) {
	for level := MinLevel; level <= MaxLevel; level++ {
		parsed, err := ParseLevel(level.String())
		require.NoError(t, err)
		assert.Equal(t, level, parsed)
	}
}

// TestParseLevel_Unknown tests rejection of an unrecognized label
func TestParseLevel_Unknown(t *testing.T) {
	_, err := ParseLevel("MEGATRON")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidInput(err))
}

func cloneDefaults() map[Level]Config {
	table := make(map[Level]Config, len(defaultConfigs))
	for l, cfg := range defaultConfigs {
		table[l] = cfg
	}
	return table
}
