package setup_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factorycore/internal/adapters/memory"
	"github.com/andrescamacho/factorycore/internal/application/setup"
	"github.com/andrescamacho/factorycore/internal/domain/catalog"
	"github.com/andrescamacho/factorycore/internal/domain/eligibility"
)

func TestBuildDriver_CachesVerdictsWhenConfigured(t *testing.T) {
	// Arrange
	cat := catalog.Standard()
	store := memory.NewInventoryStore(map[string]int{"wood": 4}, nil, 0)
	opts := setup.DefaultDriverOptions()
	opts.CacheSize = 16

	// Act
	driver, validator, err := setup.BuildDriver(cat, store, nil, opts)
	require.NoError(t, err)
	analysis, craftErr := driver.RequestCraft(context.Background(), "wooden-chest", 1)

	// Assert
	require.NoError(t, craftErr)
	assert.Equal(t, "wooden-chest", analysis.ItemID)
	cached, ok := validator.(*eligibility.CachedClassifier)
	require.True(t, ok)
	assert.Positive(t, cached.Len())
}

func TestBuildDriver_PlainClassifierByDefault(t *testing.T) {
	// Arrange
	cat := catalog.Standard()

	// Act
	_, validator, err := setup.BuildDriver(cat, memory.NewInventoryStore(nil, nil, 0), nil, setup.DefaultDriverOptions())

	// Assert
	require.NoError(t, err)
	_, isPlain := validator.(*eligibility.Classifier)
	assert.True(t, isPlain)
}
