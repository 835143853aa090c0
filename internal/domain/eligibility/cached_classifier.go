package eligibility

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/andrescamacho/factorycore/internal/domain/catalog"
)

// CachedClassifier memoizes verdicts by recipe id. Verdicts depend only on the
// recipe and immutable configuration, so entries never go stale.
type CachedClassifier struct {
	inner   *Classifier
	recipes *lru.Cache[string, Verdict]
	items   *lru.Cache[string, Verdict]
}

// NewCachedClassifier wraps a classifier with LRU caches of the given size
func NewCachedClassifier(inner *Classifier, size int) (*CachedClassifier, error) {
	if size <= 0 {
		size = 256
	}
	recipes, err := lru.New[string, Verdict](size)
	if err != nil {
		return nil, err
	}
	items, err := lru.New[string, Verdict](size)
	if err != nil {
		return nil, err
	}
	return &CachedClassifier{inner: inner, recipes: recipes, items: items}, nil
}

func (c *CachedClassifier) Validate(recipe *catalog.Recipe) Verdict {
	if recipe == nil || recipe.ID == "" {
		return c.inner.Validate(recipe)
	}
	if v, ok := c.recipes.Get(recipe.ID); ok {
		return v
	}
	v := c.inner.Validate(recipe)
	c.recipes.Add(recipe.ID, v)
	return v
}

func (c *CachedClassifier) ClassifyItem(itemID string) Verdict {
	if v, ok := c.items.Get(itemID); ok {
		return v
	}
	v := c.inner.ClassifyItem(itemID)
	c.items.Add(itemID, v)
	return v
}

// Len reports how many recipe verdicts are cached
func (c *CachedClassifier) Len() int {
	return c.recipes.Len()
}
