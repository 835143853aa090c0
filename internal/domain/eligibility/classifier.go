package eligibility

import "github.com/andrescamacho/factorycore/internal/domain/catalog"

// Validator decides whether a recipe can be executed without a facility
type Validator interface {
	Validate(recipe *catalog.Recipe) Verdict
	ClassifyItem(itemID string) Verdict
}

// Classifier evaluates the ordered rule list. It is a pure function of the
// recipe and the configuration it was built with.
type Classifier struct {
	config  Config
	catalog catalog.Catalog

	denied               stringSet
	allowed              stringSet
	restrictedCategories stringSet
	manualCategories     stringSet
	restrictedItems      stringSet
	restrictedProducers  stringSet
}

// NewClassifier builds a classifier. cat is used for fluid-input detection and
// ClassifyItem; a nil catalog disables both.
func NewClassifier(config Config, cat catalog.Catalog) *Classifier {
	return &Classifier{
		config:               config,
		catalog:              cat,
		denied:               newStringSet(config.DeniedItems),
		allowed:              newStringSet(config.AllowedItems),
		restrictedCategories: newStringSet(config.RestrictedCategories),
		manualCategories:     newStringSet(config.ManualCategories),
		restrictedItems:      newStringSet(config.RestrictedItems),
		restrictedProducers:  newStringSet(config.RestrictedProducers),
	}
}

// Validate returns the verdict of the first matching rule
func (c *Classifier) Validate(recipe *catalog.Recipe) Verdict {
	if recipe == nil {
		return restricted(ReasonNoRecipe)
	}
	for _, r := range orderedRules {
		if v, ok := r.match(c, recipe); ok {
			return v
		}
	}
	return restricted(ReasonDisallowedCategory)
}

// ClassifyItem classifies an item by its producing recipes. Items with no
// recipe are raw materials. Otherwise the first eligible recipe decides.
func (c *Classifier) ClassifyItem(itemID string) Verdict {
	if c.catalog == nil {
		return rawMaterial(ReasonNoRecipes)
	}
	recipes := c.catalog.RecipesProducing(itemID)
	if len(recipes) == 0 {
		return rawMaterial(ReasonNoRecipes)
	}

	first := restricted(ReasonNoRecipe)
	for i, r := range recipes {
		v := c.Validate(r)
		if v.Eligible {
			return v
		}
		if i == 0 {
			first = v
		}
	}
	return first
}

// RuleNames lists the rules in evaluation order
func RuleNames() []string {
	names := make([]string, len(orderedRules))
	for i, r := range orderedRules {
		names[i] = r.name
	}
	return names
}

// Explain returns the name of the rule that decided the verdict
func (c *Classifier) Explain(recipe *catalog.Recipe) (string, Verdict) {
	if recipe == nil {
		return "", restricted(ReasonNoRecipe)
	}
	for _, r := range orderedRules {
		if v, ok := r.match(c, recipe); ok {
			return r.name, v
		}
	}
	return "", restricted(ReasonDisallowedCategory)
}
