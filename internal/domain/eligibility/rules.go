package eligibility

import "github.com/andrescamacho/factorycore/internal/domain/catalog"

// rule is one predicate→verdict entry. match returns ok=false to fall through.
type rule struct {
	name  string
	match func(c *Classifier, r *catalog.Recipe) (Verdict, bool)
}

// orderedRules is evaluated first-match-wins. Order is significant.
var orderedRules = []rule{
	{name: "denied-item", match: matchDeniedItem},
	{name: "allowed-item", match: matchAllowedItem},
	{name: "restricted-category", match: matchRestrictedCategory},
	{name: "manual-category", match: matchManualCategory},
	{name: "mining", match: matchMining},
	{name: "recycling", match: matchRecycling},
	{name: "fluid-input", match: matchFluidInput},
	{name: "restricted-item", match: matchRestrictedItem},
	{name: "restricted-producers", match: matchRestrictedProducers},
	{name: "producerless", match: matchProducerless},
	{name: "category-fallback", match: matchCategoryFallback},
}

func primaryOutputID(r *catalog.Recipe) string {
	out, ok := r.PrimaryOutput()
	if !ok {
		return ""
	}
	return out.ItemID
}

func matchDeniedItem(c *Classifier, r *catalog.Recipe) (Verdict, bool) {
	if c.denied.has(primaryOutputID(r)) {
		return restricted(ReasonDeniedItem), true
	}
	return Verdict{}, false
}

func matchAllowedItem(c *Classifier, r *catalog.Recipe) (Verdict, bool) {
	if c.allowed.has(primaryOutputID(r)) {
		return craftable(ReasonAllowedItem), true
	}
	return Verdict{}, false
}

func matchRestrictedCategory(c *Classifier, r *catalog.Recipe) (Verdict, bool) {
	if r.Category == SpecialCategory {
		return craftable(ReasonSpecialCategory), true
	}
	if c.restrictedCategories.has(r.Category) {
		return restricted(ReasonRestrictedCategory), true
	}
	return Verdict{}, false
}

func matchManualCategory(c *Classifier, r *catalog.Recipe) (Verdict, bool) {
	if r.Category != "" && !c.manualCategories.has(r.Category) {
		return restricted(ReasonCategoryNotManual), true
	}
	return Verdict{}, false
}

func matchMining(_ *Classifier, r *catalog.Recipe) (Verdict, bool) {
	if r.Flags.Mining {
		return rawMaterial(ReasonMining), true
	}
	return Verdict{}, false
}

func matchRecycling(_ *Classifier, r *catalog.Recipe) (Verdict, bool) {
	if r.Flags.Recycling {
		return restricted(ReasonRecycling), true
	}
	return Verdict{}, false
}

func matchFluidInput(c *Classifier, r *catalog.Recipe) (Verdict, bool) {
	if c.catalog == nil {
		return Verdict{}, false
	}
	for _, in := range r.Inputs {
		if item, ok := c.catalog.Item(in.ItemID); ok && item.IsFluid() {
			return restricted(ReasonFluidInput), true
		}
	}
	return Verdict{}, false
}

func matchRestrictedItem(c *Classifier, r *catalog.Recipe) (Verdict, bool) {
	if c.restrictedItems.has(primaryOutputID(r)) {
		return restricted(ReasonRestrictedItem), true
	}
	return Verdict{}, false
}

func matchRestrictedProducers(c *Classifier, r *catalog.Recipe) (Verdict, bool) {
	if len(r.Producers) == 0 {
		return Verdict{}, false
	}
	if c.config.StrictProducers {
		return restricted(ReasonStrictProducers), true
	}
	for _, p := range r.Producers {
		if !c.restrictedProducers.has(p) {
			return Verdict{}, false
		}
	}
	return restricted(ReasonRestrictedProducers), true
}

func matchProducerless(c *Classifier, r *catalog.Recipe) (Verdict, bool) {
	if len(r.Producers) == 0 && c.config.AllowProducerless {
		return craftable(ReasonNoProducers), true
	}
	return Verdict{}, false
}

func matchCategoryFallback(c *Classifier, r *catalog.Recipe) (Verdict, bool) {
	if c.manualCategories.has(r.Category) {
		return craftable(ReasonAllowedCategory), true
	}
	return restricted(ReasonDisallowedCategory), true
}
