package eligibility

// SpecialCategory is exempt from the restricted-category rule
const SpecialCategory = "recycling-or-hand-crafting"

// Config is the immutable rule configuration
type Config struct {
	DeniedItems          []string
	AllowedItems         []string
	RestrictedCategories []string
	ManualCategories     []string
	RestrictedItems      []string
	RestrictedProducers  []string

	// StrictProducers restricts any recipe that declares a producer at all
	StrictProducers bool
	// AllowProducerless makes recipes without declared producers craftable
	AllowProducerless bool
}

// DefaultConfig returns the hand-crafting rules used by the standard game data
func DefaultConfig() Config {
	return Config{
		RestrictedCategories: []string{"recycling", "chemistry", "oil-processing", "smelting"},
		ManualCategories:     []string{"crafting", "basic-crafting", "advanced-crafting", "mining", SpecialCategory},
		RestrictedProducers:  []string{"rocket-silo", "recycler"},
		AllowProducerless:    true,
	}
}

type stringSet map[string]struct{}

func newStringSet(values []string) stringSet {
	s := make(stringSet, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

func (s stringSet) has(v string) bool {
	_, ok := s[v]
	return ok
}
