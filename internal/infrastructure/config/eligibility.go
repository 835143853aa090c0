package config

import "github.com/andrescamacho/factorycore/internal/domain/eligibility"

// EligibilityConfig holds the hand-crafting eligibility lists
type EligibilityConfig struct {
	DeniedItems          []string `mapstructure:"denied_items"`
	AllowedItems         []string `mapstructure:"allowed_items"`
	RestrictedCategories []string `mapstructure:"restricted_categories"`
	ManualCategories     []string `mapstructure:"manual_categories"`
	RestrictedItems      []string `mapstructure:"restricted_items"`
	RestrictedProducers  []string `mapstructure:"restricted_producers"`

	// Restrict every recipe that names producers
	StrictProducers bool `mapstructure:"strict_producers"`

	// Restrict recipes with no producers
	DenyProducerless bool `mapstructure:"deny_producerless"`

	// Verdict cache entries (0 disables the cache)
	CacheSize int `mapstructure:"cache_size" validate:"min=0"`
}

// ToDomain converts the section into the classifier configuration
func (c EligibilityConfig) ToDomain() eligibility.Config {
	return eligibility.Config{
		DeniedItems:          c.DeniedItems,
		AllowedItems:         c.AllowedItems,
		RestrictedCategories: c.RestrictedCategories,
		ManualCategories:     c.ManualCategories,
		RestrictedItems:      c.RestrictedItems,
		RestrictedProducers:  c.RestrictedProducers,
		StrictProducers:      c.StrictProducers,
		AllowProducerless:    !c.DenyProducerless,
	}
}
