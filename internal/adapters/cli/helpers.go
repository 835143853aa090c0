package cli

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// placement is one --place flag: type[:recipe][=count]
type placement struct {
	facilityType string
	recipeID     string
	count        int
}

func parsePlacements(values []string) ([]placement, error) {
	placements := make([]placement, 0, len(values))
	for _, value := range values {
		p := placement{count: 1}
		spec := value
		if i := strings.LastIndex(spec, "="); i >= 0 {
			count, err := strconv.Atoi(spec[i+1:])
			if err != nil || count < 1 {
				return nil, fmt.Errorf("invalid count in %q", value)
			}
			p.count = count
			spec = spec[:i]
		}
		p.facilityType, p.recipeID, _ = strings.Cut(spec, ":")
		if p.facilityType == "" {
			return nil, fmt.Errorf("missing facility type in %q", value)
		}
		placements = append(placements, p)
	}
	return placements, nil
}

// parseQuantities reads item=qty pairs, summing repeats
func parseQuantities(values []string) (map[string]int, error) {
	quantities := make(map[string]int, len(values))
	for _, value := range values {
		item, raw, ok := strings.Cut(value, "=")
		if !ok || item == "" {
			return nil, fmt.Errorf("expected item=qty, got %q", value)
		}
		qty, err := strconv.Atoi(raw)
		if err != nil || qty < 0 {
			return nil, fmt.Errorf("invalid quantity in %q", value)
		}
		quantities[item] += qty
	}
	return quantities, nil
}

// formatPower renders kW with an SI prefix
func formatPower(kw float64) string {
	return humanize.SIWithDigits(kw*1000, 2, "W")
}

// formatEnergy renders kJ with an SI prefix
func formatEnergy(kj float64) string {
	return humanize.SIWithDigits(kj*1000, 2, "J")
}

func formatCount(n int) string {
	return humanize.Comma(int64(n))
}

func formatRunTime(seconds float64) string {
	if math.IsInf(seconds, 1) {
		return "indefinitely"
	}
	return (time.Duration(seconds * float64(time.Second))).Round(time.Second).String()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
