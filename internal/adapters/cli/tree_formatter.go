package cli

import (
	"fmt"
	"strings"

	"github.com/andrescamacho/factorycore/internal/domain/crafting"
	"github.com/andrescamacho/factorycore/internal/domain/eligibility"
)

// TreeFormatter renders a resolved craft plan as a dependency tree
type TreeFormatter struct {
	useColors bool
	useEmojis bool
}

// NewTreeFormatter creates a new tree formatter
func NewTreeFormatter(useColors, useEmojis bool) *TreeFormatter {
	return &TreeFormatter{
		useColors: useColors,
		useEmojis: useEmojis,
	}
}

// FormatPlan renders the requested item with one branch per dependency
func (f *TreeFormatter) FormatPlan(analysis *crafting.ChainAnalysis) string {
	if analysis == nil {
		return "(empty plan)"
	}

	var builder strings.Builder
	recipe := ""
	if analysis.Recipe != nil {
		recipe = analysis.Recipe.ID
	}
	builder.WriteString(fmt.Sprintf("%s %s x%d [%s%s%s] %.2fs\n",
		f.getStatusIcon(true),
		analysis.ItemID,
		analysis.Quantity,
		f.getCategoryColor(eligibility.CategoryCraftable),
		recipe,
		f.colorReset(),
		analysis.TotalDuration,
	))

	for i, dep := range analysis.Dependencies {
		f.formatDependency(&builder, dep, i == len(analysis.Dependencies)-1)
	}
	return builder.String()
}

// formatDependency writes one branch of the tree
func (f *TreeFormatter) formatDependency(builder *strings.Builder, dep crafting.Dependency, isLast bool) {
	linePrefix := "├── "
	if isLast {
		linePrefix = "└── "
	}

	method := "stock"
	switch {
	case dep.Shortage > 0 && dep.Recipe != nil && dep.ManualEligible:
		method = "craft " + dep.Recipe.ID
	case dep.Shortage > 0:
		method = string(dep.Category)
	}

	shortage := ""
	if dep.Shortage > 0 {
		shortage = fmt.Sprintf(", short %d", dep.Shortage)
	}

	builder.WriteString(fmt.Sprintf("%s%s %s need %d, have %d%s [%s%s%s]\n",
		linePrefix,
		f.getStatusIcon(dep.Shortage == 0 || dep.ManualEligible),
		dep.ItemID,
		dep.Required,
		dep.Available,
		shortage,
		f.getCategoryColor(dep.Category),
		method,
		f.colorReset(),
	))
}

// getStatusIcon returns a visual indicator for whether a branch is satisfied
func (f *TreeFormatter) getStatusIcon(ok bool) string {
	if !f.useEmojis {
		if ok {
			return "[✓]"
		}
		return "[ ]"
	}

	if ok {
		return "✅"
	}
	return "⏳"
}

// getCategoryColor returns ANSI color code for a classifier category
func (f *TreeFormatter) getCategoryColor(category eligibility.Category) string {
	if !f.useColors {
		return ""
	}

	switch category {
	case eligibility.CategoryCraftable:
		return "\033[32m" // Green
	case eligibility.CategoryRawMaterial:
		return "\033[33m" // Yellow
	case eligibility.CategoryRestricted:
		return "\033[31m" // Red
	default:
		return ""
	}
}

// colorReset returns ANSI reset code
func (f *TreeFormatter) colorReset() string {
	if !f.useColors {
		return ""
	}
	return "\033[0m"
}
