// Package render turns query results, insights, and LLM prose into the
// fixed text layout shown to the user. It makes no decisions of its own.
package render

import (
	"fmt"
	"math"
	"strings"
)

// NumberKind selects one of the shared number formats.
type NumberKind int

const (
	Currency NumberKind = iota
	Percent
	Count
	Decimal
	Compact
)

// FormatNumber renders a value consistently across every display surface.
// Currency and Count use thousands separators; Currency drops decimals.
func FormatNumber(value float64, kind NumberKind) string {
	switch kind {
	case Currency:
		if value < 0 {
			return "-$" + groupThousands(int64(math.Round(-value)))
		}
		return "$" + groupThousands(int64(math.Round(value)))
	case Percent:
		return fmt.Sprintf("%.1f%%", value)
	case Count:
		return groupThousands(int64(math.Round(value)))
	case Compact:
		abs := math.Abs(value)
		switch {
		case abs >= 1_000_000_000:
			return fmt.Sprintf("$%.1fB", value/1_000_000_000)
		case abs >= 1_000_000:
			return fmt.Sprintf("$%.1fM", value/1_000_000)
		case abs >= 1_000:
			return fmt.Sprintf("$%.1fK", value/1_000)
		default:
			return fmt.Sprintf("$%.0f", value)
		}
	default:
		return groupFloat(value, 2)
	}
}

// FormatCurrencyRange renders "min - max" with currency formatting.
func FormatCurrencyRange(minVal, maxVal float64) string {
	return FormatNumber(minVal, Currency) + " - " + FormatNumber(maxVal, Currency)
}

// FormatChange renders a signed delta with its percentage of the old value.
func FormatChange(oldVal, newVal float64) string {
	diff := newVal - oldVal
	pct := 0.0
	if oldVal != 0 {
		pct = diff / oldVal * 100
	}
	sign := ""
	if diff > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%s (%s%.1f%%)", sign, FormatNumber(diff, Currency), sign, pct)
}

// formatCell applies unit-aware formatting by column name: salary and pay
// columns render as currency, headcount-style columns as plain counts.
func formatCell(column string, value float64) string {
	lower := strings.ToLower(column)
	switch {
	case strings.Contains(lower, "salary") || strings.Contains(lower, "pay"):
		if value <= 0 {
			return "N/A"
		}
		return FormatNumber(value, Currency)
	case strings.Contains(lower, "employee") || strings.Contains(lower, "count") || strings.Contains(lower, "position"):
		return FormatNumber(value, Count)
	default:
		return groupFloat(value, 2)
	}
}

func groupThousands(v int64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%d", v)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		return "-" + s
	}
	return s
}

func groupFloat(v float64, decimals int) string {
	whole := math.Trunc(v)
	frac := math.Abs(v - whole)
	out := groupThousands(int64(whole))
	if decimals > 0 {
		fracStr := fmt.Sprintf("%.*f", decimals, frac)
		out += fracStr[1:]
	}
	return out
}

// pad right-pads s with spaces to width, counting runes.
func pad(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// wrap splits text into lines no longer than width runes, breaking on
// spaces. Words longer than width land on their own line untruncated.
func wrap(text string, width int) []string {
	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		words := strings.Fields(raw)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		current := words[0]
		for _, word := range words[1:] {
			if len([]rune(current))+1+len([]rune(word)) <= width {
				current += " " + word
			} else {
				lines = append(lines, current)
				current = word
			}
		}
		lines = append(lines, current)
	}
	return lines
}
