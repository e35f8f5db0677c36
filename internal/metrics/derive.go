package metrics

import (
	"math"

	"github.com/Veraticus/mission-control/internal/model"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Derived holds the values computed from a MetricSet.
type Derived struct {
	PercentReached float64 `json:"percent_reached" yaml:"percent_reached"`
	Remaining      float64 `json:"remaining" yaml:"remaining"`
	Lead           float64 `json:"lead" yaml:"lead"`
}

// PercentReached returns score as a percentage of goal, or 0 when goal is 0.
func PercentReached(score, goal float64) float64 {
	if goal == 0 {
		return 0
	}
	return score / goal * 100
}

// Derive computes the tile values for ms.
func Derive(ms model.MetricSet) Derived {
	return Derived{
		PercentReached: PercentReached(ms.Score(), ms.Goal()),
		Remaining:      math.Max(ms.Goal()-ms.Score(), 0),
		Lead:           ms.Score() - ms.Rival(),
	}
}

var printer = message.NewPrinter(language.English)

// FormatPoints renders a point total with thousands separators. Fractions are
// kept to two decimals.
func FormatPoints(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return printer.Sprintf("%d", int64(v))
	}
	return printer.Sprintf("%.2f", v)
}

// FormatPercent renders a percentage with two decimals.
func FormatPercent(v float64) string {
	return printer.Sprintf("%.2f%%", v)
}
