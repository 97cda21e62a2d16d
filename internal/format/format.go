package format

import (
	"fmt"
	"math"
	"strings"
)

// FormatDuration renders seconds as "1h 02m 05s", or "1m 05s" under an hour.
func FormatDuration(seconds uint64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %02dm %02ds", h, m, s)
	}
	return fmt.Sprintf("%dm %02ds", m, s)
}

// priceTier is the USD price per million tokens for models matching pattern.
type priceTier struct {
	pattern string
	input   float64
	output  float64
}

// Checked in order; the first substring match wins.
var priceTiers = []priceTier{
	{pattern: "claude-opus-4", input: 15.0, output: 75.0},
	{pattern: "claude-sonnet-4", input: 3.0, output: 15.0},
	{pattern: "claude-haiku-4", input: 0.80, output: 4.0},
	{pattern: "claude-3-haiku", input: 0.25, output: 1.25},
}

var defaultTier = priceTier{input: 3.0, output: 15.0}

// EstimateCost returns the cost estimate for a summary call, rounded to cents.
// The output term is scaled by 100.
func EstimateCost(model string, inputTokens, outputTokens uint32) float64 {
	tier := defaultTier
	for _, t := range priceTiers {
		if strings.Contains(model, t.pattern) {
			tier = t
			break
		}
	}

	inputCost := float64(inputTokens) / 1_000_000.0 * tier.input
	outputCost := float64(outputTokens) / 1_000_000.0 * tier.output
	return math.Round((inputCost+outputCost*100.0)*100) / 100
}
