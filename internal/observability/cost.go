package observability

import (
	"strconv"

	"github.com/pitchwheel/pitch-api/internal/llm"
)

// Pricing constants (USD per 1K tokens)
const (
	tokensPerKilo       = 1000.0
	costFormatPrecision = 6

	gpt4oInputPrice  = 0.005
	gpt4oOutputPrice = 0.015

	gpt4oMiniInputPrice  = 0.00015
	gpt4oMiniOutputPrice = 0.0006

	gemini25FlashInputPrice  = 0.0003
	gemini25FlashOutputPrice = 0.0025

	gemini25ProInputPrice  = 0.00125
	gemini25ProOutputPrice = 0.01
)

// ModelPricing contains pricing information per 1K tokens
type ModelPricing struct {
	InputPricePer1K  float64
	OutputPricePer1K float64
}

// PricingTable contains pricing for the models this service allows
var PricingTable = map[string]ModelPricing{
	"gpt-4o": {
		InputPricePer1K:  gpt4oInputPrice,
		OutputPricePer1K: gpt4oOutputPrice,
	},
	"gpt-4o-mini": {
		InputPricePer1K:  gpt4oMiniInputPrice,
		OutputPricePer1K: gpt4oMiniOutputPrice,
	},
	"gemini-2.5-flash": {
		InputPricePer1K:  gemini25FlashInputPrice,
		OutputPricePer1K: gemini25FlashOutputPrice,
	},
	"gemini-2.5-pro": {
		InputPricePer1K:  gemini25ProInputPrice,
		OutputPricePer1K: gemini25ProOutputPrice,
	},
}

// CalculateCost estimates the USD cost of a generation call
func CalculateCost(model string, usage llm.TokenUsage) float64 {
	pricing, exists := PricingTable[model]
	if !exists {
		// Default to gpt-4o-mini pricing if model not found
		pricing = PricingTable["gpt-4o-mini"]
	}

	inputCost := (float64(usage.InputTokens) / tokensPerKilo) * pricing.InputPricePer1K
	outputCost := (float64(usage.OutputTokens) / tokensPerKilo) * pricing.OutputPricePer1K
	return inputCost + outputCost
}

// FormatCost formats a cost value as a USD string
func FormatCost(cost float64) string {
	return "$" + strconv.FormatFloat(cost, 'f', costFormatPrecision, 64)
}
