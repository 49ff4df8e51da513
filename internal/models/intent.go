package models

import "strings"

// Intent is a caller intent label from the fixed catalog.
type Intent string

const (
	IntentPricingInquiry  Intent = "pricing_inquiry"
	IntentServiceArea     Intent = "service_area"
	IntentPlaceOrder      Intent = "place_order"
	IntentSizeInquiry     Intent = "size_inquiry"
	IntentDeliveryTiming  Intent = "delivery_timing"
	IntentGeneralQuestion Intent = "general_question"
	IntentGreeting        Intent = "greeting"
	IntentGoodbye         Intent = "goodbye"
	IntentUnknown         Intent = "unknown"
)

var intentCatalog = map[Intent]struct{}{
	IntentPricingInquiry:  {},
	IntentServiceArea:     {},
	IntentPlaceOrder:      {},
	IntentSizeInquiry:     {},
	IntentDeliveryTiming:  {},
	IntentGeneralQuestion: {},
	IntentGreeting:        {},
	IntentGoodbye:         {},
	IntentUnknown:         {},
}

// Valid reports whether the intent is part of the catalog.
func (i Intent) Valid() bool {
	_, ok := intentCatalog[i]
	return ok
}

// ParseIntent normalizes a backend-provided label into a catalog intent.
// Anything outside the catalog collapses to IntentUnknown.
func ParseIntent(s string) Intent {
	i := Intent(strings.ToLower(strings.TrimSpace(s)))
	if i.Valid() {
		return i
	}
	return IntentUnknown
}

// IntentResult is the classifier output for one piece of recognized text.
type IntentResult struct {
	Intent         Intent  `json:"intent"`
	Confidence     float64 `json:"confidence"`
	ResponseNeeded bool    `json:"response_needed"`
}

// FallbackIntentResult is the fail-open substitute used when classification
// fails: the caller should still get some reply rather than dead air.
func FallbackIntentResult() IntentResult {
	return IntentResult{
		Intent:         IntentUnknown,
		Confidence:     0.0,
		ResponseNeeded: true,
	}
}
