package intent

import (
	"context"
	"strings"

	"rolloff-voice-gateway/internal/models"
)

// keywordRules maps spotted keywords to intents, checked in order.
var keywordRules = []struct {
	keywords []string
	intent   models.Intent
}{
	{[]string{"goodbye", "bye", "that's all", "hang up"}, models.IntentGoodbye},
	{[]string{"price", "cost", "how much", "rate"}, models.IntentPricingInquiry},
	{[]string{"deliver to", "service area", "zip code", "coverage", "my area"}, models.IntentServiceArea},
	{[]string{"order", "book", "schedule", "set up", "i need a dumpster"}, models.IntentPlaceOrder},
	{[]string{"size", "yard", "big", "capacity"}, models.IntentSizeInquiry},
	{[]string{"when", "tomorrow", "delivery time", "how soon"}, models.IntentDeliveryTiming},
	{[]string{"hello", "hi ", "hey"}, models.IntentGreeting},
}

// MockClassifier implements Classifier with keyword matching, for running
// without a chat backend and for tests.
type MockClassifier struct{}

func NewMock() *MockClassifier {
	return &MockClassifier{}
}

func (m *MockClassifier) Classify(ctx context.Context, text string) (models.IntentResult, error) {
	if err := ctx.Err(); err != nil {
		return models.FallbackIntentResult(), err
	}

	lower := strings.ToLower(text)
	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return models.IntentResult{
					Intent:         rule.intent,
					Confidence:     0.9,
					ResponseNeeded: true,
				}, nil
			}
		}
	}
	return models.IntentResult{
		Intent:         models.IntentGeneralQuestion,
		Confidence:     0.5,
		ResponseNeeded: true,
	}, nil
}
