package reply

import (
	"context"

	"rolloff-voice-gateway/internal/models"
)

var cannedReplies = map[models.Intent]string{
	models.IntentPricingInquiry:  "Great question! Our 10-yard dumpsters start at around $350, and we offer competitive rates for all sizes. What type of project are you working on?",
	models.IntentServiceArea:     "Absolutely! We serve most of the local area and can usually deliver within 24 hours. What's your zip code so I can check coverage?",
	models.IntentPlaceOrder:      "Perfect! I'd love to help you get set up. What size dumpster do you think you'll need for your project?",
	models.IntentSizeInquiry:     "We've got 10, 15, and 20 yard dumpsters available. For most home projects the 15 yard is a great fit - what are you working on?",
	models.IntentDeliveryTiming:  "We can usually get a dumpster out to you within 24 hours. When would you like it delivered?",
	models.IntentGreeting:        "Hi there! Thanks for calling E-Z Rolloff. How can I help you today?",
	models.IntentGoodbye:         "Thanks so much for calling E-Z Rolloff. Have a great day!",
	models.IntentGeneralQuestion: "Happy to help! We rent rolloff dumpsters with a standard 14-day rental period. What would you like to know?",
}

// MockGenerator implements Generator with per-intent canned replies, for
// running without a chat backend and for tests.
type MockGenerator struct{}

func NewMock() *MockGenerator {
	return &MockGenerator{}
}

func (m *MockGenerator) Reply(ctx context.Context, intent models.Intent, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if r, ok := cannedReplies[intent]; ok {
		return r, nil
	}
	return Fallback, nil
}
