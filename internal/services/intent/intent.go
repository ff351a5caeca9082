// File: internal/services/intent/intent.go

// Package intent classifies raw user messages into a fixed set of intents
// plus an optional product category. Classification never fails past its
// boundary: every error path degrades to the general_chat default.
package intent

// Intent is the classified purpose of a user message.
type Intent string

const (
	IntentProductRecommendation Intent = "product_recommendation"
	IntentHairCareAdvice        Intent = "hair_care_advice"
	IntentDiagnosis             Intent = "diagnosis"
	IntentRoutineHelp           Intent = "routine_help"
	IntentPhotoAnalysis         Intent = "photo_analysis"
	IntentIngredientQuestion    Intent = "ingredient_question"
	IntentGeneralChat           Intent = "general_chat"
	IntentFollowup              Intent = "followup"
)

// Category is a logical product category attached to a classification.
type Category string

const (
	CategoryShampoo     Category = "shampoo"
	CategoryConditioner Category = "conditioner"
	CategoryMask        Category = "mask"
	CategoryOil         Category = "oil"
	CategoryLeaveIn     Category = "leave_in"
	CategoryRoutine     Category = "routine"
)

var validIntents = map[Intent]bool{
	IntentProductRecommendation: true,
	IntentHairCareAdvice:        true,
	IntentDiagnosis:             true,
	IntentRoutineHelp:           true,
	IntentPhotoAnalysis:         true,
	IntentIngredientQuestion:    true,
	IntentGeneralChat:           true,
	IntentFollowup:              true,
}

var validCategories = map[Category]bool{
	CategoryShampoo:     true,
	CategoryConditioner: true,
	CategoryMask:        true,
	CategoryOil:         true,
	CategoryLeaveIn:     true,
	CategoryRoutine:     true,
}

// Result is a transient classification value; it is not persisted.
type Result struct {
	Intent Intent
	// Category is nil unless the message targets a specific product type.
	Category *Category
}

// DefaultResult is the conservative fallback used on any classification
// failure.
func DefaultResult() Result {
	return Result{Intent: IntentGeneralChat, Category: nil}
}

// ParseIntent validates a raw intent string against the closed set,
// defaulting to general_chat.
func ParseIntent(raw string) Intent {
	if validIntents[Intent(raw)] {
		return Intent(raw)
	}
	return IntentGeneralChat
}

// ParseCategory validates a raw category string against the closed set,
// defaulting to nil.
func ParseCategory(raw string) *Category {
	c := Category(raw)
	if validCategories[c] {
		return &c
	}
	return nil
}
