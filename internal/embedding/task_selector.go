package embedding

import "ontoplan/internal/logging"

// =============================================================================
// ROLE DETECTION
// =============================================================================

// DetectRole guesses which Role a piece of text plays from its shape, for
// callers that embed arbitrary text without already knowing which cache
// (category or description) it's headed for. Category labels in this
// ontology are always short, single- or few-word taxonomy terms ("mug",
// "office chair"); anything longer is treated as a free-text description.
func DetectRole(text string) Role {
	words := 1
	for _, r := range text {
		if r == ' ' {
			words++
		}
	}
	if words <= 3 && len(text) < 40 {
		logging.EmbeddingDebug("DetectRole: %q looks like a category label (%d words)", text, words)
		return RoleCategoryLabel
	}
	logging.EmbeddingDebug("DetectRole: %q looks like a description (%d words)", text, words)
	return RoleDescription
}
