// Package intent turns a free-text model answer to a yes/no question into a
// trusted boolean decision.
//
// The model is asked to answer with an affirmative or negative token plus a
// self-reported confidence. Only an affirmative answer at or above the
// confidence threshold yields true; negative, low-confidence, malformed answers
// and gateway failures all yield false.
package intent
