// Package suggest predicts the follow-up questions a user is likely to ask
// after an assistant answer.
package suggest
