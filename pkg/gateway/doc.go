// Package gateway issues single-shot, non-streaming chat completions and reduces
// the backend answer to one text payload or a definitive failure.
//
// The gateway never retries: callers that want a retry budget run their own loop
// around Complete (see package translate).
package gateway
