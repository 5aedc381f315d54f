// Package llm provides the provider-agnostic plumbing shared by the heuristics
// built on top of OpenAI-compatible chat completion backends.
//
// The main components include:
//
// - Client and ChatCompleter interfaces: single-shot chat completions
// - Message and request types: plain text, single-turn messages with optional file references
// - Configuration: explicit, environment or YAML driven client configuration
// - Error handling: a classified Error type (transport, upstream, parse, heuristic)
// - Retry: backoff policy and an optional retrying wrapper
// - Middleware: request/response hooks, including structured logging
// - Prompts: text templates for constrained prompts
//
// Provider implementations are located in separate packages under /pkg/providers/
// to maintain clean separation of concerns and avoid import cycles.
package llm
