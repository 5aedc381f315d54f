// Command heuristics runs the completion heuristics against an
// OpenAI-compatible backend from the command line.
//
// The backend is configured through a YAML file (--config) and the
// LLM_PROVIDER, OPENAI_MODEL, OPENAI_API_KEY, OPENAI_BASE_URL, LLM_TIMEOUT and
// LLM_MAX_RETRIES environment variables.
package main
