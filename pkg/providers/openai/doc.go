// Package openai provides a client for OpenAI-compatible chat completion backends.
//
// This package implements the llm.Client interface on top of go-openai for any
// backend exposing POST /chat/completions with the OpenAI request and response
// shapes (OpenAI itself, Open WebUI, vLLM, LiteLLM, OpenRouter, DeepSeek...).
//
// Features:
// - Single-shot, non-streaming chat completions
// - Unauthenticated requests when no API key is configured
// - Opaque file references and backend-specific body fields (e.g. "ragTemplate")
// - Model listing
// - Errors classified into the llm.Error taxonomy
package openai
