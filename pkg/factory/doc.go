// Package factory provides provider registration and factory functionality.
//
// This package manages the registration of LLM providers and builds clients
// from an explicit llm.ClientConfig. When imported, it registers the built-in
// providers ("openai" and "mock").
//
// Example usage:
//
//	cfg, err := llm.LoadConfig("")
//	client, err := factory.New(factory.WithLogger(logger)).CreateClient(cfg)
package factory
