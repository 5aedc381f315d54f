// Package mock provides a scripted client implementation for testing code built
// on the llm package.
//
// This package implements the llm.Client interface with pre-configured answers,
// errors and behaviors, so classifiers, normalizers and suggesters can be tested
// without any network access.
//
// Features:
// - Scripted answers and errors, consumed in order
// - Dynamic handlers computing an answer from the request
// - Latency simulation honoring context cancellation
// - Call logging and assertions
package mock
