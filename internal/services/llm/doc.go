// Package llm is the summarisation gateway: a chat completion client that
// turns extracted text into structured study notes.
//
// # Prompts
//
// Every request carries one user message built from a prompt template chosen
// by content type (youtube, pdf, audio, general) followed by a blank line and
// the text. Unknown content types use the general template.
//
// # Chunking
//
// Text longer than the configured word budget is split into ordered word
// chunks. Each chunk is summarised on its own and the summaries are joined in
// order with a single space.
//
// # Retry Behaviour
//
// The client retries on HTTP 408/429/5xx errors, network timeouts, and empty
// completions with exponential backoff (base 1s, max 10s, up to 5 attempts by
// default). Retry-After is honoured. Context cancellation aborts retries
// immediately.
//
// # Errors
//
// Every failure returned by Summarise and HealthCheck is tagged with
// services.ErrUpstream.
package llm
