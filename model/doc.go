// Package model defines the provider-agnostic generation interface the agent
// loop talks to, plus a scripted MockModel for tests and examples.
//
// A Model streams responses over a channel and reports failure on a second
// channel. Most callers do not need the stream and use Collect or
// GenerateText to reduce it to a single reply.
//
// Providers live in subpackages (anthropic, openai) so the core never
// imports a vendor SDK.
package model
