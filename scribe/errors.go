// CLAUDE:SUMMARY Sentinel errors for the scribe service: invalid input, upstream collaborator failure.
package scribe

import "errors"

// ErrInvalidInput is returned when a request fails validation before any
// work is done (empty URL, missing video id, bad limit).
var ErrInvalidInput = errors.New("scribe: invalid input")

// ErrUpstream wraps failures of the external collaborators (caption
// resolver, embedding server, summarization model). The cause is attached
// with %w; callers can retry, the service itself never does.
var ErrUpstream = errors.New("scribe: upstream service failed")
