// Package stream implements a push-based source/sink protocol and its operator algebra.
//
// A Source is a restartable capability: every invocation with a Sink starts an
// independent subscription that delivers one Start signal carrying a cancellation
// Handle, zero or more Data signals, and exactly one End signal.
//
// Sources built with Create enforce the protocol:
//   - Start is always delivered first
//   - End is delivered exactly once, nothing follows it
//   - Cancel is idempotent and ends the subscription with ErrCanceled
//   - emissions raised while a previous one is still being handled are queued, never reentrant
//
// Sources are not safe for concurrent use. Producers running on other goroutines
// hand their values to a single driver loop which performs every emission.
package stream
