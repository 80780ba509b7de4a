// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - ThreadStore: Conversation thread storage
//   - ChunkStore: Knowledge-base chunk storage
//   - ConfigStore: Application configuration
//   - Responder: Produces assistant answers for chat messages
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - FixtureLoader: Reads seed threads and chunks from files
//   - FileWatcher: Reports fixture changes so open threads can be reloaded
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
