// Package domain defines the core business entities for chatdesk.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Thread: A conversation with an ordered list of messages
//   - Message: One user or assistant turn, optionally carrying ranked sources
//   - Source: A typed, ranked reference attached to an assistant answer
//   - Occurrence: One flattened search hit inside a message segment
//   - Chunk: A knowledge-base entry managed from the console
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
