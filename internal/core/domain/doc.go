// Package domain defines the core entities for paperlens.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: the loaded PDF payload and its file metadata
//   - LayoutBlock / DocumentLayout: backend-detected page structure
//   - ChatMessage / MarkupInfo: transcript entries and block-scoped context
//   - Action: the closed set of per-block actions
//   - AppSettings: persisted user preferences
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
