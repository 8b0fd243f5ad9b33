// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - BackendGateway: layout extraction, region extraction and question answering
//   - SurfaceRegistry: the live set of rendered page surfaces (read only)
//   - Notifier: transient user-facing notifications
//   - ConfigStore: persisted preferences
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Clipboard: without it the copy action fails with a clipboard error
//   - ArtifactStore: without it image actions report that nothing was saved
//   - TranscriptArchive: without it auto-save is a no-op
//   - PageRenderer: without it region extraction only sees externally mounted surfaces
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
