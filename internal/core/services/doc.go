// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go with no CGO. Third-party imports are limited to
// small libraries that operate on in-memory values (uuid, goldmark,
// x/image, x/time).
package services
