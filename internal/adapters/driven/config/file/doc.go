// Package file persists preferences to a TOML file in the paperlens
// config directory (~/.paperlens by default).
package file
