// Package clipboard writes to the system clipboard through atotto/clipboard.
package clipboard

import (
	"errors"

	"github.com/atotto/clipboard"

	"github.com/custodia-labs/paperlens/internal/core/ports/driven"
)

// ErrUnsupported is returned when no clipboard utility is available.
var ErrUnsupported = errors.New("no clipboard utility found (install xclip, xsel or wl-clipboard)")

var _ driven.Clipboard = (*System)(nil)

// System is the OS clipboard.
type System struct {
	write       func(string) error
	unsupported func() bool
}

// New returns the OS clipboard.
func New() *System {
	return &System{
		write:       clipboard.WriteAll,
		unsupported: func() bool { return clipboard.Unsupported },
	}
}

// WriteText replaces the clipboard contents with text.
func (s *System) WriteText(text string) error {
	if s.unsupported() {
		return ErrUnsupported
	}
	return s.write(text)
}
