package domain

import (
	"encoding/base64"
	"strings"
)

const pngDataURLPrefix = "data:image/png;base64,"

// RegionImage is a PNG crop of one block's area on a rendered page.
type RegionImage struct {
	PNG    []byte
	Width  int
	Height int
	// Clamped is set when the block's box extended past the canvas.
	Clamped bool
	// Degraded is set when the block region could not be drawn and a centred
	// fallback region was used instead.
	Degraded bool
}

// DataURL encodes the image as a PNG data URL.
func (r *RegionImage) DataURL() string {
	if r == nil || len(r.PNG) == 0 {
		return ""
	}
	return pngDataURLPrefix + base64.StdEncoding.EncodeToString(r.PNG)
}

// DecodeDataURL returns the PNG bytes of a data URL produced by DataURL.
func DecodeDataURL(s string) ([]byte, error) {
	if !strings.HasPrefix(s, pngDataURLPrefix) {
		return nil, &ValidationError{Reason: "not a PNG data URL"}
	}
	return base64.StdEncoding.DecodeString(strings.TrimPrefix(s, pngDataURLPrefix))
}
