package services

import (
	"fmt"
	"strconv"

	"github.com/custodia-labs/paperlens/internal/core/ports/driven"
)

// Locator finds the canvas of a zero-based page among the mounted surfaces.
type Locator func(pageIndex int, surfaces []driven.Surface) (driven.Canvas, bool)

// DefaultLocators is the lookup order used by region extraction.
var DefaultLocators = []Locator{
	LocateByPageNumber,
	LocateByPageIndex,
	LocateByPageClass,
	LocateByPosition,
	LocateByTestID,
}

// LocateByPageNumber matches data-page-number against the 1-based page number.
func LocateByPageNumber(pageIndex int, surfaces []driven.Surface) (driven.Canvas, bool) {
	return firstCanvas(surfaces, func(s driven.Surface) bool {
		return s.Attributes["data-page-number"] == strconv.Itoa(pageIndex+1)
	})
}

// LocateByPageIndex matches data-page-index on page or page-layer surfaces.
func LocateByPageIndex(pageIndex int, surfaces []driven.Surface) (driven.Canvas, bool) {
	want := strconv.Itoa(pageIndex)
	return firstCanvas(surfaces, func(s driven.Surface) bool {
		return (s.HasClass("page") || s.HasClass("page-layer")) && s.Attributes["data-page-index"] == want
	})
}

// LocateByPageClass matches the "page-N" class convention (N is 1-based).
func LocateByPageClass(pageIndex int, surfaces []driven.Surface) (driven.Canvas, bool) {
	class := fmt.Sprintf("page-%d", pageIndex+1)
	return firstCanvas(surfaces, func(s driven.Surface) bool {
		return s.HasClass(class)
	})
}

// LocateByPosition takes the Nth surface that is a page container.
func LocateByPosition(pageIndex int, surfaces []driven.Surface) (driven.Canvas, bool) {
	n := 0
	for _, s := range surfaces {
		if !s.HasClass("page") {
			continue
		}
		if n == pageIndex {
			return s.Canvas, s.Canvas != nil
		}
		n++
	}
	return nil, false
}

// LocateByTestID matches data-testid "page-layer-N" (N is zero-based).
func LocateByTestID(pageIndex int, surfaces []driven.Surface) (driven.Canvas, bool) {
	want := fmt.Sprintf("page-layer-%d", pageIndex)
	return firstCanvas(surfaces, func(s driven.Surface) bool {
		return s.Attributes["data-testid"] == want
	})
}

func firstCanvas(surfaces []driven.Surface, match func(driven.Surface) bool) (driven.Canvas, bool) {
	for _, s := range surfaces {
		if s.Canvas != nil && match(s) {
			return s.Canvas, true
		}
	}
	return nil, false
}
