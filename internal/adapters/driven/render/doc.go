// Package render holds the page surfaces that region extraction reads from.
//
// A Registry tracks mounted pages in document order, each carrying the data
// attributes and class names the region locators match on. Page rasters are
// wrapped in ImageCanvas values; the mupdf subpackage paints them.
package render
