package domain

import (
	"encoding/json"
	"strings"
)

// BlockType classifies a detected layout block.
type BlockType string

// Block types reported by the layout backend.
const (
	BlockTypeUnknown       BlockType = "unknown"
	BlockTypeCaption       BlockType = "caption"
	BlockTypeFootnote      BlockType = "footnote"
	BlockTypeFormula       BlockType = "formula"
	BlockTypeListItem      BlockType = "list_item"
	BlockTypePageFooter    BlockType = "page_footer"
	BlockTypePageHeader    BlockType = "page_header"
	BlockTypePicture       BlockType = "picture"
	BlockTypeSectionHeader BlockType = "section_header"
	BlockTypeTable         BlockType = "table"
	BlockTypeText          BlockType = "text"
	BlockTypeChart         BlockType = "chart"
)

// ParseBlockType maps a backend tag to a BlockType, case-insensitively.
// Unrecognised tags become BlockTypeUnknown.
func ParseBlockType(s string) BlockType {
	t := BlockType(strings.ToLower(strings.TrimSpace(s)))
	if t.IsValid() {
		return t
	}
	return BlockTypeUnknown
}

// IsValid returns true if the block type is recognised.
func (t BlockType) IsValid() bool {
	switch t {
	case BlockTypeUnknown, BlockTypeCaption, BlockTypeFootnote, BlockTypeFormula,
		BlockTypeListItem, BlockTypePageFooter, BlockTypePageHeader, BlockTypePicture,
		BlockTypeSectionHeader, BlockTypeTable, BlockTypeText, BlockTypeChart:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t BlockType) String() string {
	return string(t)
}

// Label returns a display label, e.g. "Table" or "List item".
func (t BlockType) Label() string {
	s := strings.ReplaceAll(string(t), "_", " ")
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// UnmarshalJSON normalises unknown or differently cased tags.
func (t *BlockType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = ParseBlockType(s)
	return nil
}

// OverlayBlockTypes is the default allow-list of interactively surfaced block types.
var OverlayBlockTypes = []BlockType{
	BlockTypeTable,
	BlockTypePicture,
	BlockTypeChart,
	BlockTypeFormula,
}

// BlockSpecification sub-classifies a block.
type BlockSpecification string

// Block specifications reported by the layout backend.
const (
	SpecUnknown    BlockSpecification = "unknown"
	SpecHeader     BlockSpecification = "header"
	SpecFooter     BlockSpecification = "footer"
	SpecAnnotation BlockSpecification = "annotation"
	SpecCaption    BlockSpecification = "caption"
	SpecPageNumber BlockSpecification = "page_number"
)

// BoundingBox is a rectangle in page fractions: each value is relative to the
// page's rendered width or height.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// WithinPage reports whether the box lies inside [0,1] on both axes.
// Boxes outside the page are tolerated; extraction clamps them.
func (b BoundingBox) WithinPage() bool {
	return b.X >= 0 && b.Y >= 0 && b.Width >= 0 && b.Height >= 0 &&
		b.X+b.Width <= 1 && b.Y+b.Height <= 1
}

// LayoutBlock is one detected region of a page.
// PageNumber is zero-based inside the application.
type LayoutBlock struct {
	ID            int                `json:"id"`
	Type          BlockType          `json:"block_type"`
	Specification BlockSpecification `json:"block_specification"`
	TextContent   string             `json:"text_content"`
	ByteContent   json.RawMessage    `json:"byte_content,omitempty"`
	Annotation    string             `json:"annotation,omitempty"`
	BoundingBox   BoundingBox        `json:"bounding_box"`
	PageNumber    int                `json:"page_number"`
	Confidence    float64            `json:"confidence"`
	Metadata      map[string]any     `json:"metadata,omitempty"`
	Children      []LayoutBlock      `json:"children,omitempty"`
}

// DocumentLayout is the backend's structural analysis of a document.
// It is replaced wholesale on re-extraction and never patched.
type DocumentLayout struct {
	Blocks    []LayoutBlock  `json:"blocks"`
	PageCount int            `json:"page_count"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Block finds a block by id, searching children depth-first.
func (l *DocumentLayout) Block(id int) (LayoutBlock, bool) {
	if l == nil {
		return LayoutBlock{}, false
	}
	return findBlock(l.Blocks, id)
}

func findBlock(blocks []LayoutBlock, id int) (LayoutBlock, bool) {
	for i := range blocks {
		if blocks[i].ID == id {
			return blocks[i], true
		}
		if b, ok := findBlock(blocks[i].Children, id); ok {
			return b, true
		}
	}
	return LayoutBlock{}, false
}

// ToZeroBasedPages converts backend page numbers (1-based) to page indexes
// in place, recursing into children. Non-positive numbers map to page 0.
func (l *DocumentLayout) ToZeroBasedPages() {
	toZeroBased(l.Blocks)
}

func toZeroBased(blocks []LayoutBlock) {
	for i := range blocks {
		blocks[i].PageNumber = PageIndex(blocks[i].PageNumber)
		toZeroBased(blocks[i].Children)
	}
}

// PageIndex converts a 1-based page number to a zero-based index.
func PageIndex(pageNumber int) int {
	if pageNumber <= 0 {
		return 0
	}
	return pageNumber - 1
}

// LayoutResult is the outcome of a layout extraction call.
type LayoutResult struct {
	Layout         DocumentLayout `json:"layout"`
	DocumentID     string         `json:"document_id"`
	ProcessingTime float64        `json:"processing_time,omitempty"`
}
