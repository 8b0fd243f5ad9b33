package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBlockType(t *testing.T) {
	assert.Equal(t, BlockTypeTable, ParseBlockType("table"))
	assert.Equal(t, BlockTypeTable, ParseBlockType("TABLE"))
	assert.Equal(t, BlockTypeListItem, ParseBlockType(" list_item "))
	assert.Equal(t, BlockTypeUnknown, ParseBlockType("sidebar"))
	assert.Equal(t, BlockTypeUnknown, ParseBlockType(""))
}

func TestBlockType_Label(t *testing.T) {
	assert.Equal(t, "Table", BlockTypeTable.Label())
	assert.Equal(t, "Section header", BlockTypeSectionHeader.Label())
	assert.Equal(t, "", BlockType("").Label())
}

func TestBlockType_UnmarshalJSON(t *testing.T) {
	var block LayoutBlock
	err := json.Unmarshal([]byte(`{"id": 3, "block_type": "PICTURE"}`), &block)
	require.NoError(t, err)
	assert.Equal(t, BlockTypePicture, block.Type)

	err = json.Unmarshal([]byte(`{"id": 4, "block_type": "marginalia"}`), &block)
	require.NoError(t, err)
	assert.Equal(t, BlockTypeUnknown, block.Type)
}

func TestBoundingBox_WithinPage(t *testing.T) {
	assert.True(t, BoundingBox{X: 0.1, Y: 0.1, Width: 0.5, Height: 0.5}.WithinPage())
	assert.True(t, BoundingBox{X: 0, Y: 0, Width: 1, Height: 1}.WithinPage())
	assert.False(t, BoundingBox{X: 0.8, Y: 0.1, Width: 0.5, Height: 0.1}.WithinPage())
	assert.False(t, BoundingBox{X: -0.1, Y: 0.1, Width: 0.5, Height: 0.1}.WithinPage())
}

func TestPageIndex(t *testing.T) {
	assert.Equal(t, 0, PageIndex(-2))
	assert.Equal(t, 0, PageIndex(0))
	assert.Equal(t, 0, PageIndex(1))
	assert.Equal(t, 49, PageIndex(50))
}

func TestDocumentLayout_ToZeroBasedPages(t *testing.T) {
	layout := DocumentLayout{
		Blocks: []LayoutBlock{
			{ID: 1, PageNumber: 1},
			{ID: 2, PageNumber: 4, Children: []LayoutBlock{{ID: 3, PageNumber: 4}}},
			{ID: 4, PageNumber: 0},
		},
	}

	layout.ToZeroBasedPages()

	assert.Equal(t, 0, layout.Blocks[0].PageNumber)
	assert.Equal(t, 3, layout.Blocks[1].PageNumber)
	assert.Equal(t, 3, layout.Blocks[1].Children[0].PageNumber)
	assert.Equal(t, 0, layout.Blocks[2].PageNumber)
}

func TestDocumentLayout_Block(t *testing.T) {
	layout := &DocumentLayout{
		Blocks: []LayoutBlock{
			{ID: 1, Type: BlockTypeText},
			{ID: 2, Type: BlockTypeTable, Children: []LayoutBlock{{ID: 7, Type: BlockTypeCaption}}},
		},
	}

	b, ok := layout.Block(7)
	require.True(t, ok)
	assert.Equal(t, BlockTypeCaption, b.Type)

	_, ok = layout.Block(99)
	assert.False(t, ok)

	var nilLayout *DocumentLayout
	_, ok = nilLayout.Block(1)
	assert.False(t, ok)
}
