package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/paperlens/internal/core/domain"
)

func sampleLayout() *domain.DocumentLayout {
	return &domain.DocumentLayout{
		PageCount: 2,
		Blocks: []domain.LayoutBlock{
			testBlock(1, domain.BlockTypeText, 0),
			testBlock(2, domain.BlockTypeTable, 0),
			testBlock(3, domain.BlockTypePicture, 0),
			testBlock(4, domain.BlockTypeSectionHeader, 1),
			testBlock(5, domain.BlockTypeChart, 1),
			testBlock(6, domain.BlockTypeFormula, 1),
		},
	}
}

func TestOverlayEngine_BlocksForPage(t *testing.T) {
	e := NewOverlayEngine()
	e.SetLayout(sampleLayout())

	page0 := e.BlocksForPage(0)
	require.Len(t, page0, 2)
	assert.Equal(t, 2, page0[0].ID)
	assert.Equal(t, 3, page0[1].ID)

	page1 := e.BlocksForPage(1)
	require.Len(t, page1, 2)
	assert.Equal(t, 5, page1[0].ID)
	assert.Equal(t, 6, page1[1].ID)

	assert.Empty(t, e.BlocksForPage(7))
	assert.Equal(t, 2, e.PageCount())
}

func TestOverlayEngine_CustomAllowList(t *testing.T) {
	e := NewOverlayEngine(domain.BlockTypeText)
	e.SetLayout(sampleLayout())

	blocks := e.BlocksForPage(0)
	require.Len(t, blocks, 1)
	assert.Equal(t, 1, blocks[0].ID)
	assert.False(t, e.Allowed(domain.BlockTypeTable))
}

func TestOverlayEngine_NoLayout(t *testing.T) {
	e := NewOverlayEngine()

	assert.Empty(t, e.BlocksForPage(0))
	assert.Nil(t, e.Layout())
	assert.Equal(t, 0, e.PageCount())
	_, ok := e.Block(1)
	assert.False(t, ok)
}

func TestOverlayEngine_ReplaceAndClear(t *testing.T) {
	e := NewOverlayEngine()
	e.SetLayout(sampleLayout())

	e.SetLayout(&domain.DocumentLayout{Blocks: []domain.LayoutBlock{testBlock(9, domain.BlockTypeTable, 0)}})
	blocks := e.BlocksForPage(0)
	require.Len(t, blocks, 1)
	assert.Equal(t, 9, blocks[0].ID)

	e.Clear()
	assert.Empty(t, e.BlocksForPage(0))
}

func TestOverlayEngine_BlockFindsIneligibleBlocks(t *testing.T) {
	e := NewOverlayEngine()
	e.SetLayout(sampleLayout())

	b, ok := e.Block(4)

	require.True(t, ok)
	assert.Equal(t, domain.BlockTypeSectionHeader, b.Type)
}

func TestRenderPage(t *testing.T) {
	e := NewOverlayEngine()
	e.SetLayout(sampleLayout())

	labels := RenderPage(e, 1, func(b domain.LayoutBlock) (string, bool) {
		if b.Type == domain.BlockTypeFormula {
			return "", false
		}
		return fmt.Sprintf("%s#%d", b.Type, b.ID), true
	})

	assert.Equal(t, []string{"chart#5"}, labels)
}
