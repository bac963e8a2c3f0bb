package yat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScrollbackAddBlockAccumulatesHeight(t *testing.T) {
	sb := NewScrollback(100, &SegmentPool{})
	sb.SetWidth(24, 10)
	b := NewBlock(10)
	b.ReplaceAt(0, []rune("hello"), DefaultTextStyle(), true)
	sb.AddBlock(b)
	require.Equal(t, 1, sb.BlockCount())
	require.Equal(t, 1, sb.Height())
}

func TestScrollbackEvictsOldestWhenOverBudget(t *testing.T) {
	sb := NewScrollback(3, &SegmentPool{})
	sb.SetWidth(24, 10)
	for i := 0; i < 5; i++ {
		b := NewBlock(10)
		b.ReplaceAt(0, []rune{rune('a' + i)}, DefaultTextStyle(), true)
		sb.AddBlock(b)
	}
	require.LessOrEqual(t, sb.Height(), 3)
	require.Greater(t, sb.BlockCount(), 0)
}

func TestScrollbackZeroBudgetDiscardsEverything(t *testing.T) {
	sb := NewScrollback(0, &SegmentPool{})
	sb.AddBlock(NewBlock(10))
	require.Equal(t, 0, sb.BlockCount())
	require.Equal(t, 0, sb.Height())
}

func TestScrollbackReclaimBlockReturnsMostRecent(t *testing.T) {
	sb := NewScrollback(100, &SegmentPool{})
	sb.SetWidth(24, 10)
	first := NewBlock(10)
	first.ReplaceAt(0, []rune("first"), DefaultTextStyle(), true)
	second := NewBlock(10)
	second.ReplaceAt(0, []rune("second"), DefaultTextStyle(), true)
	sb.AddBlock(first)
	sb.AddBlock(second)

	reclaimed := sb.ReclaimBlock()
	require.Equal(t, "second", reclaimed.Text())
	require.Equal(t, 1, sb.BlockCount())
}

func TestScrollbackSelectionConcatenatesAcrossBlocks(t *testing.T) {
	sb := NewScrollback(100, &SegmentPool{})
	sb.SetWidth(24, 10)
	b1 := NewBlock(10)
	b1.ReplaceAt(0, []rune("line one"), DefaultTextStyle(), true)
	b2 := NewBlock(10)
	b2.ReplaceAt(0, []rune("line two"), DefaultTextStyle(), true)
	sb.AddBlock(b1)
	sb.AddBlock(b2)

	text := sb.Selection(Point{X: 0, Y: 0}, Point{X: 8, Y: 1})
	require.Equal(t, "line one\nline two", text)
}
