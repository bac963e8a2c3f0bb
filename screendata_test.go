package yat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewScreenDataHasRequestedDimensions(t *testing.T) {
	sd := NewScreenData(80, 24, 100, &SegmentPool{})
	require.Equal(t, 80, sd.Width())
	require.Equal(t, 24, sd.Height())
	require.Equal(t, 24, sd.BlockCount())
}

func TestScreenDataReplaceWritesTextAtPoint(t *testing.T) {
	sd := NewScreenData(80, 24, 100, &SegmentPool{})
	sd.Replace(Point{X: 0, Y: 0}, []rune("hello"), DefaultTextStyle(), true)
	require.Equal(t, "hello", sd.Line(0))
}

func TestScreenDataInsertShiftsRemainderRight(t *testing.T) {
	sd := NewScreenData(10, 5, 100, &SegmentPool{})
	sd.Replace(Point{X: 0, Y: 0}, []rune("abcde"), DefaultTextStyle(), true)
	sd.Insert(Point{X: 0, Y: 0}, []rune("X"), DefaultTextStyle(), true)
	require.Contains(t, sd.Line(0), "Xabcde")
}

func TestScreenDataClearLineBlanksRow(t *testing.T) {
	sd := NewScreenData(10, 5, 100, &SegmentPool{})
	sd.Replace(Point{X: 0, Y: 0}, []rune("abcde"), DefaultTextStyle(), true)
	sd.ClearLine(Point{X: 0, Y: 0})
	require.Equal(t, "", sd.Line(0))
}

func TestScreenDataShrinkWidthPushesOverflowToScrollback(t *testing.T) {
	sd := NewScreenData(80, 5, 100, &SegmentPool{})
	for y := 0; y < 5; y++ {
		sd.Replace(Point{X: 0, Y: y}, []rune("0123456789012345678901234567890123456789"), DefaultTextStyle(), true)
	}
	require.Equal(t, 0, sd.Scrollback().Height())
	sd.SetSize(10, 5, 0)
	require.Greater(t, sd.Scrollback().Height(), 0)
	require.Equal(t, 5, sd.screenHeight)
}

func TestScreenDataGrowHeightReclaimsFromScrollback(t *testing.T) {
	sd := NewScreenData(40, 5, 100, &SegmentPool{})
	for y := 0; y < 5; y++ {
		sd.Replace(Point{X: 0, Y: y}, []rune("0123456789012345678901234567890123456789"), DefaultTextStyle(), true)
	}
	sd.SetSize(10, 5, 4)
	pushed := sd.Scrollback().Height()
	require.Greater(t, pushed, 0)

	sd.SetSize(10, 5+pushed, 4)
	require.Equal(t, 0, sd.Scrollback().Height())
}

// A scroll region's top-margin row is a documented open question (§9):
// insertLine(row, topMargin) with row == topMargin clears that row and
// returns without the usual push/insert bookkeeping, rather than scrolling
// anything. Reproduced as-is, not "fixed".
func TestScreenDataInsertLineAtTopMarginClearsWithoutBookkeeping(t *testing.T) {
	sd := NewScreenData(10, 5, 100, &SegmentPool{})
	sd.Replace(Point{X: 0, Y: 2}, []rune("abcde"), DefaultTextStyle(), true)
	blocksBefore := sd.BlockCount()
	sd.InsertLine(2, 2)
	require.Equal(t, blocksBefore, sd.BlockCount())
	require.Equal(t, "", sd.Line(2))
}

// MoveLine recycles the block at `from` as a fresh blank row spliced in
// at row `to` — it is the scroll-region rotation primitive behind
// Cursor.ScrollUp/ScrollDown, not a content-preserving relocation.
func TestScreenDataMoveLineBlanksTheMovedRow(t *testing.T) {
	sd := NewScreenData(10, 5, 100, &SegmentPool{})
	sd.Replace(Point{X: 0, Y: 0}, []rune("abcde"), DefaultTextStyle(), true)
	blocksBefore := sd.BlockCount()
	sd.MoveLine(0, 3)
	require.Equal(t, blocksBefore, sd.BlockCount())
	for y := 0; y < 5; y++ {
		require.Equal(t, "", sd.Line(y))
	}
}

func TestScreenDataIdempotentSetSize(t *testing.T) {
	sd := NewScreenData(80, 24, 100, &SegmentPool{})
	sd.SetSize(80, 24, 0)
	require.Equal(t, 80, sd.Width())
	require.Equal(t, 24, sd.Height())
}
