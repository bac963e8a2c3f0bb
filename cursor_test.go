package yat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewCursorStartsAtOriginVisible(t *testing.T) {
	s := NewScreen(WithSize(80, 24), WithTestMode(true))
	c := s.Cursor()
	require.Equal(t, 0, c.NewX())
	require.Equal(t, 0, c.NewY())
	require.True(t, c.Visible())
}

func TestCursorMoveRightClampsAtWidth(t *testing.T) {
	s := NewScreen(WithSize(10, 5), WithTestMode(true))
	c := s.Cursor()
	c.MoveRight(100)
	require.Equal(t, 9, c.NewX())
	c.MoveRight(1)
	require.Equal(t, 9, c.NewX(), "moving right at the last column is a no-op")
}

func TestCursorMoveLeftClampsAtZero(t *testing.T) {
	s := NewScreen(WithSize(10, 5), WithTestMode(true))
	c := s.Cursor()
	c.MoveLeft(5)
	require.Equal(t, 0, c.NewX())
}

func TestCursorMoveToCharacterUsesOneBasedClamping(t *testing.T) {
	s := NewScreen(WithSize(10, 5), WithTestMode(true))
	c := s.Cursor()
	c.MoveToCharacter(-5)
	require.Equal(t, 1, c.NewX(), "below 0 clamps to 1, not 0")
	c.MoveToCharacter(100)
	require.Equal(t, 10, c.NewX(), "above width clamps to width, not width-1")
}

func TestCursorLineFeedAdvancesUntilBottomMargin(t *testing.T) {
	s := NewScreen(WithSize(10, 3), WithTestMode(true))
	c := s.Cursor()
	c.LineFeed()
	require.Equal(t, 1, c.NewY())
	c.LineFeed()
	require.Equal(t, 2, c.NewY())
}

func TestCursorLineFeedAtBottomScrollsInsteadOfOverflowing(t *testing.T) {
	s := NewScreen(WithSize(10, 3), WithTestMode(true))
	c := s.Cursor()
	c.LineFeed()
	c.LineFeed()
	require.Equal(t, 2, c.NewY())
	c.LineFeed()
	require.Equal(t, 2, c.NewY(), "line feed at the bottom margin scrolls rather than moving past it")
}

func TestCursorSetTextStyleAttrOffClearsEverything(t *testing.T) {
	s := NewScreen(WithSize(10, 3), WithTestMode(true))
	c := s.Cursor()
	c.SetTextStyleAttr(AttrBold, true)
	c.SetTextStyleAttr(AttrItalic, true)
	require.True(t, c.CurrentTextStyle().Attrs.Has(AttrBold))
	require.True(t, c.CurrentTextStyle().Attrs.Has(AttrItalic))

	c.SetTextStyleAttr(AttrBold, false)
	require.Equal(t, Attr(0), c.CurrentTextStyle().Attrs,
		"turning off one attribute clears the whole attribute set, per the documented logical-NOT behavior")
}

func TestCursorTabStopsDefaultEveryEightColumns(t *testing.T) {
	s := NewScreen(WithSize(40, 5), WithTestMode(true))
	c := s.Cursor()
	c.MoveToNextTab()
	require.Equal(t, 8, c.NewX())
	c.MoveToNextTab()
	require.Equal(t, 16, c.NewX())
}

func TestCursorRemoveTabStopThenNextTabSkipsIt(t *testing.T) {
	s := NewScreen(WithSize(40, 5), WithTestMode(true))
	c := s.Cursor()
	c.MoveToCharacter(8)
	c.RemoveTabStop()
	c.MoveToCharacter(0)
	c.MoveToNextTab()
	require.Equal(t, 16, c.NewX())
}

func TestCursorInsertAtCursorShiftsLineContent(t *testing.T) {
	s := NewScreen(WithSize(20, 5), WithTestMode(true))
	c := s.Cursor()
	c.ReplaceAtCursor([]byte("helloworld"), true)
	c.Move(5, 0)
	c.InsertAtCursor([]byte(" "), true)
	require.Equal(t, "hello world", s.CurrentScreenData().Line(0))
}
