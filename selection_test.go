package yat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelectionSetStartActivatesAndMarksCurrent(t *testing.T) {
	sel := NewSelection()
	require.False(t, sel.Active())

	sel.SetStart(Point{X: 2, Y: 1})
	require.True(t, sel.Active())
	start, end, active := sel.Range()
	require.True(t, active)
	require.Equal(t, Point{X: 2, Y: 1}, start)
	require.Equal(t, Point{X: 2, Y: 1}, end)
}

func TestSelectionRangeNormalizesReversedDrag(t *testing.T) {
	sel := NewSelection()
	sel.SetStart(Point{X: 8, Y: 3})
	sel.SetEnd(Point{X: 1, Y: 1})

	start, end, active := sel.Range()
	require.True(t, active)
	require.Equal(t, Point{X: 1, Y: 1}, start, "normalized range starts at the earlier point")
	require.Equal(t, Point{X: 8, Y: 3}, end)
}

func TestSelectionClearDeactivates(t *testing.T) {
	sel := NewSelection()
	sel.SetStart(Point{X: 0, Y: 0})
	sel.Clear()

	require.False(t, sel.Active())
	_, _, active := sel.Range()
	require.False(t, active)
}

func TestSelectionOnChangedFiresForStartEndAndClear(t *testing.T) {
	sel := NewSelection()
	var calls int
	unsubscribe := sel.OnChanged(func() { calls++ })
	defer unsubscribe()

	sel.SetStart(Point{X: 0, Y: 0})
	sel.SetEnd(Point{X: 1, Y: 0})
	sel.Clear()
	require.Equal(t, 3, calls)
}

func TestIsWordSeparatorMatchesWhitespaceAndPunctuation(t *testing.T) {
	require.True(t, IsWordSeparator(' '))
	require.True(t, IsWordSeparator('.'))
	require.False(t, IsWordSeparator('a'))
	require.False(t, IsWordSeparator('9'))
}

func TestScreenDataDoubleClickSelectsWordOnScreen(t *testing.T) {
	sd := NewScreenData(20, 5, 100, &SegmentPool{})
	sd.Replace(Point{X: 0, Y: 0}, []rune("hello, world"), DefaultTextStyle(), true)

	r := sd.GetDoubleClickSelectionRange(1, 0)
	require.Equal(t, 0, r.Start.X)
	require.Equal(t, 4, r.End.X, "word boundary stops before the comma")
}

func TestScreenDataDoubleClickOnSeparatorSelectsJustThatCharacter(t *testing.T) {
	sd := NewScreenData(20, 5, 100, &SegmentPool{})
	sd.Replace(Point{X: 0, Y: 0}, []rune("hello, world"), DefaultTextStyle(), true)

	r := sd.GetDoubleClickSelectionRange(5, 0)
	require.Equal(t, 5, r.Start.X)
	require.Equal(t, 5, r.End.X)
}

func TestScrollbackDoubleClickSelectsWordInHistory(t *testing.T) {
	sb := NewScrollback(100, &SegmentPool{})
	sb.SetWidth(24, 10)
	b := NewBlock(24)
	b.ReplaceAt(0, []rune("foo bar"), DefaultTextStyle(), true)
	sb.AddBlock(b)

	r := sb.GetDoubleClickSelectionRange(5, 0)
	require.Equal(t, 4, r.Start.X)
	require.Equal(t, 6, r.End.X)
}
