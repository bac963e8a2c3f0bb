package yat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewBlockHasOneEmptyLine(t *testing.T) {
	b := NewBlock(10)
	require.Equal(t, 1, b.LineCount())
	require.Equal(t, 0, b.Len())
}

func TestBlockLineCountWrapsAtWidth(t *testing.T) {
	b := NewBlock(4)
	b.ReplaceAt(0, []rune("abcdefgh"), DefaultTextStyle(), true)
	require.Equal(t, 8, b.Len())
	require.Equal(t, 2, b.LineCount())
}

func TestBlockLineCountAfterModifiedIsPure(t *testing.T) {
	b := NewBlock(4)
	before := b.LineCount()
	predicted := b.LineCountAfterModified(0, 8, true)
	require.Equal(t, before, b.LineCount(), "prediction must not mutate the block")
	require.Equal(t, 2, predicted)
}

func TestBlockInsertAtShiftsTail(t *testing.T) {
	b := NewBlock(20)
	b.ReplaceAt(0, []rune("helloworld"), DefaultTextStyle(), true)
	b.InsertAt(5, []rune(" "), DefaultTextStyle(), true)
	require.Equal(t, "hello world", b.Text())
}

func TestBlockDeleteCharactersShiftsAndShortens(t *testing.T) {
	b := NewBlock(20)
	b.ReplaceAt(0, []rune("hello world"), DefaultTextStyle(), true)
	b.DeleteCharacters(5, 6)
	require.Equal(t, "helloworld", b.Text())
}

func TestBlockClearToEndRevertsToDefaultStyle(t *testing.T) {
	b := NewBlock(20)
	bold := TextStyle{Attrs: AttrBold}
	b.ReplaceAt(0, []rune("hello"), bold, true)
	b.ClearToEnd(2)
	require.Equal(t, DefaultTextStyle(), b.StyleAt(3))
}

func TestBlockSplitDividesAtRow(t *testing.T) {
	b := NewBlock(4)
	b.ReplaceAt(0, []rune("abcdefgh"), DefaultTextStyle(), true)
	tail := b.Split(1)
	require.Equal(t, "abcd", b.Text())
	require.Equal(t, "efgh", tail.Text())
}

func TestBlockTakeLineRemovesFirstRow(t *testing.T) {
	b := NewBlock(4)
	b.ReplaceAt(0, []rune("abcdefgh"), DefaultTextStyle(), true)
	first := b.TakeLine(0)
	require.Equal(t, "abcd", first.Text())
	require.Equal(t, "efgh", b.Text())
}

func TestBlockSetWidthReflows(t *testing.T) {
	b := NewBlock(4)
	b.ReplaceAt(0, []rune("abcdefgh"), DefaultTextStyle(), true)
	require.Equal(t, 2, b.LineCount())
	b.SetWidth(8)
	require.Equal(t, 1, b.LineCount())
}
