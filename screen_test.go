package yat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewScreenDefaultsTo80x24(t *testing.T) {
	s := NewScreen(WithTestMode(true))
	require.Equal(t, 80, s.Width())
	require.Equal(t, 24, s.Height())
	require.False(t, s.UsingAlternateScreenBuffer())
}

func TestScreenAlternateBufferIsolatesContent(t *testing.T) {
	s := NewScreen(WithSize(20, 5), WithTestMode(true))
	s.Cursor().ReplaceAtCursor([]byte("primary content"), true)

	s.UseAlternateScreenBuffer()
	require.True(t, s.UsingAlternateScreenBuffer())
	require.NotContains(t, s.CurrentScreenData().Line(0), "primary")

	s.Cursor().ReplaceAtCursor([]byte("alt content"), true)
	require.Contains(t, s.CurrentScreenData().Line(0), "alt content")

	s.UseNormalScreenBuffer()
	require.False(t, s.UsingAlternateScreenBuffer())
	require.Contains(t, s.CurrentScreenData().Line(0), "primary content")
}

func TestScreenAlternateBufferNeverKeepsScrollback(t *testing.T) {
	s := NewScreen(WithSize(10, 2), WithScrollbackLimit(100), WithTestMode(true))
	s.UseAlternateScreenBuffer()
	alt := s.CurrentScreenData()
	for y := 0; y < 10; y++ {
		alt.Replace(Point{X: 0, Y: 0}, []rune("0123456789012345678901234567890123456789"), DefaultTextStyle(), true)
		alt.InsertLine(alt.Height()-1, 0)
	}
	require.Equal(t, 0, alt.Scrollback().Height())
}

func TestScreenSaveRestoreCursorRoundTrips(t *testing.T) {
	s := NewScreen(WithSize(20, 5), WithTestMode(true))
	c := s.Cursor()
	c.Move(3, 2)
	s.SaveCursor()
	c.Move(0, 0)
	require.Equal(t, 0, c.NewX())

	s.RestoreCursor()
	require.Equal(t, 3, s.Cursor().NewX())
	require.Equal(t, 2, s.Cursor().NewY())
}

func TestScreenResizeNotifiesCursorOfWidthChange(t *testing.T) {
	s := NewScreen(WithSize(10, 5), WithTestMode(true))
	c := s.Cursor()
	c.ReplaceAtCursor([]byte("0123456789"), true)
	c.Move(9, 0)

	s.Resize(5, 5)
	require.LessOrEqual(t, c.NewX(), 4)
}

func TestScreenSetTitleEmitsOnlyOnChange(t *testing.T) {
	s := NewScreen(WithTestMode(true))
	var calls int
	s.OnScreenTitleChanged(func(string) { calls++ })
	s.SetTitle("one")
	s.SetTitle("one")
	s.SetTitle("two")
	require.Equal(t, 2, calls)
}

func TestScreenDeviceAttributesWriteOutbound(t *testing.T) {
	var buf fakeWriter
	s := NewScreen(WithOutbound(&buf), WithTestMode(true))
	s.SendPrimaryDeviceAttributes()
	require.Equal(t, "\x1b[?6c", string(buf.data))
}

func TestScreenSecondaryDeviceAttributesWriteOutbound(t *testing.T) {
	var buf fakeWriter
	s := NewScreen(WithOutbound(&buf), WithTestMode(true))
	s.SendSecondaryDeviceAttributes()
	require.Equal(t, "\x1b[>1;95;0c", string(buf.data))
}

type fakeWriter struct{ data []byte }

func (f *fakeWriter) Write(p []byte) (int, error) {
	f.data = append(f.data, p...)
	return len(p), nil
}

func TestScreenDispatchEmitsTextSegmentChanges(t *testing.T) {
	s := NewScreen(WithSize(10, 3), WithTestMode(true))
	var calls int
	s.OnTextSegmentChanges(func() { calls++ })

	s.Clear()
	require.Equal(t, 1, calls)
}

func TestScreenSaveCursorAnnouncesCursorCreatedOnDispatch(t *testing.T) {
	s := NewScreen(WithSize(10, 3), WithTestMode(true))
	s.DispatchChanges() // drain the initial cursor's creation announcement

	var created []*Cursor
	s.OnCursorCreated(func(c *Cursor) { created = append(created, c) })

	s.SaveCursor()
	require.Empty(t, created, "cursorCreated is only announced at dispatch, not at SaveCursor")

	s.DispatchChanges()
	require.Len(t, created, 1)
}

func TestScreenDispatchReleasesOutgoingScreenDataTextObjects(t *testing.T) {
	s := NewScreen(WithSize(10, 3), WithTestMode(true))
	primary := s.PrimaryScreenData()
	primary.DispatchLineEvents()
	for _, b := range primary.blocks {
		require.NotNil(t, b.segment)
	}

	s.UseAlternateScreenBuffer()
	s.DispatchChanges()

	for _, b := range primary.blocks {
		require.Nil(t, b.segment, "switching away from primary releases its text segments")
	}
}

func TestScreenDispatchChangesCommitsCursorPosition(t *testing.T) {
	s := NewScreen(WithSize(10, 5), WithTestMode(true))
	c := s.Cursor()
	c.LineFeed()
	require.Equal(t, 1, c.NewY())
	require.Equal(t, 0, c.y, "pending state must not be visible as committed before dispatch")

	s.FlushDispatch()
	require.Equal(t, 1, c.y, "DispatchChanges commits pending state")
}
