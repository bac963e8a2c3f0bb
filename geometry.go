package yat

// Point is a (character, line) coordinate. Depending on context it is
// screen-relative (0,0 at the visible top-left) or combined scrollback+
// grid coordinates (§4.6) — callers are responsible for using the right
// frame, the way the teacher passes bare QPoints for both in screen_data.cpp.
type Point struct {
	X, Y int
}

// SelectionRange is an anchored (Start, End) pair returned by double-click
// word-boundary lookups (§4.2, §4.6).
type SelectionRange struct {
	Start, End Point
}

// CursorDiff is the (line, character) delta ScreenData.Replace/Insert
// return to drive cursor advance (§4.2, GLOSSARY).
type CursorDiff struct {
	Line      int
	Character int
}
