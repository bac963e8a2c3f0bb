package yat

// InsertMode selects whether AddAtCursor overwrites or shifts text right.
type InsertMode int

const (
	ModeReplace InsertMode = iota
	ModeInsert
)

// Cursor is position, styling, tab stops, scroll margins and input modes
// (§3, §4.4), grounded directly on the teacher's (excluded from the
// retrieval pack) cursor.cpp, reproduced from
// original_source/backend/cursor.cpp including its resize-tracking and
// scroll-margin arithmetic.
//
// Cursor holds a non-owning back-reference to its Screen (§9, "Back-
// references... implement as a non-owning handle"), used for palette and
// screen-dimension lookups; Screen owns the Cursor stack.
type Cursor struct {
	screen *Screen

	x, y       int // committed, screen-relative
	newX, newY int // pending, screen-relative

	style TextStyle

	tabStops []int

	topMargin, bottomMargin int
	scrollMarginsSet        bool
	originAtMargin          bool

	visible, newVisible   bool
	blinking, newBlinking bool
	wrapAround            bool
	insertMode            InsertMode

	glDecoder, grDecoder Decoder

	contentHeightChangedFlag bool

	resizeBlock        *Block
	currentPosInBlock  int
	prevWidth          int

	xChanged          signal[struct{}]
	yChanged          signal[struct{}]
	visibilityChanged signal[struct{}]
	blinkingChanged   signal[struct{}]
}

// NewCursor creates a Cursor at (0,0), visible, non-blinking, wrap-around,
// replace mode, with default tab stops every 8 columns (§3, "Initial
// state").
func NewCursor(screen *Screen) *Cursor {
	c := &Cursor{
		screen:     screen,
		style:      DefaultTextStyle(),
		visible:    true,
		newVisible: true,
		wrapAround: true,
		glDecoder:  UTF8Decoder{},
		grDecoder:  UTF8Decoder{},
	}
	width := screen.Width()
	for i := 0; i < width; i++ {
		if i%8 == 0 {
			c.tabStops = append(c.tabStops, i)
		}
	}
	return c
}

// Clone returns a new Cursor with an independent copy of the position,
// style, tab-stop, margin and mode state, used by Screen.SaveCursor (§4.5,
// "Cursor stack"). The clone starts with no subscribers and no pending
// resize snapshot.
func (c *Cursor) Clone() *Cursor {
	clone := *c
	clone.tabStops = append([]int(nil), c.tabStops...)
	clone.resizeBlock = nil
	clone.xChanged = signal[struct{}]{}
	clone.yChanged = signal[struct{}]{}
	clone.visibilityChanged = signal[struct{}]{}
	clone.blinkingChanged = signal[struct{}]{}
	return &clone
}

// --- position ---------------------------------------------------------

// X returns the committed, screen-relative column.
func (c *Cursor) X() int { return c.x }

// Y returns the committed absolute row, combining scrollback and grid
// (§3: "y is the committed absolute row"), matching cursor.cpp's y().
func (c *Cursor) Y() int {
	sd := c.screen.CurrentScreenData()
	return (sd.ContentHeight() - c.screen.Height()) + c.y
}

// NewX/NewY return the pending, screen-relative position.
func (c *Cursor) NewX() int { return c.newX }
func (c *Cursor) NewY() int { return c.newY }

func (c *Cursor) top() int {
	if c.scrollMarginsSet {
		return c.topMargin
	}
	return 0
}

func (c *Cursor) bottom() int {
	if c.scrollMarginsSet {
		return c.bottomMargin
	}
	return c.screen.Height() - 1
}

func (c *Cursor) adjustedTop() int {
	if c.originAtMargin {
		return c.top()
	}
	return 0
}

func (c *Cursor) adjustedBottom() int {
	if c.originAtMargin {
		return c.bottom()
	}
	return c.screen.Height() - 1
}

func (c *Cursor) adjustedNewY() int {
	return c.newY - c.adjustedTop()
}

func (c *Cursor) notifyChanged() {}

func (c *Cursor) MoveOrigin() {
	c.newX, c.newY = 0, c.adjustedTop()
	c.notifyChanged()
}

func (c *Cursor) MoveBeginningOfLine() {
	c.newX = 0
	c.notifyChanged()
}

// MoveUp/MoveDown/MoveLeft/MoveRight clamp to the scroll region / width
// and are no-ops at the limit or for n == 0 (§4.4, §8 "Bounds clamp").
func (c *Cursor) MoveUp(n int) {
	adj := c.adjustedNewY()
	if adj == 0 || n == 0 {
		return
	}
	if n < adj {
		c.newY -= n
	} else {
		c.newY = c.adjustedTop()
	}
	c.notifyChanged()
}

func (c *Cursor) MoveDown(n int) {
	bottom := c.adjustedBottom()
	if c.newY == bottom || n == 0 {
		return
	}
	if c.newY+n <= bottom {
		c.newY += n
	} else {
		c.newY = bottom
	}
	c.notifyChanged()
}

func (c *Cursor) MoveLeft(n int) {
	if c.newX == 0 || n == 0 {
		return
	}
	if n < c.newX {
		c.newX -= n
	} else {
		c.newX = 0
	}
	c.notifyChanged()
}

func (c *Cursor) MoveRight(n int) {
	width := c.screen.Width()
	if c.newX == width-1 || n == 0 {
		return
	}
	if n < width-c.newX {
		c.newX += n
	} else {
		c.newX = width - 1
	}
	c.notifyChanged()
}

// Move is an absolute move; if originAtMargin, y is relative to topMargin
// (§4.4).
func (c *Cursor) Move(x, y int) {
	width := c.screen.Width()
	if c.originAtMargin {
		y += c.topMargin
	}
	if x < 0 {
		x = 0
	} else if x >= width {
		x = width - 1
	}
	if y < c.adjustedTop() {
		y = c.adjustedTop()
	} else if y > c.adjustedBottom() {
		y = c.adjustedBottom()
	}
	if c.newY != y || c.newX != x {
		c.newX, c.newY = x, y
		c.notifyChanged()
	}
}

// MoveToLine is an axis-independent clamped move.
func (c *Cursor) MoveToLine(line int) {
	height := c.screen.Height()
	if line < c.adjustedTop() {
		line = 0
	} else if line > c.adjustedBottom() {
		line = height - 1
	}
	if line != c.newY {
		c.newY = line
		c.notifyChanged()
	}
}

// MoveToCharacter uses 1-based DEC-compatible clamping, deliberately
// inconsistent with every other 0-based move operation (§4.4, §9 open
// question: "Implementers should treat the 1-based form as the current
// contract and document the inconsistency rather than silently 'fix' it").
func (c *Cursor) MoveToCharacter(character int) {
	width := c.screen.Width()
	if character < 0 {
		character = 1
	} else if character > width {
		character = width
	}
	if character != c.newX {
		c.newX = character
		c.notifyChanged()
	}
}

// MoveToNextTab jumps to the least tab stop greater than newX, or the
// last column if none remain (§4.4).
func (c *Cursor) MoveToNextTab() {
	width := c.screen.Width()
	for _, stop := range c.tabStops {
		if c.newX < stop {
			c.MoveToCharacter(minInt(stop, width-1))
			return
		}
	}
	c.MoveToCharacter(width - 1)
}

// SetTabStop inserts newX into the sorted tab-stop set if not present.
func (c *Cursor) SetTabStop() {
	i := 0
	for ; i < len(c.tabStops); i++ {
		if c.newX == c.tabStops[i] {
			return
		}
		if c.newX > c.tabStops[i] {
			continue
		}
		break
	}
	c.tabStops = append(c.tabStops, 0)
	copy(c.tabStops[i+1:], c.tabStops[i:])
	c.tabStops[i] = c.newX
}

// RemoveTabStop removes newX from the tab-stop set if present.
func (c *Cursor) RemoveTabStop() {
	for i, stop := range c.tabStops {
		if c.newX == stop {
			c.tabStops = append(c.tabStops[:i], c.tabStops[i+1:]...)
			return
		}
		if c.newX < stop {
			return
		}
	}
}

// ClearTabStops empties the tab-stop set.
func (c *Cursor) ClearTabStops() {
	c.tabStops = nil
}

// --- clearing (delegated to the current ScreenData) --------------------

func (c *Cursor) ClearToBeginningOfLine() {
	c.screenData().ClearToBeginningOfLine(Point{c.newX, c.newY})
}

func (c *Cursor) ClearToEndOfLine() {
	c.screenData().ClearToEndOfLine(Point{c.newX, c.newY})
}

func (c *Cursor) ClearToBeginningOfScreen() {
	c.ClearToBeginningOfLine()
	if c.newY > 0 {
		c.screenData().ClearToBeginningOfScreen(c.newY - 1)
	}
}

func (c *Cursor) ClearToEndOfScreen() {
	c.ClearToEndOfLine()
	if c.newY < c.screen.Height()-1 {
		c.screenData().ClearToEndOfScreen(c.newY + 1)
	}
}

func (c *Cursor) ClearLine() {
	c.screenData().ClearLine(Point{c.newX, c.newY})
}

func (c *Cursor) DeleteCharacters(characters int) {
	c.screenData().DeleteCharacters(Point{c.newX, c.newY}, c.newX+characters)
}

func (c *Cursor) screenData() *ScreenData { return c.screen.CurrentScreenData() }

// --- style --------------------------------------------------------------

func (c *Cursor) SetWrapAround(wrap bool) { c.wrapAround = wrap }
func (c *Cursor) SetInsertMode(m InsertMode) { c.insertMode = m }
func (c *Cursor) CurrentTextStyle() TextStyle { return c.style }
func (c *Cursor) SetTextForegroundColor(col Color) { c.style.Fg = col }
func (c *Cursor) SetTextBackgroundColor(col Color) { c.style.Bg = col }

// SetTextStyleAttr reproduces cursor.cpp's setTextStyle(style, add): the
// `add=false` branch ANDs with a *logical* NOT of the attribute bit rather
// than a bitwise complement. Since any real Attr bit is nonzero, the
// logical NOT is always 0, so clearing "one" attribute actually clears
// every attribute at once. §9 leaves this unresolved ("whether this is
// intentional or a bug is unresolved") and directs implementers to
// reproduce it rather than silently fix it.
func (c *Cursor) SetTextStyleAttr(attr Attr, add bool) {
	if add {
		c.style.Attrs |= attr
		return
	}
	var logicalNot Attr
	if attr == 0 {
		logicalNot = 1
	}
	c.style.Attrs &= logicalNot
}

func (c *Cursor) ResetColors() {
	c.style.Fg = DefaultFg
	c.style.Bg = DefaultBg
}

func (c *Cursor) ResetStyle() {
	c.ResetColors()
	c.style.Attrs = 0
}

// --- scrolling ------------------------------------------------------------

func (c *Cursor) ScrollUp(lines int) {
	if c.newY < c.top() || c.newY > c.bottom() {
		return
	}
	for i := 0; i < lines; i++ {
		c.screenData().MoveLine(c.bottom(), c.top())
	}
}

func (c *Cursor) ScrollDown(lines int) {
	if c.newY < c.top() || c.newY > c.bottom() {
		return
	}
	for i := 0; i < lines; i++ {
		c.screenData().MoveLine(c.top(), c.bottom())
	}
}

func (c *Cursor) SetScrollArea(from, to int) {
	c.topMargin = from
	c.bottomMargin = minInt(to, c.screen.Height()-1)
	c.scrollMarginsSet = true
}

func (c *Cursor) ResetScrollArea() {
	c.topMargin = 0
	c.bottomMargin = 0
	c.scrollMarginsSet = false
}

func (c *Cursor) SetOriginAtMargin(atMargin bool) {
	c.originAtMargin = atMargin
	c.newX, c.newY = 0, c.adjustedTop()
	c.notifyChanged()
}

// LineFeed scrolls the scroll region up by one when at the bottom margin,
// else advances newY by one (§4.4).
func (c *Cursor) LineFeed() {
	if c.newY >= c.bottom() {
		if c.screen.logger != nil {
			c.screen.logger.Debugf("cursor: lineFeed scrolling at bottom=%d top=%d", c.bottom(), c.top())
		}
		c.screenData().InsertLine(c.bottom(), c.top())
	} else {
		c.newY++
		c.notifyChanged()
	}
}

// ReverseLineFeed scrolls the scroll region down by one at the top
// margin, else retreats newY by one.
func (c *Cursor) ReverseLineFeed() {
	if c.newY == c.top() {
		c.ScrollUp(1)
	} else {
		c.newY--
		c.notifyChanged()
	}
}

// --- text input -------------------------------------------------------

// AddAtCursor dispatches to ReplaceAtCursor or InsertAtCursor by insert
// mode (§4.4).
func (c *Cursor) AddAtCursor(data []byte, onlyASCII bool) {
	if c.insertMode == ModeReplace {
		c.ReplaceAtCursor(data, onlyASCII)
	} else {
		c.InsertAtCursor(data, onlyASCII)
	}
}

func (c *Cursor) decodeGL(data []byte) []rune {
	var out []rune
	for len(data) > 0 {
		r, n := c.glDecoder.Decode(data)
		out = append(out, r)
		if n <= 0 {
			n = 1
		}
		data = data[n:]
	}
	return out
}

// ReplaceAtCursor decodes data through the GL decoder and overwrites
// starting at the cursor. When wrapAround is disabled and the text would
// overflow the line, the tail character overwrites the rightmost cell
// rather than wrapping (§4.4).
func (c *Cursor) ReplaceAtCursor(data []byte, onlyASCII bool) {
	text := c.decodeGL(data)
	width := c.screen.Width()

	if !c.wrapAround && c.newX+len(text) > width {
		size := width - c.newX
		if size < 0 {
			size = 0
		}
		toBlock := append([]rune(nil), text[:size]...)
		if len(toBlock) > 0 {
			toBlock[len(toBlock)-1] = text[len(text)-1]
		}
		c.screenData().Replace(Point{c.newX, c.newY}, toBlock, c.style, onlyASCII)
		c.newX += len(toBlock)
	} else {
		diff := c.screenData().Replace(Point{c.newX, c.newY}, text, c.style, onlyASCII)
		c.newX += diff.Character
		c.newY += diff.Line
	}

	if c.newY >= c.screen.Height() {
		c.newY = c.screen.Height() - 1
	}
	c.notifyChanged()
}

// InsertAtCursor decodes data through the GL decoder and shifts the
// remainder of the line right to make room (§4.4).
func (c *Cursor) InsertAtCursor(data []byte, onlyASCII bool) {
	text := c.decodeGL(data)
	diff := c.screenData().Insert(Point{c.newX, c.newY}, text, c.style, onlyASCII)
	c.newX += diff.Character
	c.newY += diff.Line
	if c.newY >= c.screen.Height() {
		c.newY = c.screen.Height() - 1
	}
	if c.newX >= c.screen.Width() {
		c.newX = c.screen.Width() - 1
	}
	c.notifyChanged()
}

// --- visibility / blink -------------------------------------------------

func (c *Cursor) Visible() bool  { return c.visible }
func (c *Cursor) Blinking() bool { return c.blinking }

func (c *Cursor) SetVisible(v bool) {
	c.newVisible = v
	c.notifyChanged()
}

func (c *Cursor) SetBlinking(b bool) {
	c.newBlinking = b
	c.notifyChanged()
}

// --- resize handling ------------------------------------------------------

// WidthAboutToChange snapshots the block currently under the pending row
// and its offset within that block, ahead of a width change (§4.4).
func (c *Cursor) WidthAboutToChange() {
	sd := c.screenData()
	idx := sd.itForRow(c.newY)
	c.prevWidth = c.screen.Width()
	if idx >= len(sd.blocks) {
		return
	}
	c.resizeBlock = sd.blocks[idx]
	lineDiff := c.newY - c.resizeBlock.ScreenIndex()
	c.currentPosInBlock = lineDiff*c.prevWidth + c.newX
}

// WidthChanged recomputes (newX, newY) from the §4.4 snapshot against the
// reflowed layout, or relocates to top-left/bottom-left if the snapshot
// block was pushed into scrollback.
func (c *Cursor) WidthChanged(newWidth, removedBeginning, reclaimed int) {
	if newWidth > c.prevWidth {
		for i := c.prevWidth - 1; i < newWidth; i++ {
			if i%8 == 0 {
				c.tabStops = append(c.tabStops, i)
			}
		}
	}

	sd := c.screenData()
	idx := -1
	if c.resizeBlock != nil {
		idx = sd.indexOfBlock(c.resizeBlock)
	}
	if idx < 0 || idx >= len(sd.blocks) {
		if removedBeginning > reclaimed {
			c.newY, c.newX = 0, 0
		} else {
			c.newY, c.newX = c.screen.Height()-1, 0
		}
	} else {
		block := sd.blocks[idx]
		c.newY = block.ScreenIndex() + c.currentPosInBlock/newWidth
		c.newX = c.currentPosInBlock % newWidth
		if c.newY >= c.screen.Height() {
			diff := c.newY - c.screen.Height()
			c.newY -= diff + 1
		}
	}
	c.resizeBlock = nil
	c.currentPosInBlock = 0
	c.notifyChanged()
}

// HeightChanged adjusts newY for rows removed from/reclaimed into the top
// of the grid on a height change, and resets the scroll area (§4.4).
func (c *Cursor) HeightChanged(newHeight, removedBeginning, reclaimed int) {
	c.ResetScrollArea()
	c.newY -= removedBeginning
	c.newY += reclaimed
	if c.newY <= 0 {
		c.newY = 0
	}
	if c.newY >= newHeight {
		diff := c.newY - newHeight
		c.newY -= diff + 1
	}
}

// --- dispatch ---------------------------------------------------------

// DispatchEvents commits pending state to current and emits per-field
// change notifications only for fields that actually changed (§4.4,
// §4.5 step 6).
func (c *Cursor) DispatchEvents() {
	if c.newX != c.x || c.newY != c.y || c.contentHeightChangedFlag {
		emitX := c.newX != c.x
		emitY := c.newY != c.y
		c.x, c.y = c.newX, c.newY
		if emitX {
			c.xChanged.emit(struct{}{})
		}
		if emitY || c.contentHeightChangedFlag {
			c.yChanged.emit(struct{}{})
		}
	}
	c.contentHeightChangedFlag = false

	if c.newVisible != c.visible {
		c.visible = c.newVisible
		c.visibilityChanged.emit(struct{}{})
	}
	if c.newBlinking != c.blinking {
		c.blinking = c.newBlinking
		c.blinkingChanged.emit(struct{}{})
	}
}

// NotifyContentHeightChanged marks that the owning ScreenData's content
// height changed since the last dispatch, forcing a yChanged emission on
// the next DispatchEvents even if the screen-relative row did not move
// (since Y() is defined in absolute, scrollback-inclusive terms).
func (c *Cursor) NotifyContentHeightChanged() {
	c.contentHeightChangedFlag = true
}

func (c *Cursor) OnXChanged(fn func()) func() { return c.xChanged.subscribe(func(struct{}) { fn() }) }
func (c *Cursor) OnYChanged(fn func()) func() { return c.yChanged.subscribe(func(struct{}) { fn() }) }
func (c *Cursor) OnVisibilityChanged(fn func()) func() {
	return c.visibilityChanged.subscribe(func(struct{}) { fn() })
}
func (c *Cursor) OnBlinkingChanged(fn func()) func() {
	return c.blinkingChanged.subscribe(func(struct{}) { fn() })
}
