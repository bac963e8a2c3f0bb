package yat

// ScreenData is the visible grid: an ordered sequence of Blocks whose
// total physical row count equals the screen height, with a narrow
// exception during oversized-block transitions (§3, §4.2). It is
// grounded directly on the teacher's (excluded-from-pack) screen_data.cpp,
// reproduced method-for-method from original_source/backend/screen_data.cpp.
type ScreenData struct {
	blocks       []*Block
	width        int
	screenHeight int
	height       int // sum of block.LineCount() for blocks currently on screen
	scrollback   *Scrollback
	pool         *SegmentPool
	oldTotalLines int

	dataWidthChanged     signal[DataSizeChange]
	dataHeightChanged    signal[DataSizeChange]
	contentHeightChanged signal[struct{}]
	contentModified      signal[ContentModified]

	logger Logger
}

// SetLogger installs the per-subsystem Logger (§10.1); nil is treated as
// NopLogger.
func (sd *ScreenData) SetLogger(l Logger) { sd.logger = l }

func (sd *ScreenData) debugf(format string, args ...any) {
	if sd.logger != nil {
		sd.logger.Debugf(format, args...)
	}
}

// NewScreenData creates a ScreenData of the given width/height, owning a
// fresh Scrollback with the given line budget (§3, "ScreenData owns its
// Scrollback").
func NewScreenData(width, height, maxScrollback int, pool *SegmentPool) *ScreenData {
	sd := &ScreenData{
		width:      maxInt(width, 1),
		pool:       pool,
		scrollback: NewScrollback(maxScrollback, pool),
	}
	for i := 0; i < height; i++ {
		sd.blocks = append(sd.blocks, NewBlock(sd.width))
	}
	sd.screenHeight = height
	sd.height = height
	sd.refreshScreenIndices()
	return sd
}

func (sd *ScreenData) Width() int      { return sd.width }
func (sd *ScreenData) Height() int     { return sd.screenHeight }
func (sd *ScreenData) BlockCount() int { return len(sd.blocks) }
func (sd *ScreenData) Scrollback() *Scrollback { return sd.scrollback }

// ContentHeight is the on-screen height plus scrollback height (§3).
func (sd *ScreenData) ContentHeight() int {
	return sd.height + sd.scrollback.Height()
}

func (sd *ScreenData) contentHeightDiff(old int) int {
	cur := sd.ContentHeight()
	return cur - old
}

// SetSize resizes to a new width and/or height, reflowing Blocks between
// the grid and Scrollback as needed (§4.2 "Reflow on width change" /
// "Height change"), and is idempotent: calling it twice with the same
// (w, h) is a no-op on the second call (§8).
func (sd *ScreenData) SetSize(width, height, currentCursorLine int) {
	sd.debugf("setSize width=%d height=%d cursorLine=%d", width, height, currentCursorLine)
	if width != sd.width {
		for _, b := range sd.blocks {
			before := b.LineCount()
			b.SetWidth(width)
			sd.height += b.LineCount() - before
		}
		sd.width = width
		sd.scrollback.SetWidth(sd.screenHeight, width)

		var removed, reclaimed int
		if sd.height > sd.screenHeight {
			removed = sd.pushAtMostToScrollback(sd.height - sd.screenHeight)
		} else {
			reclaimed = sd.ensureAtLeastHeight(sd.screenHeight)
		}
		sd.dataWidthChanged.emit(DataSizeChange{NewSize: width, Removed: removed, Reclaimed: reclaimed})
	}

	if height != sd.screenHeight {
		oldScreenHeight := sd.screenHeight
		sd.screenHeight = height

		var removedBeginning, removedEnd, reclaimed int
		if sd.height > height {
			toRemove := sd.height - height
			removeFromEnd := minInt(sd.height-(currentCursorLine+1), toRemove)
			if removeFromEnd < 0 {
				removeFromEnd = 0
			}
			removeFromStart := toRemove - removeFromEnd

			if removeFromEnd > 0 {
				removedEnd = sd.removeLinesFromEnd(removeFromEnd)
			}
			if removeFromStart > 0 {
				removedBeginning = sd.pushAtMostToScrollback(removeFromStart)
			}
			_ = oldScreenHeight
			_ = removedEnd
		} else {
			reclaimed = sd.ensureAtLeastHeight(height)
		}

		sd.dataHeightChanged.emit(DataSizeChange{NewSize: height, Removed: removedBeginning, Reclaimed: reclaimed})
	}
}

// --- clearing -----------------------------------------------------------

// ClearToEndOfLine clears from pt.X to the end of pt's physical row.
func (sd *ScreenData) ClearToEndOfLine(pt Point) {
	idx := sd.itForRowEnsureSingleLineBlock(pt.Y)
	if idx < len(sd.blocks) {
		sd.blocks[idx].ClearToEnd(pt.X)
	}
}

// ClearToEndOfScreen clears row y entirely and every row below it.
func (sd *ScreenData) ClearToEndOfScreen(y int) {
	idx := sd.itForRowEnsureSingleLineBlock(y)
	for i := idx; i < len(sd.blocks); i++ {
		sd.clearBlockAt(i)
	}
}

// ClearToBeginningOfLine clears [0, pt.X) of pt's row.
func (sd *ScreenData) ClearToBeginningOfLine(pt Point) {
	idx := sd.itForRowEnsureSingleLineBlock(pt.Y)
	if idx < len(sd.blocks) {
		sd.blocks[idx].ClearCharacters(0, pt.X)
	}
}

// ClearToBeginningOfScreen clears row y entirely and every row above it.
func (sd *ScreenData) ClearToBeginningOfScreen(y int) {
	idx := sd.itForRowEnsureSingleLineBlock(y)
	if idx < len(sd.blocks) {
		sd.blocks[idx].Clear()
	}
	for i := idx - 1; i >= 0; i-- {
		sd.clearBlockAt(i)
	}
}

// ClearLine clears pt's entire row.
func (sd *ScreenData) ClearLine(pt Point) {
	idx := sd.itForRowEnsureSingleLineBlock(pt.Y)
	if idx < len(sd.blocks) {
		sd.blocks[idx].Clear()
	}
}

// Clear blanks every row on the grid.
func (sd *ScreenData) Clear() {
	for i := range sd.blocks {
		sd.clearBlockAt(i)
	}
}

// Fill overwrites every row with width copies of character (screen_data.
// cpp's fill, used by Screen.Clear via `fill(' ')`).
func (sd *ScreenData) Fill(ch rune) {
	sd.Clear()
	fillRow := make([]rune, sd.width)
	for i := range fillRow {
		fillRow[i] = ch
	}
	for _, b := range sd.blocks {
		b.ReplaceAt(0, fillRow, DefaultTextStyle(), true)
	}
}

// ReleaseTextObjects returns every block's pooled presentation object.
func (sd *ScreenData) ReleaseTextObjects() {
	for _, b := range sd.blocks {
		b.ReleaseTextObjects(sd.pool)
	}
}

func (sd *ScreenData) ClearCharacters(pt Point, to int) {
	idx := sd.itForRowEnsureSingleLineBlock(pt.Y)
	if idx < len(sd.blocks) {
		sd.blocks[idx].ClearCharacters(pt.X, to)
	}
}

// DeleteCharacters deletes [pt.X, to) from pt's logical block, addressed
// by absolute character offset within the (possibly multi-row) block,
// exactly as screen_data.cpp's deleteCharacters does (note: this method
// deliberately does NOT split to a single-line block first).
func (sd *ScreenData) DeleteCharacters(pt Point, to int) {
	idx := sd.itForRow(pt.Y)
	if idx >= len(sd.blocks) {
		return
	}
	b := sd.blocks[idx]
	lineInBlock := pt.Y - b.ScreenIndex()
	charsToLine := lineInBlock * sd.width
	b.DeleteCharacters(charsToLine+pt.X, charsToLine+to)
}

// --- replace / insert -----------------------------------------------------

// Replace overwrites text at pt (§4.2).
func (sd *ScreenData) Replace(pt Point, text []rune, style TextStyle, onlyASCII bool) CursorDiff {
	return sd.modify(pt, text, style, true, onlyASCII)
}

// Insert inserts text at pt, shifting the remainder of the logical line
// right (§4.2).
func (sd *ScreenData) Insert(pt Point, text []rune, style TextStyle, onlyASCII bool) CursorDiff {
	return sd.modify(pt, text, style, false, onlyASCII)
}

func (sd *ScreenData) modify(pt Point, text []rune, style TextStyle, replace, onlyASCII bool) CursorDiff {
	idx := sd.itForRow(pt.Y)
	if idx >= len(sd.blocks) {
		return CursorDiff{}
	}
	block := sd.blocks[idx]
	startChar := (pt.Y-block.ScreenIndex())*sd.width + pt.X
	linesBefore := block.LineCount()
	linesChanged := block.LineCountAfterModified(startChar, len(text), replace) - linesBefore
	oldContentHeight := sd.ContentHeight()
	sd.height += linesChanged

	if linesChanged > 0 {
		removed := 0
		mergeIdx := idx + 1
		for removed < linesChanged && mergeIdx < len(sd.blocks) {
			toReduce := sd.blocks[mergeIdx]
			removeBlock := removed+toReduce.LineCount() <= linesChanged
			var linesToRemove int
			if removeBlock {
				linesToRemove = toReduce.LineCount()
			} else {
				linesToRemove = toReduce.LineCount() - (linesChanged - removed)
			}
			block.MoveLinesFromBlock(toReduce, 0, linesToRemove)
			removed += linesToRemove
			if removeBlock {
				sd.blocks = append(sd.blocks[:mergeIdx], sd.blocks[mergeIdx+1:]...)
			} else {
				mergeIdx++
			}
		}
		sd.height -= removed
	}

	if replace {
		block.ReplaceAt(startChar, text, style, onlyASCII)
	} else {
		block.InsertAt(startChar, text, style, onlyASCII)
	}

	if sd.height > sd.screenHeight {
		sd.pushAtMostToScrollback(sd.height - sd.screenHeight)
	}

	endChar := (startChar + len(text)) % sd.width
	if endChar == 0 {
		endChar = sd.width - 1
	}
	endLine := (startChar + len(text)) / sd.width
	lineDiff := endLine - startChar/sd.width

	sd.contentModified.emit(ContentModified{
		StartLine:         sd.scrollback.Height() + pt.Y,
		LineCount:         linesChanged,
		ContentHeightDiff: sd.contentHeightDiff(oldContentHeight),
	})
	sd.refreshScreenIndices()
	return CursorDiff{Line: lineDiff, Character: endChar - pt.X}
}

// --- line movement --------------------------------------------------------

// MoveLine extracts the single-row block at from, clears it, and splices it
// back in so that it ends up at row to (§4.2).
func (sd *ScreenData) MoveLine(from, to int) {
	if from == to {
		return
	}
	oldContentHeight := sd.ContentHeight()
	if to > from {
		to++
	}
	fromIdx := sd.itForRowEnsureSingleLineBlock(from)
	toIdx := sd.itForRowEnsureSingleLineBlock(to)

	if fromIdx >= len(sd.blocks) {
		return
	}
	moved := sd.blocks[fromIdx]
	moved.Clear()

	sd.blocks = append(sd.blocks[:fromIdx], sd.blocks[fromIdx+1:]...)
	if toIdx > fromIdx {
		toIdx--
	}
	if toIdx > len(sd.blocks) {
		toIdx = len(sd.blocks)
	}
	sd.blocks = append(sd.blocks, nil)
	copy(sd.blocks[toIdx+1:], sd.blocks[toIdx:])
	sd.blocks[toIdx] = moved

	sd.refreshScreenIndices()
	sd.contentModified.emit(ContentModified{
		StartLine:         sd.scrollback.Height() + to,
		LineCount:         1,
		ContentHeightDiff: sd.contentHeightDiff(oldContentHeight),
	})
}

// InsertLine is the scroll-region-aware line insertion behind line feed
// at the bottom margin and reverse line feed at the top margin (§4.2). Per
// §9's open question, calling it with row == topMargin clears the
// top-margin block and returns WITHOUT the usual push/insert bookkeeping —
// reproduced exactly from screen_data.cpp's insertLine.
func (sd *ScreenData) InsertLine(row, topMargin int) {
	rowIdx := sd.itForRow(row + 1)
	oldContentHeight := sd.ContentHeight()

	if topMargin == 0 && sd.height >= sd.screenHeight {
		blocksBefore := len(sd.blocks)
		sd.pushAtMostToScrollback(1)
		rowIdx -= blocksBefore - len(sd.blocks)
	} else {
		topIdx := sd.itForRowEnsureSingleLineBlock(topMargin)
		if row == topMargin {
			if topIdx < len(sd.blocks) {
				sd.blocks[topIdx].Clear()
			}
			return
		}
		if topIdx < len(sd.blocks) {
			sd.blocks = append(sd.blocks[:topIdx], sd.blocks[topIdx+1:]...)
			sd.height--
			if rowIdx > topIdx {
				rowIdx--
			}
		}
	}

	newBlock := NewBlock(sd.width)
	if rowIdx > len(sd.blocks) {
		rowIdx = len(sd.blocks)
	}
	sd.blocks = append(sd.blocks, nil)
	copy(sd.blocks[rowIdx+1:], sd.blocks[rowIdx:])
	sd.blocks[rowIdx] = newBlock
	sd.height++

	sd.refreshScreenIndices()
	sd.contentModified.emit(ContentModified{
		StartLine:         sd.scrollback.Height() + row + 1,
		LineCount:         1,
		ContentHeightDiff: sd.contentHeightDiff(oldContentHeight),
	})
}

// --- dispatch / visibility -------------------------------------------------

// DispatchLineEvents assigns each on-screen block's global LineNumber and
// dispatches its presentation events, then signals a content-height change
// if the content height moved since the last dispatch (§4.5 step 2,
// screen_data.cpp's dispatchLineEvents, including its handling of an
// initial oversized block via `underflow`).
func (sd *ScreenData) DispatchLineEvents() {
	if len(sd.blocks) == 0 {
		return
	}
	underflow := sd.height - sd.screenHeight
	scrollbackHeight := sd.scrollback.Height() + underflow
	i := -underflow
	for _, b := range sd.blocks {
		line := scrollbackHeight + i
		b.SetLine(line)
		b.DispatchEvents(sd.pool)
		i += b.LineCount()
	}

	if sd.ContentHeight() != sd.oldTotalLines {
		sd.oldTotalLines = sd.ContentHeight()
		sd.contentHeightChanged.emit(struct{}{})
	}
}

// EnsureVisibleLines forwards to Scrollback.EnsureVisibleLines with the
// current screen height (§4.2).
func (sd *ScreenData) EnsureVisibleLines(topLine int) {
	sd.scrollback.EnsureVisibleLines(sd.screenHeight, topLine)
}

// --- selection -------------------------------------------------------------

// GetDoubleClickSelectionRange routes to Scrollback or scans the on-screen
// blocks depending on which side of the scrollback/grid boundary `line`
// falls on (§4.6).
func (sd *ScreenData) GetDoubleClickSelectionRange(character, line int) SelectionRange {
	if line < sd.scrollback.Height() {
		return sd.scrollback.GetDoubleClickSelectionRange(character, line)
	}
	screenLine := line - sd.scrollback.Height()
	idx := sd.itForRow(screenLine)
	if idx >= len(sd.blocks) {
		return SelectionRange{}
	}
	return wordBoundaryRange(sd.blocks[idx], character, line, sd.width)
}

// Line returns the rendered text of physical row y, for presentation
// layers (e.g. cmd/yatdemo) that want a plain-text rendering rather than
// walking Blocks/styleRuns themselves. Out-of-range rows return "".
func (sd *ScreenData) Line(y int) string {
	idx := sd.itForRow(y)
	if idx >= len(sd.blocks) {
		return ""
	}
	b := sd.blocks[idx]
	rowInBlock := y - b.ScreenIndex()
	start := rowInBlock * sd.width
	end := start + sd.width
	runes := b.Runes()
	if start > len(runes) {
		start = len(runes)
	}
	if end > len(runes) {
		end = len(runes)
	}
	return string(runes[start:end])
}

// --- internal: row lookup, splitting, scrollback traffic -------------------

// itForRow returns the block index containing physical row y, or
// len(sd.blocks) if y is out of range (§7: out-of-range is clamped, never
// fatal).
func (sd *ScreenData) itForRow(y int) int {
	sum := 0
	for i, b := range sd.blocks {
		sum += b.LineCount()
		if y < sum {
			return i
		}
	}
	return len(sd.blocks)
}

// itForRowEnsureSingleLineBlock looks up row y and, if it lies within a
// multi-row block, splits that block so the row becomes its own
// single-row Block (§4.2).
func (sd *ScreenData) itForRowEnsureSingleLineBlock(y int) int {
	idx := sd.itForRow(y)
	if idx >= len(sd.blocks) {
		return idx
	}
	b := sd.blocks[idx]
	if b.ScreenIndex() == y && b.LineCount() == 1 {
		return idx
	}
	rowInBlock := y - b.ScreenIndex()
	return sd.splitOutRowFromBlock(idx, rowInBlock)
}

func (sd *ScreenData) splitOutRowFromBlock(idx, rowInBlock int) int {
	b := sd.blocks[idx]
	lines := b.LineCount()

	if rowInBlock == 0 && lines == 1 {
		return idx
	}

	if rowInBlock == 0 {
		insertBefore := b.TakeLine(0)
		insertBefore.SetScreenIndex(b.ScreenIndex())
		sd.blocks = insertAt(sd.blocks, idx, insertBefore)
		sd.refreshScreenIndices()
		return idx
	} else if rowInBlock == lines-1 {
		insertAfter := b.TakeLine(lines - 1)
		insertAfter.SetScreenIndex(b.ScreenIndex() + rowInBlock)
		sd.blocks = insertAt(sd.blocks, idx+1, insertAfter)
		sd.refreshScreenIndices()
		return idx + 1
	}

	half := b.Split(rowInBlock)
	sd.blocks = insertAt(sd.blocks, idx+1, half)
	theOne := half.TakeLine(0)
	sd.blocks = insertAt(sd.blocks, idx+1, theOne)
	sd.refreshScreenIndices()
	return idx + 1
}

// pushAtMostToScrollback pushes whole blocks from the front into
// Scrollback until at most `lines` rows have moved, never pushing so much
// that the grid would become empty (§4.2: "never pushing more than
// content_height - 1").
func (sd *ScreenData) pushAtMostToScrollback(lines int) int {
	if lines >= sd.height {
		lines = sd.height - 1
	}
	pushed := 0
	for len(sd.blocks) > 0 && pushed+sd.blocks[0].LineCount() <= lines {
		b := sd.blocks[0]
		blockHeight := b.LineCount()
		sd.height -= blockHeight
		pushed += blockHeight
		sd.scrollback.AddBlock(b)
		sd.blocks = sd.blocks[1:]
	}
	sd.refreshScreenIndices()
	return pushed
}

// reclaimAtLeast pulls whole blocks from the back of Scrollback onto the
// front of the grid until at least `lines` rows have been reclaimed or
// Scrollback is exhausted.
func (sd *ScreenData) reclaimAtLeast(lines int) int {
	reclaimed := 0
	for sd.scrollback.BlockCount() > 0 && reclaimed < lines {
		b := sd.scrollback.ReclaimBlock()
		sd.height += b.LineCount()
		reclaimed += b.LineCount()
		sd.blocks = append([]*Block{b}, sd.blocks...)
	}
	sd.refreshScreenIndices()
	return reclaimed
}

// removeLinesFromEnd removes up to `lines` rows from the bottom of the
// grid, deleting whole blocks and trimming a final partial block (§4.2,
// "Height change").
func (sd *ScreenData) removeLinesFromEnd(lines int) int {
	removed := 0
	for len(sd.blocks) > 0 && removed < lines {
		last := len(sd.blocks) - 1
		b := sd.blocks[last]
		blockHeight := b.LineCount()
		if removed+blockHeight <= lines {
			removed += blockHeight
			sd.height -= blockHeight
			sd.blocks = sd.blocks[:last]
		} else {
			toRemove := lines - removed
			removed += toRemove
			sd.height -= toRemove
			for i := 0; i < toRemove; i++ {
				b.RemoveLine(b.LineCount() - 1)
			}
		}
	}
	sd.refreshScreenIndices()
	return removed
}

// ensureAtLeastHeight reclaims from Scrollback first, then appends fresh
// empty Blocks, until the grid holds at least `height` rows (§4.2).
func (sd *ScreenData) ensureAtLeastHeight(height int) int {
	if sd.height > height {
		return 0
	}
	toGrow := height - sd.height
	reclaimed := sd.reclaimAtLeast(toGrow)

	if height > sd.height {
		toInsert := height - sd.height
		for i := 0; i < toInsert; i++ {
			sd.blocks = append(sd.blocks, NewBlock(sd.width))
		}
		sd.height += toInsert
		sd.refreshScreenIndices()
		return reclaimed
	}
	sd.refreshScreenIndices()
	return toGrow
}

// clearBlockAt clears the block at idx; if clearing shrank its line count
// (e.g. an oversized wrapped block collapsing to one row), fresh empty
// blocks are inserted after it to keep the grid's row count unchanged
// (screen_data.cpp's clearBlock).
func (sd *ScreenData) clearBlockAt(idx int) {
	b := sd.blocks[idx]
	before := b.LineCount()
	b.Clear()
	diff := before - b.LineCount()
	if diff > 0 {
		fresh := make([]*Block, diff)
		for i := range fresh {
			fresh[i] = NewBlock(sd.width)
		}
		tail := append([]*Block{}, sd.blocks[idx+1:]...)
		sd.blocks = append(sd.blocks[:idx+1], append(fresh, tail...)...)
		sd.refreshScreenIndices()
	}
}

// refreshScreenIndices recomputes each block's ScreenIndex from its
// position, the Go rendering of the teacher's habit of tracking
// screenIndex incrementally; recomputing is simpler and the grid is never
// large enough for it to matter.
func (sd *ScreenData) refreshScreenIndices() {
	idx := 0
	for _, b := range sd.blocks {
		b.SetScreenIndex(idx)
		idx += b.LineCount()
	}
}

// indexOfBlock returns the index of b within the on-screen block list by
// pointer identity, or len(sd.blocks) if b has been pushed to Scrollback
// or reclaimed away since it was captured (used by Cursor's width-change
// resize tracking, §4.4).
func (sd *ScreenData) indexOfBlock(b *Block) int {
	for i, blk := range sd.blocks {
		if blk == b {
			return i
		}
	}
	return len(sd.blocks)
}

func insertAt(blocks []*Block, idx int, b *Block) []*Block {
	blocks = append(blocks, nil)
	copy(blocks[idx+1:], blocks[idx:])
	blocks[idx] = b
	return blocks
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// --- subscriptions ----------------------------------------------------

func (sd *ScreenData) OnDataWidthChanged(fn func(DataSizeChange)) func()  { return sd.dataWidthChanged.subscribe(fn) }
func (sd *ScreenData) OnDataHeightChanged(fn func(DataSizeChange)) func() { return sd.dataHeightChanged.subscribe(fn) }
func (sd *ScreenData) OnContentHeightChanged(fn func()) func() {
	return sd.contentHeightChanged.subscribe(func(struct{}) { fn() })
}
func (sd *ScreenData) OnContentModified(fn func(ContentModified)) func() { return sd.contentModified.subscribe(fn) }
