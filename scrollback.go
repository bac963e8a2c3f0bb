package yat

// Scrollback is a bounded FIFO of Blocks that have fallen off the top of
// the visible grid (§3, §4.3), grounded on the teacher's (excluded from
// the retrieval pack) scrollback.cpp, whose header `scrollback.h` is
// present in original_source/ and whose method shapes (addBlock,
// reclaimBlock, ensureVisibleLines, fixupVisibility, selection,
// getDoubleClickSelectionRange) are reproduced here directly.
type Scrollback struct {
	blocks   []*Block
	height   int
	width    int
	maxLines int

	firstVisibleLine int
	pool             *SegmentPool

	logger Logger
}

// SetLogger installs the per-subsystem Logger (§10.1); nil is treated as
// NopLogger.
func (s *Scrollback) SetLogger(l Logger) { s.logger = l }

func (s *Scrollback) debugf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Debugf(format, args...)
	}
}

// NewScrollback creates a Scrollback with the given max-line budget. A
// budget of 0 means every addition is discarded (used for the alternate
// screen buffer, §4.5).
func NewScrollback(maxLines int, pool *SegmentPool) *Scrollback {
	return &Scrollback{maxLines: maxLines, pool: pool}
}

// Height returns the sum of block line counts currently held.
func (s *Scrollback) Height() int { return s.height }

// BlockCount returns the number of blocks held.
func (s *Scrollback) BlockCount() int { return len(s.blocks) }

// MaxLines returns the configured budget.
func (s *Scrollback) MaxLines() int { return s.maxLines }

// AddBlock appends block, then evicts from the front while the height
// without the front block would still be at least maxLines, never evicting
// the block just added (scrollback.cpp's addBlock: "while
// (m_blocks.front() != block && ...)"). With multi-row blocks the height
// can therefore stay above maxLines. When maxLines is 0 the block is
// discarded outright.
func (s *Scrollback) AddBlock(b *Block) {
	if s.maxLines == 0 {
		return
	}
	b.ReleaseTextObjects(s.pool)
	s.blocks = append(s.blocks, b)
	s.height += b.LineCount()

	for len(s.blocks) > 1 && s.height-s.blocks[0].LineCount() >= s.maxLines {
		front := s.blocks[0]
		s.height -= front.LineCount()
		s.blocks = s.blocks[1:]
		s.debugf("scrollback: evicted block of %d lines, %d blocks remain", front.LineCount(), len(s.blocks))
	}
}

// ReclaimBlock pops and returns the most recently added block (the one
// closest to the visible grid), or nil if scrollback is empty.
func (s *Scrollback) ReclaimBlock() *Block {
	if len(s.blocks) == 0 {
		return nil
	}
	last := s.blocks[len(s.blocks)-1]
	last.SetWidth(s.width)
	s.blocks = s.blocks[:len(s.blocks)-1]
	s.height -= last.LineCount()
	return last
}

// SetWidth reflows every held block to width w and recomputes height,
// then fixes up which blocks are visible (scrollback.cpp's setWidth).
func (s *Scrollback) SetWidth(screenHeight, w int) {
	s.width = w
	s.height = 0
	for _, b := range s.blocks {
		b.SetWidth(w)
		s.height += b.LineCount()
	}
	s.FixupVisibility(screenHeight)
}

// findIndexForLine returns the index of the block containing line (a
// scrollback-relative line number, 0 = oldest), or len(s.blocks) if line
// is out of range.
func (s *Scrollback) findIndexForLine(line int) int {
	current := s.height
	for i := len(s.blocks) - 1; i >= 0; i-- {
		current -= s.blocks[i].LineCount()
		if current <= line {
			return i
		}
	}
	return len(s.blocks)
}

// EnsureVisibleLines marks the contiguous window [topLine, topLine+
// screenHeight] as the visible slice for lazy rendering (§4.3).
func (s *Scrollback) EnsureVisibleLines(screenHeight, topLine int) {
	if topLine < 0 || topLine >= s.height {
		return
	}
	last := s.firstVisibleLine + screenHeight
	line := s.firstVisibleLine
	for i := s.findIndexForLine(s.firstVisibleLine); i < len(s.blocks) && line <= last; i++ {
		s.blocks[i].ReleaseTextObjects(s.pool)
		line += s.blocks[i].LineCount()
	}
	s.firstVisibleLine = topLine
	s.FixupVisibility(screenHeight)
}

// FixupVisibility assigns LineNumber and dispatches events on the blocks
// within the current visible window only (§4.3).
func (s *Scrollback) FixupVisibility(screenHeight int) {
	last := s.firstVisibleLine + screenHeight
	line := s.firstVisibleLine
	for i := s.findIndexForLine(s.firstVisibleLine); i < len(s.blocks) && line <= last; i++ {
		b := s.blocks[i]
		b.SetLine(line)
		b.DispatchEvents(s.pool)
		line += b.LineCount()
	}
}

// Selection returns the text between start and end (inclusive of end's
// row), both in scrollback-relative coordinates (scrollback.cpp's
// selection).
func (s *Scrollback) Selection(start, end Point) string {
	if start.Y < 0 || end.Y < 0 || end.Y >= s.height {
		return ""
	}
	var parts []string
	current := s.height
	shouldContinue := true
	for i := len(s.blocks) - 1; i >= 0 && shouldContinue; i-- {
		b := s.blocks[i]
		blockHeight := b.LineCount()
		current -= blockHeight

		if current > end.Y {
			continue
		}

		endPos := b.Len()
		if current <= end.Y && current+blockHeight >= end.Y {
			endLineCount := end.Y - current
			endPos = endLineCount*s.width + end.X
		}
		startPos := 0
		if current <= start.Y && current+blockHeight >= start.Y {
			startLineCount := start.Y - current
			startPos = startLineCount*s.width + start.X
			shouldContinue = false
		} else if current+blockHeight < start.Y {
			shouldContinue = false
		}
		if startPos < 0 {
			startPos = 0
		}
		if endPos > b.Len() {
			endPos = b.Len()
		}
		if endPos < startPos {
			endPos = startPos
		}
		text := string(b.Runes()[startPos:endPos])
		parts = append([]string{text}, parts...)
	}
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "\n"
		}
		out += p
	}
	return out
}

// GetDoubleClickSelectionRange returns the word-boundary range around
// (character, line), both scrollback-relative (§4.6).
func (s *Scrollback) GetDoubleClickSelectionRange(character, line int) SelectionRange {
	idx := s.findIndexForLine(line)
	if idx >= len(s.blocks) {
		return SelectionRange{}
	}
	return wordBoundaryRange(s.blocks[idx], character, line, s.width)
}
