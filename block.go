package yat

// Block is a logical line of styled text that may occupy multiple physical
// rows once its length exceeds the current width (§3, §4.1). It owns a
// sequence of codepoints and a run-length style list covering that text
// with no gaps. This is the one place the engine deliberately departs from
// the teacher's per-cell `[][]Cell` grid (buffer.go's `screen [][]Cell`):
// the spec calls for a logical-line/run-list model so that reflow can move
// whole Blocks between the grid and scrollback without touching per-cell
// style data, and a Block's ownership is unambiguous (§3, "Ownership").
// Attribute semantics (bold/italic/underline/...) are still the teacher's,
// taken from cell.go's Cell fields and folded into the Attr bitset.
type Block struct {
	text  []rune
	runs  []styleRun
	width int

	lineCount   int
	screenIndex int
	lineNumber  int

	segment *TextSegment
	dirty   bool
}

// NewBlock creates an empty Block for the given width.
func NewBlock(width int) *Block {
	if width < 1 {
		width = 1
	}
	b := &Block{width: width}
	b.recomputeLineCount()
	return b
}

// Len returns the number of codepoints currently stored.
func (b *Block) Len() int { return len(b.text) }

// LineCount returns ceil(len/width), minimum 1 (§3).
func (b *Block) LineCount() int { return b.lineCount }

// ScreenIndex returns the physical row at which this block begins while it
// is resident in a ScreenData.
func (b *Block) ScreenIndex() int { return b.screenIndex }

// SetScreenIndex sets the physical row the block begins at.
func (b *Block) SetScreenIndex(idx int) { b.screenIndex = idx }

// LineNumber returns the block's global line number including scrollback.
func (b *Block) LineNumber() int { return b.lineNumber }

// SetLine sets the global line number and marks the block dirty so a
// subsequent DispatchEvents call picks it up (mirrors screen_data.cpp's
// dispatchLineEvents calling (*it)->setLine(line) before dispatchEvents()).
func (b *Block) SetLine(line int) {
	if b.lineNumber != line {
		b.lineNumber = line
		b.dirty = true
	}
}

// Text returns the block's text as a string.
func (b *Block) Text() string { return string(b.text) }

// Runes returns the block's underlying codepoints. Callers must not
// mutate the returned slice.
func (b *Block) Runes() []rune { return b.text }

// StyleAt returns the style in effect at codepoint offset pos.
func (b *Block) StyleAt(pos int) TextStyle {
	for _, r := range b.runs {
		if pos >= r.Start && pos < r.Start+r.Len {
			return r.Style
		}
	}
	return DefaultTextStyle()
}

func (b *Block) recomputeLineCount() {
	b.lineCount = lineCountFor(len(b.text), b.width)
}

func lineCountFor(length, width int) int {
	if width < 1 {
		width = 1
	}
	if length == 0 {
		return 1
	}
	return (length + width - 1) / width
}

// LineCountAfterModified predicts what LineCount would become if n
// codepoints of text were replaced-at or inserted-at pos, without
// mutating the block (§4.1: "must be pure").
func (b *Block) LineCountAfterModified(pos, n int, replace bool) int {
	if replace {
		end := pos + n
		if end < len(b.text) {
			end = len(b.text)
		}
		return lineCountFor(end, b.width)
	}
	return lineCountFor(len(b.text)+n, b.width)
}

// --- run-list manipulation -------------------------------------------------

// runsSlice returns the runs covering [start, end), each re-based to start
// at 0, for splitting a block.
func runsSlice(runs []styleRun, start, end int) []styleRun {
	var out []styleRun
	for _, r := range runs {
		rs, re := r.Start, r.Start+r.Len
		if re <= start || rs >= end {
			continue
		}
		if rs < start {
			rs = start
		}
		if re > end {
			re = end
		}
		out = append(out, styleRun{Start: rs - start, Len: re - rs, Style: r.Style})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// runsShift offsets every run's Start by delta.
func runsShift(runs []styleRun, delta int) []styleRun {
	out := make([]styleRun, len(runs))
	for i, r := range runs {
		out[i] = styleRun{Start: r.Start + delta, Len: r.Len, Style: r.Style}
	}
	return out
}

// runsDelete removes [start, end) from a run-list of total length total,
// closing the gap, and returns the resulting run-list.
func runsDelete(runs []styleRun, start, end, total int) []styleRun {
	n := end - start
	var out []styleRun
	for _, r := range runs {
		rs, re := r.Start, r.Start+r.Len
		switch {
		case re <= start:
			out = append(out, r)
		case rs >= end:
			out = append(out, styleRun{Start: rs - n, Len: r.Len, Style: r.Style})
		default:
			if rs < start {
				if seg := start - rs; seg > 0 {
					out = append(out, styleRun{Start: rs, Len: seg, Style: r.Style})
				}
			}
			if re > end {
				seg := re - end
				out = append(out, styleRun{Start: start, Len: seg, Style: r.Style})
			}
		}
	}
	return coalesceRuns(out)
}

// runsReplace overwrites [start, start+n) with a single style, splicing
// the run-list around it.
func runsReplace(runs []styleRun, start, n int, style TextStyle) []styleRun {
	end := start + n
	var out []styleRun
	for _, r := range runs {
		rs, re := r.Start, r.Start+r.Len
		if re <= start || rs >= end {
			out = append(out, r)
			continue
		}
		if rs < start {
			out = append(out, styleRun{Start: rs, Len: start - rs, Style: r.Style})
		}
		if re > end {
			out = append(out, styleRun{Start: end, Len: re - end, Style: r.Style})
		}
	}
	out = append(out, styleRun{Start: start, Len: n, Style: style})
	return coalesceRuns(sortRuns(out))
}

// runsInsert opens a gap of n codepoints at start, shifting later runs, and
// fills the gap with style.
func runsInsert(runs []styleRun, start, n int, style TextStyle) []styleRun {
	var out []styleRun
	for _, r := range runs {
		rs, re := r.Start, r.Start+r.Len
		switch {
		case re <= start:
			out = append(out, r)
		case rs >= start:
			out = append(out, styleRun{Start: rs + n, Len: r.Len, Style: r.Style})
		default:
			out = append(out, styleRun{Start: rs, Len: start - rs, Style: r.Style})
			out = append(out, styleRun{Start: start + n, Len: re - start, Style: r.Style})
		}
	}
	out = append(out, styleRun{Start: start, Len: n, Style: style})
	return coalesceRuns(sortRuns(out))
}

func sortRuns(runs []styleRun) []styleRun {
	for i := 1; i < len(runs); i++ {
		for j := i; j > 0 && runs[j-1].Start > runs[j].Start; j-- {
			runs[j-1], runs[j] = runs[j], runs[j-1]
		}
	}
	return runs
}

// coalesceRuns merges adjacent runs with equal style. The spec notes this
// is not required ("adjacent runs may have equal style, not required to be
// coalesced") but doing it keeps run-lists from growing unboundedly under
// repeated same-style edits.
func coalesceRuns(runs []styleRun) []styleRun {
	if len(runs) < 2 {
		return runs
	}
	out := runs[:1]
	for _, r := range runs[1:] {
		last := &out[len(out)-1]
		if last.Start+last.Len == r.Start && last.Style == r.Style {
			last.Len += r.Len
		} else {
			out = append(out, r)
		}
	}
	return out
}

// --- edit operations --------------------------------------------------

// ReplaceAt overwrites text starting at pos with text, extending the block
// if necessary (only_ascii is a parser hint; storage is uniform runes
// either way, so it only affects the caller's decode path, per §4.1).
func (b *Block) ReplaceAt(pos int, text []rune, style TextStyle, onlyASCII bool) {
	_ = onlyASCII
	if pos < 0 {
		pos = 0
	}
	end := pos + len(text)
	if end > len(b.text) {
		grown := make([]rune, end)
		copy(grown, b.text)
		for i := len(b.text); i < pos; i++ {
			grown[i] = ' '
		}
		if pos > len(b.text) {
			b.runs = runsReplace(b.runs, len(b.text), pos-len(b.text), DefaultTextStyle())
		}
		b.text = grown
	}
	copy(b.text[pos:end], text)
	b.runs = runsReplace(b.runs, pos, len(text), style)
	b.recomputeLineCount()
	b.dirty = true
}

// InsertAt opens a gap of len(text) codepoints at pos and fills it.
func (b *Block) InsertAt(pos int, text []rune, style TextStyle, onlyASCII bool) {
	_ = onlyASCII
	if pos < 0 {
		pos = 0
	}
	if pos > len(b.text) {
		pad := pos - len(b.text)
		b.text = append(b.text, make([]rune, pad)...)
		b.runs = runsReplace(b.runs, len(b.text)-pad, pad, DefaultTextStyle())
	}
	grown := make([]rune, len(b.text)+len(text))
	copy(grown, b.text[:pos])
	copy(grown[pos:], text)
	copy(grown[pos+len(text):], b.text[pos:])
	b.text = grown
	b.runs = runsInsert(b.runs, pos, len(text), style)
	b.recomputeLineCount()
	b.dirty = true
}

// Clear empties the block back to a single empty row, reverting style to
// default (§4.1).
func (b *Block) Clear() {
	b.text = nil
	b.runs = nil
	b.recomputeLineCount()
	b.dirty = true
}

// ClearToEnd clears [from, len(text)), reverting style to default.
func (b *Block) ClearToEnd(from int) {
	b.ClearCharacters(from, len(b.text))
}

// ClearCharacters blanks [from, to) in place (length unchanged) reverting
// style to default, the way screen_data.cpp's clearCharacters/
// clearToBeginningOfLine leave the row's length untouched.
func (b *Block) ClearCharacters(from, to int) {
	if from < 0 {
		from = 0
	}
	if to > len(b.text) {
		to = len(b.text)
	}
	if from >= to {
		return
	}
	for i := from; i < to; i++ {
		b.text[i] = ' '
	}
	b.runs = runsReplace(b.runs, from, to-from, DefaultTextStyle())
	b.dirty = true
}

// DeleteCharacters removes [from, to), shifting remaining text left and
// shortening the block (§4.1).
func (b *Block) DeleteCharacters(from, to int) {
	if from < 0 {
		from = 0
	}
	if to > len(b.text) {
		to = len(b.text)
	}
	if from >= to {
		return
	}
	b.text = append(b.text[:from], b.text[to:]...)
	b.runs = runsDelete(b.runs, from, to, to-from)
	b.recomputeLineCount()
	b.dirty = true
}

// SetWidth changes the reflow width and recomputes LineCount; it never
// reflows text itself (text is a logical line regardless of width), only
// how many physical rows it now occupies.
func (b *Block) SetWidth(w int) {
	if w < 1 {
		w = 1
	}
	b.width = w
	b.recomputeLineCount()
}

// TakeLine splits off physical row i as a new Block, returning it. The
// returned block's length is exactly width, or the remainder if i is the
// last row (§4.1).
func (b *Block) TakeLine(i int) *Block {
	start := i * b.width
	end := start + b.width
	if end > len(b.text) {
		end = len(b.text)
	}
	if start > len(b.text) {
		start = len(b.text)
	}
	taken := &Block{
		text:  append([]rune(nil), b.text[start:end]...),
		runs:  runsSlice(b.runs, start, end),
		width: b.width,
	}
	taken.recomputeLineCount()

	b.text = append(b.text[:start], b.text[end:]...)
	b.runs = runsDelete(b.runs, start, end, end-start)
	b.recomputeLineCount()
	b.dirty = true
	return taken
}

// Split divides the block into two at physical row atRow: the receiver
// keeps rows [0, atRow) and the returned Block holds the rest, preserving
// text and styles exactly (§4.2, "Splitting preserves text and styles
// exactly").
func (b *Block) Split(atRow int) *Block {
	at := atRow * b.width
	if at > len(b.text) {
		at = len(b.text)
	}
	tail := &Block{
		text:  append([]rune(nil), b.text[at:]...),
		runs:  runsSlice(b.runs, at, len(b.text)),
		width: b.width,
	}
	tail.recomputeLineCount()

	b.text = append([]rune(nil), b.text[:at]...)
	b.runs = runsSlice(b.runs, 0, at)
	b.recomputeLineCount()
	b.dirty = true
	return tail
}

// MoveLinesFromBlock appends count physical rows of src's head onto the
// receiver and removes them from src (§4.1, used by ScreenData.modify to
// merge successor blocks into a growing block).
func (b *Block) MoveLinesFromBlock(src *Block, first, count int) {
	start := first * src.width
	end := start + count*src.width
	if end > len(src.text) {
		end = len(src.text)
	}
	if start > len(src.text) {
		start = len(src.text)
	}
	moved := src.text[start:end]
	movedRuns := runsSlice(src.runs, start, end)

	base := len(b.text)
	b.text = append(b.text, moved...)
	b.runs = append(b.runs, runsShift(movedRuns, base)...)
	b.runs = coalesceRuns(sortRuns(b.runs))
	b.recomputeLineCount()
	b.dirty = true

	src.text = append(src.text[:start], src.text[end:]...)
	src.runs = runsDelete(src.runs, start, end, end-start)
	src.recomputeLineCount()
	src.dirty = true
}

// RemoveLine strips the characters belonging to physical row row from the
// tail of the block, shrinking its length (used by ScreenData.
// remove_lines_from_end / screen_data.cpp's identically named operation,
// which only ever removes the current last row).
func (b *Block) RemoveLine(row int) {
	start := row * b.width
	if start > len(b.text) {
		start = len(b.text)
	}
	b.runs = runsSlice(b.runs, 0, start)
	b.text = b.text[:start]
	b.recomputeLineCount()
	b.dirty = true
}

// ReleaseTextObjects returns the block's pooled presentation object, if
// any, to pool and clears the reference (§5, "Resource acquisition").
func (b *Block) ReleaseTextObjects(pool *SegmentPool) {
	if b.segment != nil {
		pool.Release(b.segment)
		b.segment = nil
	}
}

// DispatchEvents ensures a presentation TextSegment is acquired for this
// block and clears its dirty flag, mirroring Block::dispatchEvents in the
// (excluded from the retrieval pack) teacher block.cpp as referenced by
// screen_data.cpp's dispatchLineEvents.
func (b *Block) DispatchEvents(pool *SegmentPool) {
	if b.segment == nil {
		b.segment = pool.Acquire()
	}
	b.dirty = false
}
