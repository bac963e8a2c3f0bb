package yat

// TextSegment is an opaque handle the presentation layer attaches its own
// glyph-run state to. The engine never looks inside it; it only pools and
// recycles the handles, mirroring the teacher's pooled `Text` objects
// (screen.cpp's createTextSegment/releaseTextSegment).
type TextSegment struct {
	Visible bool
}

// SegmentPool is Screen's free list of TextSegments: released segments go
// to the free list, and Acquire prefers the free list over allocation
// (§5, "Shared resources").
type SegmentPool struct {
	free []*TextSegment
}

// Acquire returns a segment from the free list, or a freshly allocated one
// if the free list is empty.
func (p *SegmentPool) Acquire() *TextSegment {
	if n := len(p.free); n > 0 {
		seg := p.free[n-1]
		p.free = p.free[:n-1]
		seg.Visible = true
		return seg
	}
	return &TextSegment{Visible: true}
}

// Release returns seg to the free list.
func (p *SegmentPool) Release(seg *TextSegment) {
	seg.Visible = false
	p.free = append(p.free, seg)
}
