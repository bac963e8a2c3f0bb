package yat

// Palette resolves Colors to RGB and broadcasts a change signal (OnChanged)
// when its defaults change (§5, "Shared resources"). Cursors do not
// subscribe to it: they store Colors by kind, and Resolve maps those
// through the live palette tables each time. It is grounded on the teacher's ANSIColorsRGB /
// Get256ColorRGB tables in color.go, generalized to a mutable, observable
// type rather than color.go's package-level var tables, since the spec
// treats the palette as "mutable only through the configuration path."
type Palette struct {
	standard        [16]RGB
	defaultFg       RGB
	defaultBg       RGB
	changed         signal[struct{}]
}

// ansiColorsRGB is the standard 16-color ANSI table, copied from the
// teacher's color.go ANSIColorsRGB.
var ansiColorsRGB = [16]RGB{
	{R: 0, G: 0, B: 0},
	{R: 170, G: 0, B: 0},
	{R: 0, G: 170, B: 0},
	{R: 170, G: 85, B: 0},
	{R: 0, G: 0, B: 170},
	{R: 170, G: 0, B: 170},
	{R: 0, G: 170, B: 170},
	{R: 170, G: 170, B: 170},
	{R: 85, G: 85, B: 85},
	{R: 255, G: 85, B: 85},
	{R: 85, G: 255, B: 85},
	{R: 255, G: 255, B: 85},
	{R: 85, G: 85, B: 255},
	{R: 255, G: 85, B: 255},
	{R: 85, G: 255, B: 255},
	{R: 255, G: 255, B: 255},
}

// NewPalette creates a palette with the standard ANSI 16 colors and the
// teacher's default dark-background scheme (color.go DefaultForeground/
// DefaultBackground).
func NewPalette() *Palette {
	p := &Palette{standard: ansiColorsRGB}
	p.defaultFg = RGB{R: 212, G: 212, B: 212}
	p.defaultBg = RGB{R: 30, G: 30, B: 30}
	return p
}

// DefaultForeground and DefaultBackground resolve the unset/default color.
func (p *Palette) DefaultForeground() RGB { return p.defaultFg }
func (p *Palette) DefaultBackground() RGB { return p.defaultBg }

// SetDefaults changes the resolved default fg/bg and broadcasts Changed.
func (p *Palette) SetDefaults(fg, bg RGB) {
	p.defaultFg = fg
	p.defaultBg = bg
	p.changed.emit(struct{}{})
}

// Standard resolves one of the 16 standard colors.
func (p *Palette) Standard(index uint8) RGB {
	if int(index) >= len(p.standard) {
		return p.standard[7]
	}
	return p.standard[index]
}

// Palette256 resolves a 256-color palette index the way color.go's
// Get256ColorRGB does: 0-15 from the standard table, 16-231 as a 6x6x6
// color cube, 232-255 as a grayscale ramp.
func (p *Palette) Palette256(idx int) RGB {
	if idx < 0 {
		idx = 0
	} else if idx > 255 {
		idx = 255
	}
	if idx < 16 {
		return p.Standard(uint8(idx))
	}
	if idx < 232 {
		idx -= 16
		b := idx % 6
		g := (idx / 6) % 6
		r := idx / 36
		return RGB{R: uint8(r * 51), G: uint8(g * 51), B: uint8(b * 51)}
	}
	gray := uint8((idx-232)*10 + 8)
	return RGB{R: gray, G: gray, B: gray}
}

// Resolve maps a Color to concrete RGB, re-resolving defaults/standard
// colors through the live palette tables every time (§5). isFg selects
// which default applies when c is the unset/default color.
func (p *Palette) Resolve(c Color, isFg bool) RGB {
	switch c.Kind {
	case ColorStandard:
		return p.Standard(c.Index)
	case ColorPalette256:
		return p.Palette256(int(c.Index))
	case ColorTrueColor:
		return c.RGB
	default:
		if isFg {
			return p.defaultFg
		}
		return p.defaultBg
	}
}

// OnChanged subscribes to palette change notifications.
func (p *Palette) OnChanged(fn func()) func() {
	return p.changed.subscribe(func(struct{}) { fn() })
}
