package yat

// Attr is a bitset of text attributes carried by a TextStyle.
type Attr uint16

const (
	AttrBold Attr = 1 << iota
	AttrItalic
	AttrUnderline
	AttrInverse
	AttrBlink
	AttrStrikethrough
	AttrFaint
)

// Has reports whether every bit set in want is also set in a.
func (a Attr) Has(want Attr) bool {
	return a&want == want
}

// RGB is a 24-bit color. Default/unset foreground and background colors are
// represented by the palette's DefaultForeground/DefaultBackground indices
// rather than a sentinel RGB value, so that palette changes (§5, "Shared
// resources") re-resolve correctly.
type RGB struct {
	R, G, B uint8
}

// TextStyle is an immutable bundle of foreground color, background color
// and attribute bitset. It is a value type: compared and copied by value,
// the way the teacher's Cell embeds its style fields directly (cell.go)
// and the original TextStyle struct in screen_data.cpp is passed by value.
type TextStyle struct {
	Fg    Color
	Bg    Color
	Attrs Attr
}

// Color mirrors the teacher's color.go Color type: it preserves how a color
// was specified (default / standard 16 / 256-palette / truecolor) so that a
// palette change can re-resolve default and standard colors without losing
// the original intent, which a bare resolved RGB could not do.
type Color struct {
	Kind  ColorKind
	Index uint8 // meaningful for ColorStandard (0-15) and ColorPalette256 (0-255)
	RGB   RGB   // meaningful for ColorTrueColor only
}

// ColorKind indicates how a Color was specified.
type ColorKind uint8

const (
	ColorDefault ColorKind = iota
	ColorStandard
	ColorPalette256
	ColorTrueColor
)

// DefaultFg and DefaultBg are the zero-value colors new cursors and cleared
// cells revert to; the palette resolves them at render/read time.
var (
	DefaultFg = Color{Kind: ColorDefault}
	DefaultBg = Color{Kind: ColorDefault}
)

// StandardColor builds a standard 16-color ANSI color (0-15), clamping out
// of range indices to white the way color.go's StandardColor does.
func StandardColor(index int) Color {
	if index < 0 || index > 15 {
		index = 7
	}
	return Color{Kind: ColorStandard, Index: uint8(index)}
}

// Palette256Color builds a 256-color palette color, clamping like
// color.go's PaletteColor.
func Palette256Color(index int) Color {
	if index < 0 || index > 255 {
		index = 7
	}
	return Color{Kind: ColorPalette256, Index: uint8(index)}
}

// TrueColorRGB builds a 24-bit true color.
func TrueColorRGB(r, g, b uint8) Color {
	return Color{Kind: ColorTrueColor, RGB: RGB{r, g, b}}
}

// IsDefault reports whether c is the unset default foreground/background.
func (c Color) IsDefault() bool {
	return c.Kind == ColorDefault
}

// DefaultTextStyle is the style new Cursors start with and cleared regions
// revert to (§4.1: "Styles of cleared regions revert to the engine's
// default style").
func DefaultTextStyle() TextStyle {
	return TextStyle{Fg: DefaultFg, Bg: DefaultBg, Attrs: 0}
}

// styleRun is one run of a Block's style run-list: [Start, Start+Len) share
// Style. The run-list must cover [0, len(text)) with no gaps (§3).
type styleRun struct {
	Start int
	Len   int
	Style TextStyle
}
