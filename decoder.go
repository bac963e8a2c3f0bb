package yat

import "unicode/utf8"

// Decoder is the capability §9 calls "Polymorphic text decoders": GL/GR
// decoders implement decode(bytes) -> codepoints and reset(). A Cursor
// holds one GL and one GR decoder (§3); both are UTF8Decoder, text is
// decoded through the GL decoder only, and Cursor has no method that
// replaces either one, so SCS (select-character-set) sequences do not
// switch decoders.
type Decoder interface {
	// Decode decodes one codepoint from the front of data and returns it
	// plus the number of bytes consumed. On malformed input
	// it returns the replacement character and advances by one byte (§7:
	// "Decoding failure: decoder returns the replacement character, and
	// processing continues").
	Decode(data []byte) (r rune, consumed int)
	Reset()
}

// UTF8Decoder is the default GL/GR decoder, grounded on the teacher's
// parser.go decodeUTF8 helper and cursor.cpp's QTextCodec-based
// m_gl_text_codec/m_gr_text_codec, generalized to the Decoder interface
// that the 7-bit character-set decoders (§10.7) also implement.
type UTF8Decoder struct{}

// Decode implements Decoder using the standard library's UTF-8 routines in
// place of the teacher's hand-rolled continuation-byte accumulator, since
// the spec's decoding-failure contract (replacement char, keep going) is
// exactly what utf8.DecodeRune already guarantees.
func (UTF8Decoder) Decode(data []byte) (rune, int) {
	if len(data) == 0 {
		return utf8.RuneError, 0
	}
	r, size := utf8.DecodeRune(data)
	if size == 0 {
		size = 1
	}
	return r, size
}

func (UTF8Decoder) Reset() {}

// DECSpecialGraphicsDecoder maps the DEC Special Graphics bytes listed in
// decSpecialGraphics (line-drawing glyphs and a few symbols of the set
// selected via `ESC ( 0`) to their Unicode equivalents; every other byte
// decodes to itself. It is a single-byte-per-cell
// decoder, matching the `only_ascii` fast path §4.1 describes.
type DECSpecialGraphicsDecoder struct{}

var decSpecialGraphics = map[byte]rune{
	'j': '┘', 'k': '┐', 'l': '┌', 'm': '└', 'n': '┼',
	'q': '─', 't': '├', 'u': '┤', 'v': '┴', 'w': '┬', 'x': '│',
	'a': '▒', '`': '◆', 'f': '°', 'g': '±', '~': '·',
}

func (DECSpecialGraphicsDecoder) Decode(data []byte) (rune, int) {
	if len(data) == 0 {
		return utf8.RuneError, 0
	}
	if r, ok := decSpecialGraphics[data[0]]; ok {
		return r, 1
	}
	return rune(data[0]), 1
}

func (DECSpecialGraphicsDecoder) Reset() {}

// ASCIIDecoder is the trivial single-byte-per-cell 7-bit decoder used for
// the plain US-ASCII G0 set.
type ASCIIDecoder struct{}

func (ASCIIDecoder) Decode(data []byte) (rune, int) {
	if len(data) == 0 {
		return utf8.RuneError, 0
	}
	return rune(data[0]), 1
}

func (ASCIIDecoder) Reset() {}
