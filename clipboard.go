package yat

import "github.com/atotto/clipboard"

// ClipboardMode selects which X11-style selection buffer a copy targets.
// atotto/clipboard (wired the same way andyrewlee-amux's internal/app/
// clipboard.go and internal/ui/common/clipboard.go use it) only exposes
// the system clipboard, so ClipboardPrimary and ClipboardSystem both
// resolve to the same backend call; the distinction is kept so callers
// driving X11 PRIMARY-selection semantics (mouse selection) can still be
// written against the engine without change once a richer backend is
// plugged in.
type ClipboardMode int

const (
	ClipboardSystem ClipboardMode = iota
	ClipboardPrimary
)

// ClipboardWriter is the external collaborator named in spec.md §1
// ("the clipboard backend"). ScreenData.SendSelectionToClipboard falls back
// to systemClipboardWriter, which calls atotto/clipboard, when passed a nil
// writer.
type ClipboardWriter interface {
	WriteAll(text string) error
}

type systemClipboardWriter struct{}

func (systemClipboardWriter) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// SendSelectionToClipboard concatenates the text between start and end
// (combined scrollback+grid coordinates) and writes it to w, the way
// screen_data.cpp's sendSelectionToClipboard concatenates Scrollback::
// selection with the on-screen blocks' text before calling
// QGuiApplication::clipboard()->setText (§4.2).
func (sd *ScreenData) SendSelectionToClipboard(start, end Point, mode ClipboardMode, w ClipboardWriter) {
	if start.Y < 0 {
		return
	}
	if end.Y >= sd.ContentHeight() {
		return
	}
	if w == nil {
		w = systemClipboardWriter{}
	}

	var text string
	startedInScrollback := false
	scrollbackHeight := sd.scrollback.Height()

	if start.Y < scrollbackHeight {
		startedInScrollback = true
		endScrollback := end
		if end.Y >= scrollbackHeight {
			endScrollback = Point{X: sd.width, Y: scrollbackHeight - 1}
		}
		text = sd.scrollback.Selection(start, endScrollback)
	}

	if end.Y >= scrollbackHeight {
		var startInScreen Point
		if startedInScrollback {
			startInScreen = Point{0, 0}
		} else {
			startInScreen = Point{X: start.X, Y: start.Y - scrollbackHeight}
		}
		endInScreen := Point{X: end.X, Y: end.Y - scrollbackHeight}

		idx := sd.itForRow(startInScreen.Y)
		if idx < len(sd.blocks) {
			screenIndex := sd.blocks[idx].ScreenIndex()
			startPos := (startInScreen.Y-screenIndex)*sd.width + startInScreen.X
			for ; idx < len(sd.blocks); idx++ {
				b := sd.blocks[idx]
				endPos := b.Len()
				shouldBreak := false
				if screenIndex+b.LineCount() > endInScreen.Y {
					endPos = (endInScreen.Y-screenIndex)*sd.width + endInScreen.X
					shouldBreak = true
				}
				if endPos > b.Len() {
					endPos = b.Len()
				}
				if startPos < 0 {
					startPos = 0
				}
				if endPos < startPos {
					endPos = startPos
				}
				if text != "" {
					text += "\n"
				}
				text += string(b.Runes()[startPos:endPos])
				if shouldBreak {
					break
				}
				screenIndex += b.LineCount()
				startPos = 0
			}
		}
	}

	_ = w.WriteAll(text)
}
