package yat

import (
	"io"
	"sync"
	"time"
)

// dispatchScheduler coalesces many small mutations into a single
// DispatchChanges call: each RequestDispatch pushes the idle deadline out
// by 3ms, but a watchdog fires unconditionally 25ms after the first
// pending request, so a busy producer can never starve the presentation
// layer (§4.5, "Debounced dispatch scheduler").
type dispatchScheduler struct {
	mu       sync.Mutex
	idle     *time.Timer
	watchdog *time.Timer
	pending  bool
	onFire   func()
}

const (
	dispatchIdleDelay     = 3 * time.Millisecond
	dispatchWatchdogDelay = 25 * time.Millisecond
)

func newDispatchScheduler(onFire func()) *dispatchScheduler {
	return &dispatchScheduler{onFire: onFire}
}

// RequestDispatch marks a change pending and (re)arms the idle timer.
func (s *dispatchScheduler) RequestDispatch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.idle != nil {
		s.idle.Stop()
	}
	s.idle = time.AfterFunc(dispatchIdleDelay, s.fire)
	if !s.pending {
		s.pending = true
		s.watchdog = time.AfterFunc(dispatchWatchdogDelay, s.fire)
	}
}

func (s *dispatchScheduler) fire() {
	s.mu.Lock()
	if !s.pending {
		s.mu.Unlock()
		return
	}
	s.pending = false
	if s.idle != nil {
		s.idle.Stop()
	}
	if s.watchdog != nil {
		s.watchdog.Stop()
	}
	s.mu.Unlock()
	s.onFire()
}

// Flush fires immediately, bypassing both timers. Used by callers (and
// tests) that need dispatch to happen synchronously on demand rather than
// waiting out the debounce window.
func (s *dispatchScheduler) Flush() {
	s.mu.Lock()
	wasPending := s.pending
	s.pending = false
	if s.idle != nil {
		s.idle.Stop()
	}
	if s.watchdog != nil {
		s.watchdog.Stop()
	}
	s.mu.Unlock()
	if wasPending {
		s.onFire()
	}
}

func (s *dispatchScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = false
	if s.idle != nil {
		s.idle.Stop()
	}
	if s.watchdog != nil {
		s.watchdog.Stop()
	}
}

// Screen is the aggregate root: primary and alternate ScreenData, the
// current Cursor (with a save/restore stack), the Selection, the color
// Palette, and the debounced dispatch scheduler (§4.5), grounded on the
// teacher's (excluded-from-pack) screen.cpp, reproduced from
// original_source/backend/screen.cpp.
type Screen struct {
	primary   *ScreenData
	alternate *ScreenData
	usingAlt  bool

	pool     *SegmentPool
	palette  *Palette
	cursor   *Cursor
	cursors  []*Cursor // save/restore stack (DECSC/DECRC and alt-screen entry)
	selection *Selection

	// pendingCursors and cursorDeleteList implement §9's "deferred
	// deletion": cursors created since the last dispatch are announced via
	// cursorCreated (step 5), and cursors displaced from the stack are only
	// dropped at the next dispatch so listeners never observe a cursor
	// disappear mid-burst.
	pendingCursors   []*Cursor
	cursorDeleteList []*Cursor

	// lastDispatchedData is the ScreenData DispatchChanges last acted on
	// (the primary before the first dispatch); when CurrentScreenData() differs from it, the outgoing buffer's
	// presentation text objects are released (§4.5 step 1).
	lastDispatchedData *ScreenData

	width, height int
	title         string

	outbound io.Writer
	logger   Logger
	testMode bool

	scheduler *dispatchScheduler

	listeners
}

// ScreenOption configures a new Screen; see NewScreen.
type ScreenOption func(*screenConfig)

type screenConfig struct {
	width, height int
	maxScrollback int
	outbound      io.Writer
	palette       *Palette
	logger        Logger
	testMode      bool
}

// WithSize sets the initial grid dimensions (default 80x24).
func WithSize(width, height int) ScreenOption {
	return func(c *screenConfig) { c.width, c.height = width, height }
}

// WithScrollbackLimit sets the primary buffer's scrollback budget, in
// lines (default 1000). The alternate buffer always has a budget of 0
// (§4.5).
func WithScrollbackLimit(maxLines int) ScreenOption {
	return func(c *screenConfig) { c.maxScrollback = maxLines }
}

// WithOutbound sets the writer device-attribute responses and other
// engine-originated escape sequences are sent to, typically a pty master
// (grounded on the teacher's cli/terminal.go, which wires stdout the same
// way).
func WithOutbound(w io.Writer) ScreenOption {
	return func(c *screenConfig) { c.outbound = w }
}

// WithPalette supplies a pre-configured Palette instead of the engine's
// ANSI default (§5, "Shared resources").
func WithPalette(p *Palette) ScreenOption {
	return func(c *screenConfig) { c.palette = p }
}

// WithLogger installs a Logger; the default is a no-op (§10.1).
func WithLogger(l Logger) ScreenOption {
	return func(c *screenConfig) { c.logger = l }
}

// WithTestMode disables the debounced dispatch scheduler's timers so that
// tests can call FlushDispatch deterministically instead of racing real
// wall-clock timers, mirroring the teacher's `testMode` constructor flag.
func WithTestMode(enabled bool) ScreenOption {
	return func(c *screenConfig) { c.testMode = enabled }
}

// NewScreen constructs a Screen with an 80x24 grid and a 1000-line
// scrollback unless overridden by options.
func NewScreen(opts ...ScreenOption) *Screen {
	cfg := screenConfig{width: 80, height: 24, maxScrollback: 1000}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.palette == nil {
		cfg.palette = NewPalette()
	}
	if cfg.logger == nil {
		cfg.logger = NopLogger{}
	}

	pool := &SegmentPool{}
	s := &Screen{
		primary:   NewScreenData(cfg.width, cfg.height, cfg.maxScrollback, pool),
		alternate: NewScreenData(cfg.width, cfg.height, 0, pool),
		pool:      pool,
		palette:   cfg.palette,
		selection: NewSelection(),
		width:     cfg.width,
		height:    cfg.height,
		outbound:  cfg.outbound,
		logger:    cfg.logger,
		testMode:  cfg.testMode,
	}
	s.lastDispatchedData = s.primary
	s.primary.SetLogger(cfg.logger)
	s.alternate.SetLogger(cfg.logger)
	s.primary.Scrollback().SetLogger(cfg.logger)
	s.alternate.Scrollback().SetLogger(cfg.logger)

	s.cursor = NewCursor(s)
	s.pendingCursors = append(s.pendingCursors, s.cursor)
	s.wireScreenData(s.primary)
	s.wireScreenData(s.alternate)
	s.scheduler = newDispatchScheduler(s.DispatchChanges)
	return s
}

// wireScreenData hooks a ScreenData's resize/content-height signals into
// the current Cursor, the way screen.cpp connects ScreenData's signals to
// Cursor's slots at construction time.
func (s *Screen) wireScreenData(sd *ScreenData) {
	sd.OnDataWidthChanged(func(ch DataSizeChange) {
		if s.CurrentScreenData() == sd {
			s.cursor.WidthChanged(ch.NewSize, ch.Removed, ch.Reclaimed)
		}
	})
	sd.OnDataHeightChanged(func(ch DataSizeChange) {
		if s.CurrentScreenData() == sd {
			s.cursor.HeightChanged(ch.NewSize, ch.Removed, ch.Reclaimed)
		}
	})
	sd.OnContentHeightChanged(func() {
		if s.CurrentScreenData() == sd {
			s.cursor.NotifyContentHeightChanged()
		}
	})
}

// --- basic accessors -----------------------------------------------------

func (s *Screen) Width() int  { return s.width }
func (s *Screen) Height() int { return s.height }

// CurrentScreenData returns whichever buffer (primary or alternate) is
// active.
func (s *Screen) CurrentScreenData() *ScreenData {
	if s.usingAlt {
		return s.alternate
	}
	return s.primary
}

func (s *Screen) PrimaryScreenData() *ScreenData   { return s.primary }
func (s *Screen) AlternateScreenData() *ScreenData { return s.alternate }
func (s *Screen) Palette() *Palette                { return s.palette }
func (s *Screen) Cursor() *Cursor                  { return s.cursor }
func (s *Screen) Selection() *Selection            { return s.selection }
func (s *Screen) UsingAlternateScreenBuffer() bool  { return s.usingAlt }
func (s *Screen) Title() string                    { return s.title }

// --- buffer switching ------------------------------------------------------

// SaveCursor pushes a copy of the current cursor onto the save/restore
// stack (DECSC, §4.4/§4.5). The clone is queued to announce via
// cursorCreated at the next dispatch (§4.5 step 5).
func (s *Screen) SaveCursor() {
	clone := s.cursor.Clone()
	s.cursors = append(s.cursors, clone)
	s.pendingCursors = append(s.pendingCursors, clone)
}

// RestoreCursor pops the most recently saved cursor and makes it current
// (DECRC); a no-op if the stack is empty. The displaced cursor is queued
// for deferred deletion (§9) rather than dropped immediately, so it
// survives until the next dispatch reaps it.
func (s *Screen) RestoreCursor() {
	if len(s.cursors) == 0 {
		return
	}
	last := len(s.cursors) - 1
	s.cursorDeleteList = append(s.cursorDeleteList, s.cursor)
	s.cursor = s.cursors[last]
	s.cursor.screen = s
	s.cursors = s.cursors[:last]
}

// UseAlternateScreenBuffer saves the cursor and switches to the alternate
// buffer (DEC private mode 1049 "smcup"), clearing it first (§4.5).
func (s *Screen) UseAlternateScreenBuffer() {
	if s.usingAlt {
		return
	}
	s.SaveCursor()
	s.usingAlt = true
	s.alternate.Fill(' ')
	s.cursor.newX, s.cursor.newY = 0, 0
}

// UseNormalScreenBuffer switches back to the primary buffer and restores
// the cursor saved by UseAlternateScreenBuffer ("rmcup").
func (s *Screen) UseNormalScreenBuffer() {
	if !s.usingAlt {
		return
	}
	s.usingAlt = false
	s.RestoreCursor()
}

// --- resize ----------------------------------------------------------------

// Resize changes the active buffer's grid dimensions, driving the
// Cursor's WidthAboutToChange/WidthChanged/HeightChanged resize tracking
// (§4.2, §4.4).
func (s *Screen) Resize(width, height int) {
	s.logger.Debugf("screen: resize %dx%d -> %dx%d", s.width, s.height, width, height)
	s.cursor.WidthAboutToChange()
	s.width, s.height = width, height
	sd := s.CurrentScreenData()
	sd.SetSize(width, height, s.cursor.NewY())
	s.widthChanged.emit(struct{}{})
	s.heightChanged.emit(struct{}{})
	s.RequestDispatch()
}

// --- misc mutators ----------------------------------------------------------

func (s *Screen) Clear() {
	s.CurrentScreenData().Fill(' ')
	s.RequestDispatch()
}

func (s *Screen) SetTitle(title string) {
	if title == s.title {
		return
	}
	s.title = title
	s.screenTitleChanged.emit(title)
}

// Flash requests a visual bell (§6).
func (s *Screen) Flash() {
	s.flash.emit(struct{}{})
}

// SetDefaultColors updates the palette's default foreground/background
// and notifies subscribers if the background actually changed, the way
// terminal UIs retint their own chrome to match (§6,
// default_background_changed).
func (s *Screen) SetDefaultColors(fg, bg RGB) {
	oldBg := s.palette.DefaultBackground()
	s.palette.SetDefaults(fg, bg)
	if bg != oldBg {
		s.defaultBackgroundChanged.emit(bg)
	}
}

// --- device attribute responses ---------------------------------------

// SendPrimaryDeviceAttributes writes a VT102-compatible DA1 response
// (ESC [ ? 6 c) to the outbound writer, matching screen.cpp's
// sendPrimaryDeviceAttributes.
func (s *Screen) SendPrimaryDeviceAttributes() {
	s.writeOutbound([]byte("\x1b[?6c"))
}

// SendSecondaryDeviceAttributes writes a DA2 response identifying this
// engine as a VT220-class terminal, firmware version 95, ROM cartridge 0,
// matching screen.cpp's sendSecondaryDA.
func (s *Screen) SendSecondaryDeviceAttributes() {
	s.writeOutbound([]byte("\x1b[>1;95;0c"))
}

func (s *Screen) writeOutbound(data []byte) {
	if s.outbound == nil {
		return
	}
	_, _ = s.outbound.Write(data)
}

// WriteOutbound lets callers (e.g. an escape-sequence interpreter
// answering a query) send arbitrary bytes back up the same channel used
// for device-attribute responses.
func (s *Screen) WriteOutbound(data []byte) {
	s.writeOutbound(data)
}

// --- dispatch ---------------------------------------------------------

// RequestDispatch schedules a coalesced DispatchChanges call (§4.5). Call
// this after any mutation that should eventually reach the presentation
// layer; callers performing many mutations in a row only pay for one
// dispatch at the end of the burst.
func (s *Screen) RequestDispatch() {
	if s.testMode {
		s.DispatchChanges()
		return
	}
	s.scheduler.RequestDispatch()
}

// DispatchChanges commits every component's pending state and emits its
// queued notifications, in the fixed 7-step order screen.cpp's
// dispatchChanges uses (§4.5):
//  1. release the outgoing ScreenData's presentation text objects, if the
//     current buffer changed since the last dispatch;
//  2. the current ScreenData dispatches its per-line events;
//  3. emit the coarse textSegmentChanges signal;
//  4. (flash is emitted synchronously by Flash, not queued here);
//  5. reap deferred-deletion cursors and announce newly created ones;
//  6. each cursor commits pending state to current;
//  7. the selection commits.
func (s *Screen) DispatchChanges() {
	current := s.CurrentScreenData()
	if s.lastDispatchedData != nil && s.lastDispatchedData != current {
		s.lastDispatchedData.ReleaseTextObjects()
	}
	s.lastDispatchedData = current

	current.DispatchLineEvents()
	s.textSegmentChanges.emit(struct{}{})

	s.cursorDeleteList = nil
	for _, c := range s.pendingCursors {
		s.cursorCreated.emit(c)
	}
	s.pendingCursors = nil

	for _, c := range s.cursors {
		c.DispatchEvents()
	}
	s.cursor.DispatchEvents()
	s.selection.DispatchChanges()
}

// FlushDispatch forces any pending coalesced dispatch to run immediately,
// bypassing the idle/watchdog timers. In test mode nothing is ever pending
// (RequestDispatch dispatches synchronously), so FlushDispatch runs
// DispatchChanges unconditionally, committing changes made by calls that
// do not request a dispatch themselves, such as Cursor moves. Intended for
// tests and for shutdown paths that need a final, synchronous flush.
func (s *Screen) FlushDispatch() {
	if s.testMode {
		s.DispatchChanges()
		return
	}
	s.scheduler.Flush()
}

// Close stops the dispatch scheduler's timers. Safe to call once the
// Screen is no longer in use.
func (s *Screen) Close() {
	s.scheduler.Stop()
}

// --- subscriptions ----------------------------------------------------

func (s *Screen) OnWidthChanged(fn func()) func() {
	return s.widthChanged.subscribe(func(struct{}) { fn() })
}
func (s *Screen) OnHeightChanged(fn func()) func() {
	return s.heightChanged.subscribe(func(struct{}) { fn() })
}
func (s *Screen) OnCursorCreated(fn func(*Cursor)) func() { return s.cursorCreated.subscribe(fn) }
func (s *Screen) OnTextSegmentChanges(fn func()) func() {
	return s.textSegmentChanges.subscribe(func(struct{}) { fn() })
}
func (s *Screen) OnScreenTitleChanged(fn func(string)) func() {
	return s.screenTitleChanged.subscribe(fn)
}
func (s *Screen) OnFlash(fn func()) func() { return s.flash.subscribe(func(struct{}) { fn() }) }
func (s *Screen) OnDefaultBackgroundChanged(fn func(RGB)) func() {
	return s.defaultBackgroundChanged.subscribe(fn)
}
