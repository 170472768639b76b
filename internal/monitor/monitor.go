package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/yiblet/clipd/internal/clip"
	"github.com/yiblet/clipd/internal/config"
	"github.com/yiblet/clipd/internal/history"
	"github.com/yiblet/clipd/internal/item"
	"github.com/yiblet/clipd/internal/store"
)

// DefaultPollInterval is how often the capture loop checks the clipboard
// generation counter.
const DefaultPollInterval = 500 * time.Millisecond

// Options configures a Monitor.
type Options struct {
	Board     clip.Clipboard
	Inspector clip.AppInspector
	Manager   *history.Manager
	Config    config.Provider
	Images    store.ImageStore
	Interval  time.Duration
}

// Monitor polls the system clipboard and feeds genuine changes through the
// classifier into the history manager. The Run loop owns all clipboard
// access, the change counter, and the in-flight flag; classification and
// image persistence run on a background goroutine, at most one capture at
// a time. Ticks that arrive while a capture is in flight are dropped, not
// queued.
type Monitor struct {
	board     clip.Clipboard
	inspector clip.AppInspector
	manager   *history.Manager
	cfg       config.Provider
	images    store.ImageStore
	interval  time.Duration

	lastChange int
	processing bool

	captureCh chan captureResult
	copyCh    chan copyRequest
}

type captureResult struct {
	item item.Item
	ok   bool
}

type copyRequest struct {
	item  item.Item
	reply chan error
}

// New creates a monitor. The clipboard generation present at creation time
// counts as already seen, so pre-existing clipboard contents are not
// captured on startup.
func New(opts Options) *Monitor {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	return &Monitor{
		board:      opts.Board,
		inspector:  opts.Inspector,
		manager:    opts.Manager,
		cfg:        opts.Config,
		images:     opts.Images,
		interval:   interval,
		lastChange: opts.Board.ChangeCount(),
		captureCh:  make(chan captureResult, 1),
		copyCh:     make(chan copyRequest),
	}
}

// Run drives the capture loop until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	slog.Info("clipboard monitor started", "interval", m.interval)

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-ticker.C:
			m.tick()

		case res := <-m.captureCh:
			m.finishCapture(res)

		case req := <-m.copyCh:
			req.reply <- m.writeItem(req.item)
		}
	}
}

// Copy writes the item back to the system clipboard using the same
// representation it was captured with, without the write being re-captured
// as a new history entry. Must only be called while Run is active.
func (m *Monitor) Copy(ctx context.Context, it item.Item) error {
	req := copyRequest{item: it, reply: make(chan error, 1)}

	select {
	case m.copyCh <- req:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-req.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// tick runs one poll cycle on the owning loop.
func (m *Monitor) tick() {
	count := m.board.ChangeCount()
	if count == m.lastChange {
		return
	}

	// Consume the generation before any processing so a slow capture never
	// reprocesses the same change.
	m.lastChange = count

	if m.sensitiveSource() {
		return
	}

	if m.processing {
		// At most one capture in flight; this change is dropped, not queued.
		return
	}

	snap, ok := m.readSnapshot()
	if !ok {
		return
	}

	m.processing = true
	go m.classify(snap)
}

// sensitiveSource reports whether the frontmost application's copies must
// be skipped. An unknown frontmost application never blocks capture.
func (m *Monitor) sensitiveSource() bool {
	if m.inspector == nil {
		return false
	}

	appID, ok := m.inspector.FrontmostAppID()
	if !ok {
		return false
	}

	if isSensitiveApp(appID) {
		slog.Debug("skipping capture from sensitive application", "app", appID)
		return true
	}

	if isTerminalApp(appID) && !m.cfg.MonitorTerminalApps() {
		slog.Debug("skipping capture from terminal application", "app", appID)
		return true
	}

	return false
}

// readSnapshot reads every available representation. Clipboard reads happen
// here, on the loop, because pasteboard APIs are not safe to call from
// arbitrary goroutines.
func (m *Monitor) readSnapshot() (item.Snapshot, bool) {
	var snap item.Snapshot
	var any bool

	if data, ok := m.board.Read(clip.KindImage); ok {
		snap.Image = data
		any = true
	}
	if data, ok := m.board.Read(clip.KindText); ok {
		snap.Text = string(data)
		any = true
	}
	if data, ok := m.board.Read(clip.KindURL); ok {
		snap.URL = string(data)
		any = true
	}
	if data, ok := m.board.Read(clip.KindFiles); ok {
		snap.Files = strings.Split(string(data), "\n")
		any = true
	}

	return snap, any
}

// classify runs off the loop: it types the snapshot, persists image bytes,
// and hands the result back for insertion.
func (m *Monitor) classify(snap item.Snapshot) {
	payload, ok := item.Classify(snap)
	if !ok {
		m.captureCh <- captureResult{}
		return
	}

	it := item.New(payload.Kind, payload.Content)
	if payload.Kind == item.KindImage {
		ref, err := m.images.Save(it.ID, payload.Image)
		if err != nil {
			// The item still enters history; it renders as image
			// unavailable.
			slog.Warn("failed to persist captured image", "id", it.ID, "err", err)
		} else {
			it.ImageRef = ref
		}
	}

	m.captureCh <- captureResult{item: it, ok: true}
}

// finishCapture clears the in-flight flag and inserts a successful capture.
func (m *Monitor) finishCapture(res captureResult) {
	m.processing = false
	if !res.ok {
		return
	}

	if m.manager.Insert(res.item) {
		slog.Debug("captured clipboard item", "kind", res.item.Kind, "id", res.item.ID)
	}
}

// writeItem puts the item back on the clipboard and consumes the resulting
// generation bump so the next tick does not treat it as a fresh copy.
func (m *Monitor) writeItem(it item.Item) error {
	if err := WriteItem(m.board, m.images, it); err != nil {
		return err
	}

	m.lastChange = m.board.ChangeCount()
	return nil
}

// WriteItem writes an item to a clipboard using the representation it was
// captured with. Image items resolve their blob through the image store
// first.
func WriteItem(board clip.Clipboard, images store.ImageStore, it item.Item) error {
	var kind clip.Kind
	var data []byte

	switch it.Kind {
	case item.KindImage:
		blob, err := images.Load(it.ImageRef)
		if err != nil {
			return fmt.Errorf("image unavailable: %w", err)
		}
		kind, data = clip.KindImage, blob
	case item.KindFile:
		kind, data = clip.KindFiles, []byte(it.Content)
	case item.KindURL:
		kind, data = clip.KindURL, []byte(it.Content)
	default:
		kind, data = clip.KindText, []byte(it.Content)
	}

	if err := board.Write(kind, data); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}

	return nil
}
