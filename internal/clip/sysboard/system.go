// Package sysboard implements the clipboard provider on top of
// golang.design/x/clipboard. The library covers text and image
// representations; frontmost application lookup falls back to
// platform commands (osascript on macOS, xdotool/xprop on Linux).
package sysboard

import (
	"crypto/sha256"
	"log/slog"

	"golang.design/x/clipboard"

	"github.com/yiblet/clipd/internal/clip"
)

// System reads and writes the real system clipboard.
//
// The underlying library exposes no native change counter, so System
// emulates the macOS pasteboard generation counter: each ChangeCount call
// hashes the current contents and bumps an internal counter when the hash
// differs from the previous call. Calls are expected from a single polling
// goroutine; the CLI creates its own instance per invocation.
type System struct {
	headless bool
	count    int
	lastSum  [sha256.Size]byte
}

// New initializes the system clipboard. On headless machines (no display
// server) the returned instance degrades to a no-op board that never
// reports changes and discards writes.
func New() *System {
	s := &System{}
	if err := clipboard.Init(); err != nil {
		slog.Warn("clipboard unavailable, running headless", "err", err)
		s.headless = true
	}
	return s
}

// ChangeCount implements clip.Clipboard.
func (s *System) ChangeCount() int {
	if s.headless {
		return 0
	}

	h := sha256.New()
	h.Write(clipboard.Read(clipboard.FmtText))
	h.Write([]byte{0})
	h.Write(clipboard.Read(clipboard.FmtImage))

	var sum [sha256.Size]byte
	copy(sum[:], h.Sum(nil))
	if sum != s.lastSum {
		s.lastSum = sum
		s.count++
	}
	return s.count
}

// Read implements clip.Clipboard. Files and URL representations are not
// natively distinguishable through the library and report absent; URL
// detection happens downstream on the text representation.
func (s *System) Read(kind clip.Kind) ([]byte, bool) {
	if s.headless {
		return nil, false
	}

	switch kind {
	case clip.KindText:
		data := clipboard.Read(clipboard.FmtText)
		return data, len(data) > 0
	case clip.KindImage:
		data := clipboard.Read(clipboard.FmtImage)
		return data, len(data) > 0
	default:
		return nil, false
	}
}

// Write implements clip.Clipboard. URL and file payloads are written as
// text, which is how every receiving application expects to paste them.
func (s *System) Write(kind clip.Kind, data []byte) error {
	if s.headless {
		return nil
	}

	switch kind {
	case clip.KindImage:
		clipboard.Write(clipboard.FmtImage, data)
	default:
		clipboard.Write(clipboard.FmtText, data)
	}
	return nil
}

// Clear implements clip.Clipboard.
func (s *System) Clear() error {
	if s.headless {
		return nil
	}
	clipboard.Write(clipboard.FmtText, []byte{})
	return nil
}
