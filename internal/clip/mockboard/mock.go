// Package mockboard provides a scripted clipboard implementation for testing.
package mockboard

import (
	"strings"
	"sync"

	"github.com/yiblet/clipd/internal/clip"
)

// Mock implements clip.Clipboard and clip.AppInspector for tests.
// Every mutation replaces the full contents and bumps the change counter,
// mirroring how real pasteboards behave.
type Mock struct {
	mu       sync.Mutex
	reps     map[clip.Kind][]byte
	count    int
	frontApp string
	clears   int
}

// New creates an empty mock clipboard
func New() *Mock {
	return &Mock{reps: make(map[clip.Kind][]byte)}
}

// Put replaces the clipboard contents with the given representations
// and bumps the change counter.
func (m *Mock) Put(reps map[clip.Kind][]byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reps = make(map[clip.Kind][]byte, len(reps))
	for k, v := range reps {
		m.reps[k] = append([]byte(nil), v...)
	}
	m.count++
}

// PutText simulates a user copying plain text
func (m *Mock) PutText(text string) {
	m.Put(map[clip.Kind][]byte{clip.KindText: []byte(text)})
}

// PutImage simulates a user copying an image
func (m *Mock) PutImage(data []byte) {
	m.Put(map[clip.Kind][]byte{clip.KindImage: data})
}

// PutFiles simulates a user copying files
func (m *Mock) PutFiles(paths ...string) {
	m.Put(map[clip.Kind][]byte{clip.KindFiles: []byte(strings.Join(paths, "\n"))})
}

// ChangeCount implements clip.Clipboard
func (m *Mock) ChangeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

// Read implements clip.Clipboard
func (m *Mock) Read(kind clip.Kind) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.reps[kind]
	if !ok || len(data) == 0 {
		return nil, false
	}
	return append([]byte(nil), data...), true
}

// Write implements clip.Clipboard
func (m *Mock) Write(kind clip.Kind, data []byte) error {
	m.Put(map[clip.Kind][]byte{kind: data})
	return nil
}

// Clear implements clip.Clipboard
func (m *Mock) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reps = make(map[clip.Kind][]byte)
	m.count++
	m.clears++
	return nil
}

// Clears returns how many times Clear was called
func (m *Mock) Clears() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clears
}

// SetFrontmostApp sets the identifier FrontmostAppID reports.
// An empty identifier makes the frontmost app unknown.
func (m *Mock) SetFrontmostApp(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frontApp = id
}

// FrontmostAppID implements clip.AppInspector
func (m *Mock) FrontmostAppID() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frontApp, m.frontApp != ""
}
