package history

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/yiblet/clipd/internal/config"
	"github.com/yiblet/clipd/internal/item"
	"github.com/yiblet/clipd/internal/store"
)

// Manager owns the in-memory history and favorites lists. All mutations are
// synchronous and immediately observable; persistence runs on a background
// worker that always writes the latest full snapshot, so a mutation never
// waits on disk and overlapping saves are safe (last writer wins).
type Manager struct {
	store store.Store
	cfg   config.Provider

	mu        sync.Mutex
	history   []item.Item
	favorites []item.Item

	updates chan struct{}

	// persister state: one latest-snapshot slot per list plus a queue of
	// blob references to delete
	pmu              sync.Mutex
	pendingHistory   []item.Item
	historyDirty     bool
	pendingFavorites []item.Item
	favoritesDirty   bool
	pendingDeletes   []string

	kick      chan struct{}
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewManager loads both lists from the store and starts the persistence worker.
func NewManager(s store.Store, cfg config.Provider) (*Manager, error) {
	history, err := s.LoadHistory()
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	favorites, err := s.LoadFavorites()
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}

	m := &Manager{
		store:     s,
		cfg:       cfg,
		history:   history,
		favorites: favorites,
		updates:   make(chan struct{}, 1),
		kick:      make(chan struct{}, 1),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
	}

	go m.persistLoop()

	return m, nil
}

// Insert adds a freshly captured item at the head of history. The item is
// dropped when its content matches the current head (immediate-duplicate
// suppression; the rest of the list is not scanned). Returns whether the
// item was inserted.
func (m *Manager) Insert(it item.Item) bool {
	m.mu.Lock()
	if len(m.history) > 0 && m.history[0].Content == it.Content {
		m.mu.Unlock()
		return false
	}

	m.history = append([]item.Item{it}, m.history...)
	evicted := m.evictLocked()
	snap := snapshot(m.history)
	m.mu.Unlock()

	m.queueDeletes(ownedRefs(evicted))
	m.queueHistory(snap)
	m.notify()
	return true
}

// NewBlankItem synthesizes an empty text item and inserts it at the head of
// history, bypassing duplicate suppression.
func (m *Manager) NewBlankItem() item.Item {
	it := item.New(item.KindText, "")

	m.mu.Lock()
	m.history = append([]item.Item{it}, m.history...)
	evicted := m.evictLocked()
	snap := snapshot(m.history)
	m.mu.Unlock()

	m.queueDeletes(ownedRefs(evicted))
	m.queueHistory(snap)
	m.notify()
	return it
}

// ToggleFavorite adds the item to favorites if absent by id, else removes it.
// Favorites hold their own copy of the item. Returns whether the item is a
// favorite after the call.
func (m *Manager) ToggleFavorite(it item.Item) bool {
	m.mu.Lock()
	var favorited bool
	if i := indexByID(m.favorites, it.ID); i >= 0 {
		m.favorites = append(m.favorites[:i], m.favorites[i+1:]...)
	} else {
		m.favorites = append([]item.Item{it}, m.favorites...)
		favorited = true
	}
	snap := snapshot(m.favorites)
	m.mu.Unlock()

	m.queueFavorites(snap)
	m.notify()
	return favorited
}

// RemoveFavorite removes the item with the given id from favorites only.
// History is untouched. Returns whether anything was removed.
func (m *Manager) RemoveFavorite(id string) bool {
	m.mu.Lock()
	i := indexByID(m.favorites, id)
	if i < 0 {
		m.mu.Unlock()
		return false
	}
	m.favorites = append(m.favorites[:i], m.favorites[i+1:]...)
	snap := snapshot(m.favorites)
	m.mu.Unlock()

	m.queueFavorites(snap)
	m.notify()
	return true
}

// ClearHistory empties the history list and deletes every image blob it
// owned. Favorites are untouched; a favorite sharing a deleted blob will
// report its image as unavailable.
func (m *Manager) ClearHistory() {
	m.mu.Lock()
	refs := ownedRefs(m.history)
	m.history = nil
	m.mu.Unlock()

	m.queueDeletes(refs)
	m.queueHistory(nil)
	m.notify()
}

// UpdateContent replaces the content of the item with the given id in
// whichever lists contain it. Id, timestamp, kind, and image reference are
// preserved. Returns whether any list changed.
func (m *Manager) UpdateContent(id, content string) bool {
	m.mu.Lock()
	var histSnap, favSnap []item.Item
	if i := indexByID(m.history, id); i >= 0 {
		m.history[i].Content = content
		histSnap = snapshot(m.history)
	}
	if i := indexByID(m.favorites, id); i >= 0 {
		m.favorites[i].Content = content
		favSnap = snapshot(m.favorites)
	}
	m.mu.Unlock()

	if histSnap == nil && favSnap == nil {
		return false
	}
	if histSnap != nil {
		m.queueHistory(histSnap)
	}
	if favSnap != nil {
		m.queueFavorites(favSnap)
	}
	m.notify()
	return true
}

// DeleteItem removes the item with the given id from both lists and deletes
// its image blob if it owned one. Returns whether anything was removed.
func (m *Manager) DeleteItem(id string) bool {
	m.mu.Lock()
	var ref string
	var histSnap, favSnap []item.Item
	if i := indexByID(m.history, id); i >= 0 {
		ref = m.history[i].ImageRef
		m.history = append(m.history[:i], m.history[i+1:]...)
		histSnap = ensureNotNil(snapshot(m.history))
	}
	if i := indexByID(m.favorites, id); i >= 0 {
		if ref == "" {
			ref = m.favorites[i].ImageRef
		}
		m.favorites = append(m.favorites[:i], m.favorites[i+1:]...)
		favSnap = ensureNotNil(snapshot(m.favorites))
	}
	m.mu.Unlock()

	if histSnap == nil && favSnap == nil {
		return false
	}
	if ref != "" {
		m.queueDeletes([]string{ref})
	}
	if histSnap != nil {
		m.queueHistory(histSnap)
	}
	if favSnap != nil {
		m.queueFavorites(favSnap)
	}
	m.notify()
	return true
}

// History returns a copy of the current history list, newest first.
func (m *Manager) History() []item.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	return snapshot(m.history)
}

// Favorites returns a copy of the current favorites list, newest first.
func (m *Manager) Favorites() []item.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	return snapshot(m.favorites)
}

// Updates returns a channel that receives a signal after each mutation.
// The channel has capacity one and signals are dropped when nobody is
// listening, so consumers see "something changed" rather than every change.
func (m *Manager) Updates() <-chan struct{} {
	return m.updates
}

// Close flushes pending saves and closes the store. Mutations issued after
// Close are not persisted.
func (m *Manager) Close() error {
	m.closeOnce.Do(func() {
		close(m.quit)
	})
	<-m.done
	return m.store.Close()
}

// evictLocked truncates history to the configured maximum and returns the
// evicted tail. Caller holds mu.
func (m *Manager) evictLocked() []item.Item {
	max := m.cfg.MaxHistorySize()
	if max <= 0 || len(m.history) <= max {
		return nil
	}
	evicted := snapshot(m.history[max:])
	m.history = m.history[:max]
	return evicted
}

func (m *Manager) notify() {
	select {
	case m.updates <- struct{}{}:
	default:
	}
}

func (m *Manager) queueHistory(snap []item.Item) {
	m.pmu.Lock()
	m.pendingHistory = snap
	m.historyDirty = true
	m.pmu.Unlock()
	m.kickPersister()
}

func (m *Manager) queueFavorites(snap []item.Item) {
	m.pmu.Lock()
	m.pendingFavorites = snap
	m.favoritesDirty = true
	m.pmu.Unlock()
	m.kickPersister()
}

func (m *Manager) queueDeletes(refs []string) {
	if len(refs) == 0 {
		return
	}
	m.pmu.Lock()
	m.pendingDeletes = append(m.pendingDeletes, refs...)
	m.pmu.Unlock()
	m.kickPersister()
}

func (m *Manager) kickPersister() {
	select {
	case m.kick <- struct{}{}:
	default:
	}
}

// persistLoop is the single background writer. Each wakeup drains the
// pending slots and writes whatever is there; a save that races a newer
// mutation just gets superseded by the next wakeup.
func (m *Manager) persistLoop() {
	defer close(m.done)
	for {
		select {
		case <-m.kick:
			m.flush()
		case <-m.quit:
			m.flush()
			return
		}
	}
}

func (m *Manager) flush() {
	m.pmu.Lock()
	histSnap, histDirty := m.pendingHistory, m.historyDirty
	favSnap, favDirty := m.pendingFavorites, m.favoritesDirty
	deletes := m.pendingDeletes
	m.pendingHistory, m.historyDirty = nil, false
	m.pendingFavorites, m.favoritesDirty = nil, false
	m.pendingDeletes = nil
	m.pmu.Unlock()

	for _, ref := range deletes {
		if err := m.store.Images().Delete(ref); err != nil {
			slog.Warn("failed to delete image blob", "ref", ref, "err", err)
		}
	}

	// Failed saves are logged and dropped; memory stays authoritative and
	// the next successful save writes a complete snapshot anyway.
	if histDirty {
		if err := m.store.SaveHistory(histSnap); err != nil {
			slog.Warn("failed to persist history", "err", err)
		}
	}
	if favDirty {
		if err := m.store.SaveFavorites(favSnap); err != nil {
			slog.Warn("failed to persist favorites", "err", err)
		}
	}
}

func indexByID(items []item.Item, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func snapshot(items []item.Item) []item.Item {
	if len(items) == 0 {
		return nil
	}
	out := make([]item.Item, len(items))
	copy(out, items)
	return out
}

// ensureNotNil keeps "list changed to empty" distinguishable from "list
// unchanged" when a deletion empties a list.
func ensureNotNil(items []item.Item) []item.Item {
	if items == nil {
		return []item.Item{}
	}
	return items
}

func ownedRefs(items []item.Item) []string {
	var refs []string
	for _, it := range items {
		if it.ImageRef != "" {
			refs = append(refs, it.ImageRef)
		}
	}
	return refs
}
