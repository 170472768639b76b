package search

import (
	"strings"
	"sync"
	"time"

	"github.com/yiblet/clipd/internal/item"
)

// DefaultDebounce is how long the engine waits after the last keystroke
// before running a filter.
const DefaultDebounce = 150 * time.Millisecond

// Source selects which list a search runs over.
type Source int

const (
	SourceHistory Source = iota
	SourceFavorites
)

// String returns the source name.
func (s Source) String() string {
	switch s {
	case SourceFavorites:
		return "favorites"
	default:
		return "history"
	}
}

// Engine filters a snapshot of items with a debounced, cancellable match
// pass. Every call to Search supersedes the previous one: a slow stale
// filter re-checks its generation at publish time and discards itself, so
// published results always reflect the most recently issued query.
type Engine struct {
	snapshot func(Source) []item.Item
	debounce time.Duration
	results  chan []item.Item

	mu         sync.Mutex
	generation uint64
	timer      *time.Timer
	searching  bool
}

// NewEngine creates an engine reading list snapshots through snapshot.
func NewEngine(snapshot func(Source) []item.Item) *Engine {
	return NewEngineWithDebounce(snapshot, DefaultDebounce)
}

// NewEngineWithDebounce creates an engine with a custom debounce delay.
// A zero delay runs the filter as soon as the scheduler allows, which is
// what one-shot command invocations want.
func NewEngineWithDebounce(snapshot func(Source) []item.Item, debounce time.Duration) *Engine {
	return &Engine{
		snapshot: snapshot,
		debounce: debounce,
		results:  make(chan []item.Item, 1),
	}
}

// Search schedules a case-insensitive substring match of query over the
// source list. An empty query publishes the full unfiltered list
// synchronously with no debounce delay.
func (e *Engine) Search(query string, source Source) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.generation++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}

	if query == "" {
		e.searching = false
		e.publishLocked(e.snapshot(source))
		return
	}

	gen := e.generation
	e.searching = true
	e.timer = time.AfterFunc(e.debounce, func() {
		e.run(gen, query, source)
	})
}

// Reset cancels any pending search and republishes the full source list.
func (e *Engine) Reset(source Source) {
	e.Search("", source)
}

// Results returns the channel search results are published on. The channel
// holds only the latest result set; an unread stale set is replaced rather
// than queued behind.
func (e *Engine) Results() <-chan []item.Item {
	return e.results
}

// Searching reports whether a debounced filter is still pending.
func (e *Engine) Searching() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.searching
}

// run executes one scheduled filter pass. The snapshot and match run off
// the lock; the generation check happens at publish time.
func (e *Engine) run(gen uint64, query string, source Source) {
	matched := filter(e.snapshot(source), query)

	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.generation {
		return
	}

	e.searching = false
	e.timer = nil
	e.publishLocked(matched)
}

// publishLocked replaces whatever is sitting unread in the results channel.
// Caller holds mu, so there is exactly one publisher at a time and the
// drain-then-send loop terminates.
func (e *Engine) publishLocked(items []item.Item) {
	for {
		select {
		case e.results <- items:
			return
		default:
			select {
			case <-e.results:
			default:
			}
		}
	}
}

// filter returns the items whose content or display text contains query,
// ignoring case.
func filter(items []item.Item, query string) []item.Item {
	q := strings.ToLower(query)
	matched := make([]item.Item, 0, len(items))
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Content), q) ||
			strings.Contains(strings.ToLower(it.DisplayText()), q) {
			matched = append(matched, it)
		}
	}
	return matched
}
