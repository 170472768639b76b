package search

import (
	"testing"
	"time"

	"github.com/yiblet/clipd/internal/item"
)

func textItems(contents ...string) []item.Item {
	items := make([]item.Item, len(contents))
	for i, c := range contents {
		items[i] = item.New(item.KindText, c)
	}
	return items
}

func snapshotFunc(history, favorites []item.Item) func(Source) []item.Item {
	return func(s Source) []item.Item {
		if s == SourceFavorites {
			return favorites
		}
		return history
	}
}

func contents(items []item.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Content
	}
	return out
}

func receive(t *testing.T, e *Engine, timeout time.Duration) []item.Item {
	t.Helper()
	select {
	case items := <-e.Results():
		return items
	case <-time.After(timeout):
		t.Fatal("Timed out waiting for search results")
		return nil
	}
}

func assertNoPublish(t *testing.T, e *Engine, wait time.Duration) {
	t.Helper()
	select {
	case items := <-e.Results():
		t.Fatalf("Unexpected publish: %v", contents(items))
	case <-time.After(wait):
	}
}

func TestEngine_EmptyQueryImmediate(t *testing.T) {
	history := textItems("one", "two")

	// An hour-long debounce proves the empty-query path never schedules
	// a timer
	e := NewEngineWithDebounce(snapshotFunc(history, nil), time.Hour)

	e.Search("", SourceHistory)

	if e.Searching() {
		t.Error("Expected Searching false after empty query")
	}

	select {
	case items := <-e.Results():
		if len(items) != 2 {
			t.Errorf("Expected full list of 2 items, got %v", contents(items))
		}
	default:
		t.Fatal("Expected empty query to publish synchronously")
	}
}

func TestEngine_FilterMatching(t *testing.T) {
	history := textItems("Hello World", "foo\nbar", "other")
	e := NewEngineWithDebounce(snapshotFunc(history, nil), 10*time.Millisecond)

	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{"case insensitive", "hello", []string{"Hello World"}},
		{"substring", "orl", []string{"Hello World"}},
		{"display text with collapsed whitespace", "foo bar", []string{"foo\nbar"}},
		{"no matches", "zzz", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e.Search(tt.query, SourceHistory)

			items := receive(t, e, time.Second)
			got := contents(items)
			if len(got) != len(tt.expected) {
				t.Fatalf("Expected %v, got %v", tt.expected, got)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("Expected %v, got %v", tt.expected, got)
					break
				}
			}
		})
	}
}

func TestEngine_Monotonicity(t *testing.T) {
	// "cab" matches both queries, "car" matches only the first
	history := textItems("cab", "car")
	e := NewEngineWithDebounce(snapshotFunc(history, nil), 40*time.Millisecond)

	e.Search("a", SourceHistory)
	time.Sleep(5 * time.Millisecond)
	e.Search("ab", SourceHistory)

	items := receive(t, e, time.Second)
	if len(items) != 1 || items[0].Content != "cab" {
		t.Fatalf("Expected only the ab result set, got %v", contents(items))
	}

	// The superseded "a" task must never publish
	assertNoPublish(t, e, 150*time.Millisecond)
}

func TestEngine_SearchingFlag(t *testing.T) {
	history := textItems("one")
	e := NewEngineWithDebounce(snapshotFunc(history, nil), 50*time.Millisecond)

	e.Search("one", SourceHistory)

	if !e.Searching() {
		t.Error("Expected Searching true while the filter is pending")
	}

	receive(t, e, time.Second)

	if e.Searching() {
		t.Error("Expected Searching false after publish")
	}
}

func TestEngine_ResetCancelsPending(t *testing.T) {
	history := textItems("cab", "car")
	e := NewEngineWithDebounce(snapshotFunc(history, nil), 50*time.Millisecond)

	e.Search("car", SourceHistory)
	e.Reset(SourceHistory)

	if e.Searching() {
		t.Error("Expected Searching false after reset")
	}

	items := receive(t, e, time.Second)
	if len(items) != 2 {
		t.Fatalf("Expected reset to publish the full list, got %v", contents(items))
	}

	assertNoPublish(t, e, 150*time.Millisecond)
}

func TestEngine_SourceSwitchCancels(t *testing.T) {
	history := textItems("h1")
	favorites := textItems("f1")
	e := NewEngineWithDebounce(snapshotFunc(history, favorites), 40*time.Millisecond)

	e.Search("1", SourceHistory)
	time.Sleep(5 * time.Millisecond)
	e.Search("1", SourceFavorites)

	items := receive(t, e, time.Second)
	if len(items) != 1 || items[0].Content != "f1" {
		t.Fatalf("Expected favorites result set, got %v", contents(items))
	}

	assertNoPublish(t, e, 150*time.Millisecond)
}

func TestEngine_ReplaceOldestResult(t *testing.T) {
	history := textItems("one", "two")
	e := NewEngineWithDebounce(snapshotFunc(history, nil), 5*time.Millisecond)

	// Publish a full list nobody reads, then a narrower result
	e.Search("", SourceHistory)
	e.Search("one", SourceHistory)

	// Searching turns false in the same critical section as the publish,
	// so once it reads false the replacement has landed
	deadline := time.Now().Add(time.Second)
	for e.Searching() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	items := receive(t, e, time.Second)
	if len(items) != 1 || items[0].Content != "one" {
		t.Fatalf("Expected the stale unread set to be replaced, got %v", contents(items))
	}
}
