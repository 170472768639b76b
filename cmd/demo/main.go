package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/yiblet/clipd/internal/clip/mockboard"
	"github.com/yiblet/clipd/internal/config"
	"github.com/yiblet/clipd/internal/history"
	"github.com/yiblet/clipd/internal/item"
	"github.com/yiblet/clipd/internal/monitor"
	"github.com/yiblet/clipd/internal/search"
	"github.com/yiblet/clipd/internal/store/memstore"
)

func main() {
	fmt.Println("clipd Capture Pipeline Demo")

	// Create in-memory store and history manager
	st := memstore.NewMemoryStore()
	cfg := config.Static{HistoryLimit: 10, TerminalApps: false}

	manager, err := history.NewManager(st, cfg)
	if err != nil {
		log.Fatalf("Failed to create history manager: %v", err)
	}
	defer manager.Close()

	// Drive the monitor with a scripted clipboard instead of the real one
	board := mockboard.New()
	mon := monitor.New(monitor.Options{
		Board:     board,
		Inspector: board,
		Manager:   manager,
		Config:    cfg,
		Images:    st.Images(),
		Interval:  10 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- mon.Run(ctx)
	}()

	// Simulate a copy session
	copies := []string{
		"Hello, World! This is the first thing we copied.",
		"https://go.dev/blog/error-handling-and-go",
		"SELECT * FROM users WHERE created_at > '2023-01-01' ORDER BY created_at DESC LIMIT 10;",
		"Lorem ipsum dolor sit amet, consectetur adipiscing elit. Sed do eiusmod tempor incididunt ut labore et dolore magna aliqua.",
	}

	fmt.Println("\nSimulating clipboard copies:")
	for i, text := range copies {
		board.PutText(text)
		time.Sleep(50 * time.Millisecond)
		fmt.Printf("%d. copied %d bytes\n", i+1, len(text))
	}

	// A copy from a password manager never enters history
	board.SetFrontmostApp("com.1password.1password")
	board.PutText("hunter2")
	time.Sleep(50 * time.Millisecond)
	board.SetFrontmostApp("")

	// File paths get their own kind
	board.PutFiles("/tmp/report.pdf", "/tmp/notes.md")
	time.Sleep(50 * time.Millisecond)

	cancel()
	if err := <-done; err != nil {
		log.Fatalf("Monitor failed: %v", err)
	}

	// Show what was captured
	items := manager.History()
	fmt.Printf("\nCaptured %d item(s), newest first:\n", len(items))
	for i, it := range items {
		fmt.Printf("%d. [%s] %s\n", i, it.Kind, it.DisplayText())
	}

	// Favorite the URL and show the favorites list
	for _, it := range items {
		if it.Kind == item.KindURL {
			manager.ToggleFavorite(it)
		}
	}
	fmt.Printf("\nFavorites: %d item(s)\n", len(manager.Favorites()))

	// Run a search over the captured history
	engine := search.NewEngineWithDebounce(func(source search.Source) []item.Item {
		if source == search.SourceFavorites {
			return manager.Favorites()
		}
		return manager.History()
	}, 0)
	engine.Search("users", search.SourceHistory)
	matches := <-engine.Results()

	fmt.Printf("\nSearch for %q matched %d item(s):\n", "users", len(matches))
	for _, it := range matches {
		fmt.Printf("- %s\n", it.DisplayText())
	}

	fmt.Printf("\nDemo complete! (Using in-memory store)\n")
}
