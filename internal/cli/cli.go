package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/yiblet/clipd/internal/clip/sysboard"
	"github.com/yiblet/clipd/internal/config"
	"github.com/yiblet/clipd/internal/history"
	"github.com/yiblet/clipd/internal/item"
	"github.com/yiblet/clipd/internal/monitor"
	"github.com/yiblet/clipd/internal/search"
	"github.com/yiblet/clipd/internal/store"
	"github.com/yiblet/clipd/internal/store/dbstore"
)

// CLI handles the command-line interface
type CLI struct {
	configManager *config.Manager
	cfg           *config.Config
	provider      config.Provider
	watcher       *config.Watcher
	store         store.Store
	manager       *history.Manager
	board         *sysboard.System
}

// New creates a new CLI instance
func New() (*CLI, error) {
	return NewWithArgs(nil)
}

// NewWithArgs creates a new CLI instance wired for the parsed arguments
func NewWithArgs(args *Args) (*CLI, error) {
	configManager, err := config.NewManager()
	if err != nil {
		return nil, fmt.Errorf("failed to locate configuration: %w", err)
	}

	cfg, err := configManager.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Determine data directory (precedence: flag > env var > config > default)
	dataDir, err := resolveDataDir(args, cfg)
	if err != nil {
		return nil, err
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	// Create SQLite store with the image blobs alongside
	sqliteStore, err := dbstore.NewSQLiteStore(
		filepath.Join(dataDir, "clipd.db"),
		filepath.Join(dataDir, "images"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open database store: %w", err)
	}

	// The daemon follows config file edits live; one-shot commands read the
	// file once and pin the values.
	var provider config.Provider
	var watcher *config.Watcher
	if args != nil && args.Watch != nil {
		watcher, err = config.NewWatcher(configManager)
		if err != nil {
			sqliteStore.Close()
			return nil, fmt.Errorf("failed to watch configuration: %w", err)
		}
		provider = watcher
	} else {
		provider = config.Static{
			HistoryLimit: cfg.MaxHistorySize,
			TerminalApps: cfg.MonitorTerminalApps,
		}
	}

	// Create history manager backed by the store
	manager, err := history.NewManager(sqliteStore, provider)
	if err != nil {
		if watcher != nil {
			watcher.Close()
		}
		sqliteStore.Close()
		return nil, fmt.Errorf("failed to create history manager: %w", err)
	}

	// Create system clipboard
	board := sysboard.New()

	return &CLI{
		configManager: configManager,
		cfg:           cfg,
		provider:      provider,
		watcher:       watcher,
		store:         sqliteStore,
		manager:       manager,
		board:         board,
	}, nil
}

// Close flushes pending persistence and releases the store. Every
// invocation must close so that one-shot mutations reach disk before the
// process exits.
func (c *CLI) Close() error {
	if c.watcher != nil {
		c.watcher.Close()
	}
	return c.manager.Close()
}

// Execute runs the CLI command based on parsed arguments
func (c *CLI) Execute(args *Args) error {
	if err := args.Validate(); err != nil {
		return err
	}

	switch {
	case args.Watch != nil:
		return c.executeWatch(args.Watch)
	case args.List != nil:
		return c.executeList(args.List)
	case args.Search != nil:
		return c.executeSearch(args.Search)
	case args.Copy != nil:
		return c.executeCopy(args.Copy)
	case args.New != nil:
		return c.executeNew(args.New)
	case args.Edit != nil:
		return c.executeEdit(args.Edit)
	case args.Favorite != nil:
		return c.executeFavorite(args.Favorite)
	case args.Unfavorite != nil:
		return c.executeUnfavorite(args.Unfavorite)
	case args.Delete != nil:
		return c.executeDelete(args.Delete)
	case args.Clear != nil:
		return c.executeClear(args.Clear)
	case args.Wipe != nil:
		return c.executeWipe(args.Wipe)
	case args.Config != nil:
		return c.executeConfig(args.Config)
	default:
		// Default behavior: show the history list
		return c.executeList(&ListCmd{})
	}
}

// executeWatch handles the 'clipd watch' command. It runs the capture
// daemon until SIGINT or SIGTERM.
func (c *CLI) executeWatch(cmd *WatchCmd) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mon := monitor.New(monitor.Options{
		Board:     c.board,
		Inspector: c.board,
		Manager:   c.manager,
		Config:    c.provider,
		Images:    c.store.Images(),
		Interval:  c.cfg.PollInterval(),
	})

	return mon.Run(ctx)
}

// executeList handles the 'clipd list' command
func (c *CLI) executeList(cmd *ListCmd) error {
	items := c.manager.History()
	label := "history"
	if cmd.Favorites {
		items = c.manager.Favorites()
		label = "favorites"
	}

	if cmd.Limit != nil && *cmd.Limit < len(items) {
		items = items[:*cmd.Limit]
	}

	if cmd.JSON {
		return writeJSON(os.Stdout, items)
	}

	if len(items) == 0 {
		fmt.Printf("No items in %s.\n", label)
		return nil
	}

	favored := c.favoriteIDs()
	for i, it := range items {
		fmt.Println(renderItemLine(i, it, favored[it.ID]))
	}
	return nil
}

// executeSearch handles the 'clipd search' command
func (c *CLI) executeSearch(cmd *SearchCmd) error {
	source := search.SourceHistory
	if cmd.Favorites {
		source = search.SourceFavorites
	}

	// One-shot invocation, so there are no keystrokes to debounce.
	engine := search.NewEngineWithDebounce(c.snapshotFor, 0)
	engine.Search(cmd.Pattern, source)
	results := <-engine.Results()

	if cmd.JSON {
		return writeJSON(os.Stdout, results)
	}

	if len(results) == 0 {
		return fmt.Errorf("no matches found for pattern: %s", cmd.Pattern)
	}

	// Map IDs back to source list indexes so matches can be fed straight
	// to copy/favorite/delete.
	idToIndex := make(map[string]int)
	for idx, it := range c.snapshotFor(source) {
		idToIndex[it.ID] = idx
	}

	favored := c.favoriteIDs()
	for _, it := range results {
		index, ok := idToIndex[it.ID]
		if !ok {
			// Item was removed between filter and render
			continue
		}
		fmt.Println(renderItemLine(index, it, favored[it.ID]))
	}
	return nil
}

// executeCopy handles the 'clipd copy' command
func (c *CLI) executeCopy(cmd *CopyCmd) error {
	it, err := c.itemAt(cmd.Index, cmd.Favorites)
	if err != nil {
		return err
	}

	if err := monitor.WriteItem(c.board, c.store.Images(), it); err != nil {
		return fmt.Errorf("failed to copy item: %w", err)
	}

	fmt.Printf("Copied to clipboard: %s\n", it.DisplayText())
	return nil
}

// executeNew handles the 'clipd new' command
func (c *CLI) executeNew(cmd *NewCmd) error {
	c.manager.NewBlankItem()
	fmt.Println("Created blank item at index 0.")
	return nil
}

// executeEdit handles the 'clipd edit' command
func (c *CLI) executeEdit(cmd *EditCmd) error {
	it, err := c.itemAt(cmd.Index, cmd.Favorites)
	if err != nil {
		return err
	}

	var content string
	if cmd.Text != nil {
		content = *cmd.Text
	} else {
		// No text argument, read the new content from stdin
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		content = string(data)
	}

	if !c.manager.UpdateContent(it.ID, content) {
		return fmt.Errorf("item at index %d no longer exists", cmd.Index)
	}

	it.Content = content
	fmt.Printf("Updated item %d: %s\n", cmd.Index, it.DisplayText())
	return nil
}

// executeFavorite handles the 'clipd favorite' command
func (c *CLI) executeFavorite(cmd *FavoriteCmd) error {
	it, err := c.itemAt(cmd.Index, false)
	if err != nil {
		return err
	}

	if c.manager.ToggleFavorite(it) {
		fmt.Printf("Favorited: %s\n", it.DisplayText())
	} else {
		fmt.Printf("Unfavorited: %s\n", it.DisplayText())
	}
	return nil
}

// executeUnfavorite handles the 'clipd unfavorite' command
func (c *CLI) executeUnfavorite(cmd *UnfavoriteCmd) error {
	it, err := c.itemAt(cmd.Index, true)
	if err != nil {
		return err
	}

	c.manager.RemoveFavorite(it.ID)
	fmt.Printf("Unfavorited: %s\n", it.DisplayText())
	return nil
}

// executeDelete handles the 'clipd delete' command. The item leaves both
// history and favorites regardless of which list the index resolved
// against.
func (c *CLI) executeDelete(cmd *DeleteCmd) error {
	it, err := c.itemAt(cmd.Index, cmd.Favorites)
	if err != nil {
		return err
	}

	c.manager.DeleteItem(it.ID)
	fmt.Printf("Deleted: %s\n", it.DisplayText())
	return nil
}

// executeClear handles the 'clipd clear' command
func (c *CLI) executeClear(cmd *ClearCmd) error {
	items := c.manager.History()
	if len(items) == 0 {
		fmt.Println("History is already empty.")
		return nil
	}

	// Prompt for confirmation unless --force is used
	if !cmd.Force {
		fmt.Printf("This will delete %d item(s) from history. Continue? [y/N]: ", len(items))
		var response string
		fmt.Scanln(&response)
		response = strings.ToLower(strings.TrimSpace(response))
		if response != "y" && response != "yes" {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	c.manager.ClearHistory()
	fmt.Printf("Cleared %d item(s) from history.\n", len(items))
	return nil
}

// executeWipe handles the 'clipd wipe' command
func (c *CLI) executeWipe(cmd *WipeCmd) error {
	if err := c.board.Clear(); err != nil {
		return fmt.Errorf("failed to clear clipboard: %w", err)
	}
	fmt.Println("System clipboard cleared.")
	return nil
}

// executeConfig handles the 'clipd config' command
func (c *CLI) executeConfig(cmd *ConfigCmd) error {
	switch {
	case cmd.Get != nil:
		return c.executeConfigGet(cmd.Get)
	case cmd.Set != nil:
		return c.executeConfigSet(cmd.Set)
	case cmd.List != nil:
		return c.executeConfigList(cmd.List)
	default:
		return fmt.Errorf("no config subcommand specified")
	}
}

// executeConfigGet handles the 'clipd config get' command
func (c *CLI) executeConfigGet(cmd *ConfigGetCmd) error {
	value, err := c.configManager.Get(cmd.Key)
	if err != nil {
		return fmt.Errorf("failed to get config value: %w", err)
	}

	fmt.Printf("%s\n", value)
	return nil
}

// executeConfigSet handles the 'clipd config set' command
func (c *CLI) executeConfigSet(cmd *ConfigSetCmd) error {
	if err := c.configManager.Update(cmd.Key, cmd.Value); err != nil {
		return fmt.Errorf("failed to set config value: %w", err)
	}

	fmt.Printf("Set %s = %s\n", cmd.Key, cmd.Value)
	return nil
}

// executeConfigList handles the 'clipd config list' command
func (c *CLI) executeConfigList(cmd *ConfigListCmd) error {
	values, err := c.configManager.List()
	if err != nil {
		return fmt.Errorf("failed to list config values: %w", err)
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fmt.Printf("Current configuration:\n")
	for _, key := range keys {
		fmt.Printf("  %s = %s\n", key, values[key])
	}
	return nil
}

// itemAt resolves an index against history or favorites
func (c *CLI) itemAt(index int, favorites bool) (item.Item, error) {
	items := c.manager.History()
	label := "history"
	if favorites {
		items = c.manager.Favorites()
		label = "favorites"
	}

	if index < 0 || index >= len(items) {
		return item.Item{}, fmt.Errorf("index %d out of range (%s has %d items)", index, label, len(items))
	}
	return items[index], nil
}

// snapshotFor adapts the manager's list accessors to the search engine
func (c *CLI) snapshotFor(source search.Source) []item.Item {
	if source == search.SourceFavorites {
		return c.manager.Favorites()
	}
	return c.manager.History()
}

// favoriteIDs returns the set of item IDs currently favorited
func (c *CLI) favoriteIDs() map[string]bool {
	ids := make(map[string]bool)
	for _, it := range c.manager.Favorites() {
		ids[it.ID] = true
	}
	return ids
}

// renderItemLine formats a single list row. The index is the item's
// position in its source list, so rows from a filtered search still show
// indexes usable with other commands.
func renderItemLine(index int, it item.Item, favorite bool) string {
	indexStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true)
	kindStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("62")).
		Width(5)
	ageStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240"))

	star := " "
	if favorite {
		star = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Render("★")
	}

	return fmt.Sprintf("%s %s %s %s %s",
		indexStyle.Render(fmt.Sprintf("%3d.", index)),
		star,
		kindStyle.Render(string(it.Kind)),
		it.DisplayText(),
		ageStyle.Render(relativeAge(time.Since(it.CreatedAt))),
	)
}

// relativeAge renders a duration as a compact age like "5m" or "2h"
func relativeAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

// writeJSON emits items as an indented JSON array
func writeJSON(w io.Writer, items []item.Item) error {
	if items == nil {
		items = []item.Item{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

// resolveDataDir determines where the database and image blobs live
func resolveDataDir(args *Args, cfg *config.Config) (string, error) {
	if args != nil && args.DataDir != nil {
		return *args.DataDir, nil
	}
	if cfg.DataDir != "" {
		return cfg.DataDir, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "clipd"), nil
}
