package cli

import (
	"fmt"
)

// Args represents the top-level command structure
type Args struct {
	Watch      *WatchCmd      `arg:"subcommand:watch" help:"Run the clipboard capture daemon"`
	List       *ListCmd       `arg:"subcommand:list" help:"Show captured items"`
	Search     *SearchCmd     `arg:"subcommand:search" help:"Search captured items"`
	Copy       *CopyCmd       `arg:"subcommand:copy" help:"Put an item back on the clipboard"`
	New        *NewCmd        `arg:"subcommand:new" help:"Create a blank text item"`
	Edit       *EditCmd       `arg:"subcommand:edit" help:"Replace an item's content"`
	Favorite   *FavoriteCmd   `arg:"subcommand:favorite" help:"Toggle an item as favorite"`
	Unfavorite *UnfavoriteCmd `arg:"subcommand:unfavorite" help:"Remove an item from favorites"`
	Delete     *DeleteCmd     `arg:"subcommand:delete" help:"Delete an item from history and favorites"`
	Clear      *ClearCmd      `arg:"subcommand:clear" help:"Delete the entire history"`
	Wipe       *WipeCmd       `arg:"subcommand:wipe" help:"Empty the system clipboard"`
	Config     *ConfigCmd     `arg:"subcommand:config" help:"Get or set configuration values"`

	DataDir   *string `arg:"--data-dir,env:CLIPD_DATA_DIR" help:"Override the data directory"`
	LogLevel  string  `arg:"--log-level" default:"info" help:"Log level (debug, info, warn, error)"`
	LogFormat string  `arg:"--log-format" default:"auto" help:"Log format (auto, text, json)"`
}

// WatchCmd represents the 'clipd watch' command (runs the capture daemon)
type WatchCmd struct{}

// ListCmd represents the 'clipd list' command
type ListCmd struct {
	Favorites bool `arg:"-f,--favorites" help:"List favorites instead of history"`
	Limit     *int `arg:"-n,--limit" help:"Show at most this many items"`
	JSON      bool `arg:"--json" help:"Emit items as JSON"`
}

// SearchCmd represents the 'clipd search' command
type SearchCmd struct {
	Pattern   string `arg:"positional" help:"Substring to match (case-insensitive)"`
	Favorites bool   `arg:"-f,--favorites" help:"Search favorites instead of history"`
	JSON      bool   `arg:"--json" help:"Emit matches as JSON"`
}

// CopyCmd represents the 'clipd copy' command
type CopyCmd struct {
	Index     int  `arg:"positional" help:"Item index (0 = newest)"`
	Favorites bool `arg:"-f,--favorites" help:"Index into favorites"`
}

// NewCmd represents the 'clipd new' command
type NewCmd struct{}

// EditCmd represents the 'clipd edit' command
type EditCmd struct {
	Index     int     `arg:"positional" help:"Item index (0 = newest)"`
	Text      *string `arg:"positional" help:"New content (reads stdin when omitted)"`
	Favorites bool    `arg:"-f,--favorites" help:"Index into favorites"`
}

// FavoriteCmd represents the 'clipd favorite' command
type FavoriteCmd struct {
	Index int `arg:"positional" help:"History index to toggle"`
}

// UnfavoriteCmd represents the 'clipd unfavorite' command
type UnfavoriteCmd struct {
	Index int `arg:"positional" help:"Favorites index to remove"`
}

// DeleteCmd represents the 'clipd delete' command
type DeleteCmd struct {
	Index     int  `arg:"positional" help:"Item index (0 = newest)"`
	Favorites bool `arg:"-f,--favorites" help:"Index into favorites"`
}

// ClearCmd represents the 'clipd clear' command
type ClearCmd struct {
	Force bool `arg:"-f,--force" help:"Skip the confirmation prompt"`
}

// WipeCmd represents the 'clipd wipe' command
type WipeCmd struct{}

// ConfigCmd represents the 'clipd config' command group
type ConfigCmd struct {
	Get  *ConfigGetCmd  `arg:"subcommand:get" help:"Print a configuration value"`
	Set  *ConfigSetCmd  `arg:"subcommand:set" help:"Change a configuration value"`
	List *ConfigListCmd `arg:"subcommand:list" help:"Print all configuration values"`
}

// ConfigGetCmd represents 'clipd config get <key>'
type ConfigGetCmd struct {
	Key string `arg:"positional" help:"Configuration key"`
}

// ConfigSetCmd represents 'clipd config set <key> <value>'
type ConfigSetCmd struct {
	Key   string `arg:"positional" help:"Configuration key"`
	Value string `arg:"positional" help:"New value"`
}

// ConfigListCmd represents 'clipd config list'
type ConfigListCmd struct{}

// validConfigKeys are the keys config get/set accept.
var validConfigKeys = map[string]bool{
	"max-history-size":      true,
	"monitor-terminal-apps": true,
	"poll-interval-ms":      true,
	"data-dir":              true,
}

// Description returns the program description
func (Args) Description() string {
	return "clipd - background clipboard history manager"
}

// Version returns the program version
func (Args) Version() string {
	return "clipd 0.1.0"
}

// Epilogue returns additional help text
func (Args) Epilogue() string {
	return `Examples:
  # Run the capture daemon
  clipd watch

  # Browse and search
  clipd list                       # Newest-first history
  clipd list -f                    # Favorites
  clipd search "invoice"           # Case-insensitive substring match

  # Reuse items
  clipd copy 0                     # Put the newest item back on the clipboard
  clipd favorite 2                 # Toggle the third item as favorite
  clipd edit 0 "new text"          # Replace an item's content

  # Housekeeping
  clipd clear --force              # Drop the whole history
  clipd config set max-history-size 100

For more information, visit: https://github.com/yiblet/clipd`
}

// Validate performs validation on the parsed arguments
func (args *Args) Validate() error {
	switch {
	case args.List != nil:
		return args.List.Validate()
	case args.Search != nil:
		return args.Search.Validate()
	case args.Copy != nil:
		return validateIndex(args.Copy.Index)
	case args.Edit != nil:
		return validateIndex(args.Edit.Index)
	case args.Favorite != nil:
		return validateIndex(args.Favorite.Index)
	case args.Unfavorite != nil:
		return validateIndex(args.Unfavorite.Index)
	case args.Delete != nil:
		return validateIndex(args.Delete.Index)
	case args.Config != nil:
		return args.Config.Validate()
	}
	return nil
}

// Validate validates list command arguments
func (l *ListCmd) Validate() error {
	if l.Limit != nil && *l.Limit < 0 {
		return fmt.Errorf("limit must be non-negative")
	}
	return nil
}

// Validate validates search command arguments
func (s *SearchCmd) Validate() error {
	if s.Pattern == "" {
		return fmt.Errorf("search pattern must not be empty")
	}
	return nil
}

// Validate validates config command arguments
func (c *ConfigCmd) Validate() error {
	count := 0
	if c.Get != nil {
		count++
	}
	if c.Set != nil {
		count++
	}
	if c.List != nil {
		count++
	}
	if count == 0 {
		return fmt.Errorf("no config subcommand specified (expected get, set, or list)")
	}
	if count > 1 {
		return fmt.Errorf("only one config subcommand may be specified")
	}

	if c.Get != nil && !validConfigKeys[c.Get.Key] {
		return fmt.Errorf("unknown configuration key: %s", c.Get.Key)
	}
	if c.Set != nil && !validConfigKeys[c.Set.Key] {
		return fmt.Errorf("unknown configuration key: %s", c.Set.Key)
	}
	return nil
}

func validateIndex(index int) error {
	if index < 0 {
		return fmt.Errorf("index must be non-negative")
	}
	return nil
}
