// Package item defines the clipboard item model and the classifier that
// turns raw clipboard snapshots into typed items.
package item

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind identifies what a clipboard item holds.
type Kind string

const (
	KindText  Kind = "text"
	KindURL   Kind = "url"
	KindFile  Kind = "file"
	KindImage Kind = "image"
)

// DisplayTextLimit is the maximum length of a display line.
const DisplayTextLimit = 80

// Item is a single clipboard history entry.
// Content always holds UTF-8 text. For image items it holds a human-readable
// size description and ImageRef points at the stored blob; for file items it
// holds the newline-joined paths. ID and CreatedAt are assigned once at
// capture and survive content edits.
type Item struct {
	ID           string    `json:"id"`
	Content      string    `json:"content"`
	Kind         Kind      `json:"kind"`
	CreatedAt    time.Time `json:"created_at"`
	ImageRef     string    `json:"image_ref,omitempty"`
	Confidential bool      `json:"confidential,omitempty"`
}

// New creates an item with a fresh ID and a UTC creation timestamp.
func New(kind Kind, content string) Item {
	return Item{
		ID:        uuid.NewString(),
		Content:   content,
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
	}
}

// DisplayText returns a single-line rendering of the item for list output.
// File items show basenames rather than full paths so long directories do
// not crowd out the file names.
func (it Item) DisplayText() string {
	switch it.Kind {
	case KindImage:
		return it.Content
	case KindFile:
		paths := strings.Split(it.Content, "\n")
		names := make([]string, 0, len(paths))
		for _, p := range paths {
			if p = strings.TrimSpace(p); p != "" {
				names = append(names, filepath.Base(p))
			}
		}
		return Truncate(strings.Join(names, ", "), DisplayTextLimit)
	default:
		return Truncate(Sanitize(it.Content), DisplayTextLimit)
	}
}

// ByteCount formats a byte count in binary units ("24.3 KB").
func ByteCount(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
