// Package clip defines the clipboard provider interface consumed by the
// capture pipeline and the CLI. Implementations live in sysboard (real
// system clipboard) and mockboard (scripted clipboard for tests).
package clip

// Kind identifies a clipboard representation.
type Kind int

const (
	KindText Kind = iota
	KindImage
	KindFiles
	KindURL
)

// String returns the representation name for logging.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	case KindFiles:
		return "files"
	case KindURL:
		return "url"
	default:
		return "unknown"
	}
}

// Clipboard is the pasteboard surface the daemon needs. A backend may not
// support every representation kind; Read reports absence rather than
// erroring so callers can fall through the classification order.
type Clipboard interface {
	// ChangeCount returns a generation counter that increases whenever the
	// clipboard contents change, including writes made through this
	// interface. The absolute value is meaningless, only changes matter.
	ChangeCount() int

	// Read returns the representation of the given kind and whether it is
	// present. The Files representation is newline-joined paths.
	Read(kind Kind) ([]byte, bool)

	// Write replaces the clipboard contents with a single representation.
	Write(kind Kind, data []byte) error

	// Clear empties the clipboard.
	Clear() error
}

// AppInspector reports which application currently owns the user's focus.
// Capture filtering uses it to skip password managers and terminals.
type AppInspector interface {
	// FrontmostAppID returns a lowercased application identifier (bundle ID
	// on macOS, window class on Linux) and whether one could be determined.
	FrontmostAppID() (string, bool)
}
